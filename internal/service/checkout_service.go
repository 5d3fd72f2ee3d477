package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/metrics"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/queue"
	"github.com/brundhavanam/grocery/internal/repository"

	"gorm.io/gorm"
)

const defaultOrderNoPrefix = "GR"

// CheckoutOptions 下单参数
type CheckoutOptions struct {
	Currency             string
	PaymentExpireMinutes int
	OrderNoPrefix        string
}

// CheckoutService 结算服务：把 active 购物车转换为订单快照，不扣减库存
type CheckoutService struct {
	cartRepo       repository.CartRepository
	orderRepo      repository.OrderRepository
	addressService *AddressService
	queueClient    *queue.Client
	opts           CheckoutOptions
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(cartRepo repository.CartRepository, orderRepo repository.OrderRepository, addressService *AddressService, queueClient *queue.Client, opts CheckoutOptions) *CheckoutService {
	if strings.TrimSpace(opts.Currency) == "" {
		opts.Currency = "INR"
	}
	if opts.PaymentExpireMinutes <= 0 {
		opts.PaymentExpireMinutes = 15
	}
	if strings.TrimSpace(opts.OrderNoPrefix) == "" {
		opts.OrderNoPrefix = defaultOrderNoPrefix
	}
	return &CheckoutService{
		cartRepo:       cartRepo,
		orderRepo:      orderRepo,
		addressService: addressService,
		queueClient:    queueClient,
		opts:           opts,
	}
}

// Checkout 结算：冻结价格与地址，购物车置为已结算
func (s *CheckoutService) Checkout(userID, addressID uint) (*models.Order, error) {
	address, err := s.addressService.GetOwned(userID, addressID)
	if err != nil {
		return nil, err
	}
	cart, err := s.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartFetchFailed, err)
	}
	if cart == nil {
		return nil, ErrCartEmpty
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(s.opts.PaymentExpireMinutes) * time.Minute)
	var order *models.Order
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		items, err := cartRepo.ListItems(cart.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCartFetchFailed, err)
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}
		// 先占用购物车状态，并发的第二次结算在这里失败
		affected, err := cartRepo.MarkCheckedOut(cart.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCartCheckoutFailed, err)
		}
		if affected == 0 {
			return ErrCartEmpty
		}

		orderItems, total, err := snapshotCartItems(items)
		if err != nil {
			return err
		}
		order = &models.Order{
			OrderNo:     generateOrderNo(s.opts.OrderNoPrefix),
			UserID:      userID,
			CartID:      cart.ID,
			Status:      constants.OrderStatusCreated,
			Currency:    s.opts.Currency,
			TotalAmount: total,
			ExpiresAt:   &expiresAt,
		}
		applyShippingSnapshot(order, address)
		if err := orderRepo.Create(order, orderItems); err != nil {
			return fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderTransition("none", constants.OrderStatusCreated)
	logger.Infow("order_checked_out",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", userID,
		"cart_id", cart.ID,
		"total_amount", order.TotalAmount.String(),
	)
	if s.queueClient != nil {
		delay := time.Until(expiresAt)
		if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{OrderID: order.ID}, delay); err != nil {
			logger.Warnw("order_enqueue_timeout_cancel_failed", "order_id", order.ID, "error", err)
		}
	}
	return order, nil
}

// snapshotCartItems 按规格当前价生成订单项快照
func snapshotCartItems(items []models.CartItem) ([]models.OrderItem, models.Money, error) {
	orderItems := make([]models.OrderItem, 0, len(items))
	total := models.Money{}
	for _, item := range items {
		variant := item.Variant
		if variant == nil || variant.ID == 0 {
			return nil, models.Money{}, ErrVariantNotFound
		}
		if !isVariantPurchasable(variant) {
			return nil, models.Money{}, fmt.Errorf("%w: %s is no longer available", ErrVariantNotFound, variantDisplayLabel(*variant))
		}
		itemTotal := variant.PriceAmount.MulQuantity(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			VariantID:    variant.ID,
			ProductID:    variant.ProductID,
			ProductName:  variant.ProductName(),
			VariantLabel: variant.Label,
			UnitPrice:    variant.PriceAmount,
			Quantity:     item.Quantity,
			ItemTotal:    itemTotal,
		})
		total = total.Add(itemTotal)
	}
	return orderItems, total, nil
}

func applyShippingSnapshot(order *models.Order, address *models.Address) {
	order.ShipFullName = address.FullName
	order.ShipMobile = address.Mobile
	order.ShipStreet = address.Street
	order.ShipArea = address.Area
	order.ShipCity = address.City
	order.ShipState = address.State
	order.ShipPincode = address.Pincode
	order.ShipCountry = address.Country
	order.ShipLatitude = address.Latitude
	order.ShipLongitude = address.Longitude
}

func generateOrderNo(prefix string) string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%s", prefix, now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
