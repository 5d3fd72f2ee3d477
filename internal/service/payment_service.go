package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/metrics"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 支付回调结果标签
const (
	paymentResultRecorded  = "recorded"
	paymentResultDuplicate = "duplicate"
	paymentResultNoop      = "noop"
	paymentResultRejected  = "rejected"
	paymentResultConfirmed = "confirm_failed"
)

var supportedPaymentMethods = map[string]bool{
	constants.PaymentMethodUPI:        true,
	constants.PaymentMethodCard:       true,
	constants.PaymentMethodNetBanking: true,
	constants.PaymentMethodWallet:     true,
	constants.PaymentMethodCOD:        true,
}

// PaymentService 模拟支付网关回调：记录支付并触发订单确认
type PaymentService struct {
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
	orderService *OrderService
}

// NewPaymentService 创建支付服务
func NewPaymentService(orderRepo repository.OrderRepository, paymentRepo repository.PaymentRepository, orderService *OrderService) *PaymentService {
	return &PaymentService{
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		orderService: orderService,
	}
}

// PaymentCallbackInput 支付成功回调输入，UserID 非 0 时校验订单归属
type PaymentCallbackInput struct {
	OrderID uint
	UserID  uint
	Method  string
}

// PaymentResult 支付回调处理结果
type PaymentResult struct {
	Order     *models.Order   `json:"order"`
	Payment   *models.Payment `json:"payment,omitempty"`
	Duplicate bool            `json:"duplicate"`
	Noop      bool            `json:"noop"`
}

func paymentLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

// NormalizePaymentMethod 规范化支付方式，空值视为 UPI
func NormalizePaymentMethod(raw string) (string, error) {
	method := strings.ToUpper(strings.TrimSpace(raw))
	if method == "" {
		return constants.PaymentMethodUPI, nil
	}
	if !supportedPaymentMethods[method] {
		return "", ErrPaymentMethodInvalid
	}
	return method, nil
}

// PaymentIdempotencyKey 订单支付幂等键
func PaymentIdempotencyKey(orderID uint) string {
	return fmt.Sprintf("%s%d", constants.PaymentIdempotencyKeyPrefix, orderID)
}

// RecordPaymentAndConfirm 记录支付成功并确认订单。
// 支付记录与 created -> paid/cod_confirmed 在同一事务内完成，随后调用 Confirm 扣减库存；
// 库存不足时订单保持已支付状态并返回错误。
func (s *PaymentService) RecordPaymentAndConfirm(input PaymentCallbackInput) (*PaymentResult, error) {
	method, err := NormalizePaymentMethod(input.Method)
	if err != nil {
		metrics.PaymentCallback(paymentResultRejected)
		return nil, err
	}
	log := paymentLogger("order_id", input.OrderID, "method", method)
	log.Infow("payment_callback_received")

	var (
		result PaymentResult
		from   string
		to     string
	)
	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)

		order, err := orderRepo.LockByID(input.OrderID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
		}
		if order == nil || (input.UserID != 0 && order.UserID != input.UserID) {
			return ErrOrderNotFound
		}
		result.Order = order
		if order.StockDeducted || order.Status == constants.OrderStatusConfirmed {
			result.Noop = true
			return nil
		}
		if order.Status == constants.OrderStatusCancelled {
			return ErrOrderStatusInvalid
		}
		if paymentWindowClosed(order, now) {
			return ErrOrderExpired
		}

		key := PaymentIdempotencyKey(order.ID)
		payment := &models.Payment{
			OrderID:        order.ID,
			Method:         method,
			Status:         constants.PaymentStatusSuccess,
			Amount:         order.TotalAmount,
			Currency:       order.Currency,
			IdempotencyKey: key,
			TransactionRef: "SIM-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:20],
		}
		if method == constants.PaymentMethodCOD {
			// 货到付款在送达时才算收款
			payment.Status = constants.PaymentStatusPending
		} else {
			payment.PaidAt = &now
		}
		created, err := paymentRepo.CreateIfAbsent(payment)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentCreateFailed, err)
		}
		if !created {
			result.Duplicate = true
			existing, err := paymentRepo.GetByIdempotencyKey(key)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrPaymentCreateFailed, err)
			}
			payment = existing
		}
		result.Payment = payment

		if order.Status != constants.OrderStatusCreated {
			return nil
		}
		target := constants.OrderStatusPaid
		if payment != nil && payment.Method == constants.PaymentMethodCOD {
			target = constants.OrderStatusCODConfirmed
		}
		updates := map[string]interface{}{
			"payment_method": payment.Method,
			"updated_at":     now,
		}
		if target == constants.OrderStatusPaid {
			updates["paid_at"] = now
		}
		if err := orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
			return fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
		}
		from, to = order.Status, target
		order.Status = target
		order.PaymentMethod = payment.Method
		return nil
	})
	if err != nil {
		metrics.PaymentCallback(paymentResultRejected)
		log.Warnw("payment_callback_rejected", "error", err)
		if errors.Is(err, ErrOrderExpired) {
			s.orderService.expireAfterRejection(input.OrderID)
		}
		return nil, err
	}
	if result.Noop {
		metrics.PaymentCallback(paymentResultNoop)
		log.Infow("payment_callback_order_already_confirmed", "status", result.Order.Status)
		return &result, nil
	}
	if to != "" {
		metrics.OrderTransition(from, to)
	}
	if result.Duplicate {
		metrics.PaymentCallback(paymentResultDuplicate)
		log.Infow("payment_callback_duplicate", "payment_id", result.Payment.ID)
	} else {
		metrics.PaymentCallback(paymentResultRecorded)
		log.Infow("payment_recorded", "payment_id", result.Payment.ID, "amount", result.Payment.Amount.String())
	}

	transition, err := s.orderService.Confirm(input.OrderID)
	if err != nil {
		metrics.PaymentCallback(paymentResultConfirmed)
		if errors.Is(err, ErrInsufficientStock) {
			log.Warnw("payment_recorded_confirm_insufficient_stock", "error", err)
		} else {
			log.Errorw("payment_recorded_confirm_failed", "error", err)
		}
		return nil, err
	}
	result.Order = transition.Order
	return &result, nil
}

// ListPayments 订单支付记录
func (s *PaymentService) ListPayments(orderID uint) ([]models.Payment, error) {
	return s.paymentRepo.ListByOrder(orderID)
}
