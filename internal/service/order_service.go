package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/metrics"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务：状态机与库存扣减/回补
type OrderService struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	ledger      *InventoryLedger
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, paymentRepo repository.PaymentRepository, ledger *InventoryLedger) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		ledger:      ledger,
	}
}

var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusCreated: {
		constants.OrderStatusPaid:         true,
		constants.OrderStatusCODConfirmed: true,
		constants.OrderStatusConfirmed:    true,
		constants.OrderStatusCancelled:    true,
	},
	constants.OrderStatusPaid: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusCODConfirmed: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// paymentWindowClosed 待支付且未扣库存的订单已过支付期限
func paymentWindowClosed(order *models.Order, now time.Time) bool {
	if order.Status != constants.OrderStatusCreated || order.StockDeducted || order.ExpiresAt == nil {
		return false
	}
	return !order.ExpiresAt.After(now)
}

// expireAfterRejection 过期订单被拒绝确认或支付后顺带取消
func (s *OrderService) expireAfterRejection(orderID uint) {
	if _, err := s.CancelExpiredOrder(orderID); err != nil {
		logger.Warnw("order_lazy_expire_failed", "order_id", orderID, "error", err)
	}
}

// Confirm 确认订单并扣减库存；已扣减时幂等返回，已过支付期限返回 ErrOrderExpired 并取消订单
func (s *OrderService) Confirm(orderID uint) (*OrderTransition, error) {
	var (
		result    OrderTransition
		from      string
		movements []models.StockMovement
	)
	now := time.Now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.LockByID(orderID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.StockDeducted {
			result = OrderTransition{Order: order, Noop: true}
			return nil
		}
		if paymentWindowClosed(order, now) {
			return ErrOrderExpired
		}
		if !isTransitionAllowed(order.Status, constants.OrderStatusConfirmed) {
			return ErrOrderStatusInvalid
		}
		from = order.Status

		ref := MovementRef{OrderID: &order.ID, Reason: "order confirmed"}
		movements, err = s.ledger.DeductLines(tx, orderStockLines(order), ref)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"stock_deducted": true,
			"confirmed_at":   now,
			"updated_at":     now,
		}
		if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusConfirmed, updates); err != nil {
			return fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
		}
		order.Status = constants.OrderStatusConfirmed
		order.StockDeducted = true
		order.ConfirmedAt = &now
		order.UpdatedAt = now
		result = OrderTransition{Order: order}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderExpired) {
			logger.Infow("order_confirm_expired", "order_id", orderID)
			s.expireAfterRejection(orderID)
			return nil, err
		}
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			metrics.InsufficientStock()
			logger.Warnw("order_confirm_insufficient_stock",
				"order_id", orderID,
				"variant_id", stockErr.VariantID,
				"requested", stockErr.Requested,
				"available", stockErr.Available,
			)
		}
		return nil, err
	}
	if result.Noop {
		logger.Debugw("order_confirm_noop", "order_id", orderID)
		return &result, nil
	}
	RecordMovementMetrics(movements)
	metrics.OrderTransition(from, constants.OrderStatusConfirmed)
	logger.Infow("order_confirmed", "order_id", orderID, "from", from, "lines", len(movements))
	return &result, nil
}

// ConfirmForUser 用户确认自己的订单
func (s *OrderService) ConfirmForUser(userID, orderID uint) (*OrderTransition, error) {
	if err := s.ensureOwned(userID, orderID); err != nil {
		return nil, err
	}
	return s.Confirm(orderID)
}

// CancelOrder 取消订单；已扣减库存时回补。已发货/已送达不可取消
func (s *OrderService) CancelOrder(orderID uint) (*OrderTransition, error) {
	return s.cancel(orderID, "order cancelled", nil)
}

// CancelForUser 用户取消自己的订单
func (s *OrderService) CancelForUser(userID, orderID uint) (*OrderTransition, error) {
	if err := s.ensureOwned(userID, orderID); err != nil {
		return nil, err
	}
	return s.CancelOrder(orderID)
}

// CancelExpiredOrder 超时未支付取消：仅处理仍为 created 且已过期的订单
func (s *OrderService) CancelExpiredOrder(orderID uint) (*OrderTransition, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	now := time.Now()
	return s.cancel(orderID, "payment timeout", func(order *models.Order) bool {
		return paymentWindowClosed(order, now)
	})
}

// CancelExpiredOrders 批量取消已过期的待支付订单，返回实际取消的数量
func (s *OrderService) CancelExpiredOrders(now time.Time, limit int) (int, error) {
	ids, err := s.orderRepo.ListExpiredIDs(now, limit)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	cancelled := 0
	for _, id := range ids {
		transition, err := s.CancelExpiredOrder(id)
		if err != nil {
			logger.Warnw("order_expire_sweep_failed", "order_id", id, "error", err)
			continue
		}
		if !transition.Noop {
			cancelled++
		}
	}
	return cancelled, nil
}

// cancel 取消订单；eligible 返回 false 时视为幂等跳过
func (s *OrderService) cancel(orderID uint, reason string, eligible func(order *models.Order) bool) (*OrderTransition, error) {
	var (
		result    OrderTransition
		from      string
		movements []models.StockMovement
	)
	now := time.Now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.LockByID(orderID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusCancelled {
			result = OrderTransition{Order: order, Noop: true}
			return nil
		}
		if eligible != nil && !eligible(order) {
			result = OrderTransition{Order: order, Noop: true}
			return nil
		}
		if order.Status == constants.OrderStatusShipped || order.Status == constants.OrderStatusDelivered {
			return ErrOrderCancelNotAllowed
		}
		if !isTransitionAllowed(order.Status, constants.OrderStatusCancelled) {
			return ErrOrderStatusInvalid
		}
		from = order.Status

		if order.StockDeducted {
			ref := MovementRef{OrderID: &order.ID, Reason: reason}
			movements, err = s.ledger.RestoreLines(tx, orderStockLines(order), ref)
			if err != nil {
				return err
			}
		}
		updates := map[string]interface{}{
			"stock_deducted": false,
			"canceled_at":    now,
			"updated_at":     now,
		}
		if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, updates); err != nil {
			return fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
		}
		order.Status = constants.OrderStatusCancelled
		order.StockDeducted = false
		order.CanceledAt = &now
		order.UpdatedAt = now
		result = OrderTransition{Order: order}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Noop {
		logger.Debugw("order_cancel_noop", "order_id", orderID, "status", result.Order.Status)
		return &result, nil
	}
	RecordMovementMetrics(movements)
	metrics.OrderTransition(from, constants.OrderStatusCancelled)
	logger.Infow("order_cancelled", "order_id", orderID, "from", from, "reason", reason, "restored_lines", len(movements))
	return &result, nil
}

// Ship 管理端发货：confirmed -> shipped
func (s *OrderService) Ship(orderID uint) (*OrderTransition, error) {
	return s.advance(orderID, constants.OrderStatusShipped, "shipped_at")
}

// Deliver 管理端送达：shipped -> delivered，货到付款的支付记录同时置为成功
func (s *OrderService) Deliver(orderID uint) (*OrderTransition, error) {
	return s.advance(orderID, constants.OrderStatusDelivered, "delivered_at")
}

func (s *OrderService) advance(orderID uint, target, timestampColumn string) (*OrderTransition, error) {
	var (
		result OrderTransition
		from   string
	)
	now := time.Now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.LockByID(orderID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == target {
			result = OrderTransition{Order: order, Noop: true}
			return nil
		}
		if !isTransitionAllowed(order.Status, target) {
			return ErrOrderStatusInvalid
		}
		from = order.Status
		updates := map[string]interface{}{
			timestampColumn: now,
			"updated_at":    now,
		}
		if err := orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
			return fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
		}
		if target == constants.OrderStatusDelivered && order.PaymentMethod == constants.PaymentMethodCOD {
			if err := s.settleCODPayments(tx, order.ID, now); err != nil {
				return err
			}
		}
		order.Status = target
		order.UpdatedAt = now
		switch target {
		case constants.OrderStatusShipped:
			order.ShippedAt = &now
		case constants.OrderStatusDelivered:
			order.DeliveredAt = &now
		}
		result = OrderTransition{Order: order}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !result.Noop {
		metrics.OrderTransition(from, target)
		logger.Infow("order_status_advanced", "order_id", orderID, "from", from, "to", target)
	}
	return &result, nil
}

func (s *OrderService) settleCODPayments(tx *gorm.DB, orderID uint, now time.Time) error {
	if s.paymentRepo == nil {
		return nil
	}
	paymentRepo := s.paymentRepo.WithTx(tx)
	payments, err := paymentRepo.ListByOrder(orderID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}
	for _, payment := range payments {
		if payment.Method != constants.PaymentMethodCOD || payment.Status == constants.PaymentStatusSuccess {
			continue
		}
		if err := paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusSuccess, map[string]interface{}{"paid_at": now}); err != nil {
			return fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
		}
	}
	return nil
}

func (s *OrderService) ensureOwned(userID, orderID uint) error {
	if userID == 0 || orderID == 0 {
		return ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	return nil
}

func orderStockLines(order *models.Order) []StockLine {
	lines := make([]StockLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, StockLine{VariantID: item.VariantID, Quantity: item.Quantity})
	}
	return lines
}
