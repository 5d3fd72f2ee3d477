package service

import (
	"fmt"
	"time"

	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"
)

// OrderDetail 订单详情（含支付记录）
type OrderDetail struct {
	*models.Order
	Payments []models.Payment `json:"payments"`
}

// GetOrderByUser 获取用户订单详情
func (s *OrderService) GetOrderByUser(orderID uint, userID uint) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	s.ensureOrderCanceledIfExpired(order)
	return s.withPayments(order)
}

// ListOrdersByUser 用户订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, ErrOrderNotFound
	}
	orders, total, err := s.orderRepo.ListByUser(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	for i := range orders {
		s.ensureOrderCanceledIfExpired(&orders[i])
	}
	return orders, total, nil
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	for i := range orders {
		s.ensureOrderCanceledIfExpired(&orders[i])
	}
	return orders, total, nil
}

// GetOrderForAdmin 管理端订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	s.ensureOrderCanceledIfExpired(order)
	return s.withPayments(order)
}

func (s *OrderService) withPayments(order *models.Order) (*OrderDetail, error) {
	detail := &OrderDetail{Order: order, Payments: []models.Payment{}}
	if s.paymentRepo == nil {
		return detail, nil
	}
	payments, err := s.paymentRepo.ListByOrder(order.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	detail.Payments = payments
	return detail, nil
}

// ensureOrderCanceledIfExpired 读取时懒同步过期订单状态，队列未启用时由此兜底
func (s *OrderService) ensureOrderCanceledIfExpired(order *models.Order) {
	if order == nil || !paymentWindowClosed(order, time.Now()) {
		return
	}
	transition, err := s.CancelExpiredOrder(order.ID)
	if err != nil {
		logger.Warnw("order_lazy_expire_failed", "order_id", order.ID, "error", err)
		return
	}
	if transition != nil && transition.Order != nil {
		order.Status = transition.Order.Status
		order.CanceledAt = transition.Order.CanceledAt
		order.UpdatedAt = transition.Order.UpdatedAt
	}
}
