package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/provider"
	"github.com/brundhavanam/grocery/internal/queue"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderTimeoutCancel, c.handleOrderTimeoutCancel)
	mux.HandleFunc(queue.TaskOTPDeliver, c.handleOTPDeliver)
}

func (c *Consumer) handleOrderTimeoutCancel(_ context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_order_timeout_cancel_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderTimeoutCancelPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_timeout_cancel_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_timeout_cancel_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_order_timeout_cancel_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}
	transition, err := c.OrderService.CancelExpiredOrder(payload.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			logger.Debugw("worker_order_timeout_cancel_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		case errors.Is(err, service.ErrOrderFetchFailed):
			logger.Warnw("worker_order_timeout_cancel_fetch_failed", "order_id", payload.OrderID, "error", err)
			return nil
		case errors.Is(err, service.ErrOrderUpdateFailed):
			logger.Warnw("worker_order_timeout_cancel_update_failed", "order_id", payload.OrderID, "error", err)
			return err
		default:
			logger.Warnw("worker_order_timeout_cancel_failed", "order_id", payload.OrderID, "error", err)
			return err
		}
	}
	if transition != nil && !transition.Noop && transition.Order != nil {
		logger.Infow("worker_order_timeout_cancelled", "order_id", payload.OrderID, "order_no", transition.Order.OrderNo)
	}
	return nil
}

func (c *Consumer) handleOTPDeliver(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_otp_deliver_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OTPDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_otp_deliver_unmarshal_failed", "error", err)
		return err
	}
	mobile := strings.TrimSpace(payload.Mobile)
	code := strings.TrimSpace(payload.Code)
	if mobile == "" || code == "" {
		logger.Debugw("worker_otp_deliver_skip_invalid_payload", "mobile_empty", mobile == "", "code_empty", code == "")
		return nil
	}
	if c.UserAuthService == nil {
		logger.Warnw("worker_otp_deliver_skip_service_nil", "mobile", service.MaskMobile(mobile))
		return nil
	}
	if err := c.UserAuthService.DeliverOTP(ctx, mobile, code); err != nil {
		logger.Warnw("worker_otp_deliver_failed", "mobile", service.MaskMobile(mobile), "error", err)
		return err
	}
	return nil
}
