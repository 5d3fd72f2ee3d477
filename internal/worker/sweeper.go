package worker

import (
	"context"
	"errors"
	"time"

	"github.com/brundhavanam/grocery/internal/logger"
)

const (
	defaultSweepInterval = time.Minute
	defaultSweepBatch    = 100
)

// ExpiredOrderCanceller 批量取消过期订单
type ExpiredOrderCanceller interface {
	CancelExpiredOrders(now time.Time, limit int) (int, error)
}

// Sweeper 过期待支付订单定时扫描，不依赖 redis 队列
type Sweeper struct {
	orders   ExpiredOrderCanceller
	interval time.Duration
	batch    int
	now      func() time.Time
	done     chan struct{}
}

// NewSweeper 创建扫描服务
func NewSweeper(orders ExpiredOrderCanceller, interval time.Duration, batch int) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if batch <= 0 {
		batch = defaultSweepBatch
	}
	return &Sweeper{
		orders:   orders,
		interval: interval,
		batch:    batch,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Name 服务名称
func (s *Sweeper) Name() string {
	return "order_expire_sweeper"
}

// Start 立即执行一次，之后按间隔循环直到 ctx 取消
func (s *Sweeper) Start(ctx context.Context) error {
	if s == nil || s.orders == nil {
		return errors.New("sweeper not initialized")
	}
	defer close(s.done)
	s.RunOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// Stop 等待当前一轮扫描结束
func (s *Sweeper) Stop(ctx context.Context) error {
	if s == nil {
		return nil
	}
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// RunOnce 执行一轮扫描，返回取消数量
func (s *Sweeper) RunOnce() int {
	cancelled, err := s.orders.CancelExpiredOrders(s.now(), s.batch)
	if err != nil {
		logger.Warnw("worker_order_expire_sweep_failed", "error", err)
		return 0
	}
	if cancelled > 0 {
		logger.Infow("worker_order_expire_sweep", "cancelled", cancelled)
	}
	return cancelled
}
