package queue

import (
	"cmp"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/brundhavanam/grocery/internal/config"
	"github.com/brundhavanam/grocery/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	DefaultQueue  = constants.QueueDefault
	CriticalQueue = constants.QueueCritical // 验证码下发
)

// Client asynq 投递端；队列未启用或 Client 为 nil 时投递直接返回 nil
type Client struct {
	inner *asynq.Client
}

func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{inner: asynq.NewClient(redisOpt(cfg))}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.inner != nil
}

func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

func (c *Client) enqueue(task *asynq.Task, buildErr error, opts ...asynq.Option) error {
	if buildErr != nil {
		return buildErr
	}
	_, err := c.inner.Enqueue(task, opts...)
	return err
}

// EnqueueOrderTimeoutCancel delay 后取消仍未支付的订单；同一订单重复投递视为成功
func (c *Client) EnqueueOrderTimeoutCancel(payload OrderTimeoutCancelPayload, delay time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderTimeoutCancelTask(payload)
	err = c.enqueue(task, err,
		asynq.Queue(DefaultQueue),
		asynq.ProcessIn(max(delay, 0)),
		asynq.TaskID(orderTimeoutTaskID(payload.OrderID)),
		asynq.MaxRetry(5),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// EnqueueOTPDeliver 走高优先级队列，验证码过期后不再重试
func (c *Client) EnqueueOTPDeliver(payload OTPDeliverPayload, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	opts := []asynq.Option{asynq.Queue(CriticalQueue), asynq.MaxRetry(2)}
	if ttl > 0 {
		opts = append(opts, asynq.Deadline(time.Now().Add(ttl)))
	}
	task, err := NewOTPDeliverTask(payload)
	return c.enqueue(task, err, opts...)
}

// BuildServerConfig worker 端连接与并发配置，critical:default 默认 6:3
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{CriticalQueue: 6, DefaultQueue: 3},
	}
	if cfg != nil {
		serverCfg.Concurrency = cmp.Or(max(cfg.Concurrency, 0), serverCfg.Concurrency)
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	if cfg == nil {
		return asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	}
	port := 6379
	if cfg.Port > 0 {
		port = cfg.Port
	}
	host := cmp.Or(strings.TrimSpace(cfg.Host), "127.0.0.1")
	return asynq.RedisClientOpt{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
