package cache

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/brundhavanam/grocery/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "grocery"

// store 当前连接与键前缀；nil 表示未启用 Redis
type store struct {
	client *redis.Client
	prefix string
}

func (s *store) key(key string) string {
	if key = strings.TrimSpace(key); key == "" {
		return s.prefix
	}
	return s.prefix + ":" + key
}

var active atomic.Pointer[store]

// InitRedis 未启用时保持禁用状态；启用时 3 秒内 PING 不通即失败
func InitRedis(ctx context.Context, cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cmp.Or(strings.TrimSpace(cfg.Host), "127.0.0.1"), strconv.Itoa(port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping: %w", err)
	}
	active.Store(&store{client: client, prefix: cmp.Or(strings.TrimSpace(cfg.Prefix), defaultKeyPrefix)})
	return nil
}

func Close() error {
	if s := active.Swap(nil); s != nil {
		return s.client.Close()
	}
	return nil
}

func Enabled() bool {
	return active.Load() != nil
}

// Client 未启用时为 nil，调用方据此回退到进程内实现
func Client() *redis.Client {
	if s := active.Load(); s != nil {
		return s.client
	}
	return nil
}

// Key 加上配置的前缀，未启用时使用默认前缀
func Key(key string) string {
	if s := active.Load(); s != nil {
		return s.key(key)
	}
	return (&store{prefix: defaultKeyPrefix}).key(key)
}

// GetJSON 命中时解码到 dest；未启用或未命中返回 false, nil
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	s := active.Load()
	if s == nil {
		return false, nil
	}
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s := active.Load()
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), raw, ttl).Err()
}

// SetNXJSON 键已存在时返回 false
func SetNXJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	s := active.Load()
	if s == nil {
		return false, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	return s.client.SetNX(ctx, s.key(key), raw, ttl).Result()
}

func Del(ctx context.Context, key string) error {
	if s := active.Load(); s != nil {
		return s.client.Del(ctx, s.key(key)).Err()
	}
	return nil
}
