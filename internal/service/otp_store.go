package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brundhavanam/grocery/internal/cache"
)

// OTPEntry 验证码存储项，只保存验证码哈希
type OTPEntry struct {
	CodeHash  string    `json:"code_hash"`
	Attempts  int       `json:"attempts"`
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired 判断是否已过期
func (e *OTPEntry) Expired(now time.Time) bool {
	return e == nil || !now.Before(e.ExpiresAt)
}

// OTPStore 带 TTL 的验证码存储
type OTPStore interface {
	Get(ctx context.Context, mobile string) (*OTPEntry, error)
	Save(ctx context.Context, mobile string, entry *OTPEntry) error
	Delete(ctx context.Context, mobile string) error
}

// NewOTPStore Redis 可用时使用 Redis，否则使用进程内存储
func NewOTPStore() OTPStore {
	if cache.Enabled() {
		return &RedisOTPStore{}
	}
	return NewMemoryOTPStore(time.Minute)
}

// RedisOTPStore Redis 验证码存储
type RedisOTPStore struct{}

func otpCacheKey(mobile string) string {
	return fmt.Sprintf("otp:%s", mobile)
}

// Get 读取验证码
func (s *RedisOTPStore) Get(ctx context.Context, mobile string) (*OTPEntry, error) {
	var entry OTPEntry
	hit, err := cache.GetJSON(ctx, otpCacheKey(mobile), &entry)
	if err != nil || !hit {
		return nil, err
	}
	if entry.Expired(time.Now()) {
		return nil, nil
	}
	return &entry, nil
}

// Save 写入验证码，TTL 取剩余有效期
func (s *RedisOTPStore) Save(ctx context.Context, mobile string, entry *OTPEntry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return cache.Del(ctx, otpCacheKey(mobile))
	}
	return cache.SetJSON(ctx, otpCacheKey(mobile), entry, ttl)
}

// Delete 删除验证码
func (s *RedisOTPStore) Delete(ctx context.Context, mobile string) error {
	return cache.Del(ctx, otpCacheKey(mobile))
}

// MemoryOTPStore 进程内验证码存储，后台定期清理过期项
type MemoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]OTPEntry
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryOTPStore 创建进程内存储，sweepInterval <= 0 时不启动清理协程
func NewMemoryOTPStore(sweepInterval time.Duration) *MemoryOTPStore {
	s := &MemoryOTPStore{
		entries: make(map[string]OTPEntry),
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweepLoop(sweepInterval)
	}
	return s
}

// Get 读取验证码
func (s *MemoryOTPStore) Get(_ context.Context, mobile string) (*OTPEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[mobile]
	if !ok {
		return nil, nil
	}
	if entry.Expired(time.Now()) {
		delete(s.entries, mobile)
		return nil, nil
	}
	return &entry, nil
}

// Save 写入验证码
func (s *MemoryOTPStore) Save(_ context.Context, mobile string, entry *OTPEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[mobile] = *entry
	return nil
}

// Delete 删除验证码
func (s *MemoryOTPStore) Delete(_ context.Context, mobile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, mobile)
	return nil
}

// Close 停止清理协程
func (s *MemoryOTPStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryOTPStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *MemoryOTPStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for mobile, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, mobile)
		}
	}
}
