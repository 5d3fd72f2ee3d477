package router

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	count     int64
	expiresAt time.Time
}

// memoryStore 未启用 Redis 时的进程内计数与幂等记录存储
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]*memoryEntry), now: time.Now}
}

// incr 计数加一，首次写入时设置窗口，返回当前计数与剩余秒数
func (s *memoryStore) incr(key string, window time.Duration) (int64, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.evictLocked(now)
	entry, ok := s.entries[key]
	if !ok {
		entry = &memoryEntry{expiresAt: now.Add(window)}
		s.entries[key] = entry
	}
	entry.count++
	return entry.count, ttlSeconds(entry.expiresAt, now)
}

// extend 延长 key 的过期时间（限流封禁）
func (s *memoryStore) extend(key string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok {
		entry.expiresAt = s.now().Add(ttl)
	}
}

func (s *memoryStore) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || !s.now().Before(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (s *memoryStore) setNX(key string, value []byte, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if entry, ok := s.entries[key]; ok && now.Before(entry.expiresAt) {
		return false
	}
	s.entries[key] = &memoryEntry{value: value, expiresAt: now.Add(ttl)}
	return true
}

func (s *memoryStore) evictLocked(now time.Time) {
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

func ttlSeconds(expiresAt, now time.Time) int64 {
	remaining := expiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int64((remaining + time.Second - 1) / time.Second)
}
