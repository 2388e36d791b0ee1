// Package ratelimit 提供按客户端 IP 的固定窗口限流
// 计数存储可选内存（单实例）或 Redis（多实例共享）
package ratelimit

import (
	"context"
	"sync"
	"time"

	myredis "course_match_server/internal/dao/redis"
)

// Store 固定窗口计数存储
type Store interface {
	// Incr 计数加一，窗口在第一次计数时开始，返回当前计数与窗口剩余时长
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// ==================== 内存实现 ====================

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore 进程内计数，重启即清空
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
	lastGC  time.Time
}

// NewMemoryStore 创建内存计数存储，now 为 nil 时使用 time.Now
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{entries: make(map[string]*memoryEntry), now: now}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.gc(now, window)

	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &memoryEntry{resetAt: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, e.resetAt.Sub(now), nil
}

// gc 每个窗口最多清理一次过期条目
func (s *MemoryStore) gc(now time.Time, window time.Duration) {
	if now.Sub(s.lastGC) < window {
		return
	}
	s.lastGC = now
	for k, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, k)
		}
	}
}

// ==================== Redis 实现 ====================

// RedisStore 基于 Redis INCR + EXPIRE 的计数存储
type RedisStore struct {
	cache  myredis.CacheService
	prefix string
}

// NewRedisStore 创建 Redis 计数存储
func NewRedisStore(cache myredis.CacheService) *RedisStore {
	return &RedisStore{cache: cache, prefix: "rate_limit_"}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return s.cache.IncrWithExpire(ctx, s.prefix+key, window)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
