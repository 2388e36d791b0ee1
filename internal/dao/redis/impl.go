// Package redis 提供 CacheService 接口的 Redis 实现
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"course_match_server/pkg/errorx"
)

// RedisCache Redis 缓存实现
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache 创建 Redis 缓存实例
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// ==================== 计数器操作 ====================

// IncrWithExpire 自增计数器
// INCR 与 EXPIRE NX 放在同一个 pipeline 中，窗口只在第一次自增时开始计时
func (r *RedisCache) IncrWithExpire(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	pttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, errorx.Wrapf(err, errorx.CodeCacheError, "redis incr key %s", key)
	}
	remaining := pttl.Val()
	if remaining < 0 {
		remaining = ttl
	}
	return incr.Val(), remaining, nil
}

// Ping 连通性检查
func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errorx.Wrap(err, errorx.CodeCacheError, "redis ping")
	}
	return nil
}

// Close 关闭连接
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// 确保 RedisCache 实现了 CacheService 接口
var _ CacheService = (*RedisCache)(nil)
