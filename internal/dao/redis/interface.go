// Package redis 定义 Redis 访问接口
// 限流中间件与健康检查依赖此接口而非具体 Redis 实现
package redis

import (
	"context"
	"time"
)

// CacheService Redis 访问接口
type CacheService interface {
	// IncrWithExpire 自增计数器，首次创建时设置过期时间，返回自增后的值和剩余 TTL
	IncrWithExpire(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error)
	// Ping 连通性检查
	Ping(ctx context.Context) error
	// Close 关闭连接
	Close() error
}
