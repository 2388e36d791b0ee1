// Package redis 提供 Redis 操作的封装
// 本文件仅包含 Redis 连接初始化逻辑
// 使用 github.com/redis/go-redis/v9 作为底层客户端
package redis

import (
	"context"
	"strconv"
	"time"

	"course_match_server/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Init 初始化 Redis 连接并返回缓存服务实例
// 从配置文件读取连接参数，启动时 Ping 一次确认可用
func Init() (CacheService, error) {
	conf := config.GetConfig()

	// 拼接地址：host:port
	addr := conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.RedisConfig.Password, // 密码，无密码留空
		DB:       conf.RedisConfig.Db,       // 数据库编号
		// 连接池配置
		PoolSize:     50,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	zap.L().Info("Redis 连接成功", zap.String("addr", addr))
	return NewRedisCache(client), nil
}
