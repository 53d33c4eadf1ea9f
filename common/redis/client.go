package redis

import (
	"context"
	"fmt"
	"time"

	"aable-presence/common/config"

	"github.com/go-redis/redis/v8"
)

// 批处理只需要少量连接，连接失败要尽快退回内存缓存
const (
	dialTimeout = 2 * time.Second
	pingTimeout = 3 * time.Second
	poolSize    = 4
)

// NewRedisClient 创建Redis客户端（批次缓存 + 异常事件流共用）
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
		MaxRetries:  1,
		PoolSize:    poolSize,
	})
}

// Ping 测试Redis连接，最多等待 pingTimeout
func Ping(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", client.Options().Addr, err)
	}
	return nil
}

// Close 关闭Redis连接，nil 安全
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
