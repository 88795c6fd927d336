// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"repairhub/config"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// NewCacheClient connects the Redis client used for stats and ranking caches.
func NewCacheClient(cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis (Cache): %w", err)
	}
	return client, nil
}

// QueueRedisOpt returns the asynq connection for the task queue database.
func QueueRedisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}
