package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bengkelhub/bengkel-booking/internal/config"
)

// NewRedisClient connects to Redis. It returns nil, nil when no address is configured.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// New picks the limiter for a scope: Redis-backed with in-memory failover when a
// client is available, in-memory otherwise.
func New(client *redis.Client, scope string, perMinute int, logger *zerolog.Logger) Limiter {
	local := NewLocalLimiter(perMinute, time.Minute)
	if client == nil {
		return local
	}
	return NewFailoverLimiter(NewRedisLimiter(client, scope, perMinute, time.Minute), local, logger)
}
