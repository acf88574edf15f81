package store

import (
	"context"
	"fmt"

	"github.com/nekazari/nkz-module-robotics/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis wraps a client to the shared Redis instance.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedis creates a client for cfg.URL without dialing.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	return &Redis{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

// Name identifies the check in readiness output.
func (r *Redis) Name() string {
	return "redis"
}

// Check sends PING.
func (r *Redis) Check(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (r *Redis) Close() error {
	return r.client.Close()
}
