package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/config"
)

// ErrRedisNotConfigured is reported by Ping on a nil handle.
var ErrRedisNotConfigured = errors.New("redis client not configured")

// Redis holds the cache client. An unreachable server at startup still yields
// a handle: readiness reports it down and cached reads fall back to storage.
type Redis struct {
	Client  *redis.Client
	timeout time.Duration
}

// NewRedis builds a client bounded by cfg.Timeout and checks it once.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	timeout := cfg.Timeout()
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   1,
	})
	r := &Redis{Client: client, timeout: timeout}

	if err := r.Ping(ctx); err != nil {
		logger.Warn("redis unreachable; cache disabled until it recovers",
			zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}
	return r
}

// Enabled reports whether a client was built.
func (r *Redis) Enabled() bool {
	return r != nil && r.Client != nil
}

// Close releases the client.
func (r *Redis) Close() {
	if r.Enabled() {
		_ = r.Client.Close()
	}
}

// Ping checks connectivity within the configured timeout.
func (r *Redis) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return ErrRedisNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", r.Client.Options().Addr, err)
	}
	return nil
}
