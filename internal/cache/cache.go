package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

// Store keeps JSON-encoded values with a TTL.
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New returns a Redis-backed store when redisURL is set and an in-process
// store otherwise.
func New(ctx context.Context, redisURL string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(redisURL) == "" {
		logger.Info("cache backend selected", zap.String("backend", "memory"))
		return NewMemoryStore(), nil
	}

	client, err := NewRedis(ctx, redisURL)
	if err != nil {
		return nil, err
	}
	logger.Info("cache backend selected", zap.String("backend", "redis"))
	return NewRedisStore(client, logger), nil
}

// NewRedis parses redisURL and pings the server before returning.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Remember returns the cached value for key, or calls load and caches its
// result. Cache failures are logged and never fail the call.
func Remember[T any](ctx context.Context, store Store, logger *zap.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if store != nil {
		err := store.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) && logger != nil {
			logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if store != nil {
		if err := store.Set(ctx, key, value, ttl); err != nil && logger != nil {
			logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}
