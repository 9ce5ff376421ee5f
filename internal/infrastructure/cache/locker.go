package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"blendery/internal/core/apperror"
	"blendery/internal/core/lock"
	"blendery/internal/infrastructure/config"
	"blendery/pkg/logger"
)

// RedisLocker implements lock.Locker with bsm/redislock.
type RedisLocker struct {
	client *redislock.Client
	prefix string
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewRedisLocker creates a locker. Acquire retries every cfg.RetryDelay
// up to cfg.MaxRetries times before giving up with a Locked error.
func NewRedisLocker(client redis.UniversalClient, cfg config.LockConfig) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(client),
		prefix: "blendery:lock:",
		ttl:    cfg.TTL,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(cfg.RetryDelay), cfg.MaxRetries),
	}
}

// Acquire implements lock.Locker.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lk, err := l.client.Obtain(ctx, l.prefix+key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, apperror.NewLocked(key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	return func() {
		// The request context may already be cancelled here.
		if err := lk.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logger.Warn(ctx, "release lock failed", "key", key, "error", err)
		}
	}, nil
}

var _ lock.Locker = (*RedisLocker)(nil)
