package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/apptracker/internal/domain"
)

const lockRetryInterval = 50 * time.Millisecond

// Locker obtains short-lived named locks in Redis.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	log    *slog.Logger
}

// NewLocker creates a Locker. Locks expire after ttl; Lock retries for up
// to wait before giving up.
func NewLocker(rdb *redis.Client, ttl, wait time.Duration, log *slog.Logger) *Locker {
	return &Locker{
		client: redislock.New(rdb),
		ttl:    ttl,
		wait:   wait,
		log:    log.With("component", "locker"),
	}
}

// Lock obtains the lock named key and returns its release func. It returns
// domain.ErrConflict when the lock is held elsewhere for longer than the
// configured wait.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	retries := max(int(l.wait/lockRetryInterval), 0)

	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryInterval), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("lock %s: %w", key, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}

	release := func() {
		// Released even when the request context is already cancelled.
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn("release lock", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return release, nil
}
