package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/theatharvamuley10/backendPro/internal/core/ports"
)

const (
	DefaultMaxAttempts = 7
	DefaultWindow      = 15 * time.Minute
)

// LoginLimiter counts failed logins per identifier in a fixed window.
// Key format: login:fail:<identifier>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

var _ ports.LoginLimiter = (*LoginLimiter)(nil)

// NewLoginLimiter returns a limiter that blocks an identifier after
// maxAttempts failures until window has passed since the first one.
// Non-positive values fall back to the defaults.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Blocked reports whether identifier has used up its attempts.
func (l *LoginLimiter) Blocked(ctx context.Context, identifier string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(identifier)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter check: %w", err)
	}
	return n >= l.maxAttempts, nil
}

// RecordFailure bumps the counter. INCR and EXPIRE NX run in one MULTI, so
// the key always carries a TTL and the window starts at the first failure.
// EXPIRE NX needs Redis 7.
func (l *LoginLimiter) RecordFailure(ctx context.Context, identifier string) error {
	key := l.key(identifier)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login limiter record: %w", err)
	}
	return nil
}

// Reset forgets the failures of identifier.
func (l *LoginLimiter) Reset(ctx context.Context, identifier string) error {
	if err := l.client.Del(ctx, l.key(identifier)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(identifier string) string {
	return "login:fail:" + identifier
}
