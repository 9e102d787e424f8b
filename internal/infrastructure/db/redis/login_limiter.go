package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles login attempts per client using a fixed window
// counter in Redis. Key format: login_attempts:<client>
//
// The limiter fails open: if Redis is unreachable the attempt is allowed,
// since locking everyone out on a cache outage is worse than briefly losing
// throttling.
type LoginLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

const (
	defaultLimit  = 10
	defaultWindow = time.Minute
)

// NewLoginLimiter creates a limiter allowing limit attempts per window.
func NewLoginLimiter(client *redis.Client, limit int64, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = defaultLimit
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, limit: limit, window: window}
}

// Allow records one attempt for the client and reports whether it is within
// the limit, along with how long until the window resets when it is not.
func (l *LoginLimiter) Allow(ctx context.Context, client string) (bool, time.Duration, error) {
	key := fmt.Sprintf("login_attempts:%s", client)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, 0, fmt.Errorf("login limiter incr: %w", err)
	}
	if n == 1 {
		// First attempt in this window starts the clock.
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return true, 0, fmt.Errorf("login limiter expire: %w", err)
		}
	}
	if n <= l.limit {
		return true, 0, nil
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}
