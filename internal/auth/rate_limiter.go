package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginRateLimiter tracks authentication attempts per identifier in a Redis
// sorted set, evaluated over a sliding window. A nil client disables
// limiting entirely, so the service keeps working without Redis.
type LoginRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewLoginRateLimiter builds a limiter. limit <= 0 disables it.
func NewLoginRateLimiter(client *redis.Client, limit int, window time.Duration) *LoginRateLimiter {
	return &LoginRateLimiter{
		client: client,
		prefix: "login_attempts",
		limit:  limit,
		window: window,
	}
}

// Allow records the attempt and reports whether the caller is still within
// the window limit. Redis failures fail open: an unreachable limiter must
// not lock everyone out.
func (l *LoginRateLimiter) Allow(ctx context.Context, identifier string, at time.Time) (bool, error) {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true, nil
	}

	key := fmt.Sprintf("%s:%s", l.prefix, identifier)
	threshold := fmt.Sprintf("%d", at.Add(-l.window).UnixNano())

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", threshold)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(at.UnixNano()), Member: at.UnixNano()})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("rate limiter: %w", err)
	}

	return count.Val() <= int64(l.limit), nil
}

// Reset clears recorded attempts after a successful authentication.
func (l *LoginRateLimiter) Reset(ctx context.Context, identifier string) error {
	if l == nil || l.client == nil {
		return nil
	}
	key := fmt.Sprintf("%s:%s", l.prefix, identifier)
	return l.client.Del(ctx, key).Err()
}
