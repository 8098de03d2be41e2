package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every server instance.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	prefix string
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter allows limit requests per key in each window.
func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// Allow counts one request for key in the current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	k := fmt.Sprintf("%s:%s", l.prefix, key)

	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit incr: %w", err)
	}
	// 最初のリクエストでウィンドウを開始する
	if n == 1 {
		if err := l.rdb.PExpire(ctx, k, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	res := Result{Limit: l.limit, Remaining: max(l.limit-int(n), 0)}
	if int(n) <= l.limit {
		res.Allowed = true
		return res, nil
	}

	ttl, err := l.rdb.PTTL(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit ttl: %w", err)
	}
	if ttl <= 0 {
		// Key lost its expiry; restart the window so the client is not locked out forever.
		_ = l.rdb.PExpire(ctx, k, l.window).Err()
		ttl = l.window
	}
	res.RetryAfter = ttl
	return res, nil
}
