package di

import (
	"github.com/redis/go-redis/v9"

	"zaitan_backend/internal/platform/config"
	"zaitan_backend/internal/shared/ratelimiter"
)

// NewRateLimiter returns a limiter shared across instances when Redis is available,
// and a per-process limiter otherwise.
func NewRateLimiter(rdb *redis.Client, cfg *config.Config) ratelimiter.Limiter {
	if rdb != nil {
		return ratelimiter.NewRedisLimiter(rdb, cfg.RateLimit, cfg.RateLimitWindow, "ratelimit")
	}
	return ratelimiter.NewMemoryLimiter(cfg.RateLimit, cfg.RateLimitWindow)
}
