// Package middleware provides cross-cutting gin middleware.
package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"zaitan_backend/internal/api"
	"zaitan_backend/internal/shared/ratelimiter"
)

// RateLimit rejects clients that exceed l with 429. The key is the client IP
// prefixed by scope so separate endpoints keep separate budgets.
// If the limiter itself fails the request is let through.
func RateLimit(l ratelimiter.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := l.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err, "scope", scope, "remote_addr", c.ClientIP())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			slog.Warn("rate limit exceeded", "scope", scope, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{
				Error: "too many requests, please try again later",
				Code:  api.CodeRateLimited,
			})
			return
		}
		c.Next()
	}
}
