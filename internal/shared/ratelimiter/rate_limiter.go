// Package ratelimiter limits how often a caller (keyed by client IP) may hit an endpoint.
package ratelimiter

import (
	"context"
	"time"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // zero when Allowed
}

// Limiter は、キーごとのリクエスト頻度を制限するインターフェースです。
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
