// Package verification stores login verification codes in Redis.
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"zaitan_backend/internal/feature/auth/usecase"
)

// CodeRedis implements usecase.CodeStore using Redis key expiry.
type CodeRedis struct {
	client *redis.Client
	prefix string
}

var _ usecase.CodeStore = (*CodeRedis)(nil)

// NewCodeRedis creates a new CodeRedis instance.
func NewCodeRedis(client *redis.Client, prefix string) *CodeRedis {
	if prefix == "" {
		prefix = "verification"
	}
	return &CodeRedis{client: client, prefix: prefix}
}

// codeKey returns the Redis key for a phone's code.
func (r *CodeRedis) codeKey(phone string) string {
	return fmt.Sprintf("%s:%s", r.prefix, phone)
}

// Save stores the hash with ttl, replacing any previous code.
func (r *CodeRedis) Save(ctx context.Context, phone, codeHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("code ttl must be positive")
	}
	return r.client.Set(ctx, r.codeKey(phone), codeHash, ttl).Err()
}

// Find returns the live hash for phone.
func (r *CodeRedis) Find(ctx context.Context, phone string) (string, error) {
	hash, err := r.client.Get(ctx, r.codeKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", usecase.ErrCodeNotFound
		}
		return "", err
	}
	return hash, nil
}

// Delete removes the code for phone.
func (r *CodeRedis) Delete(ctx context.Context, phone string) error {
	return r.client.Del(ctx, r.codeKey(phone)).Err()
}
