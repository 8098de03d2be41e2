// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"zaitan_backend/internal/feature/subscription/domain/entity"
	"zaitan_backend/internal/feature/subscription/usecase"
)

// CachingSubscriptionRepository decorates a SubscriptionRepository with a Redis
// read-through cache for per-user lookups. Every write invalidates the user's entry.
type CachingSubscriptionRepository struct {
	inner     usecase.SubscriptionRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SubscriptionRepository = (*CachingSubscriptionRepository)(nil)

// record is the cached form. ExternalSubscriptionID is hidden from API JSON but must survive the cache.
type record struct {
	entity.Subscription
	ExternalSubscriptionID string `json:"externalSubscriptionId"`
}

// NewCachingSubscriptionRepository decorates a SubscriptionRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "subscription".
func NewCachingSubscriptionRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SubscriptionRepository, namespace string) *CachingSubscriptionRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "subscription"
	}
	return &CachingSubscriptionRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindByUserID checks the cache first, then falls back to the inner repository.
// A missing subscription is cached too, as JSON null.
func (c *CachingSubscriptionRepository) FindByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByUserID(ctx, userID)
	}

	key := c.cacheKey(userID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var rec *record
		if err := json.Unmarshal(b, &rec); err == nil {
			if rec == nil {
				return nil, usecase.ErrSubscriptionNotFound
			}
			s := rec.Subscription
			s.ExternalSubscriptionID = rec.ExternalSubscriptionID
			return &s, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	s, err := c.inner.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, usecase.ErrSubscriptionNotFound) {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, mErr := json.Marshal(toRecord(s)); mErr == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return s, err
}

// FindByExternalID is not cached; it is only used by webhooks.
func (c *CachingSubscriptionRepository) FindByExternalID(ctx context.Context, externalID string) (*entity.Subscription, error) {
	return c.inner.FindByExternalID(ctx, externalID)
}

// Upsert writes through and invalidates the user's entry.
func (c *CachingSubscriptionRepository) Upsert(ctx context.Context, s *entity.Subscription) error {
	if err := c.inner.Upsert(ctx, s); err != nil {
		return err
	}
	c.invalidate(ctx, s.UserID)
	return nil
}

// UpdateStatus writes through and invalidates the user's entry.
func (c *CachingSubscriptionRepository) UpdateStatus(ctx context.Context, userID string, status entity.Status) error {
	if err := c.inner.UpdateStatus(ctx, userID, status); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

// SetCancelAtPeriodEnd writes through and invalidates the user's entry.
func (c *CachingSubscriptionRepository) SetCancelAtPeriodEnd(ctx context.Context, userID string, cancel bool) error {
	if err := c.inner.SetCancelAtPeriodEnd(ctx, userID, cancel); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

// CreatePayment does not affect cached subscriptions.
func (c *CachingSubscriptionRepository) CreatePayment(ctx context.Context, p *entity.Payment) error {
	return c.inner.CreatePayment(ctx, p)
}

func (c *CachingSubscriptionRepository) invalidate(ctx context.Context, userID string) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.cacheKey(userID)).Err() // Best effort: a stale entry expires with the TTL
}

// cacheKey generates a cache key for a user.
func (c *CachingSubscriptionRepository) cacheKey(userID string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(userID))
}

func toRecord(s *entity.Subscription) *record {
	if s == nil {
		return nil
	}
	return &record{Subscription: *s, ExternalSubscriptionID: s.ExternalSubscriptionID}
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
