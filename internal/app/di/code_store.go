// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "zaitan_backend/internal/feature/auth/adapters"
	"zaitan_backend/internal/feature/auth/usecase"
	"zaitan_backend/internal/platform/verification"
)

// NewCodeStore creates a CodeStore implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the database.
func NewCodeStore(rdb *redis.Client, db *gorm.DB) usecase.CodeStore {
	if rdb != nil {
		return verification.NewCodeRedis(rdb, "verification")
	}
	return authadapters.NewCodeGorm(db)
}
