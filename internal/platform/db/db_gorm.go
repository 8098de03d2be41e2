// Package db opens the GORM connection and owns schema migration.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	articleentity "zaitan_backend/internal/feature/articles/domain/entity"
	authentity "zaitan_backend/internal/feature/auth/domain/entity"
	subscriptionentity "zaitan_backend/internal/feature/subscription/domain/entity"
	"zaitan_backend/internal/platform/config"
)

const (
	connectTimeout = 60 * time.Second
	retryInterval  = 3 * time.Second
)

// Opener opens a gorm.DB for a DSN. Swappable in tests.
type Opener func(dsn string) (*gorm.DB, error)

// OpenDB connects using the configured driver, retrying PostgreSQL for up to a minute
// while the database container starts, and migrates when RUN_MIGRATIONS is set.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
		if err == nil {
			// SQLite allows a single writer; ":memory:" is also per connection.
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				return nil, dbErr
			}
			sqlDB.SetMaxOpenConns(1)
		}
		slog.Info("using sqlite database", "path", cfg.SQLitePath)
	default:
		db, err = ConnectWithRetry(cfg.PostgresDSN(), connectTimeout, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		})
	}
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		slog.Info("database migrated")
	}
	return db, nil
}

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&authentity.User{},
		&authentity.VerificationCode{},
		&articleentity.Article{},
		&articleentity.Favorite{},
		&articleentity.ReadHistory{},
		&subscriptionentity.Subscription{},
		&subscriptionentity.Payment{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
