package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"zaitan_backend/internal/feature/auth/domain/entity"
	"zaitan_backend/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&entity.User{}, &entity.VerificationCode{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func strPtr(s string) *string { return &s }

func TestNewUserGorm(t *testing.T) {
	db := setupTestDB(t)

	repo := NewUserGorm(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		user := &entity.User{Phone: strPtr("13812345678"), Name: "用户5678"}
		err := repo.Create(context.Background(), user)

		assert.NoError(t, err, "failed to create user")
		assert.Len(t, user.ID, 36, "UUID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
	})

	t.Run("duplicate phone error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		require.NoError(t, repo.Create(context.Background(), &entity.User{Phone: strPtr("13812345678"), Name: "a"}))
		err := repo.Create(context.Background(), &entity.User{Phone: strPtr("13812345678"), Name: "b"})

		assert.ErrorIs(t, err, usecase.ErrUserAlreadyExists)
	})

	t.Run("duplicate openid error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		require.NoError(t, repo.Create(context.Background(), &entity.User{WeChatOpenID: strPtr("o1"), Name: "a"}))
		err := repo.Create(context.Background(), &entity.User{WeChatOpenID: strPtr("o1"), Name: "b"})

		assert.ErrorIs(t, err, usecase.ErrUserAlreadyExists)
	})

	t.Run("phone and wechat users coexist with null columns", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		require.NoError(t, repo.Create(context.Background(), &entity.User{WeChatOpenID: strPtr("o1"), Name: "a"}))
		require.NoError(t, repo.Create(context.Background(), &entity.User{WeChatOpenID: strPtr("o2"), Name: "b"}))
		assert.NoError(t, repo.Create(context.Background(), &entity.User{Phone: strPtr("13812345678"), Name: "c"}))
	})
}

func TestUserGorm_Find(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	ctx := context.Background()

	phoneUser := &entity.User{Phone: strPtr("13812345678"), Name: "p"}
	wxUser := &entity.User{WeChatOpenID: strPtr("openid-1"), Name: "w"}
	require.NoError(t, repo.Create(ctx, phoneUser))
	require.NoError(t, repo.Create(ctx, wxUser))

	t.Run("by id", func(t *testing.T) {
		u, err := repo.FindByID(ctx, phoneUser.ID)
		require.NoError(t, err)
		assert.Equal(t, "p", u.Name)
	})

	t.Run("by phone", func(t *testing.T) {
		u, err := repo.FindByPhone(ctx, "13812345678")
		require.NoError(t, err)
		assert.Equal(t, phoneUser.ID, u.ID)
	})

	t.Run("by openid", func(t *testing.T) {
		u, err := repo.FindByWeChatOpenID(ctx, "openid-1")
		require.NoError(t, err)
		assert.Equal(t, wxUser.ID, u.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		_, err = repo.FindByPhone(ctx, "13900000000")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		_, err = repo.FindByWeChatOpenID(ctx, "nope")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}

func TestUserGorm_UpdateProfile(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	ctx := context.Background()

	u := &entity.User{Phone: strPtr("13812345678"), Name: "old", Avatar: "https://a/1.png"}
	require.NoError(t, repo.Create(ctx, u))

	t.Run("partial update keeps other fields", func(t *testing.T) {
		got, err := repo.UpdateProfile(ctx, u.ID, strPtr("new"), nil)
		require.NoError(t, err)
		assert.Equal(t, "new", got.Name)
		assert.Equal(t, "https://a/1.png", got.Avatar)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.UpdateProfile(ctx, "missing", strPtr("x"), nil)
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}
