package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaitan_backend/internal/feature/auth/usecase"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

func TestNewCodeRedis(t *testing.T) {
	client, _ := setupTestRedis(t)

	assert.Equal(t, "verification", NewCodeRedis(client, "").prefix)
	assert.Equal(t, "codes", NewCodeRedis(client, "codes").prefix)
}

func TestCodeRedis_SaveFindDelete(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	store := NewCodeRedis(client, "verification")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "13812345678", "hash-1", 5*time.Minute))
	assert.Equal(t, 5*time.Minute, mr.TTL("verification:13812345678"))

	got, err := store.Find(ctx, "13812345678")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", got)

	require.NoError(t, store.Save(ctx, "13812345678", "hash-2", 5*time.Minute))
	got, err = store.Find(ctx, "13812345678")
	require.NoError(t, err)
	assert.Equal(t, "hash-2", got)

	require.NoError(t, store.Delete(ctx, "13812345678"))
	_, err = store.Find(ctx, "13812345678")
	assert.ErrorIs(t, err, usecase.ErrCodeNotFound)
}

func TestCodeRedis_Expires(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	store := NewCodeRedis(client, "verification")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "13812345678", "hash", 5*time.Minute))

	mr.FastForward(4 * time.Minute)
	_, err := store.Find(ctx, "13812345678")
	require.NoError(t, err)

	mr.FastForward(time.Minute)
	_, err = store.Find(ctx, "13812345678")
	assert.ErrorIs(t, err, usecase.ErrCodeNotFound)
}

func TestCodeRedis_InvalidTTL(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	store := NewCodeRedis(client, "verification")

	assert.Error(t, store.Save(context.Background(), "13812345678", "hash", 0))
}

func TestCodeRedis_FindRedisError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("verification:13812345678").SetErr(errors.New("connection reset"))

	store := NewCodeRedis(rdb, "verification")
	_, err := store.Find(context.Background(), "13812345678")

	require.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrCodeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
