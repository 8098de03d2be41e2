package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "zaitan_backend/internal/feature/auth/domain/entity"
	authusecase "zaitan_backend/internal/feature/auth/usecase"
	subentity "zaitan_backend/internal/feature/subscription/domain/entity"
	subusecase "zaitan_backend/internal/feature/subscription/usecase"
	"zaitan_backend/internal/feature/user/domain/entity"
)

type mockUserRepository struct {
	FindByIDFunc      func(ctx context.Context, id string) (*authentity.User, error)
	UpdateProfileFunc func(ctx context.Context, id string, name, avatar *string) (*authentity.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*authentity.User, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id string, name, avatar *string) (*authentity.User, error) {
	return m.UpdateProfileFunc(ctx, id, name, avatar)
}

type mockStatsRepository struct {
	CountsFunc     func(ctx context.Context, userID string) (entity.Counts, error)
	ReadsSinceFunc func(ctx context.Context, userID string, since time.Time) ([]time.Time, error)
}

func (m *mockStatsRepository) Counts(ctx context.Context, userID string) (entity.Counts, error) {
	return m.CountsFunc(ctx, userID)
}

func (m *mockStatsRepository) ReadsSince(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	return m.ReadsSinceFunc(ctx, userID, since)
}

type mockSubscriptionFinder struct {
	FindByUserIDFunc func(ctx context.Context, userID string) (*subentity.Subscription, error)
}

func (m *mockSubscriptionFinder) FindByUserID(ctx context.Context, userID string) (*subentity.Subscription, error) {
	return m.FindByUserIDFunc(ctx, userID)
}

func strPtr(s string) *string { return &s }

func fixedCounts(ctx context.Context, userID string) (entity.Counts, error) {
	return entity.Counts{Articles: 4, ReadArticles: 2, Favorites: 1, TotalReadTime: 9}, nil
}

func noSubscription(ctx context.Context, userID string) (*subentity.Subscription, error) {
	return nil, subusecase.ErrSubscriptionNotFound
}

func TestUserUsecase_Me(t *testing.T) {
	users := &mockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*authentity.User, error) {
			return &authentity.User{ID: id, Phone: strPtr("13800138000"), Name: "用户8000"}, nil
		},
	}
	stats := &mockStatsRepository{CountsFunc: fixedCounts}

	t.Run("without subscription", func(t *testing.T) {
		uc := NewUserUsecase(users, stats, &mockSubscriptionFinder{FindByUserIDFunc: noSubscription})

		p, err := uc.Me(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1", p.User.ID)
		assert.Nil(t, p.Subscription)
		assert.EqualValues(t, 4, p.Counts.Articles)
		assert.EqualValues(t, 1, p.Counts.Favorites)
	})

	t.Run("with subscription", func(t *testing.T) {
		sub := &subentity.Subscription{UserID: "u1", Status: subentity.StatusActive, Plan: subentity.PlanMonthly}
		uc := NewUserUsecase(users, stats, &mockSubscriptionFinder{
			FindByUserIDFunc: func(ctx context.Context, userID string) (*subentity.Subscription, error) { return sub, nil },
		})

		p, err := uc.Me(context.Background(), "u1")
		require.NoError(t, err)
		assert.Same(t, sub, p.Subscription)
	})

	t.Run("subscription lookup failure", func(t *testing.T) {
		uc := NewUserUsecase(users, stats, &mockSubscriptionFinder{
			FindByUserIDFunc: func(ctx context.Context, userID string) (*subentity.Subscription, error) {
				return nil, errors.New("db down")
			},
		})

		_, err := uc.Me(context.Background(), "u1")
		assert.Error(t, err)
	})

	t.Run("user missing", func(t *testing.T) {
		uc := NewUserUsecase(&mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*authentity.User, error) {
				return nil, authusecase.ErrUserNotFound
			},
		}, stats, &mockSubscriptionFinder{FindByUserIDFunc: noSubscription})

		_, err := uc.Me(context.Background(), "ghost")
		assert.ErrorIs(t, err, authusecase.ErrUserNotFound)
	})
}

func TestUserUsecase_Stats(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	var gotSince time.Time
	stats := &mockStatsRepository{
		CountsFunc: fixedCounts,
		ReadsSinceFunc: func(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
			gotSince = since
			return []time.Time{
				time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC),
				time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	uc := NewUserUsecase(&mockUserRepository{}, stats, &mockSubscriptionFinder{})
	uc.now = func() time.Time { return now }

	s, err := uc.Stats(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), gotSince)
	assert.EqualValues(t, 4, s.TotalArticles)
	assert.EqualValues(t, 2, s.ReadArticles)
	assert.EqualValues(t, 1, s.TotalFavorites)
	assert.EqualValues(t, 9, s.TotalReadTime)

	want := []entity.DayActivity{
		{Date: "2024-03-04", Count: 1},
		{Date: "2024-03-05", Count: 0},
		{Date: "2024-03-06", Count: 0},
		{Date: "2024-03-07", Count: 0},
		{Date: "2024-03-08", Count: 0},
		{Date: "2024-03-09", Count: 2},
		{Date: "2024-03-10", Count: 1},
	}
	assert.Equal(t, want, s.RecentActivity)
}

func TestUserUsecase_StatsError(t *testing.T) {
	stats := &mockStatsRepository{
		CountsFunc: func(ctx context.Context, userID string) (entity.Counts, error) {
			return entity.Counts{}, errors.New("db down")
		},
	}
	uc := NewUserUsecase(&mockUserRepository{}, stats, &mockSubscriptionFinder{})

	_, err := uc.Stats(context.Background(), "u1")
	assert.Error(t, err)
}

func TestUserUsecase_UpdateProfile(t *testing.T) {
	tests := []struct {
		name       string
		inName     *string
		inAvatar   *string
		wantErr    error
		wantName   *string
		wantCalled bool
	}{
		{name: "name trimmed", inName: strPtr("  小明  "), wantName: strPtr("小明"), wantCalled: true},
		{name: "50 runes", inName: strPtr(strings.Repeat("名", 50)), wantName: strPtr(strings.Repeat("名", 50)), wantCalled: true},
		{name: "51 runes", inName: strPtr(strings.Repeat("名", 51)), wantErr: ErrInvalidName},
		{name: "blank name", inName: strPtr("   "), wantErr: ErrInvalidName},
		{name: "avatar https", inAvatar: strPtr("https://cdn.example.com/a.png"), wantCalled: true},
		{name: "avatar relative", inAvatar: strPtr("/a.png"), wantErr: ErrInvalidAvatar},
		{name: "avatar other scheme", inAvatar: strPtr("ftp://example.com/a.png"), wantErr: ErrInvalidAvatar},
		{name: "nothing to change", wantCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			var gotName *string
			users := &mockUserRepository{
				UpdateProfileFunc: func(ctx context.Context, id string, name, avatar *string) (*authentity.User, error) {
					called = true
					gotName = name
					return &authentity.User{ID: id}, nil
				},
			}
			uc := NewUserUsecase(users, &mockStatsRepository{}, &mockSubscriptionFinder{})

			u, err := uc.UpdateProfile(context.Background(), "u1", tt.inName, tt.inAvatar)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, called)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", u.ID)
			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantName, gotName)
		})
	}
}
