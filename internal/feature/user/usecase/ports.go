package usecase

import (
	"context"
	"time"

	authentity "zaitan_backend/internal/feature/auth/domain/entity"
	subentity "zaitan_backend/internal/feature/subscription/domain/entity"
	"zaitan_backend/internal/feature/user/domain/entity"
)

// UserRepository はユーザー行の参照と更新を行います。
type UserRepository interface {
	// FindByID は存在しない場合auth usecase.ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id string) (*authentity.User, error)
	UpdateProfile(ctx context.Context, id string, name, avatar *string) (*authentity.User, error)
}

// StatsRepository はユーザーごとの集計を返します。
type StatsRepository interface {
	Counts(ctx context.Context, userID string) (entity.Counts, error)
	// ReadsSince はsince以降に最後に開かれた記事の閲覧時刻を返します。
	ReadsSince(ctx context.Context, userID string, since time.Time) ([]time.Time, error)
}

// SubscriptionFinder はユーザーの購読を返します。
type SubscriptionFinder interface {
	// FindByUserID は購読がない場合subscription usecase.ErrSubscriptionNotFoundを返します。
	FindByUserID(ctx context.Context, userID string) (*subentity.Subscription, error)
}
