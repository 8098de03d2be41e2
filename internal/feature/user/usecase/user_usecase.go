package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	authentity "zaitan_backend/internal/feature/auth/domain/entity"
	subentity "zaitan_backend/internal/feature/subscription/domain/entity"
	subusecase "zaitan_backend/internal/feature/subscription/usecase"
	"zaitan_backend/internal/feature/user/domain/entity"
)

const (
	maxNameRunes = 50
	activityDays = 7
	dateLayout   = "2006-01-02"
)

// Profile は/api/auth/meの内容です。
type Profile struct {
	User         *authentity.User
	Subscription *subentity.Subscription // 購読がない場合はnil
	Counts       entity.Counts
}

// Stats は/api/user/statsの内容です。
type Stats struct {
	TotalArticles  int64                `json:"totalArticles"`
	ReadArticles   int64                `json:"readArticles"`
	TotalFavorites int64                `json:"totalFavorites"`
	TotalReadTime  int64                `json:"totalReadTime"`
	RecentActivity []entity.DayActivity `json:"recentActivity"`
}

// UserUsecase はプロフィールと統計を提供します。
type UserUsecase struct {
	users UserRepository
	stats StatsRepository
	subs  SubscriptionFinder
	now   func() time.Time
}

// NewUserUsecase はUserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository, stats StatsRepository, subs SubscriptionFinder) *UserUsecase {
	return &UserUsecase{users: users, stats: stats, subs: subs, now: time.Now}
}

// Me はユーザー情報、購読、記事とお気に入りの件数を返します。
func (u *UserUsecase) Me(ctx context.Context, userID string) (*Profile, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sub, err := u.subs.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, subusecase.ErrSubscriptionNotFound) {
		return nil, fmt.Errorf("find subscription: %w", err)
	}

	counts, err := u.stats.Counts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count user data: %w", err)
	}
	return &Profile{User: user, Subscription: sub, Counts: counts}, nil
}

// Stats は集計と直近7日間（今日を含む）の日別閲覧数を返します。
func (u *UserUsecase) Stats(ctx context.Context, userID string) (*Stats, error) {
	counts, err := u.stats.Counts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count user data: %w", err)
	}

	today := u.now().UTC().Truncate(24 * time.Hour)
	first := today.AddDate(0, 0, -(activityDays - 1))
	reads, err := u.stats.ReadsSince(ctx, userID, first)
	if err != nil {
		return nil, fmt.Errorf("recent reads: %w", err)
	}

	return &Stats{
		TotalArticles:  counts.Articles,
		ReadArticles:   counts.ReadArticles,
		TotalFavorites: counts.Favorites,
		TotalReadTime:  counts.TotalReadTime,
		RecentActivity: bucketByDay(reads, first, activityDays),
	}, nil
}

// bucketByDay はfirstから数えてdays日分の日別件数を古い順に返します。件数0の日も含みます。
func bucketByDay(reads []time.Time, first time.Time, days int) []entity.DayActivity {
	out := make([]entity.DayActivity, days)
	index := make(map[string]int, days)
	for i := range out {
		d := first.AddDate(0, 0, i).Format(dateLayout)
		out[i] = entity.DayActivity{Date: d}
		index[d] = i
	}
	for _, r := range reads {
		if i, ok := index[r.UTC().Format(dateLayout)]; ok {
			out[i].Count++
		}
	}
	return out
}

// UpdateProfile は名前とアバターを部分更新します。
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID string, name, avatar *string) (*authentity.User, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if n := utf8.RuneCountInString(trimmed); n == 0 || n > maxNameRunes {
			return nil, ErrInvalidName
		}
		name = &trimmed
	}
	if avatar != nil {
		v, err := url.Parse(*avatar)
		if err != nil || (v.Scheme != "http" && v.Scheme != "https") || v.Host == "" {
			return nil, ErrInvalidAvatar
		}
	}
	return u.users.UpdateProfile(ctx, userID, name, avatar)
}
