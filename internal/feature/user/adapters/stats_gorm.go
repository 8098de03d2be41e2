// Package adapters はuserフィーチャーの永続化を実装します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	articleentity "zaitan_backend/internal/feature/articles/domain/entity"
	"zaitan_backend/internal/feature/user/domain/entity"
)

type statsGorm struct {
	db *gorm.DB
}

// NewStatsGorm はarticles/favorites/read_historiesを集計するリポジトリを生成します。
func NewStatsGorm(db *gorm.DB) *statsGorm {
	return &statsGorm{db: db}
}

// Counts はユーザーの記事数、既読数、お気に入り数、閲覧済み記事の読了時間合計を返します。
func (r *statsGorm) Counts(ctx context.Context, userID string) (entity.Counts, error) {
	var c entity.Counts
	db := r.db.WithContext(ctx)

	if err := db.Model(&articleentity.Article{}).
		Where("user_id = ?", userID).
		Count(&c.Articles).Error; err != nil {
		return c, err
	}
	if err := db.Model(&articleentity.Article{}).
		Where("user_id = ? AND is_read = ?", userID, true).
		Count(&c.ReadArticles).Error; err != nil {
		return c, err
	}
	// 記事が削除済みのお気に入りは数えない
	if err := db.Model(&articleentity.Favorite{}).
		Joins("JOIN articles ON articles.id = favorites.article_id AND articles.user_id = favorites.user_id").
		Where("favorites.user_id = ?", userID).
		Count(&c.Favorites).Error; err != nil {
		return c, err
	}
	if err := db.Model(&articleentity.ReadHistory{}).
		Select("COALESCE(SUM(articles.read_time), 0)").
		Joins("JOIN articles ON articles.id = read_histories.article_id AND articles.user_id = read_histories.user_id").
		Where("read_histories.user_id = ?", userID).
		Scan(&c.TotalReadTime).Error; err != nil {
		return c, err
	}
	return c, nil
}

// ReadsSince はsince以降のlast_read_atを返します。日付への集約は呼び出し側で行います。
func (r *statsGorm) ReadsSince(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	var reads []time.Time
	err := r.db.WithContext(ctx).
		Model(&articleentity.ReadHistory{}).
		Where("user_id = ? AND last_read_at >= ?", userID, since).
		Order("last_read_at").
		Pluck("last_read_at", &reads).Error
	if err != nil {
		return nil, err
	}
	return reads, nil
}
