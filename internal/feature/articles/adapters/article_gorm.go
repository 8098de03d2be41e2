// Package adapters はarticlesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"zaitan_backend/internal/feature/articles/domain/entity"
	"zaitan_backend/internal/feature/articles/usecase"
	"zaitan_backend/internal/platform/db"
)

// articleGorm はArticleRepositoryインターフェースのGORM実装です。
// すべてのクエリはuser_idで絞り込まれます。
type articleGorm struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.ArticleRepository = (*articleGorm)(nil)

// NewArticleGorm は指定されたgorm.DB接続でarticleGormの新しいインスタンスを生成します。
func NewArticleGorm(db *gorm.DB) *articleGorm {
	return &articleGorm{db: db, now: time.Now}
}

// ownedBy はユーザーが所有する記事に絞り込むスコープです。
func ownedBy(userID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("articles.user_id = ?", userID)
	}
}

// filtered は一覧のフィルタ条件を適用するスコープです。
func filtered(q entity.ListQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if q.Category != "" {
			tx = tx.Where("articles.category = ?", q.Category)
		}
		if q.IsRead != nil {
			tx = tx.Where("articles.is_read = ?", *q.IsRead)
		}
		if q.Search != "" {
			pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
			tx = tx.Where(`(LOWER(articles.title) LIKE ? ESCAPE '\' OR LOWER(articles.content) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		return tx
	}
}

// escapeLike はLIKEパターンのワイルドカードをエスケープします。
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List はユーザーの記事を新しい順に1ページ分返します。総件数も併せて返します。
func (r *articleGorm) List(ctx context.Context, userID string, q entity.ListQuery) ([]entity.ArticleView, int64, error) {
	base := r.db.WithContext(ctx).Model(&entity.Article{}).Scopes(ownedBy(userID), filtered(q))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []entity.Article
	err := base.Session(&gorm.Session{}).
		Order("articles.created_at DESC, articles.id DESC").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	favorited, err := r.favoritedSet(ctx, userID, rows)
	if err != nil {
		return nil, 0, err
	}

	out := make([]entity.ArticleView, 0, len(rows))
	for _, a := range rows {
		out = append(out, entity.ArticleView{Article: a, IsFavorited: favorited[a.ID]})
	}
	return out, total, nil
}

// favoritedSet は指定された記事のうちお気に入り登録済みのIDを返します。
func (r *articleGorm) favoritedSet(ctx context.Context, userID string, articles []entity.Article) (map[string]bool, error) {
	set := make(map[string]bool, len(articles))
	if len(articles) == 0 {
		return set, nil
	}
	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}

	var favIDs []string
	err := r.db.WithContext(ctx).Model(&entity.Favorite{}).
		Where("user_id = ? AND article_id IN ?", userID, ids).
		Pluck("article_id", &favIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range favIDs {
		set[id] = true
	}
	return set, nil
}

// ExistsByURL はユーザーが同じURLを保存済みかどうかを返します。
func (r *articleGorm) ExistsByURL(ctx context.Context, userID, rawURL string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Article{}).
		Where("user_id = ? AND url = ?", userID, rawURL).
		Count(&n).Error
	return n > 0, err
}

// Create は記事を保存します。(user_id, url)が重複する場合、usecase.ErrDuplicateArticleを返します。
func (r *articleGorm) Create(ctx context.Context, a *entity.Article) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrDuplicateArticle
		}
		return err
	}
	return nil
}

// Get はユーザーの記事をお気に入り状態付きで返します。
func (r *articleGorm) Get(ctx context.Context, userID, id string) (*entity.ArticleView, error) {
	var a entity.Article
	err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).Where("articles.id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrArticleNotFound
		}
		return nil, err
	}

	var n int64
	err = r.db.WithContext(ctx).Model(&entity.Favorite{}).
		Where("user_id = ? AND article_id = ?", userID, id).
		Count(&n).Error
	if err != nil {
		return nil, err
	}
	return &entity.ArticleView{Article: a, IsFavorited: n > 0}, nil
}

// RecordRead は閲覧履歴をupsertします。
func (r *articleGorm) RecordRead(ctx context.Context, userID, articleID string, at time.Time) error {
	h := entity.ReadHistory{UserID: userID, ArticleID: articleID, LastReadAt: at}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_read_at"}),
	}).Create(&h).Error
}

// Update は指定されたフィールドのみ更新します。
// 空のパッチは存在確認のみ行います。
func (r *articleGorm) Update(ctx context.Context, userID, id string, p entity.Patch) error {
	if p.IsEmpty() {
		var n int64
		err := r.db.WithContext(ctx).Model(&entity.Article{}).Scopes(ownedBy(userID)).
			Where("articles.id = ?", id).Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			return usecase.ErrArticleNotFound
		}
		return nil
	}

	// tagsのシリアライザを通すため構造体で更新し、対象列はSelectで明示する
	values := entity.Article{UpdatedAt: r.now()}
	cols := []string{"updated_at"}
	if p.IsRead != nil {
		values.IsRead = *p.IsRead
		cols = append(cols, "is_read")
	}
	if p.IsArchived != nil {
		values.IsArchived = *p.IsArchived
		cols = append(cols, "is_archived")
	}
	if p.Category != nil {
		values.Category = *p.Category
		cols = append(cols, "category")
	}
	if p.Tags != nil {
		values.Tags = *p.Tags
		if values.Tags == nil {
			values.Tags = []string{}
		}
		cols = append(cols, "tags")
	}

	res := r.db.WithContext(ctx).Model(&entity.Article{}).
		Where("id = ? AND user_id = ?", id, userID).
		Select(cols).
		Updates(&values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrArticleNotFound
	}
	return nil
}

// Delete は記事と、それに紐づくお気に入り・閲覧履歴を同一トランザクションで削除します。
func (r *articleGorm) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Article{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrArticleNotFound
		}
		if err := tx.Where("article_id = ?", id).Delete(&entity.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Where("article_id = ?", id).Delete(&entity.ReadHistory{}).Error
	})
}

// ToggleFavorite はお気に入り状態を反転し、新しい状態を返します。
// 記事を所有していない場合、usecase.ErrArticleNotFoundを返します。
func (r *articleGorm) ToggleFavorite(ctx context.Context, userID, articleID string) (bool, error) {
	var favorited bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&entity.Article{}).Scopes(ownedBy(userID)).
			Where("articles.id = ?", articleID).Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			return usecase.ErrArticleNotFound
		}

		res := tx.Where("user_id = ? AND article_id = ?", userID, articleID).Delete(&entity.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			favorited = false
			return nil
		}

		if err := tx.Create(&entity.Favorite{UserID: userID, ArticleID: articleID}).Error; err != nil {
			return err
		}
		favorited = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return favorited, nil
}

// ListFavorites はお気に入り登録された記事を登録日時の新しい順に返します。
// 記事が既に存在しないお気に入りは結合で除外されます。
func (r *articleGorm) ListFavorites(ctx context.Context, userID string) ([]entity.FavoriteView, error) {
	var out []entity.FavoriteView
	err := r.db.WithContext(ctx).
		Table("favorites").
		Select("articles.id, articles.title, articles.summary, articles.source, articles.image_url, articles.read_time, favorites.created_at AS favorited_at").
		Joins("JOIN articles ON articles.id = favorites.article_id AND articles.user_id = favorites.user_id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
