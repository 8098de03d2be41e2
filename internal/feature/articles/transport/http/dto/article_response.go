package dto

import (
	"zaitan_backend/internal/feature/articles/domain/entity"
	"zaitan_backend/internal/feature/articles/usecase"
)

// ListArticlesRes は記事一覧のレスポンスです。
type ListArticlesRes struct {
	Articles   []entity.ArticleView `json:"articles"`
	Pagination usecase.Pagination   `json:"pagination"`
}

// CreateArticleRes は記事保存成功時のレスポンスです。
type CreateArticleRes struct {
	Success bool            `json:"success"`
	Article *entity.Article `json:"article"`
}

// FavoritesRes はお気に入り一覧のレスポンスです。
type FavoritesRes struct {
	Favorites []entity.FavoriteView `json:"favorites"`
}

// ToggleFavoriteRes はお気に入り切り替え後の状態です。
type ToggleFavoriteRes struct {
	Success     bool `json:"success"`
	IsFavorited bool `json:"isFavorited"`
}
