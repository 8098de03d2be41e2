// Package dto はarticlesフィーチャーのリクエスト・レスポンス型を定義します。
package dto

import (
	"zaitan_backend/internal/feature/articles/domain/entity"
	"zaitan_backend/internal/feature/articles/usecase"
)

// ListArticlesQuery はGET /api/articlesのクエリパラメータです。
type ListArticlesQuery struct {
	Page     string `form:"page"`
	Limit    string `form:"limit"`
	Search   string `form:"search"`
	Category string `form:"category"`
	IsRead   string `form:"isRead"`
}

// CreateArticleReq はPOST /api/articlesのリクエストボディです。
// contentが指定された場合はページを取得しません（共有拡張からの保存）。
type CreateArticleReq struct {
	URL      string   `json:"url" binding:"required"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Author   string   `json:"author"`
	Source   string   `json:"source"`
	ImageURL string   `json:"imageUrl"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// ToInput はリクエストをユースケースの入力に変換します。
func (r CreateArticleReq) ToInput() usecase.CreateInput {
	return usecase.CreateInput{
		URL:      r.URL,
		Title:    r.Title,
		Content:  r.Content,
		Author:   r.Author,
		Source:   r.Source,
		ImageURL: r.ImageURL,
		Category: r.Category,
		Tags:     r.Tags,
	}
}

// UpdateArticleReq はPATCH /api/articles/:idのリクエストボディです。省略したフィールドは変更しません。
type UpdateArticleReq struct {
	IsRead     *bool     `json:"isRead"`
	IsArchived *bool     `json:"isArchived"`
	Category   *string   `json:"category"`
	Tags       *[]string `json:"tags"`
}

// ToPatch はリクエストをパッチに変換します。
func (r UpdateArticleReq) ToPatch() entity.Patch {
	return entity.Patch{IsRead: r.IsRead, IsArchived: r.IsArchived, Category: r.Category, Tags: r.Tags}
}
