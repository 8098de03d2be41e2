// Package entity defines the domain entities for the articles feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCategory is assigned to articles saved without a category.
const DefaultCategory = "未分类"

// Article is a page saved by one user. (UserID, URL) is unique.
type Article struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:36;not null;uniqueIndex:idx_articles_user_url,priority:1;index:idx_articles_user_created,priority:1" json:"userId"`
	URL    string `gorm:"size:2048;not null;uniqueIndex:idx_articles_user_url,priority:2" json:"url"`

	Title     string   `gorm:"size:512;not null" json:"title"`
	Content   string   `gorm:"type:text" json:"content"`
	Summary   string   `gorm:"type:text" json:"summary"`
	KeyPoints []string `gorm:"serializer:json;type:text" json:"keyPoints"`
	Author    string   `gorm:"size:255" json:"author"`
	Source    string   `gorm:"size:255" json:"source"`
	ImageURL  string   `gorm:"column:image_url;size:2048" json:"imageUrl"`
	ReadTime  int      `gorm:"not null;default:1" json:"readTime"`

	IsRead     bool     `gorm:"not null;default:false" json:"isRead"`
	IsArchived bool     `gorm:"not null;default:false" json:"isArchived"`
	Category   string   `gorm:"size:100;index" json:"category"`
	Tags       []string `gorm:"serializer:json;type:text" json:"tags"`

	CreatedAt time.Time `gorm:"index:idx_articles_user_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (a *Article) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ArticleView is an article as seen by its owner, with the favorite flag resolved.
type ArticleView struct {
	Article
	IsFavorited bool `json:"isFavorited"`
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	IsRead     *bool
	IsArchived *bool
	Category   *string
	Tags       *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.IsRead == nil && p.IsArchived == nil && p.Category == nil && p.Tags == nil
}

// ListQuery filters and paginates an owner's articles.
type ListQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string
	IsRead   *bool
}

// Offset returns the number of rows skipped before the requested page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
