package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite links a user to one of their articles. (UserID, ArticleID) is unique.
type Favorite struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_favorites_user_article,priority:1"`
	ArticleID string    `gorm:"size:36;not null;uniqueIndex:idx_favorites_user_article,priority:2;index"`
	CreatedAt time.Time `gorm:"index"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (f *Favorite) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// FavoriteView is a favorited article with the time it was favorited.
type FavoriteView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	ImageURL    string    `json:"imageUrl"`
	ReadTime    int       `json:"readTime"`
	FavoritedAt time.Time `json:"favoritedAt"`
}
