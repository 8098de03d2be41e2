package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReadHistory records when a user last opened an article. (UserID, ArticleID) is unique.
type ReadHistory struct {
	ID         string    `gorm:"primaryKey;size:36"`
	UserID     string    `gorm:"size:36;not null;uniqueIndex:idx_read_histories_user_article,priority:1;index:idx_read_histories_user_last,priority:1"`
	ArticleID  string    `gorm:"size:36;not null;uniqueIndex:idx_read_histories_user_article,priority:2;index"`
	LastReadAt time.Time `gorm:"not null;index:idx_read_histories_user_last,priority:2"`
	CreatedAt  time.Time
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (h *ReadHistory) BeforeCreate(*gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
