// Package entity defines the domain entities for the auth feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account created on first login via phone or WeChat.
// The two login channels are independent: a user row holds one or the other,
// and nothing merges them.
type User struct {
	// ID is a UUID assigned on create.
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// Phone is the mainland mobile number used for code login. Unique when set.
	Phone *string `gorm:"uniqueIndex;size:20" json:"phone"`

	// WeChatOpenID identifies the user on the WeChat open platform. Unique when set.
	WeChatOpenID *string `gorm:"column:wechat_open_id;uniqueIndex;size:64" json:"-"`

	// WeChatUnionID is the cross-app WeChat identity, when WeChat returns one.
	WeChatUnionID *string `gorm:"column:wechat_union_id;size:64" json:"-"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Avatar string `gorm:"size:512" json:"avatar"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PhoneNumber returns the phone or "" for WeChat-only users.
func (u *User) PhoneNumber() string {
	if u.Phone == nil {
		return ""
	}
	return *u.Phone
}
