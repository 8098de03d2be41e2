// Package dto はuserフィーチャーのリクエストとレスポンスを定義します。
package dto

import (
	authentity "zaitan_backend/internal/feature/auth/domain/entity"
	subentity "zaitan_backend/internal/feature/subscription/domain/entity"
	"zaitan_backend/internal/feature/user/usecase"
)

// UpdateProfileReq はプロフィール更新リクエストです。省略したフィールドは変更しません。
type UpdateProfileReq struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// ProfileStats は/meに含まれる件数です。
type ProfileStats struct {
	Articles  int64 `json:"articles"`
	Favorites int64 `json:"favorites"`
}

// MeRes は/api/auth/meのレスポンスです。
type MeRes struct {
	ID           string                  `json:"id"`
	Phone        *string                 `json:"phone"`
	Name         string                  `json:"name"`
	Avatar       string                  `json:"avatar"`
	Subscription *subentity.Subscription `json:"subscription"`
	Stats        ProfileStats            `json:"stats"`
}

// NewMeRes はProfileからMeResを組み立てます。
func NewMeRes(p *usecase.Profile) MeRes {
	return MeRes{
		ID:           p.User.ID,
		Phone:        p.User.Phone,
		Name:         p.User.Name,
		Avatar:       p.User.Avatar,
		Subscription: p.Subscription,
		Stats: ProfileStats{
			Articles:  p.Counts.Articles,
			Favorites: p.Counts.Favorites,
		},
	}
}

// ProfileRes はプロフィール更新後のレスポンスです。
type ProfileRes struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func NewProfileRes(u *authentity.User) ProfileRes {
	return ProfileRes{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
