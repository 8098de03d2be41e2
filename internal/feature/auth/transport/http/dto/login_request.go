package dto

import "zaitan_backend/internal/feature/auth/domain/entity"

// LoginReq は/loginエンドポイントのリクエストボディを表します。
type LoginReq struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required,len=6"`
}

// WeChatLoginReq は/wechatエンドポイントのリクエストボディを表します。
type WeChatLoginReq struct {
	Code string `json:"code" binding:"required"`
}

// UserRes はクライアントに返すユーザー情報です。
type UserRes struct {
	ID     string  `json:"id"`
	Phone  *string `json:"phone"`
	Name   string  `json:"name"`
	Avatar string  `json:"avatar"`
}

// LoginRes はログイン成功時のレスポンスです。
type LoginRes struct {
	Success bool    `json:"success"`
	Token   string  `json:"token"`
	User    UserRes `json:"user"`
}

// NewUserRes はエンティティからレスポンスを組み立てます。
func NewUserRes(u *entity.User) UserRes {
	return UserRes{ID: u.ID, Phone: u.Phone, Name: u.Name, Avatar: u.Avatar}
}
