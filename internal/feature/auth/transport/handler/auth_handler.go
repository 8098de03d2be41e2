// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"zaitan_backend/internal/api"
	"zaitan_backend/internal/feature/auth/transport/http/dto"
	"zaitan_backend/internal/feature/auth/usecase"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// SendCode は認証コードを発行します。開発環境ではコードを返します。
	SendCode(ctx context.Context, phone string) (string, error)
	// LoginWithPhone はコードを検証し、トークンとユーザーを返します。
	LoginWithPhone(ctx context.Context, phone, code string) (*usecase.LoginResult, error)
	// LoginWithWeChat はWeChat認可コードでログインします。
	LoginWithWeChat(ctx context.Context, code string) (*usecase.LoginResult, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// SendCode は認証コード送信APIエンドポイントを処理します。
// - 電話番号の形式が不正な場合は400を返却
// - SMS送信失敗時は500を返却
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req dto.SendCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("send-code validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	code, err := h.auth.SendCode(c.Request.Context(), req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrSMSFailed):
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("send-code failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.SendCodeRes{Success: true, Message: "验证码已发送", Code: code})
}

// Login は電話番号ログインAPIエンドポイントを処理します。
// 未登録の電話番号の場合はユーザーを作成します。
// - コードが不正または期限切れの場合は400を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	res, err := h.auth.LoginWithPhone(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		h.loginFailed(c, err)
		return
	}
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginRes{Success: true, Token: res.Token, User: dto.NewUserRes(res.User)})
}

// WeChat はWeChatログインAPIエンドポイントを処理します。
func (h *AuthHandler) WeChat(c *gin.Context) {
	var req dto.WeChatLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("wechat login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	res, err := h.auth.LoginWithWeChat(c.Request.Context(), req.Code)
	if err != nil {
		h.loginFailed(c, err)
		return
	}
	slog.Info("wechat login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginRes{Success: true, Token: res.Token, User: dto.NewUserRes(res.User)})
}

func (h *AuthHandler) loginFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidPhone),
		errors.Is(err, usecase.ErrInvalidCode),
		errors.Is(err, usecase.ErrWeChatAuthFailed):
		slog.Warn("login rejected", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}
