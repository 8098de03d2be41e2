// Package handler はuserフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"zaitan_backend/internal/api"
	authentity "zaitan_backend/internal/feature/auth/domain/entity"
	authusecase "zaitan_backend/internal/feature/auth/usecase"
	"zaitan_backend/internal/feature/user/transport/http/dto"
	"zaitan_backend/internal/feature/user/usecase"
	jwtmw "zaitan_backend/internal/platform/jwt"
)

// UserUsecase はプロフィールと統計のユースケースを定義します。
type UserUsecase interface {
	Me(ctx context.Context, userID string) (*usecase.Profile, error)
	Stats(ctx context.Context, userID string) (*usecase.Stats, error)
	UpdateProfile(ctx context.Context, userID string, name, avatar *string) (*authentity.User, error)
}

// UserHandler はユーザー情報のHTTPリクエストを処理します。
type UserHandler struct {
	uc UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Me はログイン中のユーザー情報を返します。
// - ユーザーが存在しない場合は404を返却
func (h *UserHandler) Me(c *gin.Context) {
	p, err := h.uc.Me(c.Request.Context(), jwtmw.UserID(c))
	if err != nil {
		h.fail(c, "get me failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMeRes(p))
}

// Stats は読書統計を返します。
func (h *UserHandler) Stats(c *gin.Context) {
	s, err := h.uc.Stats(c.Request.Context(), jwtmw.UserID(c))
	if err != nil {
		h.fail(c, "get stats failed", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateProfile は名前とアバターを更新します。
// - 入力が不正な場合は400を返却
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	u, err := h.uc.UpdateProfile(c.Request.Context(), jwtmw.UserID(c), req.Name, req.Avatar)
	if err != nil {
		h.fail(c, "update profile failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileRes(u))
}

func (h *UserHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidName), errors.Is(err, usecase.ErrInvalidAvatar):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, authusecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
	default:
		slog.Error(msg, "error", err, "user_id", jwtmw.UserID(c))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}
