// Package handler はarticlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"zaitan_backend/internal/api"
	"zaitan_backend/internal/feature/articles/domain/entity"
	"zaitan_backend/internal/feature/articles/transport/http/dto"
	"zaitan_backend/internal/feature/articles/usecase"
	jwtmw "zaitan_backend/internal/platform/jwt"
)

// ArticleUsecase は記事操作のユースケースを定義します。
type ArticleUsecase interface {
	List(ctx context.Context, userID string, q entity.ListQuery) (*usecase.ListResult, error)
	Create(ctx context.Context, userID string, in usecase.CreateInput) (*entity.Article, error)
	Get(ctx context.Context, userID, id string) (*entity.ArticleView, error)
	Update(ctx context.Context, userID, id string, p entity.Patch) error
	MarkRead(ctx context.Context, userID, id string) error
	Delete(ctx context.Context, userID, id string) error
	ToggleFavorite(ctx context.Context, userID, id string) (bool, error)
	ListFavorites(ctx context.Context, userID string) ([]entity.FavoriteView, error)
}

// ArticleHandler は記事のHTTPリクエストを処理します。すべて認証済みユーザーのスコープで動作します。
type ArticleHandler struct {
	uc ArticleUsecase
}

// NewArticleHandler はArticleHandlerの新しいインスタンスを生成します。
func NewArticleHandler(uc ArticleUsecase) *ArticleHandler {
	return &ArticleHandler{uc: uc}
}

// List は記事一覧を返します。
//
// エンドポイント例:
// GET /api/articles?page=1&limit=20&search=go&category=技术&isRead=false
func (h *ArticleHandler) List(c *gin.Context) {
	var q dto.ListArticlesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	// 数値でないpage/limitはデフォルト値に丸める
	page, _ := strconv.Atoi(q.Page)
	limit, _ := strconv.Atoi(q.Limit)
	query := entity.ListQuery{Page: page, Limit: limit, Search: q.Search, Category: q.Category}
	switch q.IsRead {
	case "true":
		v := true
		query.IsRead = &v
	case "false":
		v := false
		query.IsRead = &v
	}

	res, err := h.uc.List(c.Request.Context(), jwtmw.UserID(c), query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListArticlesRes{Articles: res.Articles, Pagination: res.Pagination})
}

// Create はURLを取り込み記事として保存します。
// - URLが不正な場合は400、同じURLを保存済みの場合は409を返却
func (h *ArticleHandler) Create(c *gin.Context) {
	var req dto.CreateArticleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "url is required"})
		return
	}

	a, err := h.uc.Create(c.Request.Context(), jwtmw.UserID(c), req.ToInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateArticleRes{Success: true, Article: a})
}

// Get は記事の詳細を返し、閲覧履歴を記録します。
func (h *ArticleHandler) Get(c *gin.Context) {
	view, err := h.uc.Get(c.Request.Context(), jwtmw.UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Update は記事を部分更新します。
func (h *ArticleHandler) Update(c *gin.Context) {
	var req dto.UpdateArticleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	if err := h.uc.Update(c.Request.Context(), jwtmw.UserID(c), c.Param("id"), req.ToPatch()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.SuccessResponse{Success: true})
}

// MarkRead は記事を既読にします。
func (h *ArticleHandler) MarkRead(c *gin.Context) {
	if err := h.uc.MarkRead(c.Request.Context(), jwtmw.UserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.SuccessResponse{Success: true})
}

// Delete は記事を削除します。
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.uc.Delete(c.Request.Context(), jwtmw.UserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.SuccessResponse{Success: true})
}

// ToggleFavorite はお気に入り状態を切り替えます。
func (h *ArticleHandler) ToggleFavorite(c *gin.Context) {
	on, err := h.uc.ToggleFavorite(c.Request.Context(), jwtmw.UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToggleFavoriteRes{Success: true, IsFavorited: on})
}

// ListFavorites はお気に入り一覧を返します。
func (h *ArticleHandler) ListFavorites(c *gin.Context) {
	favs, err := h.uc.ListFavorites(c.Request.Context(), jwtmw.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FavoritesRes{Favorites: favs})
}

// fail はユースケースのエラーをHTTPステータスに変換します。
func (h *ArticleHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidURL):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "article not found"})
	case errors.Is(err, usecase.ErrDuplicateArticle):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "article already saved"})
	case errors.Is(err, usecase.ErrFetchFailed):
		slog.Error("article ingestion failed", "error", err, "user_id", jwtmw.UserID(c))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: usecase.ErrFetchFailed.Error()})
	default:
		slog.Error("article request failed", "error", err, "user_id", jwtmw.UserID(c), "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}
