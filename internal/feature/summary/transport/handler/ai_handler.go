// Package handler はsummaryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"zaitan_backend/internal/api"
	"zaitan_backend/internal/feature/summary/domain/entity"
	"zaitan_backend/internal/feature/summary/transport/http/dto"
	jwtmw "zaitan_backend/internal/platform/jwt"
)

const defaultTitle = "无标题"

// SummaryUsecase はAI操作のユースケースを定義します。
type SummaryUsecase interface {
	Summarize(ctx context.Context, text, title string) entity.Summary
	Ask(ctx context.Context, content, question string) (string, error)
}

// AIHandler はオンデマンドのAI操作を処理します。ルーター側で購読チェックを挟みます。
type AIHandler struct {
	uc SummaryUsecase
}

// NewAIHandler はAIHandlerの新しいインスタンスを生成します。
func NewAIHandler(uc SummaryUsecase) *AIHandler {
	return &AIHandler{uc: uc}
}

// Summary は本文の要約を返します。
func (h *AIHandler) Summary(c *gin.Context) {
	var req dto.SummaryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "content is required"})
		return
	}
	if req.Title == "" {
		req.Title = defaultTitle
	}

	c.JSON(http.StatusOK, h.uc.Summarize(c.Request.Context(), req.Content, req.Title))
}

// Ask は本文に関する質問に回答します。
func (h *AIHandler) Ask(c *gin.Context) {
	var req dto.AskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "content and question are required"})
		return
	}

	answer, err := h.uc.Ask(c.Request.Context(), req.Content, req.Question)
	if err != nil {
		slog.Error("ai ask failed", "error", err, "user_id", jwtmw.UserID(c))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to generate answer"})
		return
	}
	c.JSON(http.StatusOK, dto.AskRes{Answer: answer})
}
