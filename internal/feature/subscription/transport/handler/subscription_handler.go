// Package handler はsubscriptionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"zaitan_backend/internal/api"
	"zaitan_backend/internal/feature/subscription/domain/entity"
	"zaitan_backend/internal/feature/subscription/transport/http/dto"
	"zaitan_backend/internal/feature/subscription/usecase"
	jwtmw "zaitan_backend/internal/platform/jwt"
)

// SignatureHeader はStripeがWebhookの署名を載せるヘッダーです。
const SignatureHeader = "Stripe-Signature"

// maxWebhookBody はWebhookのリクエストボディの上限です。
const maxWebhookBody = 1 << 16

// SubscriptionUsecase は購読操作のユースケースを定義します。
type SubscriptionUsecase interface {
	Status(ctx context.Context, userID string) (*usecase.StatusView, error)
	Checkout(ctx context.Context, userID, phone string, plan entity.Plan) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	Cancel(ctx context.Context, userID string) error
}

// SubscriptionHandler は購読のHTTPリクエストを処理します。
type SubscriptionHandler struct {
	uc SubscriptionUsecase
}

// NewSubscriptionHandler はSubscriptionHandlerの新しいインスタンスを生成します。
func NewSubscriptionHandler(uc SubscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc}
}

// Status は購読状態を返します。
func (h *SubscriptionHandler) Status(c *gin.Context) {
	v, err := h.uc.Status(c.Request.Context(), jwtmw.UserID(c))
	if err != nil {
		slog.Error("subscription status failed", "error", err, "user_id", jwtmw.UserID(c))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, v)
}

// Create は決済ページを作成します。
// - プランが不正な場合は400、価格IDが未設定の場合は500を返却
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req dto.CheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: usecase.ErrInvalidPlan.Error()})
		return
	}

	url, err := h.uc.Checkout(c.Request.Context(), jwtmw.UserID(c), jwtmw.Phone(c), entity.Plan(req.Plan))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidPlan):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrPriceNotConfigured):
			slog.Error("checkout price missing", "plan", req.Plan)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("checkout failed", "error", err, "user_id", jwtmw.UserID(c))
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create checkout session"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutRes{URL: url})
}

// Webhook は決済サービスからの通知を処理します。
// 署名検証のため、ボディはJSONとして解釈せずそのまま渡します。
func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid payload"})
		return
	}

	if err := h.uc.HandleWebhook(c.Request.Context(), payload, c.GetHeader(SignatureHeader)); err != nil {
		if errors.Is(err, usecase.ErrInvalidSignature) {
			slog.Warn("webhook signature rejected", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "webhook signature verification failed"})
			return
		}
		slog.Error("webhook processing failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "webhook processing failed"})
		return
	}
	c.JSON(http.StatusOK, dto.WebhookRes{Received: true})
}

// Cancel は期間終了時の解約を設定します。
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	if err := h.uc.Cancel(c.Request.Context(), jwtmw.UserID(c)); err != nil {
		if errors.Is(err, usecase.ErrSubscriptionNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("cancel subscription failed", "error", err, "user_id", jwtmw.UserID(c))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to cancel subscription"})
		return
	}
	c.JSON(http.StatusOK, api.SuccessResponse{Success: true})
}
