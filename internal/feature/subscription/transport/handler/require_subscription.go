package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"zaitan_backend/internal/api"
	jwtmw "zaitan_backend/internal/platform/jwt"
)

// EntitlementChecker は有料機能を利用できるかを判定します。
type EntitlementChecker interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}

// RequireSubscription は有効な購読を持つユーザーのみを通すGinミドルウェアです。
// jwtmw.AuthRequiredの後に配置します。
func RequireSubscription(checker EntitlementChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := jwtmw.UserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
			return
		}

		active, err := checker.IsActive(c.Request.Context(), userID)
		if err != nil {
			slog.Error("subscription check failed", "error", err, "user_id", userID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
			return
		}
		if !active {
			c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{
				Error: "subscription required",
				Code:  api.CodeSubscriptionRequired,
			})
			return
		}

		c.Next()
	}
}
