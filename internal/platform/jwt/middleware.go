// Package jwtmw issues session tokens and guards routes that require them.
package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"zaitan_backend/internal/api"
)

const (
	// ContextUserID is the gin context key holding the authenticated user id (string).
	ContextUserID = "userID"
	// ContextPhone is the gin context key holding the phone claim, if any.
	ContextPhone = "phone"
)

// AuthRequired returns a Gin middleware that validates bearer tokens signed with secret
// and restricts access to authenticated users only.
func AuthRequired(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		if len(key) == 0 {
			// Server misconfiguration (JWT_SECRET not set)
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Error: "server misconfigured"})
			return
		}

		// 2. Parse and verify signature; only HMAC is accepted
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid token"})
			return
		}

		// 3. Extract claims
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid token"})
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid token"})
			return
		}
		c.Set(ContextUserID, sub)
		if phone, ok := claims["phone"].(string); ok {
			c.Set(ContextPhone, phone)
		}

		c.Next()
	}
}

// UserID returns the authenticated user id set by AuthRequired, or "".
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Phone returns the phone claim set by AuthRequired, or "".
func Phone(c *gin.Context) string {
	return c.GetString(ContextPhone)
}
