package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaitan_backend/internal/api"
	"zaitan_backend/internal/shared/ratelimiter"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type mockLimiter struct {
	AllowFunc func(ctx context.Context, key string) (ratelimiter.Result, error)
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (ratelimiter.Result, error) {
	return m.AllowFunc(ctx, key)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		result        ratelimiter.Result
		err           error
		wantStatus    int
		wantRemaining string
		wantRetry     string
	}{
		{
			name:          "allowed",
			result:        ratelimiter.Result{Allowed: true, Limit: 10, Remaining: 9},
			wantStatus:    http.StatusOK,
			wantRemaining: "9",
		},
		{
			name:          "blocked",
			result:        ratelimiter.Result{Allowed: false, Limit: 10, Remaining: 0, RetryAfter: 1500 * time.Millisecond},
			wantStatus:    http.StatusTooManyRequests,
			wantRemaining: "0",
			wantRetry:     "2",
		},
		{
			name:       "limiter error fails open",
			err:        errors.New("redis down"),
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotKey string
			l := &mockLimiter{AllowFunc: func(_ context.Context, key string) (ratelimiter.Result, error) {
				gotKey = key
				return tt.result, tt.err
			}}

			r := gin.New()
			r.POST("/x", RateLimit(l, "login"), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/x", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "login:10.0.0.1", gotKey)
			assert.Equal(t, tt.wantRemaining, w.Header().Get("X-RateLimit-Remaining"))
			assert.Equal(t, tt.wantRetry, w.Header().Get("Retry-After"))

			if tt.wantStatus == http.StatusTooManyRequests {
				var body api.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, api.CodeRateLimited, body.Code)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		verbose     bool
		wantDetails string
	}{
		{"production hides details", false, ""},
		{"development shows details", true, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := gin.New()
			r.Use(Recovery(tt.verbose))
			r.GET("/panic", func(*gin.Context) { panic("boom") })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			var body api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "internal server error", body.Error)
			assert.Equal(t, tt.wantDetails, body.Details)
		})
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.NoRoute(NotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, w.Body.String())
}
