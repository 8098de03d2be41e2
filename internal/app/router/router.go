// Package router はHTTPルーティングを組み立てます。
package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	articlehandler "zaitan_backend/internal/feature/articles/transport/handler"
	authhandler "zaitan_backend/internal/feature/auth/transport/handler"
	subscriptionhandler "zaitan_backend/internal/feature/subscription/transport/handler"
	summaryhandler "zaitan_backend/internal/feature/summary/transport/handler"
	userhandler "zaitan_backend/internal/feature/user/transport/handler"
	"zaitan_backend/internal/platform/http/handler"
	"zaitan_backend/internal/platform/http/middleware"
	jwtmw "zaitan_backend/internal/platform/jwt"
	"zaitan_backend/internal/shared/ratelimiter"
)

// Handlers はルーターに登録する各フィーチャーのハンドラーです。
type Handlers struct {
	Auth         *authhandler.AuthHandler
	Articles     *articlehandler.ArticleHandler
	AI           *summaryhandler.AIHandler
	Subscription *subscriptionhandler.SubscriptionHandler
	User         *userhandler.UserHandler
}

// Options はミドルウェアの設定です。
type Options struct {
	JWTSecret   string
	CORSOrigins []string
	// Verbose はパニック時にエラー詳細をレスポンスへ含めます（開発環境用）。
	Verbose bool
	// Limiter はsend-codeとloginに適用されます。
	Limiter      ratelimiter.Limiter
	Entitlements subscriptionhandler.EntitlementChecker
	// IngestRequiresSubscription が true の場合、記事追加にも購読を要求します。
	IngestRequiresSubscription bool
}

// corsConfig はoriginsが空の場合すべてのオリジンを許可します。
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	// CORS_ORIGINS= のような空指定も全許可として扱う
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowed
	}
	return cfg
}

// NewRouter はすべてのAPIルートを登録したgin.Engineを生成します。
func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), middleware.Recovery(opts.Verbose))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	// 認証不要
	// 導通確認用
	r.GET("/health", handler.Health)
	r.HEAD("/health", handler.Health)

	authRequired := jwtmw.AuthRequired(opts.JWTSecret)
	subscribed := subscriptionhandler.RequireSubscription(opts.Entitlements)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/send-code", middleware.RateLimit(opts.Limiter, "send-code"), h.Auth.SendCode)
		auth.POST("/login", middleware.RateLimit(opts.Limiter, "login"), h.Auth.Login)
		auth.POST("/wechat", h.Auth.WeChat)
		auth.GET("/me", authRequired, h.User.Me)
	}

	articles := api.Group("/articles", authRequired)
	{
		articles.GET("", h.Articles.List)
		if opts.IngestRequiresSubscription {
			articles.POST("", subscribed, h.Articles.Create)
		} else {
			articles.POST("", h.Articles.Create)
		}
		articles.GET("/favorites/list", h.Articles.ListFavorites)
		articles.GET("/:id", h.Articles.Get)
		articles.PATCH("/:id", h.Articles.Update)
		articles.PATCH("/:id/read", h.Articles.MarkRead)
		articles.DELETE("/:id", h.Articles.Delete)
		articles.POST("/:id/favorite", h.Articles.ToggleFavorite)
	}

	// Stripeからのコールバックは署名で検証する
	api.POST("/subscription/webhook", h.Subscription.Webhook)
	subscription := api.Group("/subscription", authRequired)
	{
		subscription.GET("", h.Subscription.Status)
		subscription.POST("/create", h.Subscription.Create)
		subscription.POST("/cancel", h.Subscription.Cancel)
	}

	user := api.Group("/user", authRequired)
	{
		user.GET("/stats", h.User.Stats)
		user.PATCH("/profile", h.User.UpdateProfile)
	}

	ai := api.Group("/ai", authRequired, subscribed)
	{
		ai.POST("/summary", h.AI.Summary)
		ai.POST("/ask", h.AI.Ask)
	}

	r.NoRoute(middleware.NotFound)
	return r
}
