package di

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"zaitan_backend/internal/app/router"
	articleadapters "zaitan_backend/internal/feature/articles/adapters"
	"zaitan_backend/internal/feature/articles/adapters/extractor"
	"zaitan_backend/internal/feature/articles/adapters/fetcher"
	articlehandler "zaitan_backend/internal/feature/articles/transport/handler"
	articleusecase "zaitan_backend/internal/feature/articles/usecase"
	authadapters "zaitan_backend/internal/feature/auth/adapters"
	authhandler "zaitan_backend/internal/feature/auth/transport/handler"
	authusecase "zaitan_backend/internal/feature/auth/usecase"
	subscriptionadapters "zaitan_backend/internal/feature/subscription/adapters"
	subscriptionhandler "zaitan_backend/internal/feature/subscription/transport/handler"
	subscriptionusecase "zaitan_backend/internal/feature/subscription/usecase"
	summaryhandler "zaitan_backend/internal/feature/summary/transport/handler"
	summaryusecase "zaitan_backend/internal/feature/summary/usecase"
	useradapters "zaitan_backend/internal/feature/user/adapters"
	userhandler "zaitan_backend/internal/feature/user/transport/handler"
	userusecase "zaitan_backend/internal/feature/user/usecase"
	"zaitan_backend/internal/platform/cache"
	"zaitan_backend/internal/platform/config"
	infrahttp "zaitan_backend/internal/platform/http"
	jwtmw "zaitan_backend/internal/platform/jwt"
)

// NewEngine wires repositories, usecases and handlers into a gin engine.
// rdb may be nil; Redis-backed components then fall back to the database or memory.
func NewEngine(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	// Repository
	userRepo := authadapters.NewUserGorm(db)
	articleRepo := articleadapters.NewArticleGorm(db)
	statsRepo := useradapters.NewStatsGorm(db)
	// 購読状態は全リクエストで参照されるためRedisキャッシュでラップ
	subscriptionRepo := cache.NewCachingSubscriptionRepository(rdb, 0, subscriptionadapters.NewSubscriptionGorm(db), "subscription")

	// Usecase
	authUC := authusecase.NewAuthUsecase(
		userRepo,
		NewCodeStore(rdb, db),
		authadapters.LogSMSSender{},
		NewWeChatClient(cfg),
		jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration),
		authusecase.Options{
			CodeTTL:    cfg.CodeTTL,
			BypassCode: cfg.DevBypassCode,
			ExposeCode: cfg.IsDevelopment(),
		},
	)
	summaryUC := summaryusecase.NewSummaryUsecase(NewSummaryGenerator(ctx, cfg))
	articleUC := articleusecase.NewArticleUsecase(
		articleRepo,
		fetcher.New(infrahttp.NewFetchClient(cfg.FetchTimeout, infrahttp.DefaultMaxRedirects)),
		extractor.New(),
		summaryUC,
		NewSnapshotStore(ctx, cfg),
	)
	subscriptionUC := subscriptionusecase.NewSubscriptionUsecase(
		subscriptionRepo,
		NewPaymentGateway(cfg),
		subscriptionusecase.Prices{Monthly: cfg.StripePriceMonthly, Yearly: cfg.StripePriceYearly},
		cfg.FrontendURL,
	)
	userUC := userusecase.NewUserUsecase(userRepo, statsRepo, subscriptionRepo)

	// Handler
	handlers := router.Handlers{
		Auth:         authhandler.NewAuthHandler(authUC),
		Articles:     articlehandler.NewArticleHandler(articleUC),
		AI:           summaryhandler.NewAIHandler(summaryUC),
		Subscription: subscriptionhandler.NewSubscriptionHandler(subscriptionUC),
		User:         userhandler.NewUserHandler(userUC),
	}

	return router.NewRouter(handlers, router.Options{
		JWTSecret:                  cfg.JWTSecret,
		CORSOrigins:                cfg.CORS,
		Verbose:                    cfg.IsDevelopment(),
		Limiter:                    NewRateLimiter(rdb, cfg),
		Entitlements:               subscriptionUC,
		IngestRequiresSubscription: cfg.IngestRequiresSubscription,
	})
}
