package di

import (
	"context"
	"log/slog"
	"time"

	"zaitan_backend/internal/feature/articles/adapters/snapshot"
	articleusecase "zaitan_backend/internal/feature/articles/usecase"
	authusecase "zaitan_backend/internal/feature/auth/usecase"
	"zaitan_backend/internal/feature/subscription/adapters/stripegw"
	"zaitan_backend/internal/feature/summary/adapters/gemini"
	summaryusecase "zaitan_backend/internal/feature/summary/usecase"
	"zaitan_backend/internal/platform/config"
	"zaitan_backend/internal/platform/externalapi/wechat"
	infrahttp "zaitan_backend/internal/platform/http"
)

const (
	wechatTimeout = 10 * time.Second
	geminiTimeout = 30 * time.Second
	stripeTimeout = 20 * time.Second

	providerGemini = "gemini"
)

// NewWeChatClient returns nil when WeChat credentials are missing, so WeChat login fails fast.
func NewWeChatClient(cfg *config.Config) authusecase.WeChatClient {
	wcfg := wechat.Config{
		AppID:   cfg.WeChatAppID,
		Secret:  cfg.WeChatSecret,
		BaseURL: cfg.WeChatBaseURL,
		Timeout: wechatTimeout,
	}
	if !wcfg.Enabled() {
		slog.Warn("WECHAT_APPID or WECHAT_SECRET not set; wechat login disabled")
		return nil
	}
	return wechat.NewClient(wcfg, infrahttp.NewHTTPClient(wcfg.Timeout))
}

// NewSummaryGenerator returns the Gemini generator when selected and configured.
// A nil Generator makes summaries fall back to the local extractive summary.
func NewSummaryGenerator(ctx context.Context, cfg *config.Config) summaryusecase.Generator {
	if cfg.SummaryProvider != providerGemini {
		slog.Info("using local summaries", "provider", cfg.SummaryProvider)
		return nil
	}
	if cfg.GeminiAPIKey == "" {
		slog.Warn("SUMMARY_PROVIDER=gemini but GEMINI_API_KEY is not set; using local summaries")
		return nil
	}

	g, err := gemini.NewGeminiGenerator(ctx, gemini.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	}, infrahttp.NewHTTPClient(geminiTimeout))
	if err != nil {
		slog.Error("gemini client init failed; using local summaries", "error", err)
		return nil
	}
	slog.Info("using gemini summaries", "model", cfg.GeminiModel)
	return g
}

// NewPaymentGateway creates the Stripe gateway. Missing keys surface as request-time errors.
func NewPaymentGateway(cfg *config.Config) *stripegw.Gateway {
	if cfg.StripeSecretKey == "" {
		slog.Warn("STRIPE_SECRET_KEY is not set; checkout and cancel will fail")
	}
	return stripegw.NewGateway(stripegw.Config{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
	}, infrahttp.NewHTTPClient(stripeTimeout))
}

// NewSnapshotStore returns nil when no bucket is configured or the client cannot be built.
func NewSnapshotStore(ctx context.Context, cfg *config.Config) articleusecase.SnapshotStore {
	if cfg.SnapshotBucket == "" {
		return nil
	}
	s, err := snapshot.NewS3Store(ctx, snapshot.Config{
		Bucket:    cfg.SnapshotBucket,
		Region:    cfg.AWSRegion,
		Endpoint:  cfg.SnapshotEndpoint,
		AccessKey: cfg.SnapshotAccessKey,
		SecretKey: cfg.SnapshotSecretKey,
	})
	if err != nil {
		slog.Error("snapshot store init failed; snapshots disabled", "error", err)
		return nil
	}
	slog.Info("archiving page snapshots", "bucket", cfg.SnapshotBucket)
	return s
}
