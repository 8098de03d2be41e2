// Package config loads the service configuration from command-line flags and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

const (
	// EnvDevelopment enables development-only behavior (codes echoed in responses, verbose errors).
	EnvDevelopment = "development"
	// EnvProduction is the production environment name.
	EnvProduction = "production"
)

// Config holds every setting the server needs. Each field can be set by flag or env var.
type Config struct {
	// Server
	Port     string   `long:"port" env:"PORT" default:"3000" description:"HTTP server port"`
	AppEnv   string   `long:"app-env" env:"APP_ENV" default:"development" description:"Application environment (development, production)"`
	LogLevel string   `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level (debug, info, warn, error)"`
	CORS     []string `long:"cors-origin" env:"CORS_ORIGINS" env-delim:"," description:"Allowed CORS origins (empty allows all)"`

	// Session tokens
	JWTSecret     string        `long:"jwt-secret" env:"JWT_SECRET" description:"HMAC secret used to sign session tokens"`
	JWTExpiration time.Duration `long:"jwt-expiration" env:"JWT_EXPIRATION" default:"168h" description:"Session token lifetime"`

	// Database
	DBDriver      string `long:"db-driver" env:"DB_DRIVER" default:"postgres" description:"Database driver (postgres, sqlite)"`
	DBHost        string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort        string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser        string `long:"db-user" env:"DB_USER" default:"zaitan" description:"Database user"`
	DBPassword    string `long:"db-password" env:"DB_PASSWORD" description:"Database password"`
	DBName        string `long:"db-name" env:"DB_NAME" default:"zaitan" description:"Database name"`
	DBSSLMode     string `long:"db-sslmode" env:"DB_SSLMODE" default:"disable" description:"PostgreSQL sslmode"`
	SQLitePath    string `long:"sqlite-path" env:"SQLITE_PATH" default:"./zaitan.db" description:"SQLite database file (db-driver=sqlite)"`
	RunMigrations bool   `long:"run-migrations" env:"RUN_MIGRATIONS" description:"Auto-migrate tables on startup"`

	// Redis (optional)
	RedisHost     string `long:"redis-host" env:"REDIS_HOST" description:"Redis host; empty disables Redis"`
	RedisPort     string `long:"redis-port" env:"REDIS_PORT" default:"6379" description:"Redis port"`
	RedisPassword string `long:"redis-password" env:"REDIS_PASSWORD" description:"Redis password"`

	// Verification codes and rate limiting
	CodeTTL         time.Duration `long:"code-ttl" env:"CODE_TTL" default:"5m" description:"Verification code lifetime"`
	DevBypassCode   string        `long:"dev-bypass-code" env:"DEV_BYPASS_CODE" default:"000000" description:"Code that always passes verification; empty disables"`
	RateLimit       int           `long:"rate-limit" env:"RATE_LIMIT" default:"10" description:"Requests allowed per window on auth endpoints"`
	RateLimitWindow time.Duration `long:"rate-limit-window" env:"RATE_LIMIT_WINDOW" default:"1m" description:"Rate limit window"`

	// Ingestion
	FetchTimeout               time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15s" description:"Article fetch timeout"`
	IngestRequiresSubscription bool          `long:"ingest-requires-subscription" env:"INGEST_REQUIRES_SUBSCRIPTION" description:"Require an active subscription to add articles"`
	SnapshotBucket             string        `long:"snapshot-bucket" env:"SNAPSHOT_BUCKET" description:"S3 bucket for raw HTML snapshots; empty disables"`
	AWSRegion                  string        `long:"aws-region" env:"AWS_REGION" default:"ap-east-1" description:"AWS region for the snapshot bucket"`
	SnapshotEndpoint           string        `long:"snapshot-endpoint" env:"SNAPSHOT_ENDPOINT" description:"S3-compatible endpoint URL (e.g. MinIO); empty uses AWS"`
	SnapshotAccessKey          string        `long:"snapshot-access-key" env:"SNAPSHOT_ACCESS_KEY" description:"Static access key for the snapshot endpoint"`
	SnapshotSecretKey          string        `long:"snapshot-secret-key" env:"SNAPSHOT_SECRET_KEY" description:"Static secret key for the snapshot endpoint"`

	// Summaries
	SummaryProvider string `long:"summary-provider" env:"SUMMARY_PROVIDER" default:"local" description:"Summary provider (local, gemini)"`
	GeminiAPIKey    string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key"`
	GeminiModel     string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.5-flash" description:"Gemini model name"`

	// Billing
	StripeSecretKey     string `long:"stripe-secret-key" env:"STRIPE_SECRET_KEY" description:"Stripe API secret key"`
	StripeWebhookSecret string `long:"stripe-webhook-secret" env:"STRIPE_WEBHOOK_SECRET" description:"Stripe webhook signing secret"`
	StripePriceMonthly  string `long:"stripe-price-monthly" env:"STRIPE_PRICE_MONTHLY" description:"Stripe price id of the monthly plan"`
	StripePriceYearly   string `long:"stripe-price-yearly" env:"STRIPE_PRICE_YEARLY" description:"Stripe price id of the yearly plan"`
	FrontendURL         string `long:"frontend-url" env:"FRONTEND_URL" default:"http://localhost:5173" description:"Frontend base URL for checkout redirects"`

	// WeChat
	WeChatAppID   string `long:"wechat-appid" env:"WECHAT_APPID" description:"WeChat open platform app id"`
	WeChatSecret  string `long:"wechat-secret" env:"WECHAT_SECRET" description:"WeChat open platform app secret"`
	WeChatBaseURL string `long:"wechat-base-url" env:"WECHAT_BASE_URL" default:"https://api.weixin.qq.com" description:"WeChat API base URL"`
}

// ErrHelp is returned when the user asked for --help.
var ErrHelp = errors.New("help requested")

// Load parses os.Args and the environment.
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses the given arguments and the environment into a Config.
func LoadArgs(args []string) (*Config, error) {
	var cfg Config

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that flag tags cannot express.
func (c *Config) Validate() error {
	if c.AppEnv != EnvDevelopment && c.AppEnv != EnvProduction {
		return fmt.Errorf("invalid APP_ENV %q", c.AppEnv)
	}
	if c.JWTSecret == "" && !c.IsDevelopment() {
		return errors.New("JWT_SECRET is required outside development")
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.RateLimit <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// PostgresDSN builds the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}
