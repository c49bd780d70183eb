package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string // Frontend origin, used for checkout/portal return URLs and email links
	Port         string
	SupportEmail string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Identity provider (bearer tokens are issued externally)
	AuthURL       string // Optional: provider base URL for remote token validation
	AuthAnonKey   string
	AuthJWTSecret string // Optional: enables local HS256 verification

	// Payment - Stripe
	StripeSecretKey string
	// Currency -> price ID. Only currencies present here can be checked out.
	StripePriceIDs map[string]string

	// Support chat (Stream)
	StreamAPIKey       string
	StreamAPISecret    string
	StreamBaseURL      string
	StreamSupportAgent string
	StreamTokenTTL     time.Duration // Lifetime of chat user tokens

	// Email (optional, report-ready notifications)
	EmailFrom    string
	ResendAPIKey string
	EmailLogOnly bool // Log emails instead of sending them

	// Observability (optional)
	SentryDSN string

	// Storage (optional; report artifacts are skipped when S3Bucket is empty)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services (MinIO, R2, etc.)
	S3PresignExpiry time.Duration // Expiry for artifact download links

	// HTTP
	SupportRateLimit      int // Support token requests per minute per IP
	SupportRateLimitBurst int
	HTTPClientTimeout     time.Duration // Outbound calls to identity and chat providers
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "Medtrack"),
		AppEnv:       envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:       envString("APP_URL", "http://localhost:5173"),
		Port:         envString("PORT", "8090"),
		SupportEmail: envString("SUPPORT_EMAIL", "support@example.com"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/medtrack.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Identity
		AuthURL:       strings.TrimSuffix(envString("AUTH_URL", ""), "/"),
		AuthAnonKey:   envString("AUTH_ANON_KEY", ""),
		AuthJWTSecret: envString("AUTH_JWT_SECRET", ""),

		// Payment
		StripeSecretKey: envString("STRIPE_SECRET_KEY", ""),
		StripePriceIDs:  envPriceIDs("STRIPE_PRICE_ID_", "usd", "eur"),

		// Support chat
		StreamAPIKey:       envString("STREAM_API_KEY", ""),
		StreamAPISecret:    envString("STREAM_API_SECRET", ""),
		StreamBaseURL:      strings.TrimSuffix(envString("STREAM_BASE_URL", "https://chat.stream-io-api.com"), "/"),
		StreamSupportAgent: envString("STREAM_SUPPORT_AGENT", "support"),
		StreamTokenTTL:     envDuration("STREAM_TOKEN_TTL", 1*time.Hour),

		// Email
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),
		EmailLogOnly: envBool("EMAIL_LOG_ONLY", envString("APP_ENV", "development") == "development"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),

		// HTTP
		SupportRateLimit:      envInt("SUPPORT_RATE_LIMIT", 10),
		SupportRateLimitBurst: envInt("SUPPORT_RATE_LIMIT_BURST", 3),
		HTTPClientTimeout:     envDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures the identity and billing integrations are configured.
// Development tolerates missing keys so the stores can be exercised locally.
func validateProduction(cfg *Config) {
	if cfg.AuthJWTSecret == "" && cfg.AuthURL == "" {
		slog.Error("production deployment requires AUTH_JWT_SECRET or AUTH_URL")
		os.Exit(1)
	}
	if cfg.StripeSecretKey == "" {
		slog.Error("production deployment requires STRIPE_SECRET_KEY",
			"hint", "set APP_ENV=development to run without billing")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envPriceIDs reads one price ID per supported currency, e.g. STRIPE_PRICE_ID_USD.
// Currencies without a configured price are left out of the map.
func envPriceIDs(prefix string, currencies ...string) map[string]string {
	prices := make(map[string]string, len(currencies))
	for _, currency := range currencies {
		id := envString(prefix+strings.ToUpper(currency), "")
		if id != "" {
			prices[currency] = id
		}
	}
	return prices
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// StorageEnabled reports whether report artifacts should be rendered and uploaded.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}
