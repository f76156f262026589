package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PriceFeedURL          string
	DatabaseURL           string
	FeedRetryMax          int
	FeedRetryBaseDelay    time.Duration
	FeedTimeout           time.Duration
	PriceCacheTTL         time.Duration
	RefreshInterval       time.Duration
	HTTPPort              string
	DefaultCurrency       string
	LogFile               string
	LogLevel              slog.Level
	GoogleCredentialsJSON string
	AdminAPIKey           string
	SessionMaxLedgers     int
	SessionIdleTTL        time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		PriceFeedURL:          envOrDefaultWarn("PRICE_FEED_URL", ""),
		DatabaseURL:           envOrDefault("DATABASE_URL", ""),
		FeedRetryMax:          envOrDefaultInt("FEED_RETRY_MAX", 5),
		FeedRetryBaseDelay:    envOrDefaultDuration("FEED_RETRY_BASE_DELAY", 2*time.Second),
		FeedTimeout:           envOrDefaultDuration("FEED_TIMEOUT", 30*time.Second),
		PriceCacheTTL:         envOrDefaultDuration("PRICE_CACHE_TTL", 10*time.Minute),
		RefreshInterval:       envOrDefaultDuration("REFRESH_INTERVAL", 1*time.Hour),
		HTTPPort:              envOrDefault("HTTP_PORT", "8080"),
		DefaultCurrency:       strings.ToUpper(envOrDefault("DEFAULT_CURRENCY", "PKR")),
		LogFile:               envOrDefault("LOG_FILE", ""),
		LogLevel:              envOrDefaultLevel("LOG_LEVEL", slog.LevelInfo),
		GoogleCredentialsJSON: envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
		AdminAPIKey:           envOrDefault("ADMIN_API_KEY", ""),
		SessionMaxLedgers:     envOrDefaultInt("SESSION_MAX_LEDGERS", 10000),
		SessionIdleTTL:        envOrDefaultDuration("SESSION_IDLE_TTL", 24*time.Hour),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

func envOrDefaultLevel(key string, defaultVal slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err != nil {
			slog.Warn("invalid log level env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return level
	}
	return defaultVal
}
