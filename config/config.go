package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Port          string
	Environment   string
	PublicBaseURL string

	// Redis configuration
	RedisURL string

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string
	PubNubUserID       string
	PublishTimeout     time.Duration

	// Session configuration
	SessionTTL time.Duration

	// Scan endpoints
	ScanRateLimit  int
	ScanRateWindow time.Duration

	// Redemption
	CashPaymentPattern string
	FingerprintSecret  string

	// Reports
	ReportTimezone string

	// Uploads
	MaxImageBytes int64

	// Monitoring
	EnableMetrics bool
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:          getEnv("PORT", "8090"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8090"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "localhost:6379"),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),
		PubNubUserID:       getEnv("PUBNUB_USER_ID", "partner-portal"),
		PublishTimeout:     getEnvAsDuration("PUBLISH_TIMEOUT", "5s"),

		// Session
		SessionTTL: getEnvAsDuration("SESSION_TTL", "12h"),

		// Scan
		ScanRateLimit:  getEnvAsInt("SCAN_RATE_LIMIT", 60),
		ScanRateWindow: getEnvAsDuration("SCAN_RATE_WINDOW", "1m"),

		// Redemption
		CashPaymentPattern: getEnv("CASH_PAYMENT_PATTERN", "(?i)cash"),
		FingerprintSecret:  getEnv("FINGERPRINT_SECRET", "change-me"),

		// Reports
		ReportTimezone: getEnv("REPORT_TIMEZONE", "Asia/Amman"),

		// Uploads
		MaxImageBytes: int64(getEnvAsInt("MAX_IMAGE_BYTES", 5<<20)),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}
}

// PubNubEnabled reports whether cross-instance realtime fan-out is configured.
func (c *Config) PubNubEnabled() bool {
	return c.PubNubPublishKey != "" && c.PubNubSubscribeKey != ""
}

// Location returns the time zone used to bucket report dates, UTC when unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		slog.Warn("unknown report timezone, using UTC", "timezone", c.ReportTimezone, "error", err)
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
