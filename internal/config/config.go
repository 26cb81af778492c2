package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	JWTSecret  string
	SessionTTL time.Duration
	RedisAddr  string
	RedisPass  string

	EncryptionKey string

	GeminiAPIKey string
	GeminiModel  string

	NewsFeedURLs  []string
	TaxConfigPath string

	ForecastNoiseSeed uint64
	SeedDemoData      bool

	SMTPHost          string
	SMTPPort          string
	SMTPUsername      string
	SMTPPassword      string
	SenderEmail       string
	RunwayAlertMonths float64

	RateLimitPerMinute int
}

// NewConfig loads configuration from environment variables. A .env file in
// the working directory is read first when present; real environment wins.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBConn:        getEnv("DB_CONN", ""),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPass:     getEnv("REDIS_PASSWORD", ""),
		EncryptionKey: getEnv("ENCRYPTION_KEY", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", ""),
		TaxConfigPath: getEnv("TAX_CONFIG_PATH", ""),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SenderEmail:   getEnv("SENDER_EMAIL", "alerts@cfo.ai"),
	}

	for _, u := range strings.Split(getEnv("NEWS_FEED_URLS", ""), ",") {
		if u = strings.TrimSpace(u); u != "" {
			cfg.NewsFeedURLs = append(cfg.NewsFeedURLs, u)
		}
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "24h")); err != nil || cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be a positive duration")
	}
	if cfg.ForecastNoiseSeed, err = strconv.ParseUint(getEnv("FORECAST_NOISE_SEED", "0"), 10, 64); err != nil {
		return nil, fmt.Errorf("FORECAST_NOISE_SEED must be an unsigned integer: %w", err)
	}
	if cfg.SeedDemoData, err = strconv.ParseBool(getEnv("SEED_DEMO_DATA", "true")); err != nil {
		return nil, fmt.Errorf("SEED_DEMO_DATA must be a boolean: %w", err)
	}
	if cfg.RunwayAlertMonths, err = strconv.ParseFloat(getEnv("RUNWAY_ALERT_MONTHS", "6"), 64); err != nil || cfg.RunwayAlertMonths < 0 {
		return nil, fmt.Errorf("RUNWAY_ALERT_MONTHS must be a non-negative number")
	}
	if cfg.RateLimitPerMinute, err = strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "30")); err != nil || cfg.RateLimitPerMinute <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be a positive integer")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := cfg.EncryptionKeyBytes(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EncryptionKeyBytes decodes ENCRYPTION_KEY into a 32-byte AES key
func (c *Config) EncryptionKeyBytes() ([]byte, error) {
	key, err := hex.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// EmailEnabled reports whether SMTP settings are present
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
