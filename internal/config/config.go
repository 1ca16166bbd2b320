package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	AppPort         string `mapstructure:"APP_PORT"`
	Env             string `mapstructure:"ENV"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
	CatalogPath     string `mapstructure:"CATALOG_PATH"`
	DatabasePath    string `mapstructure:"DATABASE_PATH"`
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	RateLimitPerMin int    `mapstructure:"RATE_LIMIT_PER_MIN"`
	CORSOrigins     string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	TrustedProxies  string `mapstructure:"TRUSTED_PROXIES"`

	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GroqAPIKey   string `mapstructure:"GROQ_API_KEY"`

	// Telegram Config
	TelegramBotToken   string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramWebhookURL string `mapstructure:"TELEGRAM_WEBHOOK_URL"`
	TelegramAllowedRaw string `mapstructure:"TELEGRAM_ALLOWED_USER_IDS"`
	AdminTelegramRaw   string `mapstructure:"ADMIN_TELEGRAM_ID"`

	TelegramAllowedUserIDs []int64 `mapstructure:"-"`
	AdminTelegramID        int64   `mapstructure:"-"`
}

var defaults = map[string]any{
	"APP_PORT":                  "8787",
	"ENV":                       "development",
	"LOG_LEVEL":                 "info",
	"CATALOG_PATH":              "",
	"DATABASE_PATH":             "data/dozo.db",
	"JWT_SECRET":                "",
	"RATE_LIMIT_PER_MIN":        100,
	"CORS_ALLOWED_ORIGINS":      "*",
	"TRUSTED_PROXIES":           "",
	"GEMINI_API_KEY":            "",
	"GROQ_API_KEY":              "",
	"TELEGRAM_BOT_TOKEN":        "",
	"TELEGRAM_WEBHOOK_URL":      "",
	"TELEGRAM_ALLOWED_USER_IDS": "",
	"ADMIN_TELEGRAM_ID":         "",
}

// NewFromEnv creates a new Config object from environment variables and an
// optional config.yaml in the working directory or ./config.
func NewFromEnv() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.RateLimitPerMin <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MIN must be positive")
	}

	ids, err := parseIDs(cfg.TelegramAllowedRaw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}
	cfg.TelegramAllowedUserIDs = ids

	if raw := strings.TrimSpace(cfg.AdminTelegramRaw); raw != "" {
		cfg.AdminTelegramID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	return cfg, nil
}

// RequireTelegram checks the settings the Telegram bot cannot run without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	if len(c.TelegramAllowedUserIDs) == 0 {
		return fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS environment variable not set")
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

// TrustedProxyList splits TRUSTED_PROXIES (IPs or CIDRs).
func (c *Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func parseIDs(raw string) ([]int64, error) {
	parts := splitList(raw)
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
