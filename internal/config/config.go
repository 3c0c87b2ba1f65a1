package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config keeps runtime settings for the reminder service.
type Config struct {
	TelegramToken string        `koanf:"telegram_token"`
	DatabaseURL   string        `koanf:"database_url"`
	HTTPAddr      string        `koanf:"http_addr"`
	CheckInterval time.Duration `koanf:"check_interval"`
	LogLevel      string        `koanf:"log_level"`
}

// Load builds the configuration from defaults overlaid with REMINDER_*
// environment variables (REMINDER_TELEGRAM_TOKEN, REMINDER_DATABASE_URL,
// REMINDER_HTTP_ADDR, REMINDER_CHECK_INTERVAL, REMINDER_LOG_LEVEL).
func Load() (Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"database_url":   "reminders.db",
		"http_addr":      ":8080",
		"check_interval": "10s",
		"log_level":      "info",
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	envMapper := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "REMINDER_"))
	}
	if err := k.Load(env.Provider("REMINDER_", ".", envMapper), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CheckInterval <= 0 {
		return cfg, fmt.Errorf("check_interval must be positive")
	}
	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("REMINDER_TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}