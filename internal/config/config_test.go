package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REMINDER_TELEGRAM_TOKEN", "test-token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test-token", cfg.TelegramToken)
	assert.Equal(t, "reminders.db", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.CheckInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REMINDER_TELEGRAM_TOKEN", "test-token")
	t.Setenv("REMINDER_DATABASE_URL", "/var/lib/reminders.db")
	t.Setenv("REMINDER_CHECK_INTERVAL", "30s")
	t.Setenv("REMINDER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/reminders.db", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Second, cfg.CheckInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("REMINDER_TELEGRAM_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadBadInterval(t *testing.T) {
	t.Setenv("REMINDER_TELEGRAM_TOKEN", "test-token")
	t.Setenv("REMINDER_CHECK_INTERVAL", "0s")

	_, err := Load()
	assert.Error(t, err)
}
