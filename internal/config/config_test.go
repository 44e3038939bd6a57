package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"GEMINI_API_KEY", "TELEGRAM_BOT_TOKEN", "LOG_LEVEL", "DEBUG",
		"PREFER_IPV4", "WEB_ADDR", "MAX_CONCURRENT", "MEDIA_GROUP_DEBOUNCE_MS",
		"REQUEST_TIMEOUT_SECONDS", "HTTP_TIMEOUT_SECONDS", "GENERATE_INTERVAL_MS",
		"GEMINI_BASE_URL", "GEMINI_API_VERSION", "GEMINI_IMAGE_MODEL", "GEMINI_TEXT_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Empty(t, cfg.TelegramToken)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
	assert.True(t, cfg.PreferIPv4)
	assert.Equal(t, ":8080", cfg.WebAddr)
	assert.Equal(t, 4, cfg.MaxConcurrent)
	assert.Equal(t, 1200*time.Millisecond, cfg.MediaGroupDebounce)
	assert.Equal(t, 240*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 180*time.Second, cfg.HTTPTimeout)
	assert.Zero(t, cfg.GenerateInterval)
	assert.Equal(t, "https://generativelanguage.googleapis.com", cfg.GeminiBaseURL)
	assert.Equal(t, "v1beta", cfg.GeminiAPIVersion)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.ImageModel)
	assert.Equal(t, "gemini-2.5-flash", cfg.TextModel)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "  padded-key  ")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("MAX_CONCURRENT", "8")
	t.Setenv("GENERATE_INTERVAL_MS", "1500")
	t.Setenv("GEMINI_IMAGE_MODEL", "custom-image-model")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "padded-key", cfg.GeminiAPIKey)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, "debug", cfg.LogLevel, "level is normalized to lower case")
	assert.Equal(t, 8, cfg.MaxConcurrent)
	assert.Equal(t, 1500*time.Millisecond, cfg.GenerateInterval)
	assert.Equal(t, "custom-image-model", cfg.ImageModel)
}

func TestLoadClampsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("MAX_CONCURRENT", "0")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "-5")
	t.Setenv("GENERATE_INTERVAL_MS", "-100")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.MaxConcurrent)
	assert.Equal(t, 240*time.Second, cfg.RequestTimeout)
	assert.Zero(t, cfg.GenerateInterval)
	assert.Equal(t, 180*time.Second, cfg.HTTPTimeout, "unparseable values fall back to defaults")
}
