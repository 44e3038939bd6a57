package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// GeminiAPIKey is the single required secret. Absence is fatal at
	// startup, never a runtime condition.
	GeminiAPIKey string

	// TelegramToken is only needed by the bot surface; cmd/bot enforces it.
	TelegramToken string

	LogLevel string
	Debug    bool

	PreferIPv4 bool

	WebAddr            string
	MaxConcurrent      int
	MediaGroupDebounce time.Duration
	RequestTimeout     time.Duration
	HTTPTimeout        time.Duration
	GenerateInterval   time.Duration

	GeminiBaseURL    string
	GeminiAPIVersion string
	ImageModel       string
	TextModel        string
}

func Load() (Config, error) {
	cfg := Config{
		LogLevel:           strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:              getEnvBool("DEBUG", false),
		PreferIPv4:         getEnvBool("PREFER_IPV4", true),
		WebAddr:            strings.TrimSpace(getEnv("WEB_ADDR", ":8080")),
		MaxConcurrent:      getEnvInt("MAX_CONCURRENT", 4),
		MediaGroupDebounce: time.Duration(getEnvInt("MEDIA_GROUP_DEBOUNCE_MS", 1200)) * time.Millisecond,
		RequestTimeout:     time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 240)) * time.Second,
		HTTPTimeout:        time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		GenerateInterval:   time.Duration(getEnvInt("GENERATE_INTERVAL_MS", 0)) * time.Millisecond,
		GeminiBaseURL:      strings.TrimSpace(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")),
		GeminiAPIVersion:   strings.TrimSpace(getEnv("GEMINI_API_VERSION", "v1beta")),
		ImageModel:         strings.TrimSpace(getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image")),
		TextModel:          strings.TrimSpace(getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash")),
	}

	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))

	if cfg.GeminiAPIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 240 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.GenerateInterval < 0 {
		cfg.GenerateInterval = 0
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
