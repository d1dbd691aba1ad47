package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPListenAddr string
	DatabaseURL    string

	// WhatsApp Business (Cloud API) webhook + sender.
	VerifyToken           string
	WhatsAppToken         string
	WhatsAppPhoneNumberID string
	GraphAPIBaseURL       string

	// Optional personal-WhatsApp channel (whatsmeow device store).
	WhatsAppStorePath string

	// Optional Telegram channel.
	TelegramBotToken string

	// Admin API.
	JWTSecret     string
	AdminUsername string
	AdminPassword string

	// Optional Redis for inbound webhook dedup.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load returns configuration populated from environment variables with fallbacks.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:                getenvDefault("APP_ENV", "development"),
		LogLevel:              getenvDefault("LOG_LEVEL", "info"),
		HTTPListenAddr:        getenvDefault("HTTP_LISTEN_ADDR", ":8080"),
		DatabaseURL:           trimmedEnv("DATABASE_URL"),
		VerifyToken:           trimmedEnv("VERIFY_TOKEN"),
		WhatsAppToken:         trimmedEnv("WHATSAPP_TOKEN"),
		WhatsAppPhoneNumberID: trimmedEnv("WHATSAPP_PHONE_NUMBER_ID"),
		GraphAPIBaseURL:       getenvDefault("GRAPH_API_BASE_URL", "https://graph.facebook.com/v18.0"),
		WhatsAppStorePath:     getenvDefault("WHATSAPP_STORE_PATH", "data/wa-store.db"),
		TelegramBotToken:      trimmedEnv("TELEGRAM_BOT_TOKEN"),
		JWTSecret:             trimmedEnv("JWT_SECRET"),
		AdminUsername:         getenvDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:         trimmedEnv("ADMIN_PASSWORD"),
		RedisAddr:             trimmedEnv("REDIS_ADDR"),
		RedisPassword:         trimmedEnv("REDIS_PASSWORD"),
	}

	if redisDBStr := getenvDefault("REDIS_DB", "0"); redisDBStr != "" {
		db, err := strconv.Atoi(redisDBStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
		}
		cfg.RedisDB = db
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.VerifyToken == "" {
		return nil, fmt.Errorf("VERIFY_TOKEN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg.GraphAPIBaseURL = strings.TrimRight(cfg.GraphAPIBaseURL, "/")

	return cfg, nil
}

// WhatsAppConfigured reports whether the Cloud API sender can be used.
// A placeholder token (the .env template ships "your_..." values) counts
// as unconfigured, matching the send-side warning behavior.
func (c *Config) WhatsAppConfigured() bool {
	return c.WhatsAppToken != "" && !strings.HasPrefix(c.WhatsAppToken, "your_") && c.WhatsAppPhoneNumberID != ""
}

func getenvDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func trimmedEnv(key string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return ""
}
