// Package config loads runtime configuration from the environment, with a
// .env file picked up in development via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the tunables that rarely change between deployments.
const (
	DefaultSessionTTL    = 24 * time.Hour
	DefaultMaxUploadSize = 10 << 20 // 10 MiB
	DefaultNotifyQueue   = 256
)

// Config carries everything main needs to wire the process.
type Config struct {
	Env      string
	HTTPAddr string

	PostgresDSN string
	RedisAddr   string
	RedisDB     int

	UploadDir     string
	MaxUploadSize int64

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	TelegramToken  string
	TelegramChatID int64

	JWTSecret   []byte
	SessionTTL  time.Duration
	FrontendURL string

	AdminEmail    string
	AdminPassword string
}

// Load reads the environment.
func Load() (*Config, error) {
	// A missing .env just means the deployment sets real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		Env:           getenv("APP_ENV", "dev"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		UploadDir:     getenv("UPLOAD_DIR", "uploads"),
		MaxUploadSize: DefaultMaxUploadSize,
		SMTPHost:      getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      587,
		SMTPUser:      os.Getenv("EMAIL_USER"),
		SMTPPass:      os.Getenv("EMAIL_PASS"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		JWTSecret:     []byte(getenv("JWT_SECRET", "secret_key")),
		SessionTTL:    DefaultSessionTTL,
		FrontendURL:   getenv("FRONTEND_URL", "http://localhost:5173"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@gmail.com"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
	}
	cfg.MailFrom = getenv("MAIL_FROM", cfg.SMTPUser)

	cfg.PostgresDSN = fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getenv("DB_HOST", "localhost"),
		getenv("DB_USER", "user"),
		getenv("DB_PASSWORD", "password"),
		getenv("DB_NAME", "civictrackdb"),
		getenv("DB_PORT", "5432"),
	)

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = n
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", v, err)
		}
		cfg.SMTPPort = n
	}
	if v := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID %q: %w", v, err)
		}
		cfg.TelegramChatID = n
	}
	if v := os.Getenv("MAX_UPLOAD_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE %q: %w", v, err)
		}
		cfg.MaxUploadSize = n
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
