package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	OAuth    OAuthConfig
	Paystack PaystackConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type PaystackConfig struct {
	SecretKey     string
	WebhookSecret string
	BaseURL       string
	Timeout       time.Duration
}

// Load reads configuration from the environment, loading .env first when present.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8080"),
			Env:          getenv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "wallet:wallet@tcp(localhost:3306)/wallet?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getenvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getenvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			Secret: getenv("JWT_SECRET", "change-me-in-production"),
			Expiry: time.Duration(getenvInt("JWT_EXPIRY_MINUTES", 30)) * time.Minute,
			Issuer: getenv("JWT_ISSUER", "hng-wallet"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
		Paystack: PaystackConfig{
			SecretKey:     os.Getenv("PAYSTACK_SECRET_KEY"),
			WebhookSecret: os.Getenv("PAYSTACK_WEBHOOK_SECRET"),
			BaseURL:       getenv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			Timeout:       15 * time.Second,
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
