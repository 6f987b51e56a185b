package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	AppEnv      string
	CORSOrigins string
	FrontendURL string

	// MongoDB
	MongoURI    string
	MongoDB     string
	DBTimeout   time.Duration
	StoreDriver string

	// Sessions
	SessionDriver string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// Mail
	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string
	MailFrom  string

	// Media
	MediaDriver      string
	MediaCDN         string
	CloudinaryURL    string
	CloudinaryFolder string

	// Search
	SearchMode string

	// Admin
	AdminEmails string

	// Outbound HTTP
	HTTPTimeout time.Duration

	// Rate limits (requests per minute per IP, 0 disables)
	RateLimit     int
	AuthRateLimit int

	// Observability
	LogDBDSN  string
	SentryDSN string
}

// Load reads configuration from the environment. A .env file is honoured
// outside production.
func Load() *Config {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			slog.Warn(".env not loaded", "error", err)
		}
	}

	return &Config{
		Port:        getEnv("PORT", "5000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "swapify"),
		DBTimeout:   parseDuration(getEnv("DB_TIMEOUT", "10s"), 10*time.Second),
		StoreDriver: getEnv("STORE_DRIVER", "mongo"),

		SessionDriver: getEnv("SESSION_DRIVER", "mongo"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0"), 0),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "168h"), 168*time.Hour),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:5000/auth/google/callback"),

		SMTPHost:  getEnv("SMTP_HOST", "smtp.zoho.in"),
		SMTPPort:  parseInt(getEnv("SMTP_PORT", "465"), 465),
		EmailUser: getEnv("EMAIL_USER", ""),
		EmailPass: getEnv("EMAIL_PASS", ""),
		MailFrom:  getEnv("MAIL_FROM", "no-reply@swapify.club"),

		MediaDriver:      getEnv("MEDIA_DRIVER", "cdn"),
		MediaCDN:         getEnv("MEDIACDN", ""),
		CloudinaryURL:    getEnv("CLOUDINARY_URL", ""),
		CloudinaryFolder: getEnv("CLOUDINARY_FOLDER", "swapify/uploads"),

		SearchMode: getEnv("SEARCH_MODE", "regex"),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		HTTPTimeout: parseDuration(getEnv("HTTP_TIMEOUT", "10s"), 10*time.Second),

		RateLimit:     parseInt(getEnv("RATE_LIMIT", "120"), 120),
		AuthRateLimit: parseInt(getEnv("AUTH_RATE_LIMIT", "10"), 10),

		LogDBDSN:  getEnv("LOG_DB_DSN", ""),
		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
