package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	SMTP     SMTPConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// AppConfig identifies the running service.
type AppConfig struct {
	Name    string
	Version string
	Debug   bool
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// SMTPConfig holds relay connection and sender identity settings.
// The relay (kube-mail or Postfix bridge) accepts plaintext IP-authenticated
// submission; no credentials are passed by this service.
type SMTPConfig struct {
	Host        string
	Port        int
	TimeoutSec  int
	FromAddress string
	FromName    string
}

// Addr returns the relay host:port dial address.
func (c SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig holds JWT signing and validation settings.
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
}

// AuthConfig holds the API credential checked by POST /token.
type AuthConfig struct {
	Username string
	Password string
}

// DatabaseConfig holds PostgreSQL settings for the durable history store.
// An empty URL selects the in-memory store.
type DatabaseConfig struct {
	URL string
}

// LoggingConfig holds log level/format and the fine-grained toggles.
type LoggingConfig struct {
	Level            string
	Format           string // json or console
	IncludeRequestID bool
	RedactSensitive  bool // redact query strings and auth headers in request logs
	SMTPDetails      bool // log per-transaction SMTP details (host, recipient count)
	EmailContent     bool // log subject/recipients in send logs; off by default
	SlowRequestMS    int  // requests slower than this are logged at Warn
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "mail-service"),
			Version: getEnv("APP_VERSION", "0.1.0"),
			Debug:   getEnvBool("DEBUG", false),
		},
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080"),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", "kube-mail.kube-mail.svc.cluster.local"),
			Port:        getEnvInt("SMTP_PORT", 25),
			TimeoutSec:  getEnvInt("SMTP_TIMEOUT_SEC", 30),
			FromAddress: getEnv("FROM_EMAIL", "noreply@example.com"),
			FromName:    getEnv("FROM_NAME", "Mail Service"),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-me-in-production"),
			ExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 30),
		},
		Auth: AuthConfig{
			Username: getEnv("API_USERNAME", "admin"),
			Password: getEnv("API_PASSWORD", ""),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Logging: LoggingConfig{
			Level:            getEnv("LOG_LEVEL", "info"),
			Format:           getEnv("LOG_FORMAT", "json"),
			IncludeRequestID: getEnvBool("LOG_INCLUDE_REQUEST_ID", true),
			RedactSensitive:  getEnvBool("LOG_REDACT_SENSITIVE", true),
			SMTPDetails:      getEnvBool("LOG_SMTP_DETAILS", false),
			EmailContent:     getEnvBool("LOG_EMAIL_CONTENT", false),
			SlowRequestMS:    getEnvInt("SLOW_REQUEST_THRESHOLD_MS", 2000),
		},
	}

	if cfg.Auth.Password == "" {
		return nil, fmt.Errorf("API_PASSWORD must be set")
	}
	return cfg, nil
}

// CORSOrigins returns the allowed origins as a list.
func (c ServerConfig) CORSOrigins() []string {
	return splitTrim(c.CORSAllowedOrigins, ",")
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
