// Package config loads application settings from the environment.
// File: config/config.go
package config

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go-youth-feed/logger"
)

// Config holds every setting read at startup.
type Config struct {
	AppPort        string
	ApplicationURL string
	Environment    string
	LogDir         string
	TemplatesDir   string

	SessionSecret        string
	SessionEncryptionKey string

	// Gateway is "postgres" or "memory".
	Gateway     string
	DatabaseURL string

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3PublicBaseURL string

	AdminEmails    []string
	MetricsEnabled bool
}

// Load reads .env (if present) then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			logger.Warn.Println("Load: .env file exists but couldn't be loaded:", err)
		}
	}

	appPort := getEnv("APP_PORT", "8080")
	cfg := &Config{
		AppPort:              appPort,
		ApplicationURL:       getEnv("APPLICATION_URL", "http://localhost:"+appPort),
		Environment:          getEnv("ENVIRONMENT", "development"),
		LogDir:               getEnv("LOG_DIR", "./logs"),
		TemplatesDir:         getEnv("TEMPLATES_DIR", "templates"),
		SessionSecret:        getEnv("SESSION_SECRET", ""),
		SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", ""),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		S3Bucket:             getEnv("S3_BUCKET", "feeds"),
		S3Region:             getEnv("S3_REGION", "ap-northeast-2"),
		S3Endpoint:           getEnv("S3_ENDPOINT", ""),
		S3PublicBaseURL:      getEnv("S3_PUBLIC_BASE_URL", ""),
		AdminEmails:          splitList(getEnv("ADMIN_EMAILS", "")),
		MetricsEnabled:       getEnv("METRICS_ENABLED", "false") == "true",
	}

	cfg.Gateway = getEnv("GATEWAY", "")
	if cfg.Gateway == "" {
		if cfg.DatabaseURL != "" {
			cfg.Gateway = "postgres"
		} else {
			cfg.Gateway = "memory"
		}
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = generateRandomSecret("SESSION_SECRET", 32)
	}
	// securecookie wants a 16, 24 or 32 byte AES key
	if len(cfg.SessionEncryptionKey) != 16 && len(cfg.SessionEncryptionKey) != 24 && len(cfg.SessionEncryptionKey) != 32 {
		if cfg.SessionEncryptionKey != "" {
			logger.Warn.Println("Load: SESSION_ENCRYPTION_KEY must be 16, 24 or 32 bytes; ignoring it")
		}
		cfg.SessionEncryptionKey = generateRandomSecret("SESSION_ENCRYPTION_KEY", 24)[:32]
	}

	logger.Info.Printf("Load: environment=%s port=%s gateway=%s url=%s", cfg.Environment, cfg.AppPort, cfg.Gateway, cfg.ApplicationURL)
	return cfg
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsAdmin reports whether email is listed in ADMIN_EMAILS.
func (c *Config) IsAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range c.AdminEmails {
		if a == email {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func generateRandomSecret(name string, size int) string {
	logger.Warn.Printf("Load: %s not set, generating random secret (will not persist across restarts)", name)

	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		logger.Error.Fatalf("Load: failed to generate random secret for %s: %v", name, err)
	}
	return base64.StdEncoding.EncodeToString(b)
}
