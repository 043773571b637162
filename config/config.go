// Package config provides configuration for the advisory chat core.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the runtime configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Capability backend
	BackendURL string

	// Human verification
	VerifyURL    string
	VerifySecret string

	// Dispatch
	DefaultLanguage string
	RequestTimeout  time.Duration
	PolicyPath      string

	// The single configured operator; conversations persist under this id.
	UserID   string
	UserName string

	// Persistence
	QuietWindow  time.Duration
	SaveRetries  int
	RetryBackoff time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		HTTPPort:        getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:     getEnv("DATABASE_URL", "file:agrihelp.db?cache=shared&mode=rwc"),
		BackendURL:      getEnv("BACKEND_URL", "http://127.0.0.1:8000"),
		VerifyURL:       getEnv("VERIFY_URL", "https://challenges.cloudflare.com/turnstile/v0/siteverify"),
		VerifySecret:    getEnv("VERIFY_SECRET", ""),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT_MS", 30000),
		PolicyPath:      getEnv("MODE_POLICY_PATH", ""),
		UserID:          getEnv("USER_ID", "default"),
		UserName:        getEnv("USER_NAME", "Farmer"),
		QuietWindow:     getEnvDuration("PERSIST_QUIET_MS", 10000),
		SaveRetries:     getEnvInt("PERSIST_RETRIES", 2),
		RetryBackoff:    getEnvDuration("PERSIST_RETRY_BACKOFF_MS", 500),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultMs int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMs)) * time.Millisecond
}
