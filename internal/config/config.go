package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Simplici0/diamond-courier/internal/logger"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Relay    RelayConfig
	Session  SessionConfig
	LogLevel string
	Env      string
}

// ServerConfig holds the HTTP listener settings. Timeouts are in seconds.
type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  []string
}

// StorageConfig locates the SQLite database and the shop catalog file.
type StorageConfig struct {
	DBPath      string
	CatalogPath string
}

// RelayConfig selects where submissions go. FormID takes precedence over
// WebhookURL when both are set.
type RelayConfig struct {
	FormID     string
	Endpoint   string
	WebhookURL string
	Timeout    int
}

// SessionConfig holds the key that signs the client cookie.
type SessionConfig struct {
	Secret string
}

// Load reads environment variables, after a best-effort .env file, and
// returns a validated Config.
func Load() (*Config, error) {
	// Production should use real env injection; a missing file is fine.
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		Storage: StorageConfig{
			DBPath:      getEnv("DB_PATH", "./dev.db"),
			CatalogPath: getEnv("CATALOG_PATH", "./catalog.yaml"),
		},
		Relay: RelayConfig{
			FormID:     os.Getenv("FORMSPREE_FORM_ID"),
			Endpoint:   getEnv("FORMSPREE_ENDPOINT", "https://formspree.io/f"),
			WebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
			Timeout:    getEnvAsInt("RELAY_TIMEOUT", 10),
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Env:      getEnv("APP_ENV", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}

	timeouts := map[string]int{
		"READ_TIMEOUT":     c.Server.ReadTimeout,
		"WRITE_TIMEOUT":    c.Server.WriteTimeout,
		"SHUTDOWN_TIMEOUT": c.Server.ShutdownTimeout,
		"RELAY_TIMEOUT":    c.Relay.Timeout,
	}
	for name, v := range timeouts {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil || c.LogLevel == "" {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	return nil
}

// Warnings lists settings that are allowed but probably wrong.
func (c *Config) Warnings() []string {
	var w []string
	if c.Session.Secret == "" {
		w = append(w, "SESSION_SECRET is not set, client cookies use a per-process key")
	}
	if c.Relay.FormID == "" && c.Relay.WebhookURL == "" {
		w = append(w, "neither FORMSPREE_FORM_ID nor DISCORD_WEBHOOK_URL is set")
	}
	return w
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsProduction reports whether ENV is production, case-insensitively.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Duration helpers convert the second-based settings.
func (s ServerConfig) ReadTimeoutDuration() time.Duration     { return seconds(s.ReadTimeout) }
func (s ServerConfig) WriteTimeoutDuration() time.Duration    { return seconds(s.WriteTimeout) }
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration { return seconds(s.ShutdownTimeout) }
func (r RelayConfig) TimeoutDuration() time.Duration          { return seconds(r.Timeout) }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns the default for a missing or non-numeric value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
