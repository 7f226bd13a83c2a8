// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port            string
	FrontendURL     string
	DBPath          string
	InactiveUserTTL time.Duration
	AI              AIConfig
	RateLimit       RateLimitConfig
	Telemetry       TelemetryConfig
}

// AIConfig selects the challenge provider.
type AIConfig struct {
	Provider    string // "groq" or "gemini"
	GroqBaseURL string
	GroqModel   string
	GeminiModel string
	// APIKey is an operator-provisioned key used for devices that have not
	// saved their own. Empty means every device must supply one.
	APIKey  string
	Timeout time.Duration
}

// RateLimitConfig controls generation throttling. A non-empty RedisAddr
// shares the limit across instances.
type RateLimitConfig struct {
	PerMinute     int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", ""),
		DBPath:          getEnv("DB_PATH", "./data/codeleap.db"),
		InactiveUserTTL: getEnvDuration("INACTIVE_USER_TTL", 30*24*time.Hour),
		AI: AIConfig{
			Provider:    strings.ToLower(getEnv("AI_PROVIDER", "groq")),
			GroqBaseURL: getEnv("GROQ_API_URL", "https://api.groq.com/openai/v1"),
			GroqModel:   getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
			GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			APIKey:      getEnv("AI_API_KEY", ""),
			Timeout:     getEnvDuration("AI_TIMEOUT", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			PerMinute:     getEnvInt("RATE_LIMIT_PER_MINUTE", 20),
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Telemetry: TelemetryConfig{
			Enabled:     getEnvBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "codeleap"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch c.AI.Provider {
	case "groq", "gemini":
	default:
		return fmt.Errorf("AI_PROVIDER must be groq or gemini, got %q", c.AI.Provider)
	}
	if c.AI.Timeout < 5*time.Second || c.AI.Timeout > 120*time.Second {
		return fmt.Errorf("AI_TIMEOUT must be between 5s and 120s, got %s", c.AI.Timeout)
	}
	if c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be > 0")
	}
	if c.InactiveUserTTL <= 0 {
		return fmt.Errorf("INACTIVE_USER_TTL must be > 0")
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("OTEL_ENDPOINT cannot be empty when OTEL_ENABLED is set")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
