package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docmanhq/docman/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage StorageConfig

	// Auth configuration
	Auth AuthConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// CORS
	AllowedOrigins []string
}

// StorageConfig holds database and Redis configuration
type StorageConfig struct {
	PostgresURL         string
	PostgresMaxConns    int
	PostgresMinConns    int
	PostgresTimeout     time.Duration
	PostgresMaxLifetime time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
}

// AuthConfig holds token signing and account bootstrap configuration
type AuthConfig struct {
	// TokenSecret signs access tokens. Rotating it invalidates every
	// outstanding token.
	TokenSecret string
	TokenTTL    time.Duration

	// AdminPassword seeds the bootstrap admin account on first start
	AdminPassword string

	// Credential endpoint rate limit (requests per window per client IP)
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Storage:       loadStorageConfig(),
		Auth:          loadAuthConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("DOCMAN_HOST", "0.0.0.0"),
		Port:            getEnv("DOCMAN_PORT", "3000"),
		ReadTimeout:     getEnvDuration("DOCMAN_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("DOCMAN_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("DOCMAN_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("DOCMAN_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("DOCMAN_HEALTH_PORT", "9090"),
		AllowedOrigins:  splitAndTrim(getEnv("DOCMAN_ALLOWED_ORIGINS", "*")),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		PostgresURL:         getEnv("DOCMAN_POSTGRES_URL", ""),
		PostgresMaxConns:    getEnvInt("DOCMAN_POSTGRES_MAX_CONNS", 25),
		PostgresMinConns:    getEnvInt("DOCMAN_POSTGRES_MIN_CONNS", 5),
		PostgresTimeout:     getEnvDuration("DOCMAN_POSTGRES_TIMEOUT", 30*time.Second),
		PostgresMaxLifetime: getEnvDuration("DOCMAN_POSTGRES_MAX_LIFETIME", time.Hour),
		RedisAddr:           getEnv("DOCMAN_REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("DOCMAN_REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("DOCMAN_REDIS_DB", 0),
		RedisPoolSize:       getEnvInt("DOCMAN_REDIS_POOL_SIZE", 10),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		TokenSecret:       getEnv("DOCMAN_JWT_SECRET", ""),
		TokenTTL:          getEnvDuration("DOCMAN_TOKEN_TTL", 24*time.Hour),
		AdminPassword:     getEnv("DOCMAN_ADMIN_PASSWORD", ""),
		RateLimitRequests: getEnvInt("DOCMAN_RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:   getEnvDuration("DOCMAN_RATE_LIMIT_WINDOW", time.Minute),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       observability.ParseLogLevel(getEnv("DOCMAN_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("DOCMAN_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Storage.PostgresURL == "" {
		return fmt.Errorf("postgres URL is required")
	}

	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.AdminPassword == "" {
		return fmt.Errorf("admin password is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}
	if c.Auth.RateLimitRequests <= 0 {
		return fmt.Errorf("rate limit requests must be positive")
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
