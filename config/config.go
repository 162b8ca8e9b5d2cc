// ABOUTME: This file handles configuration management for sync-hub
// ABOUTME: Loads environment variables and validates configuration for Inoreader sync

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the sync-hub service
type Config struct {
	// Service configuration
	ServiceName string
	LogLevel    string
	HTTPAddr    string

	// Database configuration
	Database DatabaseConfig

	// Redis configuration (client write queue persistence)
	Redis RedisConfig

	// Inoreader API configuration
	Inoreader InoreaderConfig

	// Sync scheduling configuration
	Sync SyncConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// Client write queue configuration
	WriteQueue WriteQueueConfig

	// Health monitor thresholds
	Health HealthConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// DSN builds a lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	URL string
}

// InoreaderConfig holds Inoreader API settings
type InoreaderConfig struct {
	BaseURL     string
	AccessToken string
}

// SyncConfig holds sync worker scheduling settings
type SyncConfig struct {
	PullInterval       time.Duration
	PushInterval       time.Duration
	MaxArticlesPerPage int
	PushBatchSize      int
	CompletedRetention time.Duration
}

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	Zone1DailyLimit     int
	Zone2DailyLimit     int
	SafetyBufferPercent int
}

// WriteQueueConfig holds client write queue settings
type WriteQueueConfig struct {
	Capacity       int
	DebounceWindow time.Duration
}

// HealthConfig holds health monitor thresholds
type HealthConfig struct {
	BacklogThreshold   int
	ErrorRateThreshold float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServiceName: getEnvOrDefault("SERVICE_NAME", "sync-hub"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPAddr:    getEnvOrDefault("HTTP_ADDR", ":9600"),

		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "postgres.alt-database.svc.cluster.local"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			Name:     getEnvOrDefault("DB_NAME", "alt"),
			User:     getEnvOrDefault("SYNC_HUB_DB_USER", "sync_hub_user"),
			Password: os.Getenv("SYNC_HUB_DB_PASSWORD"), // Required from secret
			SSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		},

		Redis: RedisConfig{
			URL: getEnvOrDefault("REDIS_URL", "redis://redis.alt-apps.svc.cluster.local:6379/0"),
		},

		Inoreader: InoreaderConfig{
			BaseURL:     getEnvOrDefault("INOREADER_BASE_URL", "https://www.inoreader.com/reader/api/0"),
			AccessToken: os.Getenv("INOREADER_ACCESS_TOKEN"), // Required from secret
		},

		Sync: SyncConfig{
			PullInterval:       getEnvDuration("SYNC_PULL_INTERVAL", 30*time.Minute),
			PushInterval:       getEnvDuration("SYNC_PUSH_INTERVAL", 5*time.Minute),
			MaxArticlesPerPage: getEnvInt("SYNC_MAX_ARTICLES_PER_PAGE", 100),
			PushBatchSize:      getEnvInt("SYNC_PUSH_BATCH_SIZE", 100),
			CompletedRetention: getEnvDuration("SYNC_COMPLETED_RETENTION", 24*time.Hour),
		},

		RateLimit: RateLimitConfig{
			Zone1DailyLimit:     getEnvInt("RATE_LIMIT_ZONE1_DAILY", 100),
			Zone2DailyLimit:     getEnvInt("RATE_LIMIT_ZONE2_DAILY", 100),
			SafetyBufferPercent: getEnvInt("RATE_LIMIT_SAFETY_BUFFER_PERCENT", 10),
		},

		WriteQueue: WriteQueueConfig{
			Capacity:       getEnvInt("WRITE_QUEUE_CAPACITY", 1000),
			DebounceWindow: getEnvDuration("WRITE_QUEUE_DEBOUNCE_WINDOW", 500*time.Millisecond),
		},

		Health: HealthConfig{
			BacklogThreshold:   getEnvInt("HEALTH_BACKLOG_THRESHOLD", 500),
			ErrorRateThreshold: getEnvFloat("HEALTH_ERROR_RATE_THRESHOLD", 0.5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fails fast on configuration the service cannot start without.
func (c *Config) Validate() error {
	if c.Inoreader.AccessToken == "" {
		return fmt.Errorf("INOREADER_ACCESS_TOKEN is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("SYNC_HUB_DB_PASSWORD is required")
	}
	if c.Sync.PullInterval <= 0 || c.Sync.PushInterval <= 0 {
		return fmt.Errorf("sync intervals must be positive")
	}
	if c.WriteQueue.Capacity <= 0 {
		return fmt.Errorf("write queue capacity must be positive")
	}
	if c.RateLimit.SafetyBufferPercent < 0 || c.RateLimit.SafetyBufferPercent >= 100 {
		return fmt.Errorf("rate limit safety buffer must be in [0, 100)")
	}
	return nil
}

// HTTPAddrFromEnv returns the HTTP listen address without requiring a full
// validated configuration; the health check command uses it before secrets
// are available.
func HTTPAddrFromEnv() string {
	return getEnvOrDefault("HTTP_ADDR", ":9600")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
