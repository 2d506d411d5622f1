// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	DataDir     string // Base directory for the comparables database (always absolute)
	Port        int
	LogLevel    string
	DevMode     bool   // Pretty logs and no response compression
	ProfilePath string // TOML assumption profile; empty uses built-in defaults

	RentModel   RentModelConfig
	Redis       RedisConfig
	Comparables ComparablesConfig
	S3          S3Config
}

// RentModelConfig points at the rent prediction service
type RentModelConfig struct {
	URL     string // Empty disables the model
	Timeout time.Duration
}

// RedisConfig configures the rent-estimate cache
type RedisConfig struct {
	Addr     string // Empty disables caching
	Password string
	DB       int
	TTL      time.Duration
}

// ComparablesConfig controls where the sales dataset comes from
type ComparablesConfig struct {
	Source         string // Local path or s3://bucket/key; empty skips imports
	ReloadSchedule string // Cron spec; empty disables scheduled reloads
	ImportOnStart  bool
}

// S3Config holds object storage settings for s3:// sources
type S3Config struct {
	Region   string
	Endpoint string // For S3-compatible stores
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("YIELDWISE_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:     absDataDir,
		Port:        getEnvAsInt("YIELDWISE_PORT", 8080),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DevMode:     getEnvAsBool("DEV_MODE", false),
		ProfilePath: getEnv("YIELDWISE_PROFILE", ""),
		RentModel: RentModelConfig{
			URL:     getEnv("RENT_MODEL_URL", ""),
			Timeout: getEnvAsDuration("RENT_MODEL_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("RENT_CACHE_TTL", 24*time.Hour),
		},
		Comparables: ComparablesConfig{
			Source:         getEnv("COMPARABLES_SOURCE", ""),
			ReloadSchedule: getEnv("COMPARABLES_RELOAD_CRON", ""),
			ImportOnStart:  getEnvAsBool("COMPARABLES_IMPORT_ON_START", true),
		},
		S3: S3Config{
			Region:   getEnv("AWS_REGION", "us-east-1"),
			Endpoint: getEnv("S3_ENDPOINT", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabasePath returns the location of the comparables database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "comparables.db")
}

// UsesS3 reports whether the comparables source is an s3:// URL
func (c *Config) UsesS3() bool {
	return strings.HasPrefix(c.Comparables.Source, "s3://")
}

// Validate checks that configured values are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Redis.TTL <= 0 {
		return fmt.Errorf("RENT_CACHE_TTL must be positive")
	}
	if spec := c.Comparables.ReloadSchedule; spec != "" {
		if c.Comparables.Source == "" {
			return fmt.Errorf("COMPARABLES_RELOAD_CRON is set but COMPARABLES_SOURCE is empty")
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid COMPARABLES_RELOAD_CRON %q: %w", spec, err)
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
