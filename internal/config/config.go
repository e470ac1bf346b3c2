package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the territory server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Rebuild  RebuildConfig
}

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret string
}

// RebuildConfig sizes the rebuild worker pool and selects the
// geometry repair strategy ("structural" or "legacy").
type RebuildConfig struct {
	Workers        int
	QueueSize      int
	RepairStrategy string
}

// Load reads configuration from environment variables and a .env
// file in the current working directory, if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Environment variables can still be set directly.
		log.Printf("Warning: .env file not found (this is OK if using environment variables): %v", err)
	}

	config := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getIntEnv("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "territory_dev"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Rebuild: RebuildConfig{
			Workers:        getIntEnv("REBUILD_WORKERS", 8),
			QueueSize:      getIntEnv("REBUILD_QUEUE_SIZE", 64),
			RepairStrategy: getEnv("REBUILD_REPAIR_STRATEGY", "structural"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks that all required configuration values are set.
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Rebuild.Workers < 1 {
		return fmt.Errorf("REBUILD_WORKERS must be at least 1")
	}
	if c.Rebuild.QueueSize < 1 {
		return fmt.Errorf("REBUILD_QUEUE_SIZE must be at least 1")
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection string.
func (c *DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

// Addr returns the host:port pair the HTTP server binds to.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Helper functions for environment variable access

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer value for %s: %s, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return intValue
}
