package config

import (
	"fmt"
)

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *Config) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *Config) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithPageSize sets the number of posts per category page
func WithPageSize(size int) Option {
	return func(c *Config) error {
		if size < 1 {
			return fmt.Errorf("page size must be positive, got %d", size)
		}
		c.PageSize = size
		return nil
	}
}

// WithTagLimit sets the default facet fan-out for tag listings
func WithTagLimit(limit int) Option {
	return func(c *Config) error {
		if limit < 1 {
			return fmt.Errorf("tag limit must be positive, got %d", limit)
		}
		c.TagLimit = limit
		return nil
	}
}

// WithMaxImageBytes caps the accepted attachment size. Zero disables the cap.
func WithMaxImageBytes(max int64) Option {
	return func(c *Config) error {
		if max < 0 {
			return fmt.Errorf("max image bytes must not be negative, got %d", max)
		}
		c.MaxImageBytes = max
		return nil
	}
}

// WithEventLogging toggles the slog-backed event sink
func WithEventLogging(enabled bool) Option {
	return func(c *Config) error {
		c.EnableEventLogging = enabled
		return nil
	}
}
