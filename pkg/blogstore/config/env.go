package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is the cleanenv mapping for environment overrides. Unset
// variables leave the corresponding defaults untouched.
type envConfig struct {
	Environment   string `env:"BLOGSTORE_ENVIRONMENT"`
	DatabaseURL   string `env:"BLOGSTORE_DATABASE_URL"`
	PageSize      int    `env:"BLOGSTORE_PAGE_SIZE"`
	TagLimit      int    `env:"BLOGSTORE_TAG_LIMIT"`
	MaxImageBytes int64  `env:"BLOGSTORE_MAX_IMAGE_BYTES" env-default:"-1"`
	EventLogging  bool   `env:"BLOGSTORE_EVENT_LOGGING"`
}

// WithEnv applies environment variable overrides.
//
//	BLOGSTORE_ENVIRONMENT     - runtime environment (default: "development")
//	BLOGSTORE_DATABASE_URL    - "memory" or a postgres:// connection string
//	BLOGSTORE_PAGE_SIZE       - posts per category page (default: 5)
//	BLOGSTORE_TAG_LIMIT       - default tag facet fan-out (default: 15)
//	BLOGSTORE_MAX_IMAGE_BYTES - attachment size cap, 0 disables it
//	BLOGSTORE_EVENT_LOGGING   - enable the slog event sink
func WithEnv() Option {
	return func(c *Config) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		if env.Environment != "" {
			c.Environment = env.Environment
		}
		if err := applyDatabaseURL(c, env.DatabaseURL); err != nil {
			return err
		}
		if env.PageSize > 0 {
			c.PageSize = env.PageSize
		}
		if env.TagLimit > 0 {
			c.TagLimit = env.TagLimit
		}
		if env.MaxImageBytes >= 0 {
			c.MaxImageBytes = env.MaxImageBytes
		}
		if env.EventLogging {
			c.EnableEventLogging = true
		}

		return nil
	}
}

// applyDatabaseURL auto-detects the database type from the URL scheme.
func applyDatabaseURL(c *Config, url string) error {
	switch {
	case url == "" || url == "memory":
		// Leave the configured default in place.
		return nil
	case strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = url
		return nil
	default:
		return fmt.Errorf("unsupported BLOGSTORE_DATABASE_URL format: %s (use 'memory' or 'postgres://...')", url)
	}
}
