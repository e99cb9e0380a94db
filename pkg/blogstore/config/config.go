package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressline/blogstore/pkg/blogstore"
	"github.com/pressline/blogstore/pkg/blogstore/repo/memory"
	repopg "github.com/pressline/blogstore/pkg/blogstore/repo/postgres"
)

// Option applies configuration to a Config instance.
type Option func(*Config) error

// Load constructs a Config by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		Environment:   "development",
		DatabaseType:  "memory",
		PageSize:      blogstore.DefaultPageSize,
		TagLimit:      15,
		MaxImageBytes: blogstore.DefaultMaxImageBytes,
	}
}

// Config represents store configuration for the blogstore library
type Config struct {
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Browsing configuration
	PageSize int // posts per category page
	TagLimit int // default facet fan-out for tag listings

	// Attachment configuration
	MaxImageBytes int64 // 0 means no cap

	// Store options
	EnableEventLogging bool
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}

	if c.TagLimit < 1 {
		return fmt.Errorf("tag_limit must be positive, got %d", c.TagLimit)
	}

	if c.MaxImageBytes < 0 {
		return fmt.Errorf("max_image_bytes must not be negative, got %d", c.MaxImageBytes)
	}

	return nil
}

// BuildService creates a blogstore.Service from the configuration
func (c *Config) BuildService(ctx context.Context) (blogstore.Service, error) {
	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	options := []blogstore.Option{
		blogstore.WithRepository(repo),
		blogstore.WithPageSize(c.PageSize),
		blogstore.WithImageCodec(blogstore.ImageCodec{MaxBytes: c.MaxImageBytes}),
	}

	if c.EnableEventLogging {
		options = append(options, blogstore.WithEventSink(blogstore.NewLoggingEventSink(slog.Default())))
	} else {
		options = append(options, blogstore.WithEventSink(blogstore.NewNoopEventSink()))
	}

	return blogstore.New(options...)
}

// BuildRepository creates a blogstore.Repository from the configuration
func (c *Config) BuildRepository(ctx context.Context) (blogstore.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}
