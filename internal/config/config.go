// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"

	"investpress/internal/slug"
	"investpress/internal/storage"
)

// maxStoredSlugLength is the width of the slugs.value column.
const maxStoredSlugLength = 255

// defaultDBPassword is the development database password.
const defaultDBPassword = "changeme"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port     string `env:"APP_PORT" envDefault:"8080"`
	Env      string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"investpress"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB" envDefault:"investpress"`

	// Valkey (Redis-compatible cache). An empty host disables the slug cache.
	ValkeyHost     string `env:"VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     string `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`

	// S3-compatible media storage. Empty endpoint or credentials leave media
	// keys unresolved.
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"investpress-media"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	// Languages lists the supported language codes; the first is the default.
	Languages []string `env:"LANGUAGES" envSeparator:"," envDefault:"en,es,fr"`

	// Slug allocation
	SlugMaxLength   int `env:"SLUG_MAX_LENGTH" envDefault:"240"`
	SlugMaxAttempts int `env:"SLUG_MAX_ATTEMPTS" envDefault:"5"`

	// Slug repair
	RepairBatchSize int    `env:"REPAIR_BATCH_SIZE" envDefault:"500"`
	RepairSchedule  string `env:"REPAIR_SCHEDULE"` // cron spec; empty disables scheduled repair
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env == "production" && c.DBPassword == defaultDBPassword {
		return errors.New("POSTGRES_PASSWORD must be set in production")
	}

	if len(c.Languages) == 0 {
		return errors.New("LANGUAGES must list at least one language")
	}
	langs := make([]string, 0, len(c.Languages))
	for _, raw := range c.Languages {
		tag, err := language.Parse(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("LANGUAGES: invalid language %q: %w", raw, err)
		}
		code := tag.String()
		if slices.Contains(langs, code) {
			return fmt.Errorf("LANGUAGES: duplicate language %q", code)
		}
		langs = append(langs, code)
	}
	c.Languages = langs

	if c.SlugMaxLength < slug.MinMaxLength || c.SlugMaxLength > maxStoredSlugLength {
		return fmt.Errorf("SLUG_MAX_LENGTH must be between %d and %d, got %d",
			slug.MinMaxLength, maxStoredSlugLength, c.SlugMaxLength)
	}
	if c.SlugMaxAttempts < 1 {
		return fmt.Errorf("SLUG_MAX_ATTEMPTS must be positive, got %d", c.SlugMaxAttempts)
	}
	if c.RepairBatchSize < 1 {
		return fmt.Errorf("REPAIR_BATCH_SIZE must be positive, got %d", c.RepairBatchSize)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// DefaultLanguage returns the first configured language.
func (c *Config) DefaultLanguage() string {
	return c.Languages[0]
}

// Level returns the configured log level. Load has already validated it.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	_ = lvl.UnmarshalText([]byte(c.LogLevel))
	return lvl
}

// Slug returns the slug allocator settings.
func (c *Config) Slug() slug.Config {
	return slug.Config{
		Languages:   slices.Clone(c.Languages),
		MaxLength:   c.SlugMaxLength,
		MaxAttempts: c.SlugMaxAttempts,
	}
}

// Storage returns the media storage settings.
func (c *Config) Storage() storage.Options {
	return storage.Options{
		Endpoint:  c.S3Endpoint,
		Region:    c.S3Region,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Bucket:    c.S3Bucket,
		PublicURL: c.S3PublicURL,
	}
}

// CacheEnabled reports whether a Valkey host is configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}
