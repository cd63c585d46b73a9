// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

// Package config loads and validates application configuration from
// layered sources: built-in defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopsphere/backend/internal/recommend"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Orders    OrdersConfig    `koanf:"orders"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds catalog store settings. Driver selects between the
// embedded DuckDB store and the in-memory store used for demos and tests.
type DatabaseConfig struct {
	Driver   string `koanf:"driver"`
	Path     string `koanf:"path"`
	SeedDemo bool   `koanf:"seed_demo"`
}

// Database driver names.
const (
	DriverMemory = "memory"
	DriverDuckDB = "duckdb"
)

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig holds recommendation engine settings. It mirrors the
// engine's own config with koanf tags; EngineConfig converts between them.
type RecommendConfig struct {
	CoOccurrenceWeight float64 `koanf:"co_occurrence_weight"`
	SimilarityWeight   float64 `koanf:"similarity_weight"`
	AssociationWeight  float64 `koanf:"association_weight"`

	CategoryWeight     float64 `koanf:"category_weight"`
	PriceWeight        float64 `koanf:"price_weight"`
	RatingWeight       float64 `koanf:"rating_weight"`
	SimilarityMinScore float64 `koanf:"similarity_min_score"`

	MinSupport    float64 `koanf:"min_support"`
	MinConfidence float64 `koanf:"min_confidence"`

	ProductLimit int `koanf:"product_limit"`
	CartLimit    int `koanf:"cart_limit"`

	RefreshInterval  time.Duration `koanf:"refresh_interval"`
	RebuildOnStartup bool          `koanf:"rebuild_on_startup"`

	// Categories holds the category relatedness and product-type keyword
	// tables. They default to the stock taxonomy and are tuned per
	// deployment through the config file; the flat list fields also accept
	// comma-separated environment overrides.
	Categories recommend.CategoryRules `koanf:"categories"`
}

// OrdersConfig holds order lifecycle settings.
type OrdersConfig struct {
	// StatusInterval is how often orders advance one lifecycle step.
	StatusInterval time.Duration `koanf:"status_interval"`
}

// EngineConfig converts the loaded settings into the engine's config.
func (c RecommendConfig) EngineConfig() recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Weights.CoOccurrence = c.CoOccurrenceWeight
	cfg.Weights.Similarity = c.SimilarityWeight
	cfg.Weights.Association = c.AssociationWeight
	cfg.Similarity.CategoryWeight = c.CategoryWeight
	cfg.Similarity.PriceWeight = c.PriceWeight
	cfg.Similarity.RatingWeight = c.RatingWeight
	cfg.Similarity.MinScore = c.SimilarityMinScore
	cfg.MinSupport = c.MinSupport
	cfg.MinConfidence = c.MinConfidence
	cfg.Limits.ProductK = c.ProductLimit
	cfg.Limits.CartK = c.CartLimit
	cfg.Refresh.Interval = c.RefreshInterval
	cfg.Refresh.RebuildOnStartup = c.RebuildOnStartup
	cfg.Categories = c.Categories.Clone()
	return cfg
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverDuckDB:
		if strings.TrimSpace(c.Database.Path) == "" {
			return fmt.Errorf("database.path required for driver %q", DriverDuckDB)
		}
	default:
		return fmt.Errorf("database.driver %q unknown (want %q or %q)", c.Database.Driver, DriverMemory, DriverDuckDB)
	}

	if c.Recommend.RefreshInterval <= 0 {
		return fmt.Errorf("recommend.refresh_interval must be positive")
	}
	if c.Orders.StatusInterval <= 0 {
		return fmt.Errorf("orders.status_interval must be positive")
	}

	// The engine revalidates on construction; failing here surfaces the
	// problem before any store is opened.
	engineCfg := c.Recommend.EngineConfig()
	if err := engineCfg.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}
