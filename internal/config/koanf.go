// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/shopsphere/backend/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/shopsphere/config.yaml",
	"/etc/shopsphere/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default returns a Config with all default values. These are applied
// first, then overridden by the config file and environment variables.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:   DriverDuckDB,
			Path:     "/data/shopsphere.duckdb",
			SeedDemo: false,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			CoOccurrenceWeight: 0.5,
			SimilarityWeight:   0.3,
			AssociationWeight:  0.2,

			CategoryWeight:     0.4,
			PriceWeight:        0.3,
			RatingWeight:       0.3,
			SimilarityMinScore: 0.1,

			MinSupport:    0.02,
			MinConfidence: 0.30,

			ProductLimit: 4,
			CartLimit:    5,

			RefreshInterval:  time.Hour,
			RebuildOnStartup: true,

			Categories: recommend.DefaultCategoryRules(),
		},
		Orders: OrdersConfig{
			StatusInterval: 5 * time.Minute,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile searches for a config file, env override first.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are the config paths parsed as comma-separated slices
// when they arrive from environment variables.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"recommend.categories.family_markers",
	"recommend.categories.umbrella_sub_markers",
	"recommend.categories.product_type_keywords",
}

// processSliceFields converts comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are dropped so random environment content never
// pollutes the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"http_host":             "server.host",
		"http_port":             "server.port",
		"http_read_timeout":     "server.read_timeout",
		"http_write_timeout":    "server.write_timeout",
		"http_shutdown_timeout": "server.shutdown_timeout",

		// Database
		"db_driver":      "database.driver",
		"duckdb_path":    "database.path",
		"seed_demo_data": "database.seed_demo",

		// Security
		"cors_origins":        "security.cors_origins",
		"rate_limit_requests": "security.rate_limit_requests",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Recommendation engine
		"recommend_co_occurrence_weight": "recommend.co_occurrence_weight",
		"recommend_similarity_weight":    "recommend.similarity_weight",
		"recommend_association_weight":   "recommend.association_weight",
		"recommend_category_weight":      "recommend.category_weight",
		"recommend_price_weight":         "recommend.price_weight",
		"recommend_rating_weight":        "recommend.rating_weight",
		"recommend_similarity_min_score": "recommend.similarity_min_score",
		"recommend_min_support":          "recommend.min_support",
		"recommend_min_confidence":       "recommend.min_confidence",
		"recommend_product_limit":        "recommend.product_limit",
		"recommend_cart_limit":           "recommend.cart_limit",
		"recommend_refresh_interval":     "recommend.refresh_interval",
		"recommend_rebuild_on_startup":   "recommend.rebuild_on_startup",

		// Category tables. The flat lists take comma-separated values; the
		// structured rules (related, keyword_aliases, brand_groups) are
		// config-file only.
		"recommend_family_markers":        "recommend.categories.family_markers",
		"recommend_umbrella_category":     "recommend.categories.umbrella_category",
		"recommend_umbrella_sub_markers":  "recommend.categories.umbrella_sub_markers",
		"recommend_product_type_keywords": "recommend.categories.product_type_keywords",
		"recommend_min_word_len":          "recommend.categories.min_word_len",
		"recommend_max_shared_words":      "recommend.categories.max_shared_words",

		// Orders
		"order_status_interval": "orders.status_interval",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
