// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }},
		{"duckdb without path", func(c *Config) { c.Database.Path = " " }},
		{"zero refresh interval", func(c *Config) { c.Recommend.RefreshInterval = 0 }},
		{"zero status interval", func(c *Config) { c.Orders.StatusInterval = 0 }},
		{"negative weight", func(c *Config) { c.Recommend.SimilarityWeight = -1 }},
		{"zero product limit", func(c *Config) { c.Recommend.ProductLimit = 0 }},
		{"zero min word len", func(c *Config) { c.Recommend.Categories.MinWordLen = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestEngineConfigMapping(t *testing.T) {
	t.Parallel()

	rc := Default().Recommend
	rc.MinSupport = 0.05
	rc.ProductLimit = 8
	rc.RefreshInterval = 2 * time.Hour
	rc.Categories.ProductTypeKeywords = []string{"kayak", "paddle"}

	engineCfg := rc.EngineConfig()
	if engineCfg.MinSupport != 0.05 {
		t.Errorf("MinSupport = %v, want 0.05", engineCfg.MinSupport)
	}
	if engineCfg.Limits.ProductK != 8 {
		t.Errorf("ProductK = %d, want 8", engineCfg.Limits.ProductK)
	}
	if engineCfg.Refresh.Interval != 2*time.Hour {
		t.Errorf("Refresh.Interval = %v, want 2h", engineCfg.Refresh.Interval)
	}
	if got := engineCfg.Categories.ProductTypeKeywords; len(got) != 2 || got[0] != "kayak" {
		t.Errorf("ProductTypeKeywords = %v, want configured list", got)
	}
	// The copy is deep so later engine config mutation cannot reach back.
	engineCfg.Categories.ProductTypeKeywords[0] = "mutated"
	if rc.Categories.ProductTypeKeywords[0] != "kayak" {
		t.Error("EngineConfig should deep-copy category tables")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_MIN_SUPPORT", "0.1")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RECOMMEND_PRODUCT_TYPE_KEYWORDS", "tent, stove, lantern")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverMemory {
		t.Errorf("driver = %q, want memory", cfg.Database.Driver)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.MinSupport != 0.1 {
		t.Errorf("min support = %v, want 0.1", cfg.Recommend.MinSupport)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("cors origins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i, origin := range want {
		if cfg.Security.CORSOrigins[i] != origin {
			t.Errorf("cors origin[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], origin)
		}
	}
	keywords := cfg.Recommend.Categories.ProductTypeKeywords
	if len(keywords) != 3 || keywords[0] != "tent" || keywords[2] != "lantern" {
		t.Errorf("product type keywords = %v, want [tent stove lantern]", keywords)
	}
	// Tables not named in the environment keep their defaults.
	if len(cfg.Recommend.Categories.Related) == 0 {
		t.Error("related rules should keep defaults")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
server:
  port: 8181
database:
  driver: memory
recommend:
  product_limit: 6
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("port = %d, want 8181", cfg.Server.Port)
	}
	if cfg.Recommend.ProductLimit != 6 {
		t.Errorf("product limit = %d, want 6", cfg.Recommend.ProductLimit)
	}
	// Untouched settings keep defaults.
	if cfg.Recommend.CartLimit != 5 {
		t.Errorf("cart limit = %d, want default 5", cfg.Recommend.CartLimit)
	}
}

func TestLoadCategoryTablesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
database:
  driver: memory
recommend:
  categories:
    family_markers: ["outdoor-", "camping"]
    umbrella_category: camping
    umbrella_sub_markers: ["tent", "stove"]
    product_type_keywords: ["tent", "stove", "lantern"]
    related:
      - current_markers: ["camping"]
        related_markers: ["outdoor"]
        related_exact: ["accessories"]
    keyword_aliases:
      - keyword: tarp
        matches: ["tent"]
    brand_groups:
      - ["coleman", "msr"]
    min_word_len: 3
    max_shared_words: 1
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	rules := cfg.Recommend.EngineConfig().Categories
	if rules.UmbrellaCategory != "camping" {
		t.Errorf("umbrella category = %q, want camping", rules.UmbrellaCategory)
	}
	if len(rules.FamilyMarkers) != 2 || rules.FamilyMarkers[0] != "outdoor-" {
		t.Errorf("family markers = %v", rules.FamilyMarkers)
	}
	if len(rules.Related) != 1 || rules.Related[0].RelatedExact[0] != "accessories" {
		t.Errorf("related rules = %+v", rules.Related)
	}
	if len(rules.KeywordAliases) != 1 || rules.KeywordAliases[0].Keyword != "tarp" {
		t.Errorf("keyword aliases = %+v", rules.KeywordAliases)
	}
	if len(rules.BrandGroups) != 1 || rules.BrandGroups[0][1] != "msr" {
		t.Errorf("brand groups = %v", rules.BrandGroups)
	}
	if rules.MinWordLen != 3 || rules.MaxSharedWords != 1 {
		t.Errorf("word heuristics = %d/%d, want 3/1", rules.MinWordLen, rules.MaxSharedWords)
	}

	// The configured tables drive the same-type predicate.
	if !rules.SameProductType("coleman classic", "msr pocket rocket") {
		t.Error("brand group from config file should match")
	}
	if !cfg.Recommend.Categories.SameCategory("camping", "two-person tent") {
		t.Error("umbrella markers from config file should match")
	}
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	if _, err := Load(); err == nil {
		t.Error("expected error for unknown database driver")
	}
}
