// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines the contribution of each signal to the blended score.
	Weights SignalWeights `json:"weights"`

	// Similarity contains parameters for the content-similarity model.
	Similarity SimilarityConfig `json:"similarity"`

	// MinSupport is the minimum co-occurrence support for a pair to
	// contribute to blended scores and frequently-bought-together results.
	MinSupport float64 `json:"min_support"`

	// MinConfidence is the minimum confidence for an association rule to
	// be kept.
	MinConfidence float64 `json:"min_confidence"`

	// Limits contains result size limits.
	Limits LimitsConfig `json:"limits"`

	// Refresh contains model refresh parameters.
	Refresh RefreshConfig `json:"refresh"`

	// Categories contains the category relatedness and product-type
	// heuristic tables. The lists are data, not logic, so deployments can
	// tune them without code changes.
	Categories CategoryRules `json:"categories"`
}

// SignalWeights defines the contribution of each signal to the blended score.
type SignalWeights struct {
	// CoOccurrence is the weight of co-occurrence support.
	CoOccurrence float64 `json:"co_occurrence"`

	// Similarity is the weight of content similarity.
	Similarity float64 `json:"similarity"`

	// Association is the weight of association-rule confidence.
	Association float64 `json:"association"`
}

// SimilarityConfig contains parameters for the content-similarity model.
type SimilarityConfig struct {
	// CategoryWeight is the weight of the category term.
	CategoryWeight float64 `json:"category_weight"`

	// PriceWeight is the weight of the price term. The term is skipped,
	// and its weight excluded from normalization, when either price is
	// absent or the average price is zero.
	PriceWeight float64 `json:"price_weight"`

	// RatingWeight is the weight of the rating term. The term is skipped
	// when either rating is absent.
	RatingWeight float64 `json:"rating_weight"`

	// MinScore is the sparsity threshold: pairs are stored only when their
	// similarity exceeds it. This bounds matrix size and downstream
	// consumers assume it.
	MinScore float64 `json:"min_score"`
}

// LimitsConfig contains result size limits.
type LimitsConfig struct {
	// ProductK is the maximum number of per-product recommendations.
	ProductK int `json:"product_k"`

	// CartK is the maximum number of cart recommendations.
	CartK int `json:"cart_k"`
}

// RefreshConfig contains model refresh parameters.
type RefreshConfig struct {
	// Interval is the period between scheduled full rebuilds.
	Interval time.Duration `json:"interval"`

	// RebuildOnStartup triggers a rebuild when the refresh service starts
	// rather than waiting for the first query or tick.
	RebuildOnStartup bool `json:"rebuild_on_startup"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Weights: SignalWeights{
			CoOccurrence: 0.5,
			Similarity:   0.3,
			Association:  0.2,
		},
		Similarity: SimilarityConfig{
			CategoryWeight: 0.4,
			PriceWeight:    0.3,
			RatingWeight:   0.3,
			MinScore:       0.1,
		},
		MinSupport:    0.02,
		MinConfidence: 0.30,
		Limits: LimitsConfig{
			ProductK: 4,
			CartK:    5,
		},
		Refresh: RefreshConfig{
			Interval:         time.Hour,
			RebuildOnStartup: true,
		},
		Categories: DefaultCategoryRules(),
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Weights.CoOccurrence < 0 || c.Weights.Similarity < 0 || c.Weights.Association < 0 {
		return fmt.Errorf("signal weights must be non-negative")
	}
	if c.Weights.CoOccurrence+c.Weights.Similarity+c.Weights.Association <= 0 {
		return fmt.Errorf("at least one signal weight must be positive")
	}
	if c.Similarity.CategoryWeight < 0 || c.Similarity.PriceWeight < 0 || c.Similarity.RatingWeight < 0 {
		return fmt.Errorf("similarity term weights must be non-negative")
	}
	if c.Similarity.MinScore < 0 || c.Similarity.MinScore >= 1 {
		return fmt.Errorf("similarity min_score must be in [0, 1), got %v", c.Similarity.MinScore)
	}
	if c.MinSupport < 0 || c.MinSupport > 1 {
		return fmt.Errorf("min_support must be in [0, 1], got %v", c.MinSupport)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in [0, 1], got %v", c.MinConfidence)
	}
	if c.Limits.ProductK <= 0 {
		return fmt.Errorf("limits.product_k must be positive, got %d", c.Limits.ProductK)
	}
	if c.Limits.CartK <= 0 {
		return fmt.Errorf("limits.cart_k must be positive, got %d", c.Limits.CartK)
	}
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive, got %v", c.Refresh.Interval)
	}
	if c.Categories.MinWordLen <= 0 {
		return fmt.Errorf("categories.min_word_len must be positive, got %d", c.Categories.MinWordLen)
	}
	if c.Categories.MaxSharedWords < 0 {
		return fmt.Errorf("categories.max_shared_words must be non-negative, got %d", c.Categories.MaxSharedWords)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() Config {
	out := *c
	out.Categories = c.Categories.Clone()
	return out
}
