// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package recommend

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shopsphere/backend/internal/models"
)

func product(id int64, category string, price float64, rating *float64) models.Product {
	return models.Product{
		ID:       id,
		Name:     "Product",
		Category: category,
		Price:    decimal.NewFromFloat(price),
		Rating:   rating,
	}
}

func ratingPtr(v float64) *float64 { return &v }

func approxEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestProductSimilarityAllTerms(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig().Similarity

	tests := []struct {
		name string
		p1   models.Product
		p2   models.Product
		want float64
	}{
		{
			"identical products score 1",
			product(1, "electronics", 100, ratingPtr(4.5)),
			product(2, "electronics", 100, ratingPtr(4.5)),
			1.0,
		},
		{
			"exact category, equal price, ratings 1 apart",
			product(1, "electronics", 100, ratingPtr(5)),
			product(2, "electronics", 100, ratingPtr(4)),
			// (1*0.4 + 1*0.3 + 0.8*0.3) / 1.0
			0.94,
		},
		{
			"different root categories contribute nothing",
			product(1, "electronics", 100, ratingPtr(4)),
			product(2, "clothing", 100, ratingPtr(4)),
			// (0*0.4 + 1*0.3 + 1*0.3) / 1.0
			0.6,
		},
		{
			"shared root category gets partial credit",
			product(1, "electronics/phones", 100, ratingPtr(4)),
			product(2, "electronics/audio", 100, ratingPtr(4)),
			// (0.5*0.4 + 0.3 + 0.3) / 1.0
			0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := productSimilarity(&tt.p1, &tt.p2, cfg)
			if !approxEqual(got, tt.want) {
				t.Errorf("productSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProductSimilaritySkippedTermsRenormalize(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig().Similarity

	// No ratings: weight base shrinks to 0.7, so a perfect category and
	// price match still scores 1.0.
	p1 := product(1, "electronics", 100, nil)
	p2 := product(2, "electronics", 100, nil)
	if got := productSimilarity(&p1, &p2, cfg); !approxEqual(got, 1.0) {
		t.Errorf("similarity without ratings = %v, want 1.0", got)
	}

	// No usable terms at all: zero.
	p3 := product(3, "", 0, nil)
	p4 := product(4, "", 0, nil)
	if got := productSimilarity(&p3, &p4, cfg); got != 0 {
		t.Errorf("similarity with no terms = %v, want 0", got)
	}
}

func TestProductSimilarityPriceTerm(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig().Similarity

	// Prices 50 and 150: avg 100, diff 100, term = 1 - min(1, 1) = 0.
	p1 := product(1, "electronics", 50, nil)
	p2 := product(2, "electronics", 150, nil)
	// (1*0.4 + 0*0.3) / 0.7
	want := 0.4 / 0.7
	if got := productSimilarity(&p1, &p2, cfg); !approxEqual(got, want) {
		t.Errorf("similarity = %v, want %v", got, want)
	}
}

func TestBuildSimilaritySparsity(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig().Similarity
	products := []models.Product{
		product(1, "electronics", 100, ratingPtr(4.5)),
		product(2, "electronics", 110, ratingPtr(4.0)),
		product(3, "clothing", 30, ratingPtr(3.5)),
		product(4, "sports", 2000, ratingPtr(1.0)),
	}
	m := buildSimilarity(products, cfg)

	for a, row := range m.rows {
		for b, s := range row {
			if s <= cfg.MinScore {
				t.Errorf("stored entry (%d,%d)=%v violates sparsity threshold %v", a, b, s, cfg.MinScore)
			}
			if s > 1 {
				t.Errorf("entry (%d,%d)=%v exceeds 1", a, b, s)
			}
		}
	}

	// Near-identical electronics pair must be stored in both directions.
	if m.Score(1, 2) == 0 || m.Score(2, 1) == 0 {
		t.Error("similar pair (1,2) not stored")
	}
}

func TestBuildSimilarityExcludesSelf(t *testing.T) {
	t.Parallel()

	products := []models.Product{
		product(1, "electronics", 100, ratingPtr(4.5)),
		product(2, "electronics", 100, ratingPtr(4.5)),
	}
	m := buildSimilarity(products, DefaultConfig().Similarity)

	if got := m.Score(1, 1); got != 0 {
		t.Errorf("self similarity stored: %v", got)
	}
}
