// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package recommend

import (
	"math"
	"strings"

	"github.com/shopsphere/backend/internal/models"
)

// buildSimilarity derives the sparse content-similarity matrix from product
// attributes. Every ordered pair of distinct products is scored; only pairs
// whose score exceeds cfg.MinScore are stored.
//
// Pairwise scoring is O(n^2) in catalog size, acceptable for moderate
// catalogs. Larger catalogs would need blocking or an ANN index.
func buildSimilarity(products []models.Product, cfg SimilarityConfig) *Matrix {
	b := newMatrixBuilder()
	for i := range products {
		for j := range products {
			if i == j {
				continue
			}
			score := productSimilarity(&products[i], &products[j], cfg)
			if score > cfg.MinScore {
				b.set(products[i].ID, products[j].ID, score)
			}
		}
	}
	return b.build()
}

// productSimilarity scores two products from category, price, and rating
// terms. Terms that cannot be computed are skipped and their weight excluded
// from normalization, so the result stays in [0, 1]. Returns 0 when no term
// applies.
func productSimilarity(p1, p2 *models.Product, cfg SimilarityConfig) float64 {
	var score, weight float64

	if c1, c2 := p1.NormalizedCategory(), p2.NormalizedCategory(); c1 != "" && c2 != "" {
		score += categoryTerm(c1, c2) * cfg.CategoryWeight
		weight += cfg.CategoryWeight
	}

	price1, price2 := p1.PriceValue(), p2.PriceValue()
	if avg := (price1 + price2) / 2; avg > 0 {
		diff := math.Abs(price1 - price2)
		score += (1 - math.Min(1, diff/avg)) * cfg.PriceWeight
		weight += cfg.PriceWeight
	}

	if p1.Rating != nil && p2.Rating != nil {
		diff := math.Abs(*p1.Rating - *p2.Rating)
		score += (1 - math.Min(1, diff/5.0)) * cfg.RatingWeight
		weight += cfg.RatingWeight
	}

	if weight == 0 {
		return 0
	}
	return score / weight
}

// categoryTerm scores two normalized categories: 1 for an exact match, 0.5
// when the first "/"-delimited segment matches (sub-category partial credit),
// 0 otherwise.
func categoryTerm(c1, c2 string) float64 {
	if c1 == c2 {
		return 1.0
	}
	root1, _, _ := strings.Cut(c1, "/")
	root2, _, _ := strings.Cut(c2, "/")
	if strings.TrimSpace(root1) == strings.TrimSpace(root2) {
		return 0.5
	}
	return 0
}
