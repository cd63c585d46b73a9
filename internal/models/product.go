// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product as consumed by the recommendation
// engine. Rating and Stock are pointers because the catalog allows products
// without either: a missing rating is treated as 0.0 in similarity math and a
// missing stock count marks the product unavailable.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Rating      *float64        `json:"rating,omitempty"`
	ReviewCount int             `json:"review_count"`
	Stock       *int            `json:"stock,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RatingValue returns the product rating, treating a missing rating as 0.
func (p *Product) RatingValue() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// InStock reports whether the product has at least one unit available.
// Products with no stock information are treated as unavailable.
func (p *Product) InStock() bool {
	return p.Stock != nil && *p.Stock > 0
}

// PriceValue returns the price as a float64 for similarity math.
func (p *Product) PriceValue() float64 {
	return p.Price.InexactFloat64()
}

// NormalizedCategory returns the category lowercased and trimmed, the form
// all category comparisons operate on. An uncategorized product yields "".
func (p *Product) NormalizedCategory() string {
	return strings.ToLower(strings.TrimSpace(p.Category))
}
