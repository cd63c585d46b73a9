// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package recommend

import (
	"github.com/shopsphere/backend/internal/models"
)

// buildCoOccurrence derives the symmetric support matrix from order history.
//
// For each order, the distinct set of product ids contributes one count to
// every unordered pair, stored in both directions. Counts are divided by the
// total order count at the end, converting them to support fractions in
// [0, 1]. Duplicate line items within an order never inflate a pair's weight.
func buildCoOccurrence(orders []models.Order) *Matrix {
	if len(orders) == 0 {
		return emptyMatrix
	}

	b := newMatrixBuilder()
	for _, order := range orders {
		ids := order.ProductIDs()
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				b.add(ids[i], ids[j], 1.0)
				b.add(ids[j], ids[i], 1.0)
			}
		}
	}

	// The support base rate is the order count at build time.
	b.scale(1.0 / float64(len(orders)))
	return b.build()
}
