// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package recommend

import (
	"github.com/shopsphere/backend/internal/models"
)

// mineAssociations computes association-rule confidences for one target
// product: for every other product p, confidence = P(p bought | target
// bought), keeping only rules at or above minConfidence. Computed fresh per
// call from the order corpus, never cached.
func mineAssociations(orders []models.Order, targetID int64, minConfidence float64) map[int64]float64 {
	rules := make(map[int64]float64)
	if len(orders) == 0 {
		return rules
	}

	frequency := 0
	coCounts := make(map[int64]int)
	for _, order := range orders {
		ids := order.ProductIDs()
		containsTarget := false
		for _, id := range ids {
			if id == targetID {
				containsTarget = true
				break
			}
		}
		if !containsTarget {
			continue
		}
		frequency++
		for _, id := range ids {
			if id != targetID {
				coCounts[id]++
			}
		}
	}

	if frequency == 0 {
		return rules
	}

	for id, count := range coCounts {
		confidence := float64(count) / float64(frequency)
		if confidence >= minConfidence {
			rules[id] = confidence
		}
	}
	return rules
}
