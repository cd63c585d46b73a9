// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package recommend

import "time"

// Model is an immutable snapshot of the derived recommendation state. The
// engine publishes a new Model atomically on each rebuild; readers hold a
// reference to whichever snapshot was current when their query started.
type Model struct {
	// CoOccurrence maps product pairs to support (fraction of orders
	// containing both). Symmetric by construction.
	CoOccurrence *Matrix

	// Similarity maps product pairs to content similarity. Sparse: only
	// pairs above the configured threshold are stored.
	Similarity *Matrix

	// OrderCount is the number of non-cancelled orders at build time.
	OrderCount int

	// ProductCount is the catalog size at build time.
	ProductCount int

	// Version increments on every successful rebuild.
	Version uint64

	// BuiltAt is when the build completed.
	BuiltAt time.Time
}

// Status summarizes the engine's current model for operational endpoints.
type Status struct {
	Version           uint64    `json:"version"`
	BuiltAt           time.Time `json:"built_at"`
	OrderCount        int       `json:"order_count"`
	ProductCount      int       `json:"product_count"`
	CoOccurrencePairs int       `json:"co_occurrence_pairs"`
	SimilarityPairs   int       `json:"similarity_pairs"`
	Stale             bool      `json:"stale"`
}
