// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

// Package recommend implements the product recommendation engine.
//
// # Architecture
//
// The engine derives two in-memory statistical models from the catalog:
//
//   - Co-occurrence: a symmetric product-by-product support matrix built
//     from non-cancelled order history (fraction of orders containing both
//     products)
//   - Content similarity: a sparse product-by-product matrix built from
//     category, price, and rating attributes
//
// A third signal, association-rule confidence, is mined on demand per query
// and never cached. Per-product queries blend the three signals with fixed
// weights, gate candidates by category relatedness, then apply a strict
// same-category presentation filter with an anti-duplicate name heuristic
// before ranking and truncating.
//
// # Model Lifecycle
//
// Both matrices are rebuilt wholesale, never incrementally. A rebuild
// constructs a fresh Model off to the side and publishes it with a single
// atomic pointer swap, so readers always observe either the previous or the
// next model and never a partial one. Rebuild failures leave the previous
// model in place.
//
// Invalidate marks the current model stale; the next query rebuilds before
// answering. Order completion drives Invalidate through the event relay,
// and the refresh service additionally rebuilds on a fixed interval.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(store, cfg, logger)
//	if err != nil {
//		return err
//	}
//
//	products, err := engine.Recommend(ctx, productID)
//
// # Thread Safety
//
// The engine is safe for concurrent use. Queries read the latest published
// model snapshot without blocking; at most one rebuild runs at a time.
package recommend
