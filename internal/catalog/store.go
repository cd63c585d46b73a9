// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

// Package catalog provides product and order persistence for the
// recommendation engine.
//
// Two implementations of Store exist: MemoryStore, an RWMutex-guarded
// in-memory store used by tests and standalone mode, and SQLStore, a
// DuckDB-backed store for deployments with a persistent catalog.
package catalog

import (
	"context"
	"errors"

	"github.com/shopsphere/backend/internal/models"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrProductNotFound indicates the requested product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrOrderNotFound indicates the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")
)

// Store is the catalog access interface the recommendation engine and order
// service depend on. Implementations must be safe for concurrent use.
type Store interface {
	// GetProduct returns the product with the given id, or ErrProductNotFound.
	GetProduct(ctx context.Context, id int64) (*models.Product, error)

	// ListProducts returns all products in the catalog.
	ListProducts(ctx context.Context) ([]models.Product, error)

	// ListProductsByCategory returns all products whose category matches the
	// given one, compared case-insensitively after trimming.
	ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error)

	// ListNonCancelledOrdersWithItems returns every order that is not
	// CANCELLED, with line items populated. This is the recommendation
	// engine's training corpus.
	ListNonCancelledOrdersWithItems(ctx context.Context) ([]models.Order, error)

	// SaveOrder persists a new order with its items.
	SaveOrder(ctx context.Context, order *models.Order) error

	// UpdateOrderStatus sets the status of an existing order, or returns
	// ErrOrderNotFound.
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error

	// ListOrdersByStatus returns all orders currently in the given status.
	ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)

	// Close releases any resources held by the store.
	Close() error
}
