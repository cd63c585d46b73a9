// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopsphere/backend/internal/models"
)

// MemoryStore is an in-memory Store implementation. It backs tests and
// standalone deployments where the catalog is seeded at startup.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]models.Product
	orders   map[string]models.Order
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]models.Product),
		orders:   make(map[string]models.Order),
	}
}

// Interface compliance check.
var _ Store = (*MemoryStore)(nil)

// PutProduct inserts or replaces a product.
func (s *MemoryStore) PutProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// GetProduct returns the product with the given id.
func (s *MemoryStore) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("get product %d: %w", id, ErrProductNotFound)
	}
	return &p, nil
}

// ListProducts returns all products sorted by id for deterministic iteration.
func (s *MemoryStore) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListProductsByCategory returns all products in the given category,
// compared case-insensitively after trimming.
func (s *MemoryStore) ListProductsByCategory(_ context.Context, category string) ([]models.Product, error) {
	want := strings.ToLower(strings.TrimSpace(category))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0)
	for _, p := range s.products {
		if p.NormalizedCategory() == want {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListNonCancelledOrdersWithItems returns every non-CANCELLED order.
func (s *MemoryStore) ListNonCancelledOrdersWithItems(_ context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if o.Status == models.OrderCancelled {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// SaveOrder persists a new order.
func (s *MemoryStore) SaveOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	order.UpdatedAt = order.CreatedAt
	s.orders[order.ID] = *order
	return nil
}

// UpdateOrderStatus sets the status of an existing order.
func (s *MemoryStore) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return fmt.Errorf("update order %s: %w", id, ErrOrderNotFound)
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	s.orders[id] = o
	return nil
}

// ListOrdersByStatus returns all orders in the given status.
func (s *MemoryStore) ListOrdersByStatus(_ context.Context, status models.OrderStatus) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0)
	for _, o := range s.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
