// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

// Package orders persists orders and drives the order lifecycle. Checkout
// itself (payments, carts, addresses) lives outside this backend; this
// service covers what the recommendation engine needs: finalized orders
// landing in the catalog store and a completion event invalidating the
// model, plus the timed status progression.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shopsphere/backend/internal/catalog"
	"github.com/shopsphere/backend/internal/events"
	"github.com/shopsphere/backend/internal/models"
)

// Service places orders and advances their statuses.
type Service struct {
	store  catalog.Store
	bus    *events.Bus
	logger zerolog.Logger
}

// NewService creates the order service.
func NewService(store catalog.Store, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		bus:    bus,
		logger: logger.With().Str("component", "orders").Logger(),
	}
}

// PlaceOrder validates the requested lines against the catalog, persists the
// order as PENDING, and publishes the completion event that invalidates the
// recommendation model.
func (s *Service) PlaceOrder(ctx context.Context, items []models.PlaceOrderItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("place order: no items")
	}

	order := models.Order{
		ID:        uuid.NewString(),
		Status:    models.OrderPending,
		CreatedAt: time.Now().UTC(),
		Total:     decimal.Zero,
	}
	for _, item := range items {
		product, err := s.store.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("place order: %w", err)
		}
		if !product.InStock() {
			return nil, fmt.Errorf("place order: product %d out of stock", item.ProductID)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		order.Total = order.Total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if err := s.store.SaveOrder(ctx, &order); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	event := events.OrderCompleted{
		OrderID:    order.ID,
		ProductIDs: order.ProductIDs(),
		OccurredAt: order.CreatedAt,
	}
	if err := s.bus.PublishOrderCompleted(ctx, event); err != nil {
		// The order is already persisted; the hourly refresh will pick
		// it up even if the invalidation event is lost.
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("Failed to publish completion event")
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Int("items", len(order.Items)).
		Str("total", order.Total.StringFixed(2)).
		Msg("Order placed")
	return &order, nil
}

// AdvanceStatuses moves every non-terminal order one step along
// PENDING -> PROCESSING -> SHIPPED -> DELIVERED. CANCELLED orders are never
// touched. Returns the number of orders advanced.
func (s *Service) AdvanceStatuses(ctx context.Context) (int, error) {
	advanced := 0
	// Walk states from the latest backwards so one pass never advances an
	// order twice.
	for _, status := range []models.OrderStatus{models.OrderShipped, models.OrderProcessing, models.OrderPending} {
		next, ok := status.Next()
		if !ok {
			continue
		}
		batch, err := s.store.ListOrdersByStatus(ctx, status)
		if err != nil {
			return advanced, fmt.Errorf("advance statuses: %w", err)
		}
		for _, o := range batch {
			if err := s.store.UpdateOrderStatus(ctx, o.ID, next); err != nil {
				s.logger.Warn().Err(err).Str("order_id", o.ID).Msg("Failed to advance order")
				continue
			}
			advanced++
		}
	}
	if advanced > 0 {
		s.logger.Debug().Int("advanced", advanced).Msg("Order statuses advanced")
	}
	return advanced, nil
}
