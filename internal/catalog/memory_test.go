// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopsphere/backend/internal/models"
)

func testProduct(id int64, category string) models.Product {
	stock := 10
	rating := 4.0
	return models.Product{
		ID:       id,
		Name:     "Product",
		Category: category,
		Price:    decimal.NewFromInt(10),
		Rating:   &rating,
		Stock:    &stock,
	}
}

func TestMemoryStoreGetProduct(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	store.PutProduct(testProduct(1, "electronics"))

	got, err := store.GetProduct(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetProduct(1) error: %v", err)
	}
	if got.ID != 1 {
		t.Errorf("GetProduct(1).ID = %d, want 1", got.ID)
	}

	_, err = store.GetProduct(context.Background(), 99)
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("GetProduct(99) error = %v, want ErrProductNotFound", err)
	}
}

func TestMemoryStoreListProductsByCategory(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	store.PutProduct(testProduct(1, "Electronics"))
	store.PutProduct(testProduct(2, "electronics "))
	store.PutProduct(testProduct(3, "clothing"))

	got, err := store.ListProductsByCategory(context.Background(), "ELECTRONICS")
	if err != nil {
		t.Fatalf("ListProductsByCategory error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2 (case-insensitive trimmed match)", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("products = [%d %d], want [1 2]", got[0].ID, got[1].ID)
	}
}

func TestMemoryStoreExcludesCancelledOrders(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	orders := []models.Order{
		{ID: "a", Status: models.OrderDelivered, Items: []models.OrderItem{{ProductID: 1, Quantity: 1}}, CreatedAt: time.Now()},
		{ID: "b", Status: models.OrderCancelled, Items: []models.OrderItem{{ProductID: 2, Quantity: 1}}, CreatedAt: time.Now()},
		{ID: "c", Status: models.OrderPending, Items: []models.OrderItem{{ProductID: 3, Quantity: 1}}, CreatedAt: time.Now()},
	}
	for i := range orders {
		if err := store.SaveOrder(ctx, &orders[i]); err != nil {
			t.Fatalf("SaveOrder(%s) error: %v", orders[i].ID, err)
		}
	}

	got, err := store.ListNonCancelledOrdersWithItems(ctx)
	if err != nil {
		t.Fatalf("ListNonCancelledOrdersWithItems error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d orders, want 2", len(got))
	}
	for _, o := range got {
		if o.Status == models.OrderCancelled {
			t.Errorf("cancelled order %s included in training corpus", o.ID)
		}
		if len(o.Items) == 0 {
			t.Errorf("order %s returned without items", o.ID)
		}
	}
}

func TestMemoryStoreUpdateOrderStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	order := models.Order{ID: "a", Status: models.OrderPending}
	if err := store.SaveOrder(ctx, &order); err != nil {
		t.Fatalf("SaveOrder error: %v", err)
	}

	if err := store.UpdateOrderStatus(ctx, "a", models.OrderProcessing); err != nil {
		t.Fatalf("UpdateOrderStatus error: %v", err)
	}

	got, err := store.ListOrdersByStatus(ctx, models.OrderProcessing)
	if err != nil {
		t.Fatalf("ListOrdersByStatus error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("ListOrdersByStatus = %v, want single order a", got)
	}

	err = store.UpdateOrderStatus(ctx, "missing", models.OrderShipped)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("UpdateOrderStatus(missing) error = %v, want ErrOrderNotFound", err)
	}
}

func TestSeedDemo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	if err := SeedDemo(ctx, store); err != nil {
		t.Fatalf("SeedDemo error: %v", err)
	}

	products, err := store.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts error: %v", err)
	}
	if len(products) == 0 {
		t.Fatal("seed produced no products")
	}

	orders, err := store.ListNonCancelledOrdersWithItems(ctx)
	if err != nil {
		t.Fatalf("ListNonCancelledOrdersWithItems error: %v", err)
	}
	if len(orders) == 0 {
		t.Fatal("seed produced no orders")
	}
	for _, o := range orders {
		if len(o.Items) == 0 {
			t.Errorf("seeded order %s has no items", o.ID)
		}
	}
}
