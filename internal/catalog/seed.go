// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopsphere/backend/internal/models"
)

// SeedDemo loads a small demonstration catalog and order history into the
// store. It is used by standalone mode so the recommendation endpoints return
// data out of the box.
func SeedDemo(ctx context.Context, store Store) error {
	ms, ok := store.(*MemoryStore)
	if !ok {
		return fmt.Errorf("seed demo: only the in-memory store supports seeding")
	}

	now := time.Now().UTC()
	for _, p := range demoProducts(now) {
		ms.PutProduct(p)
	}

	for _, ids := range demoOrders() {
		order := models.Order{
			ID:        uuid.NewString(),
			Status:    models.OrderDelivered,
			CreatedAt: now,
		}
		for _, id := range ids {
			p, err := ms.GetProduct(ctx, id)
			if err != nil {
				return fmt.Errorf("seed demo order: %w", err)
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: id,
				Quantity:  1,
				Price:     p.Price,
			})
			order.Total = order.Total.Add(p.Price)
		}
		if err := ms.SaveOrder(ctx, &order); err != nil {
			return fmt.Errorf("seed demo order: %w", err)
		}
	}
	return nil
}

func demoProducts(now time.Time) []models.Product {
	mk := func(id int64, name, desc, category string, price float64, rating float64, reviews, stock int) models.Product {
		r := rating
		s := stock
		return models.Product{
			ID:          id,
			Name:        name,
			Description: desc,
			Category:    category,
			Price:       decimal.NewFromFloat(price),
			Rating:      &r,
			ReviewCount: reviews,
			Stock:       &s,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	return []models.Product{
		mk(1, "Aurora Wireless Earbuds", "Compact earbuds with noise cancellation", "electronics", 89.99, 4.4, 812, 40),
		mk(2, "Aurora Charging Case", "Spare charging case for Aurora earbuds", "accessories", 24.99, 4.1, 203, 75),
		mk(3, "Volt USB-C Charger 65W", "Fast charger for phones and laptops", "accessories", 34.99, 4.6, 1510, 120),
		mk(4, "Nimbus 14 Laptop", "Lightweight 14-inch laptop for travel", "electronics", 999.00, 4.5, 964, 12),
		mk(5, "Nimbus Laptop Sleeve", "Padded sleeve sized for 14-inch laptops", "accessories", 29.99, 4.3, 388, 60),
		mk(6, "Stride Running Shoes", "Cushioned trainers for daily runs", "sports", 119.99, 4.2, 677, 35),
		mk(7, "Stride Performance Socks", "Moisture-wicking crew socks, 3 pack", "sports", 16.99, 4.0, 254, 90),
		mk(8, "Trail Water Bottle 750ml", "Insulated stainless bottle", "sports", 21.99, 4.7, 1893, 150),
		mk(9, "Classic Denim Jacket", "Mid-weight denim jacket", "clothing", 79.99, 4.3, 441, 25),
		mk(10, "Heritage White Tee", "Organic cotton crew-neck tee", "clothing", 24.99, 4.1, 980, 200),
		mk(11, "Ember Ceramic Mug", "Double-walled ceramic mug", "home", 18.99, 4.5, 520, 85),
		mk(12, "Ember Pour-Over Kettle", "Gooseneck kettle for pour-over coffee", "home", 64.99, 4.6, 310, 30),
	}
}

// demoOrders lists product id baskets that seed the co-occurrence history.
func demoOrders() [][]int64 {
	return [][]int64{
		{1, 2, 3},
		{1, 2},
		{1, 3},
		{4, 5, 3},
		{4, 5},
		{6, 7},
		{6, 7, 8},
		{6, 8},
		{9, 10},
		{11, 12},
		{11, 12},
		{1, 4},
	}
}
