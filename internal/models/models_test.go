// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestProductRatingValue(t *testing.T) {
	t.Parallel()

	rating := 4.5
	tests := []struct {
		name    string
		product Product
		want    float64
	}{
		{"nil rating treated as zero", Product{}, 0},
		{"present rating returned", Product{Rating: &rating}, 4.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.product.RatingValue(); got != tt.want {
				t.Errorf("RatingValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProductInStock(t *testing.T) {
	t.Parallel()

	zero := 0
	ten := 10
	negative := -1
	tests := []struct {
		name    string
		product Product
		want    bool
	}{
		{"nil stock unavailable", Product{}, false},
		{"zero stock unavailable", Product{Stock: &zero}, false},
		{"negative stock unavailable", Product{Stock: &negative}, false},
		{"positive stock available", Product{Stock: &ten}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.product.InStock(); got != tt.want {
				t.Errorf("InStock() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProductNormalizedCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		category string
		want     string
	}{
		{"lowercased", "Electronics", "electronics"},
		{"trimmed", "  clothing  ", "clothing"},
		{"empty stays empty", "", ""},
		{"path preserved", "Clothing/Mens", "clothing/mens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Product{Category: tt.category}
			if got := p.NormalizedCategory(); got != tt.want {
				t.Errorf("NormalizedCategory() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOrderStatusNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  OrderStatus
		want    OrderStatus
		advance bool
	}{
		{"pending to processing", OrderPending, OrderProcessing, true},
		{"processing to shipped", OrderProcessing, OrderShipped, true},
		{"shipped to delivered", OrderShipped, OrderDelivered, true},
		{"delivered is terminal", OrderDelivered, OrderDelivered, false},
		{"cancelled is terminal", OrderCancelled, OrderCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tt.status.Next()
			if got != tt.want || ok != tt.advance {
				t.Errorf("Next() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.advance)
			}
		})
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	t.Parallel()

	for _, s := range []OrderStatus{OrderPending, OrderProcessing, OrderShipped} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []OrderStatus{OrderDelivered, OrderCancelled} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestOrderProductIDs(t *testing.T) {
	t.Parallel()

	price := decimal.NewFromInt(10)
	tests := []struct {
		name  string
		items []OrderItem
		want  []int64
	}{
		{"empty order", nil, []int64{}},
		{
			"distinct items",
			[]OrderItem{{ProductID: 1, Quantity: 1, Price: price}, {ProductID: 2, Quantity: 1, Price: price}},
			[]int64{1, 2},
		},
		{
			"duplicate lines collapse",
			[]OrderItem{{ProductID: 7, Quantity: 1, Price: price}, {ProductID: 7, Quantity: 3, Price: price}},
			[]int64{7},
		},
		{
			"order preserved",
			[]OrderItem{{ProductID: 3}, {ProductID: 1}, {ProductID: 3}, {ProductID: 2}},
			[]int64{3, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := Order{Items: tt.items}
			got := o.ProductIDs()
			if len(got) != len(tt.want) {
				t.Fatalf("ProductIDs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ProductIDs()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}
