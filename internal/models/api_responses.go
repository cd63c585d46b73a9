// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"items": [...], "count": 4},
//	  "metadata": {
//	    "timestamp": "2026-08-28T12:00:00Z",
//	    "query_time_ms": 3
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "product_ids must not be empty",
//	    "details": {"field": "product_ids"}
//	  },
//	  "metadata": {"timestamp": "2026-08-28T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Handler execution time in milliseconds
//   - ModelVersion: Recommendation model version serving the request (omitted
//     on endpoints that do not consult the model)
type Metadata struct {
	Timestamp    time.Time `json:"timestamp"`
	QueryTimeMS  int64     `json:"query_time_ms,omitempty"`
	ModelVersion uint64    `json:"model_version,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - NOT_FOUND: Resource doesn't exist
//   - RECOMMENDATION_ERROR: Engine failure
//   - ORDER_ERROR: Order persistence failure
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RecommendationsResponse wraps a recommendation list for HTTP delivery.
// Items is always a non-nil slice so clients receive [] rather than null
// when nothing qualifies.
type RecommendationsResponse struct {
	ProductID int64     `json:"product_id,omitempty"`
	Items     []Product `json:"items"`
	Count     int       `json:"count"`
}

// CartRecommendationsRequest is the body of POST /cart/recommendations.
// An empty or absent cart is valid and yields an empty result.
type CartRecommendationsRequest struct {
	ProductIDs []int64 `json:"product_ids" validate:"omitempty,dive,gt=0"`
}

// PlaceOrderRequest is the body of POST /orders.
type PlaceOrderRequest struct {
	Items []PlaceOrderItem `json:"items" validate:"required,min=1,dive"`
}

// PlaceOrderItem is a single requested order line.
type PlaceOrderItem struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}
