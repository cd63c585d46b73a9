// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/shopsphere/backend/internal/models"
	"github.com/shopsphere/backend/internal/recommend"
)

// RecommendationEngine is the engine surface the handlers depend on.
type RecommendationEngine interface {
	Recommend(ctx context.Context, productID int64) ([]models.Product, error)
	FrequentlyBoughtTogether(ctx context.Context, productID int64) ([]models.Product, error)
	CartRecommendations(ctx context.Context, productIDs []int64) ([]models.Product, error)
	Status() recommend.Status
	ModelVersion() uint64
	Rebuild(ctx context.Context) error
}

// OrderPlacer is the order service surface the handlers depend on.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, items []models.PlaceOrderItem) (*models.Order, error)
}

// Interface compliance checks.
var _ RecommendationEngine = (*recommend.Engine)(nil)

// Handler holds the HTTP handlers for the recommendation API.
type Handler struct {
	engine   RecommendationEngine
	orders   OrderPlacer
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewHandler creates the API handler set.
func NewHandler(engine RecommendationEngine, orders OrderPlacer, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:   engine,
		orders:   orders,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// ProductRecommendations handles GET /api/v1/products/{productID}/recommendations.
//
// Recommendation reads degrade to an empty list on failure so a broken model
// or missing product never breaks the product page rendering around it.
func (h *Handler) ProductRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)
	productID, ok := h.productIDParam(rw, r)
	if !ok {
		return
	}

	items, err := h.engine.Recommend(r.Context(), productID)
	if err != nil {
		h.logger.Warn().Err(err).Int64("product_id", productID).Msg("Recommendation query failed")
		items = nil
	}
	rw.SuccessWithModel(models.RecommendationsResponse{
		ProductID: productID,
		Items:     nonNil(items),
		Count:     len(items),
	}, h.engine.ModelVersion())
}

// FrequentlyBoughtTogether handles
// GET /api/v1/products/{productID}/frequently-bought-together.
func (h *Handler) FrequentlyBoughtTogether(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)
	productID, ok := h.productIDParam(rw, r)
	if !ok {
		return
	}

	items, err := h.engine.FrequentlyBoughtTogether(r.Context(), productID)
	if err != nil {
		h.logger.Warn().Err(err).Int64("product_id", productID).Msg("FBT query failed")
		items = nil
	}
	rw.SuccessWithModel(models.RecommendationsResponse{
		ProductID: productID,
		Items:     nonNil(items),
		Count:     len(items),
	}, h.engine.ModelVersion())
}

// CartRecommendations handles POST /api/v1/cart/recommendations.
func (h *Handler) CartRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)

	var req models.CartRecommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}
	if details, ok := h.validateStruct(req); !ok {
		rw.ValidationError("invalid cart recommendation request", details)
		return
	}

	items, err := h.engine.CartRecommendations(r.Context(), req.ProductIDs)
	if err != nil {
		h.logger.Warn().Err(err).Int("cart_size", len(req.ProductIDs)).Msg("Cart recommendation query failed")
		items = nil
	}
	rw.SuccessWithModel(models.RecommendationsResponse{
		Items: nonNil(items),
		Count: len(items),
	}, h.engine.ModelVersion())
}

// PlaceOrder handles POST /api/v1/orders.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)

	var req models.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}
	if details, ok := h.validateStruct(req); !ok {
		rw.ValidationError("invalid order request", details)
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), req.Items)
	if err != nil {
		h.logger.Error().Err(err).Msg("Order placement failed")
		rw.Error(http.StatusUnprocessableEntity, ErrCodeOrder, "order could not be placed")
		return
	}
	rw.Created(order)
}

// RecommendationStatus handles GET /api/v1/recommendations/status.
func (h *Handler) RecommendationStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w).Success(h.engine.Status())
}

// TriggerRebuild handles POST /api/v1/recommendations/rebuild. It rebuilds
// synchronously and returns the resulting model status.
func (h *Handler) TriggerRebuild(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)
	if err := h.engine.Rebuild(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Manual rebuild failed")
		rw.Error(http.StatusInternalServerError, ErrCodeRecommendation, "model rebuild failed")
		return
	}
	rw.Success(h.engine.Status())
}

// HealthLive handles GET /healthz/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w).Success(map[string]interface{}{"status": "ok"})
}

// HealthReady handles GET /healthz/ready. The service is ready once a model
// has been built at least once.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)
	version := h.engine.ModelVersion()
	if version == 0 {
		rw.writeJSON(http.StatusServiceUnavailable, models.APIResponse{
			Status: "error",
			Error: &models.APIError{
				Code:    ErrCodeRecommendation,
				Message: "recommendation model not built yet",
			},
		})
		return
	}
	rw.Success(map[string]interface{}{
		"status":        "ready",
		"model_version": version,
	})
}

// productIDParam extracts and validates the productID path parameter,
// writing a 400 response when it is malformed.
func (h *Handler) productIDParam(rw *ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "productID")
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || productID <= 0 {
		rw.BadRequest("productID must be a positive integer")
		return 0, false
	}
	return productID, true
}

// validateStruct runs struct validation and converts failures into a
// field-keyed details map.
func (h *Handler) validateStruct(v interface{}) (map[string]interface{}, bool) {
	err := h.validate.Struct(v)
	if err == nil {
		return nil, true
	}

	details := map[string]interface{}{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return details, false
}

// nonNil returns an empty slice instead of nil so JSON encodes [] not null.
func nonNil(items []models.Product) []models.Product {
	if items == nil {
		return []models.Product{}
	}
	return items
}
