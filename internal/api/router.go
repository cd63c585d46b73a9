// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router assembles the HTTP routes from the handler set and middleware.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates the router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, mwConfig *MiddlewareConfig) *Router {
	return &Router{
		handler:    handler,
		middleware: NewMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes using the Chi router.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware stack, applied to all routes in order.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// Health endpoints.
	r.Route("/healthz", func(r chi.Router) {
		r.Use(router.middleware.RateLimitHealth())
		r.Get("/", router.handler.HealthLive)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Recommendation reads.
	r.Route("/api/v1/products/{productID}", func(r chi.Router) {
		r.Use(router.middleware.RateLimitReads())
		r.Use(APISecurityHeaders())

		r.Get("/recommendations", router.handler.ProductRecommendations)
		r.Get("/frequently-bought-together", router.handler.FrequentlyBoughtTogether)
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(router.middleware.RateLimitReads())
		r.Use(APISecurityHeaders())

		r.Post("/recommendations", router.handler.CartRecommendations)
	})

	// Orders.
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(router.middleware.RateLimitWrites())
		r.Use(APISecurityHeaders())

		r.Post("/", router.handler.PlaceOrder)
	})

	// Model operations.
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.With(router.middleware.RateLimit()).Get("/status", router.handler.RecommendationStatus)
		r.With(router.middleware.RateLimitWrites()).Post("/rebuild", router.handler.TriggerRebuild)
	})

	// Observability.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
