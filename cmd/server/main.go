// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

// Package main is the entry point for the ShopSphere recommendation backend.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered loading via Koanf v2 (defaults, YAML file, env)
//  2. Logging: zerolog with the configured level and format
//  3. Catalog store: embedded DuckDB or the in-memory store
//  4. Recommendation engine: co-occurrence, similarity, and association models
//  5. Event bus: in-process order-completed events invalidate the model
//  6. Supervisor tree: model refresh, event relay, order status progression,
//     and the HTTP server, each restarted independently on failure
//
// # Configuration
//
// Configuration sources in increasing priority: built-in defaults, a YAML
// config file (CONFIG_PATH or config.yaml), environment variables.
//
// Common settings:
//   - HTTP_PORT: listen port (default 8080)
//   - DB_DRIVER: "duckdb" or "memory" (default duckdb)
//   - DUCKDB_PATH: database file path
//   - SEED_DEMO_DATA: seed a demo catalog (memory driver only)
//   - RECOMMEND_REFRESH_INTERVAL: model rebuild period (default 1h)
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP server
// drains in-flight requests, then workers stop and the store closes.
//
// # Example Usage
//
// Demo mode with an in-memory catalog:
//
//	export DB_DRIVER=memory
//	export SEED_DEMO_DATA=true
//	./shopsphere
//
// Production with DuckDB:
//
//	export DUCKDB_PATH=/data/shopsphere.duckdb
//	export CORS_ORIGINS=https://shop.example.com
//	./shopsphere
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/shopsphere/backend/internal/api"
	"github.com/shopsphere/backend/internal/catalog"
	"github.com/shopsphere/backend/internal/config"
	"github.com/shopsphere/backend/internal/events"
	"github.com/shopsphere/backend/internal/logging"
	"github.com/shopsphere/backend/internal/orders"
	"github.com/shopsphere/backend/internal/recommend"
	"github.com/shopsphere/backend/internal/supervisor"
	"github.com/shopsphere/backend/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not yet available, so the default logger reports this.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_driver", cfg.Database.Driver).
		Msg("Starting ShopSphere recommendation backend")

	store, err := openStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open catalog store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog store")
		}
	}()

	engine, err := recommend.NewEngine(store, cfg.Recommend.EngineConfig(), logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	bus := events.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	orderService := orders.NewService(store, bus, logging.Logger())

	handler := api.NewHandler(engine, orderService, logging.Logger())
	router := api.NewRouter(handler, &api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Security.RateLimitRequests,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddWorker(services.NewRefreshService(engine, services.RefreshServiceConfig{
		RebuildOnStartup: cfg.Recommend.RebuildOnStartup,
		Interval:         cfg.Recommend.RefreshInterval,
	}, logging.Logger()))
	tree.AddWorker(events.NewRelay(bus, engine, logging.Logger()))
	tree.AddWorker(orders.NewStatusService(orderService, cfg.Orders.StatusInterval, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Supervisor tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree terminated")
	}
	logging.Info().Msg("Shutdown complete")
}

// openStore opens the configured catalog store and seeds the demo catalog
// when requested.
func openStore(cfg *config.Config) (catalog.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := catalog.NewMemoryStore()
		if cfg.Database.SeedDemo {
			if err := catalog.SeedDemo(context.Background(), store); err != nil {
				return nil, err
			}
			logging.Info().Msg("Demo catalog seeded")
		}
		return store, nil

	case config.DriverDuckDB:
		if cfg.Database.SeedDemo {
			logging.Warn().Msg("SEED_DEMO_DATA is only supported with the memory driver, ignoring")
		}
		return catalog.OpenSQLStore(cfg.Database.Path)

	default:
		// Validate() rejects unknown drivers before this point.
		return nil, errors.New("unknown database driver " + cfg.Database.Driver)
	}
}
