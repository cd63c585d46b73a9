// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ModelBuilder is the engine surface the refresh service needs. Declared
// here to avoid importing the engine package.
type ModelBuilder interface {
	Rebuild(ctx context.Context) error
}

// RefreshServiceConfig holds configuration for the model refresh service.
type RefreshServiceConfig struct {
	// RebuildOnStartup triggers a rebuild when the service starts.
	RebuildOnStartup bool

	// Interval is how often to rebuild the model.
	Interval time.Duration

	// RebuildTimeout bounds a single rebuild cycle.
	RebuildTimeout time.Duration
}

// RefreshService periodically rebuilds the recommendation model under
// suture supervision. A failed rebuild is logged and retried on the next
// tick; the engine keeps serving the previous model meanwhile.
type RefreshService struct {
	engine ModelBuilder
	config RefreshServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRefreshService creates the model refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshService(engine ModelBuilder, cfg RefreshServiceConfig, logger zerolog.Logger) *RefreshService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.RebuildTimeout <= 0 {
		cfg.RebuildTimeout = 10 * time.Minute
	}
	return &RefreshService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "refresh").Logger(),
		name:   "model-refresh",
	}
}

// Serve implements suture.Service. It manages the rebuild loop.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("rebuild_on_startup", s.config.RebuildOnStartup).
		Dur("interval", s.config.Interval).
		Msg("Model refresh service starting")

	if s.config.RebuildOnStartup {
		if err := s.rebuild(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Initial rebuild failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Model refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.rebuild(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("Scheduled rebuild failed")
			}
		}
	}
}

// rebuild performs one rebuild cycle with its own timeout.
func (s *RefreshService) rebuild(ctx context.Context) error {
	rebuildCtx, cancel := context.WithTimeout(ctx, s.config.RebuildTimeout)
	defer cancel()

	start := time.Now()
	if err := s.engine.Rebuild(rebuildCtx); err != nil {
		return err
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("Model rebuild complete")
	return nil
}

// String returns the service name for logging.
func (s *RefreshService) String() string {
	return s.name
}
