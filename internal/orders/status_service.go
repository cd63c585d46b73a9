// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package orders

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// StatusService is a supervised service that periodically advances order
// statuses. It runs under the suture supervision tree.
type StatusService struct {
	service  *Service
	interval time.Duration
	logger   zerolog.Logger
}

// NewStatusService creates the periodic status progression service.
func NewStatusService(service *Service, interval time.Duration, logger zerolog.Logger) *StatusService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &StatusService{
		service:  service,
		interval: interval,
		logger:   logger.With().Str("component", "order-status").Logger(),
	}
}

// String implements suture's service naming.
func (s *StatusService) String() string {
	return "order-status"
}

// Serve runs the progression loop until the context is cancelled.
func (s *StatusService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("Order status service started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Order status service stopping")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.service.AdvanceStatuses(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Status progression failed")
			}
		}
	}
}
