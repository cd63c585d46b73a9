// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package events

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Invalidator marks the recommendation model stale. Satisfied by
// *recommend.Engine.
type Invalidator interface {
	Invalidate()
}

// Relay subscribes to OrderCompleted and invalidates the recommendation
// model for each event. It runs as a service under the supervision tree.
type Relay struct {
	bus         *Bus
	invalidator Invalidator
	logger      zerolog.Logger
}

// NewRelay creates the order-completion relay.
func NewRelay(bus *Bus, invalidator Invalidator, logger zerolog.Logger) *Relay {
	return &Relay{
		bus:         bus,
		invalidator: invalidator,
		logger:      logger.With().Str("component", "events-relay").Logger(),
	}
}

// String implements suture's service naming.
func (r *Relay) String() string { return "events-relay" }

// Serve consumes OrderCompleted events until ctx is cancelled.
func (r *Relay) Serve(ctx context.Context) error {
	messages, err := r.bus.SubscribeOrderCompleted(ctx)
	if err != nil {
		return err
	}

	r.logger.Info().Str("topic", TopicOrderCompleted).Msg("Relay started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return ctx.Err()
			}
			var event OrderCompleted
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				r.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed event")
				msg.Ack()
				continue
			}
			r.invalidator.Invalidate()
			r.logger.Debug().
				Str("order_id", event.OrderID).
				Int("products", len(event.ProductIDs)).
				Msg("Model invalidated for completed order")
			msg.Ack()
		}
	}
}
