// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

// Package events carries order lifecycle events between the order service
// and the recommendation engine over Watermill's in-process Pub/Sub.
//
// The only event today is OrderCompleted, published after an order is
// persisted. The Relay subscribes and invalidates the recommendation model
// so the next query reflects the new purchase data. The publish path makes
// model eviction a visible call rather than a hidden side effect of saving
// an order.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
)

// TopicOrderCompleted is the topic OrderCompleted events are published on.
const TopicOrderCompleted = "order.completed"

// OrderCompleted is emitted after an order has been persisted.
type OrderCompleted struct {
	OrderID    string    `json:"order_id"`
	ProductIDs []int64   `json:"product_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Bus is an in-process event bus. All services in one process share a
// single Bus instance.
type Bus struct {
	channel *gochannel.GoChannel
}

// NewBus creates an in-process bus.
func NewBus() *Bus {
	return &Bus{
		channel: gochannel.NewGoChannel(gochannel.Config{
			// Events published before the relay subscribes would
			// otherwise be dropped during startup.
			Persistent: true,
		}, watermill.NewStdLogger(false, false)),
	}
}

// PublishOrderCompleted publishes an OrderCompleted event.
func (b *Bus) PublishOrderCompleted(_ context.Context, event OrderCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order completed event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.channel.Publish(TopicOrderCompleted, msg); err != nil {
		return fmt.Errorf("publish order completed event: %w", err)
	}
	return nil
}

// SubscribeOrderCompleted subscribes to OrderCompleted events. The returned
// channel closes when ctx is cancelled or the bus shuts down.
func (b *Bus) SubscribeOrderCompleted(ctx context.Context) (<-chan *message.Message, error) {
	messages, err := b.channel.Subscribe(ctx, TopicOrderCompleted)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", TopicOrderCompleted, err)
	}
	return messages, nil
}

// Close shuts the bus down, closing all subscriber channels.
func (b *Bus) Close() error {
	return b.channel.Close()
}
