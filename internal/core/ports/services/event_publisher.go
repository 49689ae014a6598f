package services

import (
	"context"

	"github.com/openledgerhq/erp_backend/internal/events"
)

// EventPublisher publishes domain event envelopes to the message bus.
// Delivery is at-least-once with persistent messages; a failed publish must
// never roll back the local state change that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, env events.Envelope) error
	Close() error
}
