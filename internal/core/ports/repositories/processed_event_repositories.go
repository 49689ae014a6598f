package repositories

import "context"

// ProcessedEventRepository records consumed event IDs so that at-least-once
// delivery can be handled idempotently.
type ProcessedEventRepository interface {
	// MarkProcessed records the event ID. It returns true when the event was
	// already recorded, in which case the consumer must skip the handler.
	MarkProcessed(ctx context.Context, eventID, eventType string) (alreadyProcessed bool, err error)

	// UnmarkProcessed removes a recorded event ID after its handler failed, so
	// the redelivered envelope is processed instead of skipped.
	UnmarkProcessed(ctx context.Context, eventID string) error
}
