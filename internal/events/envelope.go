package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the version stamped on every envelope this service emits.
const SchemaVersion = "1.0"

// Metadata carries cross-cutting correlation information for an event.
type Metadata struct {
	CorrelationID string `json:"correlationId,omitempty"`
	CausationID   string `json:"causationId,omitempty"`
	ActorID       string `json:"actorId,omitempty"`
}

// Envelope is the wire format for all domain events. Delivery is
// at-least-once; consumers must be idempotent on EventID.
type Envelope struct {
	EventID       string          `json:"eventId"`
	EventType     EventType       `json:"eventType"`
	SchemaVersion string          `json:"schemaVersion"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Source        string          `json:"source"` // originating service name
	Payload       json.RawMessage `json:"payload"`
	Metadata      Metadata        `json:"metadata"`
}

// NewEnvelope wraps a payload into a versioned envelope with a fresh event ID.
func NewEnvelope(eventType EventType, source string, payload any, meta Metadata) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal payload for %s: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		SchemaVersion: SchemaVersion,
		OccurredAt:    time.Now().UTC(),
		Source:        source,
		Payload:       raw,
		Metadata:      meta,
	}, nil
}

// DecodePayload unmarshals the envelope payload into the given target.
func (e Envelope) DecodePayload(target any) error {
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.EventType, err)
	}
	return nil
}
