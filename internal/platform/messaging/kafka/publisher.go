package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/openledgerhq/erp_backend/internal/apperrors"
	portssvc "github.com/openledgerhq/erp_backend/internal/core/ports/services"
	"github.com/openledgerhq/erp_backend/internal/events"
)

// Publisher writes event envelopes to Kafka. One writer serves every topic;
// the topic is resolved per message from the event type. Messages are keyed by
// event ID so redeliveries land on the same partition.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka-backed event publisher.
func NewPublisher(brokers []string, logger *slog.Logger) *Publisher {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// Ensure Publisher implements the portssvc.EventPublisher interface
var _ portssvc.EventPublisher = (*Publisher)(nil)

// Publish writes one envelope to the topic for its event type.
func (p *Publisher) Publish(ctx context.Context, env events.Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope %s: %w", env.EventID, err)
	}

	msg := kafkago.Message{
		Topic: events.TopicFor(env.EventType),
		Key:   []byte(env.EventID),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte(env.EventType)},
			{Key: "schema-version", Value: []byte(env.SchemaVersion)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Kafka write failed",
			slog.String("event_id", env.EventID),
			slog.String("event_type", string(env.EventType)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", apperrors.ErrPublish, err)
	}

	p.logger.Debug("Event published",
		slog.String("event_id", env.EventID),
		slog.String("event_type", string(env.EventType)),
		slog.String("topic", msg.Topic),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
