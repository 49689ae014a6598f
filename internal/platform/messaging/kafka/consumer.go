package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/openledgerhq/erp_backend/internal/events"
)

// Handler processes one decoded envelope. A returned error leaves the message
// uncommitted so the group redelivers it.
type Handler func(ctx context.Context, env events.Envelope) error

// Consumer reads event envelopes from the ERP topics as part of a consumer
// group and dispatches them to a handler. Offsets are committed only after the
// handler succeeds, giving at-least-once delivery.
type Consumer struct {
	reader  *kafkago.Reader
	handler Handler
	logger  *slog.Logger
}

// NewConsumer creates a consumer subscribed to every ERP topic.
func NewConsumer(brokers []string, groupID string, handler Handler, logger *slog.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		GroupTopics: []string{
			events.TopicHR,
			events.TopicPayroll,
			events.TopicBilling,
			events.TopicProcurement,
			events.TopicInventory,
		},
	})
	return &Consumer{
		reader:  reader,
		handler: handler,
		logger:  logger,
	}
}

// Run fetches and dispatches messages until the context is cancelled.
// A message that cannot be decoded is committed and dropped; a handler error
// leaves the offset uncommitted for redelivery.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var env events.Envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			c.logger.Error("Dropping undecodable message",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return err
			}
			continue
		}

		if err := c.handler(ctx, env); err != nil {
			c.logger.Error("Event handler failed, message will be redelivered",
				slog.String("event_id", env.EventID),
				slog.String("event_type", string(env.EventType)),
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
