package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/openledgerhq/erp_backend/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	payload := events.StockLevelLowPayload{
		SKU:               "WID-001",
		Name:              "Widget",
		AvailableQuantity: 40,
		ReorderPoint:      50,
		ReorderQuantity:   100,
		UnitCost:          decimal.NewFromFloat(2.50),
		DetectedAt:        time.Now().UTC(),
	}

	env, err := events.NewEnvelope(events.EventStockLevelLow, "inventory-service", payload, events.Metadata{
		CorrelationID: "corr-1",
		ActorID:       "user-1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, events.EventStockLevelLow, env.EventType)
	assert.Equal(t, events.SchemaVersion, env.SchemaVersion)
	assert.Equal(t, "inventory-service", env.Source)
	assert.Equal(t, "corr-1", env.Metadata.CorrelationID)
	assert.False(t, env.OccurredAt.IsZero())

	var decoded events.StockLevelLowPayload
	require.NoError(t, env.DecodePayload(&decoded))
	assert.Equal(t, payload.SKU, decoded.SKU)
	assert.True(t, payload.UnitCost.Equal(decoded.UnitCost))
}

func TestEnvelope_RoundTripsThroughJSON(t *testing.T) {
	env, err := events.NewEnvelope(events.EventPayrollProcessed, "payroll-service", events.PayrollProcessedPayload{
		PayrollID: "pr-1",
		GrossPay:  decimal.NewFromInt(1000),
	}, events.Metadata{})
	require.NoError(t, err)

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded events.Envelope
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, env.EventID, decoded.EventID)
	assert.Equal(t, env.EventType, decoded.EventType)

	var p events.PayrollProcessedPayload
	require.NoError(t, decoded.DecodePayload(&p))
	assert.Equal(t, "pr-1", p.PayrollID)
}

func TestTopicFor(t *testing.T) {
	assert.Equal(t, events.TopicPayroll, events.TopicFor(events.EventPayrollProcessed))
	assert.Equal(t, events.TopicBilling, events.TopicFor(events.EventInvoiceCreated))
	assert.Equal(t, events.TopicProcurement, events.TopicFor(events.EventPurchaseOrderReceived))
	assert.Equal(t, events.TopicInventory, events.TopicFor(events.EventStockLevelLow))
	assert.Equal(t, events.TopicHR, events.TopicFor(events.EventEmployeeCreated))
}
