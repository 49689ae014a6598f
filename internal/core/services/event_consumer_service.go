package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/erp_backend/internal/core/ports/services"
	"github.com/openledgerhq/erp_backend/internal/dto"
	"github.com/openledgerhq/erp_backend/internal/events"
	"github.com/openledgerhq/erp_backend/internal/middleware"
)

// EventConsumerService turns consumed domain events into ledger postings.
// Delivery is at-least-once, so every event ID is claimed before its handler
// runs; a redelivered envelope is skipped without posting twice, and a failed
// handler releases the claim so the redelivery is processed.
type EventConsumerService struct {
	accountingSvc portssvc.AccountingSvcFacade
	reorderSvc    portssvc.ReorderEvaluatorSvc
	processedRepo portsrepo.ProcessedEventRepository
}

// NewEventConsumerService creates a new EventConsumerService.
func NewEventConsumerService(accountingSvc portssvc.AccountingSvcFacade, reorderSvc portssvc.ReorderEvaluatorSvc, processedRepo portsrepo.ProcessedEventRepository) *EventConsumerService {
	return &EventConsumerService{
		accountingSvc: accountingSvc,
		reorderSvc:    reorderSvc,
		processedRepo: processedRepo,
	}
}

// HandleEvent dispatches one envelope to its handler. A handler error is
// returned so the consumer can decide whether to retry; an unknown event type
// is acknowledged and dropped.
func (s *EventConsumerService) HandleEvent(ctx context.Context, env events.Envelope) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	alreadyProcessed, err := s.processedRepo.MarkProcessed(ctx, env.EventID, string(env.EventType))
	if err != nil {
		return fmt.Errorf("failed to record event %s: %w", env.EventID, err)
	}
	if alreadyProcessed {
		logger.Info("Skipping already processed event",
			slog.String("event_id", env.EventID),
			slog.String("event_type", string(env.EventType)),
		)
		return nil
	}

	actorID := env.Metadata.ActorID
	if actorID == "" {
		actorID = "event-consumer"
	}

	var handlerErr error
	switch env.EventType {
	case events.EventPayrollProcessed:
		handlerErr = s.handlePayrollProcessed(ctx, env, actorID)
	case events.EventInvoiceSent:
		handlerErr = s.handleInvoiceSent(ctx, env, actorID)
	case events.EventPaymentReceived:
		handlerErr = s.handlePaymentReceived(ctx, env, actorID)
	case events.EventPurchaseOrderReceived:
		handlerErr = s.handlePurchaseOrderReceived(ctx, env, actorID)
	case events.EventStockLevelLow:
		handlerErr = s.handleStockLevelLow(ctx, env, actorID)
	default:
		logger.Info("Ignoring event with no accounting handler",
			slog.String("event_id", env.EventID),
			slog.String("event_type", string(env.EventType)),
		)
		return nil
	}

	if handlerErr != nil {
		// Release the claim on the event ID so the redelivery is handled
		// instead of skipped.
		if unmarkErr := s.processedRepo.UnmarkProcessed(ctx, env.EventID); unmarkErr != nil {
			logger.Error("Failed to unmark event after handler failure",
				slog.String("event_id", env.EventID),
				slog.String("error", unmarkErr.Error()),
			)
		}
		return handlerErr
	}
	return nil
}

func (s *EventConsumerService) handlePayrollProcessed(ctx context.Context, env events.Envelope, actorID string) error {
	var payload events.PayrollProcessedPayload
	if err := env.DecodePayload(&payload); err != nil {
		return err
	}
	_, err := s.accountingSvc.RecordPayrollExpense(ctx, dto.RecordPayrollExpenseRequest{
		GrossPay:    payload.GrossPay,
		TotalTaxes:  payload.TaxWithheld,
		NetPay:      payload.NetPay,
		Deductions:  payload.Deductions,
		Date:        env.OccurredAt,
		Description: fmt.Sprintf("Payroll %s for employee %s", payload.PayrollID, payload.EmployeeID),
		ReferenceID: payload.PayrollID,
	}, actorID)
	return err
}

func (s *EventConsumerService) handleInvoiceSent(ctx context.Context, env events.Envelope, actorID string) error {
	var payload events.InvoiceSentPayload
	if err := env.DecodePayload(&payload); err != nil {
		return err
	}
	_, err := s.accountingSvc.RecordRevenue(ctx, dto.RecordRevenueRequest{
		Amount:      payload.Subtotal,
		TaxAmount:   payload.TaxAmount,
		Date:        env.OccurredAt,
		Description: fmt.Sprintf("Invoice %s", payload.InvoiceNumber),
		ReferenceID: payload.InvoiceID,
	}, actorID)
	return err
}

func (s *EventConsumerService) handlePaymentReceived(ctx context.Context, env events.Envelope, actorID string) error {
	var payload events.PaymentReceivedPayload
	if err := env.DecodePayload(&payload); err != nil {
		return err
	}
	refType := "invoice"
	_, err := s.accountingSvc.PostJournalEntry(ctx, dto.PostJournalEntryRequest{
		Date: env.OccurredAt,
		Lines: []dto.JournalLineInput{
			{AccountCode: domain.AcctCash, DebitAmount: payload.Amount},
			{AccountCode: domain.AcctAccountsReceivable, CreditAmount: payload.Amount},
		},
		Description:     fmt.Sprintf("Payment for invoice %s", payload.InvoiceID),
		TransactionType: domain.TxnSale,
		ReferenceID:     &payload.InvoiceID,
		ReferenceType:   &refType,
	}, actorID)
	return err
}

func (s *EventConsumerService) handlePurchaseOrderReceived(ctx context.Context, env events.Envelope, actorID string) error {
	var payload events.PurchaseOrderReceivedPayload
	if err := env.DecodePayload(&payload); err != nil {
		return err
	}
	_, err := s.accountingSvc.RecordPurchase(ctx, dto.RecordPurchaseRequest{
		Amount:      payload.TotalAmount,
		Date:        env.OccurredAt,
		Description: fmt.Sprintf("Goods receipt %s", payload.PONumber),
		ReferenceID: payload.OrderID,
	}, actorID)
	return err
}

// handleStockLevelLow re-runs the reorder monitor for the flagged item. The
// item's row lock and reorder state decide whether an order is actually
// placed, so a shortage that was already handled synchronously is a no-op.
func (s *EventConsumerService) handleStockLevelLow(ctx context.Context, env events.Envelope, actorID string) error {
	var payload events.StockLevelLowPayload
	if err := env.DecodePayload(&payload); err != nil {
		return err
	}
	_, err := s.reorderSvc.EvaluateReorder(ctx, payload.SKU, actorID)
	return err
}
