package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openledgerhq/erp_backend/internal/apperrors"
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/erp_backend/internal/core/ports/services"
	"github.com/openledgerhq/erp_backend/internal/dto"
	"github.com/openledgerhq/erp_backend/internal/events"
	"github.com/openledgerhq/erp_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// SalesTaxRate is the flat tax rate applied to invoice subtotals.
var SalesTaxRate = decimal.NewFromFloat(0.08)

// invoiceDueDays is the default payment term when none is given.
const invoiceDueDays = 30

// billingService manages customer invoices and their ledger hand-offs.
type billingService struct {
	invoiceRepo   portsrepo.InvoiceRepositoryFacade
	accountingSvc portssvc.AccountingSvcFacade
	publisher     portssvc.EventPublisher
	asyncPosting  bool
}

// NewBillingService creates a new BillingService. The publisher may be nil
// when the event bus is disabled. With asyncPosting set, sending and payment
// publish their events instead of posting synchronously.
func NewBillingService(invoiceRepo portsrepo.InvoiceRepositoryFacade, accountingSvc portssvc.AccountingSvcFacade, publisher portssvc.EventPublisher, asyncPosting bool) portssvc.BillingSvcFacade {
	return &billingService{
		invoiceRepo:   invoiceRepo,
		accountingSvc: accountingSvc,
		publisher:     publisher,
		asyncPosting:  asyncPosting && publisher != nil,
	}
}

// Ensure billingService implements the portssvc.BillingSvcFacade interface
var _ portssvc.BillingSvcFacade = (*billingService)(nil)

func newInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}

// CreateInvoice computes subtotal, tax, and total for the given lines.
// Implements portssvc.BillingSvcFacade
func (s *billingService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, actorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	invoiceID := uuid.NewString()
	subtotal := decimal.Zero
	lines := make([]domain.InvoiceLine, len(req.Lines))
	for i, in := range req.Lines {
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line quantity must be positive", apperrors.ErrValidation)
		}
		if in.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit price must be non-negative", apperrors.ErrValidation)
		}
		lines[i] = domain.InvoiceLine{
			LineID:      uuid.NewString(),
			InvoiceID:   invoiceID,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		}
		subtotal = subtotal.Add(lines[i].LineTotal())
	}

	taxAmount := subtotal.Mul(SalesTaxRate).Round(2)
	dueDate := now.AddDate(0, 0, invoiceDueDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	invoice := domain.Invoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: newInvoiceNumber(now),
		CustomerID:    req.CustomerID,
		IssueDate:     now,
		DueDate:       dueDate,
		Subtotal:      subtotal,
		TaxAmount:     taxAmount,
		Total:         subtotal.Add(taxAmount),
		Status:        domain.InvoiceDraft,
		Lines:         lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		logger.Error("Failed to save invoice", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	logger.Info("Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoice.InvoiceNumber),
		slog.String("total", invoice.Total.String()),
	)
	s.publishCreated(ctx, &invoice, logger)
	return &invoice, nil
}

// SendInvoice moves a draft invoice to sent. In the synchronous mode revenue
// is posted first and a posting failure leaves the invoice in draft; in the
// async mode the post is carried by the InvoiceSent event and derived by the
// worker. Implements portssvc.BillingSvcFacade
func (s *billingService) SendInvoice(ctx context.Context, invoiceID string, actorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: cannot send invoice in status %s", apperrors.ErrInvalidState, invoice.Status)
	}

	now := time.Now()
	invoice.Status = domain.InvoiceSent
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = actorID

	if !s.asyncPosting {
		if _, err := s.accountingSvc.RecordRevenue(ctx, dto.RecordRevenueRequest{
			Amount:      invoice.Subtotal,
			TaxAmount:   invoice.TaxAmount,
			Date:        now,
			Description: fmt.Sprintf("Invoice %s", invoice.InvoiceNumber),
			ReferenceID: invoice.InvoiceID,
		}, actorID); err != nil {
			logger.Error("Revenue posting failed, invoice stays in draft",
				slog.String("invoice_id", invoiceID),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("failed to post revenue for invoice %s: %w", invoiceID, err)
		}
		ledgerRef := invoice.InvoiceID
		invoice.LedgerRef = &ledgerRef
	}

	if err := s.invoiceRepo.UpdateInvoice(ctx, *invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	logger.Info("Invoice sent", slog.String("invoice_id", invoice.InvoiceID))
	if s.asyncPosting {
		s.publishSent(ctx, invoice, now, logger)
	}
	return invoice, nil
}

// RecordPayment marks a sent invoice paid. In the synchronous mode the cash
// receipt is posted first; in the async mode it is carried by the
// PaymentReceived event and derived by the worker.
// Implements portssvc.BillingSvcFacade
func (s *billingService) RecordPayment(ctx context.Context, invoiceID string, actorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceSent {
		return nil, fmt.Errorf("%w: cannot record payment for invoice in status %s", apperrors.ErrInvalidState, invoice.Status)
	}

	if !s.asyncPosting {
		refType := "invoice"
		if _, err := s.accountingSvc.PostJournalEntry(ctx, dto.PostJournalEntryRequest{
			Date: time.Now(),
			Lines: []dto.JournalLineInput{
				{AccountCode: domain.AcctCash, DebitAmount: invoice.Total},
				{AccountCode: domain.AcctAccountsReceivable, CreditAmount: invoice.Total},
			},
			Description:     fmt.Sprintf("Payment for invoice %s", invoice.InvoiceNumber),
			TransactionType: domain.TxnSale,
			ReferenceID:     &invoice.InvoiceID,
			ReferenceType:   &refType,
		}, actorID); err != nil {
			logger.Error("Payment posting failed, invoice stays sent",
				slog.String("invoice_id", invoiceID),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("failed to post payment for invoice %s: %w", invoiceID, err)
		}
	}

	now := time.Now()
	invoice.Status = domain.InvoicePaid
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = actorID
	if err := s.invoiceRepo.UpdateInvoice(ctx, *invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	logger.Info("Invoice paid", slog.String("invoice_id", invoice.InvoiceID))
	if s.asyncPosting {
		s.publishPayment(ctx, invoice, logger)
	}
	return invoice, nil
}

// GetInvoiceByID retrieves an invoice with its lines.
// Implements portssvc.BillingSvcFacade
func (s *billingService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}

// ListInvoicesByCustomer retrieves a customer's invoices, newest first.
// Implements portssvc.BillingSvcFacade
func (s *billingService) ListInvoicesByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Invoice, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.invoiceRepo.ListInvoicesByCustomer(ctx, customerID, limit, offset)
}

func (s *billingService) publishCreated(ctx context.Context, invoice *domain.Invoice, logger *slog.Logger) {
	if s.publisher == nil {
		return
	}
	env, err := events.NewEnvelope(events.EventInvoiceCreated, "billing", events.InvoiceCreatedPayload{
		InvoiceID:     invoice.InvoiceID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerID:    invoice.CustomerID,
		Subtotal:      invoice.Subtotal,
		TaxAmount:     invoice.TaxAmount,
		IssuedAt:      invoice.IssueDate,
	}, events.Metadata{ActorID: invoice.CreatedBy})
	if err != nil {
		logger.Error("Failed to build invoice created event", slog.String("error", err.Error()))
		return
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		logger.Error("Failed to publish invoice created event", slog.String("invoice_id", invoice.InvoiceID), slog.String("error", err.Error()))
	}
}

// publishSent emits the InvoiceSent event that carries the revenue amounts
// for the consuming side.
func (s *billingService) publishSent(ctx context.Context, invoice *domain.Invoice, sentAt time.Time, logger *slog.Logger) {
	if s.publisher == nil {
		return
	}
	env, err := events.NewEnvelope(events.EventInvoiceSent, "billing", events.InvoiceSentPayload{
		InvoiceID:     invoice.InvoiceID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerID:    invoice.CustomerID,
		Subtotal:      invoice.Subtotal,
		TaxAmount:     invoice.TaxAmount,
		SentAt:        sentAt,
	}, events.Metadata{ActorID: invoice.LastUpdatedBy})
	if err != nil {
		logger.Error("Failed to build invoice sent event", slog.String("error", err.Error()))
		return
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		logger.Error("Failed to publish invoice sent event", slog.String("invoice_id", invoice.InvoiceID), slog.String("error", err.Error()))
	}
}

func (s *billingService) publishPayment(ctx context.Context, invoice *domain.Invoice, logger *slog.Logger) {
	if s.publisher == nil {
		return
	}
	env, err := events.NewEnvelope(events.EventPaymentReceived, "billing", events.PaymentReceivedPayload{
		InvoiceID:  invoice.InvoiceID,
		CustomerID: invoice.CustomerID,
		Amount:     invoice.Total,
		ReceivedAt: time.Now().UTC(),
	}, events.Metadata{ActorID: invoice.LastUpdatedBy})
	if err != nil {
		logger.Error("Failed to build payment received event", slog.String("error", err.Error()))
		return
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		logger.Error("Failed to publish payment received event", slog.String("invoice_id", invoice.InvoiceID), slog.String("error", err.Error()))
	}
}
