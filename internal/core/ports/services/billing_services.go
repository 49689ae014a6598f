package services

import (
	"context"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/openledgerhq/erp_backend/internal/dto"
)

// BillingSvcFacade defines invoicing and its ledger hand-off.
type BillingSvcFacade interface {
	// CreateInvoice computes subtotal, tax, and total for the given lines.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, actorID string) (*domain.Invoice, error)

	// SendInvoice posts revenue recognition and, only on a successful post,
	// transitions the invoice to sent.
	SendInvoice(ctx context.Context, invoiceID string, actorID string) (*domain.Invoice, error)

	// RecordPayment books the customer payment (DR Cash / CR Accounts
	// Receivable) and marks the invoice paid.
	RecordPayment(ctx context.Context, invoiceID string, actorID string) (*domain.Invoice, error)

	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoicesByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Invoice, error)
}
