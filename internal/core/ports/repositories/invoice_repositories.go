package repositories

import (
	"context"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its lines.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoicesByCustomer retrieves a customer's invoices, newest first.
	ListInvoicesByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists an invoice and its lines atomically.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoice writes an invoice's status, ledger reference, and audit fields.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error
}

// InvoiceRepositoryFacade combines all invoice repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
