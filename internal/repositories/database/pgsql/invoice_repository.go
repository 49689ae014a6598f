package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openledgerhq/erp_backend/internal/apperrors"
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
	"github.com/openledgerhq/erp_backend/internal/models"
	"github.com/openledgerhq/erp_backend/internal/utils/mapping"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `
	invoice_id, invoice_number, customer_id, issue_date, due_date,
	subtotal, tax_amount, total, status, ledger_ref,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveInvoice persists an invoice and its lines within one DB transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInvoice(invoice)
	invoiceQuery := `
		INSERT INTO invoices (
			invoice_id, invoice_number, customer_id, issue_date, due_date,
			subtotal, tax_amount, total, status, ledger_ref,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, invoiceQuery,
		m.InvoiceID, m.InvoiceNumber, m.CustomerID, m.IssueDate, m.DueDate,
		m.Subtotal, m.TaxAmount, m.Total, m.Status, m.LedgerRef,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert invoice "+invoice.InvoiceID, err)
	}

	lineQuery := `
		INSERT INTO invoice_lines (line_id, invoice_id, description, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5);
	`
	batch := &pgx.Batch{}
	for _, line := range invoice.Lines {
		ml := mapping.ToModelInvoiceLine(line)
		batch.Queue(lineQuery, ml.LineID, ml.InvoiceID, ml.Description, ml.Quantity, ml.UnitPrice)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute invoice line batch for invoice "+invoice.InvoiceID, err)
	}

	return r.Commit(ctx, tx)
}

// FindInvoiceByID retrieves an invoice with its lines.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE invoice_id = $1;
	`
	var m models.Invoice
	var ledgerRef sql.NullString
	err := r.Pool.QueryRow(ctx, query, invoiceID).Scan(
		&m.InvoiceID, &m.InvoiceNumber, &m.CustomerID, &m.IssueDate, &m.DueDate,
		&m.Subtotal, &m.TaxAmount, &m.Total, &m.Status, &ledgerRef,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice by ID "+invoiceID, err)
	}
	if ledgerRef.Valid {
		m.LedgerRef = &ledgerRef.String
	}

	lines, err := r.findLinesByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	invoice := mapping.ToDomainInvoice(m)
	invoice.Lines = lines
	return &invoice, nil
}

// ListInvoicesByCustomer retrieves a customer's invoices, newest first, without lines.
func (r *PgxInvoiceRepository) ListInvoicesByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE customer_id = $1
		ORDER BY issue_date DESC, invoice_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list invoices for customer "+customerID, err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		var m models.Invoice
		var ledgerRef sql.NullString
		err := rows.Scan(
			&m.InvoiceID, &m.InvoiceNumber, &m.CustomerID, &m.IssueDate, &m.DueDate,
			&m.Subtotal, &m.TaxAmount, &m.Total, &m.Status, &ledgerRef,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice row", err)
		}
		if ledgerRef.Valid {
			m.LedgerRef = &ledgerRef.String
		}
		invoices = append(invoices, mapping.ToDomainInvoice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}
	return invoices, nil
}

// UpdateInvoice writes an invoice's status, ledger reference, and audit fields.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		UPDATE invoices
		SET status = $2, ledger_ref = $3, last_updated_at = $4, last_updated_by = $5
		WHERE invoice_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.InvoiceID, m.Status, m.LedgerRef, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice "+invoice.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxInvoiceRepository) findLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	query := `
		SELECT line_id, invoice_id, description, quantity, unit_price
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for invoice "+invoiceID, err)
	}
	defer rows.Close()

	lines := []models.InvoiceLine{}
	for rows.Next() {
		var m models.InvoiceLine
		if err := rows.Scan(&m.LineID, &m.InvoiceID, &m.Description, &m.Quantity, &m.UnitPrice); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice line row", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice line rows", err)
	}
	return mapping.ToDomainInvoiceLineSlice(lines), nil
}
