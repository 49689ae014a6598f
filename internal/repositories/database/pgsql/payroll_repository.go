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

type PgxPayrollRepository struct {
	BaseRepository
}

// newPgxPayrollRepository creates a new repository for payroll data.
func newPgxPayrollRepository(pool *pgxpool.Pool) portsrepo.PayrollRepositoryFacade {
	return &PgxPayrollRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPayrollRepository implements portsrepo.PayrollRepositoryFacade
var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

const payrollColumns = `
	payroll_id, employee_id, period_start, period_end, gross_pay, tax_withheld,
	deductions, net_pay, status, ledger_ref,
	created_at, created_by, last_updated_at, last_updated_by`

// SavePayroll persists a new payroll record.
func (r *PgxPayrollRepository) SavePayroll(ctx context.Context, record domain.PayrollRecord) error {
	m := mapping.ToModelPayrollRecord(record)
	query := `
		INSERT INTO payroll_records (
			payroll_id, employee_id, period_start, period_end, gross_pay, tax_withheld,
			deductions, net_pay, status, ledger_ref,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PayrollID, m.EmployeeID, m.PeriodStart, m.PeriodEnd, m.GrossPay, m.TaxWithheld,
		m.Deductions, m.NetPay, m.Status, m.LedgerRef,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "payroll record already exists for this employee and period", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert payroll record "+record.PayrollID, err)
	}
	return nil
}

// FindPayrollByID retrieves a payroll record by its ID.
func (r *PgxPayrollRepository) FindPayrollByID(ctx context.Context, payrollID string) (*domain.PayrollRecord, error) {
	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records
		WHERE payroll_id = $1;
	`
	var m models.PayrollRecord
	var ledgerRef sql.NullString
	err := r.Pool.QueryRow(ctx, query, payrollID).Scan(
		&m.PayrollID, &m.EmployeeID, &m.PeriodStart, &m.PeriodEnd, &m.GrossPay, &m.TaxWithheld,
		&m.Deductions, &m.NetPay, &m.Status, &ledgerRef,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payroll record by ID "+payrollID, err)
	}
	if ledgerRef.Valid {
		m.LedgerRef = &ledgerRef.String
	}

	record := mapping.ToDomainPayrollRecord(m)
	return &record, nil
}

// ListPayrollByEmployee retrieves an employee's payroll history, newest first.
func (r *PgxPayrollRepository) ListPayrollByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]domain.PayrollRecord, error) {
	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records
		WHERE employee_id = $1
		ORDER BY period_end DESC, payroll_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, employeeID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payroll records for employee "+employeeID, err)
	}
	defer rows.Close()

	records := []models.PayrollRecord{}
	for rows.Next() {
		var m models.PayrollRecord
		var ledgerRef sql.NullString
		err := rows.Scan(
			&m.PayrollID, &m.EmployeeID, &m.PeriodStart, &m.PeriodEnd, &m.GrossPay, &m.TaxWithheld,
			&m.Deductions, &m.NetPay, &m.Status, &ledgerRef,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payroll record row", err)
		}
		if ledgerRef.Valid {
			m.LedgerRef = &ledgerRef.String
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payroll record rows", err)
	}
	return mapping.ToDomainPayrollRecordSlice(records), nil
}

// UpdatePayroll writes a record's status, ledger reference, and audit fields.
func (r *PgxPayrollRepository) UpdatePayroll(ctx context.Context, record domain.PayrollRecord) error {
	m := mapping.ToModelPayrollRecord(record)
	query := `
		UPDATE payroll_records
		SET status = $2, ledger_ref = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payroll_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.PayrollID, m.Status, m.LedgerRef, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payroll record "+record.PayrollID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
