package repositories

import (
	"context"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
)

// PayrollReader defines read operations for payroll data
type PayrollReader interface {
	// FindPayrollByID retrieves a payroll record by its ID.
	FindPayrollByID(ctx context.Context, payrollID string) (*domain.PayrollRecord, error)

	// ListPayrollByEmployee retrieves an employee's payroll history, newest first.
	ListPayrollByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]domain.PayrollRecord, error)
}

// PayrollWriter defines write operations for payroll data
type PayrollWriter interface {
	// SavePayroll persists a new payroll record.
	SavePayroll(ctx context.Context, record domain.PayrollRecord) error

	// UpdatePayroll writes a record's status, ledger reference, and audit fields.
	UpdatePayroll(ctx context.Context, record domain.PayrollRecord) error
}

// PayrollRepositoryFacade combines all payroll repository interfaces
type PayrollRepositoryFacade interface {
	PayrollReader
	PayrollWriter
}
