package services

import (
	"context"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/openledgerhq/erp_backend/internal/dto"
)

// PayrollSvcFacade defines payroll processing and its ledger hand-off.
type PayrollSvcFacade interface {
	// ProcessPayroll computes withholding and net pay for one employee/period.
	ProcessPayroll(ctx context.Context, req dto.ProcessPayrollRequest, actorID string) (*domain.PayrollRecord, error)

	// ProcessPayrollBatch processes payroll for multiple employees.
	ProcessPayrollBatch(ctx context.Context, req dto.ProcessPayrollBatchRequest, actorID string) ([]domain.PayrollRecord, error)

	// ApprovePayroll transitions a processed record to approved.
	ApprovePayroll(ctx context.Context, payrollID string, actorID string) (*domain.PayrollRecord, error)

	// PayPayroll posts the payroll expense to the ledger and, only on a
	// successful post, transitions the record to paid.
	PayPayroll(ctx context.Context, payrollID string, actorID string) (*domain.PayrollRecord, error)

	GetPayrollByID(ctx context.Context, payrollID string) (*domain.PayrollRecord, error)
	ListPayrollByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]domain.PayrollRecord, error)
}
