package services

import (
	"context"
	"fmt"
	"log/slog"
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

// WithholdingRate is the flat tax withholding rate applied to gross pay.
var WithholdingRate = decimal.NewFromFloat(0.20)

// payrollService computes withholding and hands the expense off to the ledger.
type payrollService struct {
	payrollRepo   portsrepo.PayrollRepositoryFacade
	accountingSvc portssvc.AccountingRecipesSvc
	publisher     portssvc.EventPublisher
	asyncPosting  bool
}

// NewPayrollService creates a new PayrollService. The publisher may be nil
// when the event bus is disabled. With asyncPosting set, paying publishes the
// PayrollProcessed event instead of posting the expense synchronously.
func NewPayrollService(payrollRepo portsrepo.PayrollRepositoryFacade, accountingSvc portssvc.AccountingRecipesSvc, publisher portssvc.EventPublisher, asyncPosting bool) portssvc.PayrollSvcFacade {
	return &payrollService{
		payrollRepo:   payrollRepo,
		accountingSvc: accountingSvc,
		publisher:     publisher,
		asyncPosting:  asyncPosting && publisher != nil,
	}
}

// Ensure payrollService implements the portssvc.PayrollSvcFacade interface
var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

// ProcessPayroll computes withholding and net pay for one employee/period.
// Implements portssvc.PayrollSvcFacade
func (s *payrollService) ProcessPayroll(ctx context.Context, req dto.ProcessPayrollRequest, actorID string) (*domain.PayrollRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.GrossPay.IsPositive() {
		return nil, fmt.Errorf("%w: gross pay must be positive", apperrors.ErrValidation)
	}
	if req.Deductions.IsNegative() {
		return nil, fmt.Errorf("%w: deductions must be non-negative", apperrors.ErrValidation)
	}
	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, fmt.Errorf("%w: period end before period start", apperrors.ErrValidation)
	}

	taxWithheld := req.GrossPay.Mul(WithholdingRate).Round(2)
	netPay := req.GrossPay.Sub(taxWithheld).Sub(req.Deductions)
	if netPay.IsNegative() {
		return nil, fmt.Errorf("%w: deductions exceed pay after withholding", apperrors.ErrValidation)
	}

	now := time.Now()
	record := domain.PayrollRecord{
		PayrollID:   uuid.NewString(),
		EmployeeID:  req.EmployeeID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		GrossPay:    req.GrossPay,
		TaxWithheld: taxWithheld,
		Deductions:  req.Deductions,
		NetPay:      netPay,
		Status:      domain.PayrollProcessed,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.payrollRepo.SavePayroll(ctx, record); err != nil {
		logger.Error("Failed to save payroll record", slog.String("employee_id", req.EmployeeID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save payroll record: %w", err)
	}

	logger.Info("Payroll processed",
		slog.String("payroll_id", record.PayrollID),
		slog.String("employee_id", record.EmployeeID),
		slog.String("net_pay", record.NetPay.String()),
	)
	return &record, nil
}

// ProcessPayrollBatch processes payroll for multiple employees. Processing
// stops at the first invalid record; records saved before it remain.
// Implements portssvc.PayrollSvcFacade
func (s *payrollService) ProcessPayrollBatch(ctx context.Context, req dto.ProcessPayrollBatchRequest, actorID string) ([]domain.PayrollRecord, error) {
	if len(req.Records) == 0 {
		return nil, fmt.Errorf("%w: batch must contain at least one record", apperrors.ErrValidation)
	}

	records := make([]domain.PayrollRecord, 0, len(req.Records))
	for i, in := range req.Records {
		record, err := s.ProcessPayroll(ctx, in, actorID)
		if err != nil {
			return records, fmt.Errorf("record %d (employee %s): %w", i, in.EmployeeID, err)
		}
		records = append(records, *record)
	}
	return records, nil
}

// ApprovePayroll transitions a processed record to approved.
// Implements portssvc.PayrollSvcFacade
func (s *payrollService) ApprovePayroll(ctx context.Context, payrollID string, actorID string) (*domain.PayrollRecord, error) {
	record, err := s.payrollRepo.FindPayrollByID(ctx, payrollID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.PayrollProcessed {
		return nil, fmt.Errorf("%w: cannot approve payroll in status %s", apperrors.ErrInvalidState, record.Status)
	}

	now := time.Now()
	record.Status = domain.PayrollApproved
	record.LastUpdatedAt = now
	record.LastUpdatedBy = actorID
	if err := s.payrollRepo.UpdatePayroll(ctx, *record); err != nil {
		return nil, fmt.Errorf("failed to update payroll record: %w", err)
	}
	return record, nil
}

// PayPayroll settles an approved record. In the synchronous mode the payroll
// expense is posted first and only a successful post moves the record to
// paid; a posting failure leaves it approved. In the async mode the post is
// carried by the PayrollProcessed event and derived by the worker.
// Implements portssvc.PayrollSvcFacade
func (s *payrollService) PayPayroll(ctx context.Context, payrollID string, actorID string) (*domain.PayrollRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	record, err := s.payrollRepo.FindPayrollByID(ctx, payrollID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.PayrollApproved {
		return nil, fmt.Errorf("%w: cannot pay payroll in status %s", apperrors.ErrInvalidState, record.Status)
	}

	now := time.Now()
	record.Status = domain.PayrollPaid
	record.LastUpdatedAt = now
	record.LastUpdatedBy = actorID

	if !s.asyncPosting {
		if _, err := s.accountingSvc.RecordPayrollExpense(ctx, dto.RecordPayrollExpenseRequest{
			GrossPay:    record.GrossPay,
			TotalTaxes:  record.TaxWithheld,
			NetPay:      record.NetPay,
			Deductions:  record.Deductions,
			Date:        now,
			Description: fmt.Sprintf("Payroll %s for employee %s", record.PayrollID, record.EmployeeID),
			ReferenceID: record.PayrollID,
		}, actorID); err != nil {
			logger.Error("Payroll posting failed, record stays approved",
				slog.String("payroll_id", payrollID),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("failed to post payroll expense: %w", err)
		}
		ledgerRef := record.PayrollID
		record.LedgerRef = &ledgerRef
	}

	if err := s.payrollRepo.UpdatePayroll(ctx, *record); err != nil {
		return nil, fmt.Errorf("failed to update payroll record: %w", err)
	}

	logger.Info("Payroll paid", slog.String("payroll_id", record.PayrollID))
	if s.asyncPosting {
		s.publishPaid(ctx, record, now, actorID, logger)
	}
	return record, nil
}

// GetPayrollByID retrieves a payroll record by its ID.
// Implements portssvc.PayrollSvcFacade
func (s *payrollService) GetPayrollByID(ctx context.Context, payrollID string) (*domain.PayrollRecord, error) {
	return s.payrollRepo.FindPayrollByID(ctx, payrollID)
}

// ListPayrollByEmployee retrieves an employee's payroll history, newest first.
// Implements portssvc.PayrollSvcFacade
func (s *payrollService) ListPayrollByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]domain.PayrollRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.payrollRepo.ListPayrollByEmployee(ctx, employeeID, limit, offset)
}

// publishPaid emits the PayrollProcessed event that carries the expense
// amounts for the consuming side, stamped with the actual pay time.
func (s *payrollService) publishPaid(ctx context.Context, record *domain.PayrollRecord, paidAt time.Time, actorID string, logger *slog.Logger) {
	if s.publisher == nil {
		return
	}
	env, err := events.NewEnvelope(events.EventPayrollProcessed, "payroll", events.PayrollProcessedPayload{
		PayrollID:   record.PayrollID,
		EmployeeID:  record.EmployeeID,
		GrossPay:    record.GrossPay,
		TaxWithheld: record.TaxWithheld,
		Deductions:  record.Deductions,
		NetPay:      record.NetPay,
		PaidAt:      paidAt,
	}, events.Metadata{ActorID: actorID})
	if err != nil {
		logger.Error("Failed to build payroll processed event", slog.String("error", err.Error()))
		return
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		logger.Error("Failed to publish payroll processed event", slog.String("payroll_id", record.PayrollID), slog.String("error", err.Error()))
	}
}
