package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openledgerhq/erp_backend/internal/apperrors"
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/erp_backend/internal/core/ports/services"
	"github.com/openledgerhq/erp_backend/internal/core/services"
	"github.com/openledgerhq/erp_backend/internal/dto"
	"github.com/openledgerhq/erp_backend/internal/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PayrollRepository ---
type MockPayrollRepository struct {
	mock.Mock
}

// Ensure MockPayrollRepository implements portsrepo.PayrollRepositoryFacade
var _ portsrepo.PayrollRepositoryFacade = (*MockPayrollRepository)(nil)

func (m *MockPayrollRepository) FindPayrollByID(ctx context.Context, payrollID string) (*domain.PayrollRecord, error) {
	args := m.Called(ctx, payrollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRecord), args.Error(1)
}

func (m *MockPayrollRepository) ListPayrollByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]domain.PayrollRecord, error) {
	args := m.Called(ctx, employeeID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollRecord), args.Error(1)
}

func (m *MockPayrollRepository) SavePayroll(ctx context.Context, record domain.PayrollRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPayrollRepository) UpdatePayroll(ctx context.Context, record domain.PayrollRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// --- Mock EventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

var _ portssvc.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) Publish(ctx context.Context, env events.Envelope) error {
	args := m.Called(ctx, env)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Test Suite Setup ---
type PayrollServiceTestSuite struct {
	suite.Suite
	mockPayrollRepo *MockPayrollRepository
	mockAccounting  *MockAccountingRecipes
	mockPublisher   *MockEventPublisher
	service         portssvc.PayrollSvcFacade
	actorID         string
	periodStart     time.Time
	periodEnd       time.Time
}

func (suite *PayrollServiceTestSuite) SetupTest() {
	suite.mockPayrollRepo = new(MockPayrollRepository)
	suite.mockAccounting = new(MockAccountingRecipes)
	suite.mockPublisher = new(MockEventPublisher)
	suite.service = services.NewPayrollService(suite.mockPayrollRepo, suite.mockAccounting, nil, false)
	suite.actorID = uuid.NewString()
	suite.periodStart = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	suite.periodEnd = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
}

// asyncService wires the publisher in place of synchronous posting.
func (suite *PayrollServiceTestSuite) asyncService() portssvc.PayrollSvcFacade {
	return services.NewPayrollService(suite.mockPayrollRepo, suite.mockAccounting, suite.mockPublisher, true)
}

func (suite *PayrollServiceTestSuite) newRecord(status domain.PayrollStatus) *domain.PayrollRecord {
	return &domain.PayrollRecord{
		PayrollID:   uuid.NewString(),
		EmployeeID:  uuid.NewString(),
		PeriodStart: suite.periodStart,
		PeriodEnd:   suite.periodEnd,
		GrossPay:    decimal.NewFromInt(1000),
		TaxWithheld: decimal.NewFromInt(200),
		Deductions:  decimal.NewFromInt(50),
		NetPay:      decimal.NewFromInt(750),
		Status:      status,
	}
}

// --- Test Cases ---

func (suite *PayrollServiceTestSuite) TestProcessPayroll_WithholdingMath() {
	ctx := context.Background()
	req := dto.ProcessPayrollRequest{
		EmployeeID:  uuid.NewString(),
		PeriodStart: suite.periodStart,
		PeriodEnd:   suite.periodEnd,
		GrossPay:    decimal.NewFromInt(1000),
		Deductions:  decimal.NewFromInt(50),
	}

	suite.mockPayrollRepo.On("SavePayroll", ctx, mock.AnythingOfType("domain.PayrollRecord")).Return(nil).Once()

	record, err := suite.service.ProcessPayroll(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(record)
	suite.True(record.TaxWithheld.Equal(decimal.NewFromInt(200)))
	suite.True(record.NetPay.Equal(decimal.NewFromInt(750)))
	suite.Equal(domain.PayrollProcessed, record.Status)
	suite.Nil(record.LedgerRef)
	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestProcessPayroll_DeductionsExceedPay() {
	ctx := context.Background()
	req := dto.ProcessPayrollRequest{
		EmployeeID:  uuid.NewString(),
		PeriodStart: suite.periodStart,
		PeriodEnd:   suite.periodEnd,
		GrossPay:    decimal.NewFromInt(100),
		Deductions:  decimal.NewFromInt(90),
	}

	_, err := suite.service.ProcessPayroll(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPayrollRepo.AssertNotCalled(suite.T(), "SavePayroll", mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestProcessPayroll_PeriodEndBeforeStart() {
	ctx := context.Background()
	req := dto.ProcessPayrollRequest{
		EmployeeID:  uuid.NewString(),
		PeriodStart: suite.periodEnd,
		PeriodEnd:   suite.periodStart,
		GrossPay:    decimal.NewFromInt(1000),
	}

	_, err := suite.service.ProcessPayroll(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PayrollServiceTestSuite) TestProcessPayrollBatch_FailFast() {
	ctx := context.Background()
	good := dto.ProcessPayrollRequest{
		EmployeeID:  uuid.NewString(),
		PeriodStart: suite.periodStart,
		PeriodEnd:   suite.periodEnd,
		GrossPay:    decimal.NewFromInt(1000),
	}
	bad := dto.ProcessPayrollRequest{
		EmployeeID:  uuid.NewString(),
		PeriodStart: suite.periodStart,
		PeriodEnd:   suite.periodEnd,
		GrossPay:    decimal.Zero,
	}

	suite.mockPayrollRepo.On("SavePayroll", ctx, mock.AnythingOfType("domain.PayrollRecord")).Return(nil).Once()

	records, err := suite.service.ProcessPayrollBatch(ctx, dto.ProcessPayrollBatchRequest{
		Records: []dto.ProcessPayrollRequest{good, bad},
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Len(records, 1)
	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestApprovePayroll_Success() {
	ctx := context.Background()
	record := suite.newRecord(domain.PayrollProcessed)

	suite.mockPayrollRepo.On("FindPayrollByID", ctx, record.PayrollID).Return(record, nil).Once()
	suite.mockPayrollRepo.On("UpdatePayroll", ctx, mock.AnythingOfType("domain.PayrollRecord")).Return(nil).Once()

	result, err := suite.service.ApprovePayroll(ctx, record.PayrollID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.PayrollApproved, result.Status)
}

func (suite *PayrollServiceTestSuite) TestApprovePayroll_InvalidState() {
	ctx := context.Background()
	record := suite.newRecord(domain.PayrollPaid)

	suite.mockPayrollRepo.On("FindPayrollByID", ctx, record.PayrollID).Return(record, nil).Once()

	_, err := suite.service.ApprovePayroll(ctx, record.PayrollID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockPayrollRepo.AssertNotCalled(suite.T(), "UpdatePayroll", mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestPayPayroll_PostsExpense() {
	ctx := context.Background()
	record := suite.newRecord(domain.PayrollApproved)

	suite.mockPayrollRepo.On("FindPayrollByID", ctx, record.PayrollID).Return(record, nil).Once()

	var posted dto.RecordPayrollExpenseRequest
	suite.mockAccounting.On("RecordPayrollExpense", ctx, mock.AnythingOfType("dto.RecordPayrollExpenseRequest"), suite.actorID).
		Run(func(args mock.Arguments) {
			posted = args.Get(1).(dto.RecordPayrollExpenseRequest)
		}).Return([]domain.JournalLine{}, nil).Once()

	var updated domain.PayrollRecord
	suite.mockPayrollRepo.On("UpdatePayroll", ctx, mock.AnythingOfType("domain.PayrollRecord")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.PayrollRecord)
		}).Return(nil).Once()

	result, err := suite.service.PayPayroll(ctx, record.PayrollID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.PayrollPaid, result.Status)
	suite.Require().NotNil(result.LedgerRef)
	suite.Equal(record.PayrollID, *result.LedgerRef)
	suite.True(posted.GrossPay.Equal(record.GrossPay))
	suite.True(posted.TotalTaxes.Equal(record.TaxWithheld))
	suite.True(posted.NetPay.Equal(record.NetPay))
	suite.Equal(record.PayrollID, posted.ReferenceID)
	suite.Equal(domain.PayrollPaid, updated.Status)
	suite.mockAccounting.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestPayPayroll_PostingFailureStaysApproved() {
	ctx := context.Background()
	record := suite.newRecord(domain.PayrollApproved)

	suite.mockPayrollRepo.On("FindPayrollByID", ctx, record.PayrollID).Return(record, nil).Once()
	suite.mockAccounting.On("RecordPayrollExpense", ctx, mock.AnythingOfType("dto.RecordPayrollExpenseRequest"), suite.actorID).
		Return(nil, errors.New("ledger unavailable")).Once()

	_, err := suite.service.PayPayroll(ctx, record.PayrollID, suite.actorID)

	suite.Require().Error(err)
	suite.mockPayrollRepo.AssertNotCalled(suite.T(), "UpdatePayroll", mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestPayPayroll_RequiresApproved() {
	ctx := context.Background()
	record := suite.newRecord(domain.PayrollProcessed)

	suite.mockPayrollRepo.On("FindPayrollByID", ctx, record.PayrollID).Return(record, nil).Once()

	_, err := suite.service.PayPayroll(ctx, record.PayrollID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockAccounting.AssertNotCalled(suite.T(), "RecordPayrollExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestProcessPayroll_PublishesNothing() {
	ctx := context.Background()
	req := dto.ProcessPayrollRequest{
		EmployeeID:  uuid.NewString(),
		PeriodStart: suite.periodStart,
		PeriodEnd:   suite.periodEnd,
		GrossPay:    decimal.NewFromInt(1000),
	}

	suite.mockPayrollRepo.On("SavePayroll", ctx, mock.AnythingOfType("domain.PayrollRecord")).Return(nil).Once()

	_, err := suite.asyncService().ProcessPayroll(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.mockPublisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestPayPayroll_AsyncPublishesInsteadOfPosting() {
	ctx := context.Background()
	record := suite.newRecord(domain.PayrollApproved)

	suite.mockPayrollRepo.On("FindPayrollByID", ctx, record.PayrollID).Return(record, nil).Once()

	var updated domain.PayrollRecord
	suite.mockPayrollRepo.On("UpdatePayroll", ctx, mock.AnythingOfType("domain.PayrollRecord")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.PayrollRecord)
		}).Return(nil).Once()

	var published events.Envelope
	suite.mockPublisher.On("Publish", ctx, mock.AnythingOfType("events.Envelope")).
		Run(func(args mock.Arguments) {
			published = args.Get(1).(events.Envelope)
		}).Return(nil).Once()

	result, err := suite.asyncService().PayPayroll(ctx, record.PayrollID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.PayrollPaid, result.Status)
	suite.Nil(result.LedgerRef)
	suite.Equal(domain.PayrollPaid, updated.Status)
	suite.mockAccounting.AssertNotCalled(suite.T(), "RecordPayrollExpense", mock.Anything, mock.Anything, mock.Anything)

	suite.Equal(events.EventPayrollProcessed, published.EventType)
	var payload events.PayrollProcessedPayload
	suite.Require().NoError(published.DecodePayload(&payload))
	suite.Equal(record.PayrollID, payload.PayrollID)
	suite.True(payload.NetPay.Equal(record.NetPay))
	suite.WithinDuration(time.Now().UTC(), payload.PaidAt, 5*time.Second)
	suite.mockPublisher.AssertExpectations(suite.T())
}

func TestPayrollServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollServiceTestSuite))
}
