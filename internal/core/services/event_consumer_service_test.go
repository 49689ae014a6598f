package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/openledgerhq/erp_backend/internal/core/services"
	"github.com/openledgerhq/erp_backend/internal/dto"
	"github.com/openledgerhq/erp_backend/internal/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ProcessedEventRepository ---
type MockProcessedEventRepository struct {
	mock.Mock
}

func (m *MockProcessedEventRepository) MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	args := m.Called(ctx, eventID, eventType)
	return args.Bool(0), args.Error(1)
}

func (m *MockProcessedEventRepository) UnmarkProcessed(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

// --- Mock ReorderEvaluatorSvc ---
type MockReorderEvaluator struct {
	mock.Mock
}

func (m *MockReorderEvaluator) EvaluateReorder(ctx context.Context, sku string, actorID string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, sku, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

// --- Test Suite Setup ---
type EventConsumerServiceTestSuite struct {
	suite.Suite
	mockAccounting    *MockAccountingService
	mockReorder       *MockReorderEvaluator
	mockProcessedRepo *MockProcessedEventRepository
	service           *services.EventConsumerService
}

func (suite *EventConsumerServiceTestSuite) SetupTest() {
	suite.mockAccounting = new(MockAccountingService)
	suite.mockReorder = new(MockReorderEvaluator)
	suite.mockProcessedRepo = new(MockProcessedEventRepository)
	suite.service = services.NewEventConsumerService(suite.mockAccounting, suite.mockReorder, suite.mockProcessedRepo)
}

func (suite *EventConsumerServiceTestSuite) newPayrollEnvelope() events.Envelope {
	env, err := events.NewEnvelope(events.EventPayrollProcessed, "payroll", events.PayrollProcessedPayload{
		PayrollID:   uuid.NewString(),
		EmployeeID:  uuid.NewString(),
		GrossPay:    decimal.NewFromInt(1000),
		TaxWithheld: decimal.NewFromInt(200),
		Deductions:  decimal.NewFromInt(50),
		NetPay:      decimal.NewFromInt(750),
		PaidAt:      time.Now().UTC(),
	}, events.Metadata{ActorID: "payroll-service"})
	suite.Require().NoError(err)
	return env
}

// --- Test Cases ---

func (suite *EventConsumerServiceTestSuite) TestHandleEvent_PayrollProcessed() {
	ctx := context.Background()
	env := suite.newPayrollEnvelope()

	suite.mockProcessedRepo.On("MarkProcessed", ctx, env.EventID, string(env.EventType)).Return(false, nil).Once()

	var posted dto.RecordPayrollExpenseRequest
	suite.mockAccounting.On("RecordPayrollExpense", ctx, mock.AnythingOfType("dto.RecordPayrollExpenseRequest"), "payroll-service").
		Run(func(args mock.Arguments) {
			posted = args.Get(1).(dto.RecordPayrollExpenseRequest)
		}).Return(nil, nil).Once()

	err := suite.service.HandleEvent(ctx, env)

	suite.Require().NoError(err)
	suite.True(posted.GrossPay.Equal(decimal.NewFromInt(1000)))
	suite.True(posted.TotalTaxes.Equal(decimal.NewFromInt(200)))
	suite.True(posted.NetPay.Equal(decimal.NewFromInt(750)))
	suite.NotEmpty(posted.ReferenceID)
	suite.mockProcessedRepo.AssertExpectations(suite.T())
	suite.mockAccounting.AssertExpectations(suite.T())
}

func (suite *EventConsumerServiceTestSuite) TestHandleEvent_HandlerFailureReleasesClaim() {
	ctx := context.Background()
	env := suite.newPayrollEnvelope()

	suite.mockProcessedRepo.On("MarkProcessed", ctx, env.EventID, string(env.EventType)).Return(false, nil).Once()
	suite.mockAccounting.On("RecordPayrollExpense", ctx, mock.AnythingOfType("dto.RecordPayrollExpenseRequest"), "payroll-service").
		Return(nil, errors.New("ledger unavailable")).Once()
	suite.mockProcessedRepo.On("UnmarkProcessed", ctx, env.EventID).Return(nil).Once()

	err := suite.service.HandleEvent(ctx, env)

	suite.Require().Error(err)
	suite.mockProcessedRepo.AssertExpectations(suite.T())
}

func (suite *EventConsumerServiceTestSuite) TestHandleEvent_RedeliveryAfterFailurePostsOnce() {
	ctx := context.Background()
	env := suite.newPayrollEnvelope()

	suite.mockProcessedRepo.On("MarkProcessed", ctx, env.EventID, string(env.EventType)).Return(false, nil).Twice()
	suite.mockProcessedRepo.On("UnmarkProcessed", ctx, env.EventID).Return(nil).Once()
	suite.mockAccounting.On("RecordPayrollExpense", ctx, mock.AnythingOfType("dto.RecordPayrollExpenseRequest"), "payroll-service").
		Return(nil, errors.New("ledger unavailable")).Once()
	suite.mockAccounting.On("RecordPayrollExpense", ctx, mock.AnythingOfType("dto.RecordPayrollExpenseRequest"), "payroll-service").
		Return(nil, nil).Once()

	suite.Require().Error(suite.service.HandleEvent(ctx, env))
	suite.Require().NoError(suite.service.HandleEvent(ctx, env))

	suite.mockProcessedRepo.AssertExpectations(suite.T())
	suite.mockAccounting.AssertNumberOfCalls(suite.T(), "RecordPayrollExpense", 2)
}

func (suite *EventConsumerServiceTestSuite) TestHandleEvent_SkipsDuplicate() {
	ctx := context.Background()
	env := suite.newPayrollEnvelope()

	suite.mockProcessedRepo.On("MarkProcessed", ctx, env.EventID, string(env.EventType)).Return(true, nil).Once()

	err := suite.service.HandleEvent(ctx, env)

	suite.Require().NoError(err)
	suite.mockAccounting.AssertNotCalled(suite.T(), "RecordPayrollExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventConsumerServiceTestSuite) TestHandleEvent_UnknownTypeAcknowledged() {
	ctx := context.Background()
	env, err := events.NewEnvelope(events.EventEmployeeCreated, "hr", map[string]string{"employeeID": uuid.NewString()}, events.Metadata{})
	suite.Require().NoError(err)

	suite.mockProcessedRepo.On("MarkProcessed", ctx, env.EventID, string(env.EventType)).Return(false, nil).Once()

	err = suite.service.HandleEvent(ctx, env)

	suite.Require().NoError(err)
	suite.mockAccounting.AssertNotCalled(suite.T(), "RecordPayrollExpense", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccounting.AssertNotCalled(suite.T(), "PostJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventConsumerServiceTestSuite) TestHandleEvent_MarkProcessedFailure() {
	ctx := context.Background()
	env := suite.newPayrollEnvelope()

	suite.mockProcessedRepo.On("MarkProcessed", ctx, env.EventID, string(env.EventType)).
		Return(false, errors.New("database unavailable")).Once()

	err := suite.service.HandleEvent(ctx, env)

	suite.Require().Error(err)
	suite.mockAccounting.AssertNotCalled(suite.T(), "RecordPayrollExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventConsumerServiceTestSuite) TestHandleEvent_PaymentReceived() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	env, err := events.NewEnvelope(events.EventPaymentReceived, "billing", events.PaymentReceivedPayload{
		InvoiceID:  invoiceID,
		CustomerID: uuid.NewString(),
		Amount:     decimal.NewFromInt(135),
		ReceivedAt: time.Now().UTC(),
	}, events.Metadata{})
	suite.Require().NoError(err)

	suite.mockProcessedRepo.On("MarkProcessed", ctx, env.EventID, string(env.EventType)).Return(false, nil).Once()

	var posted dto.PostJournalEntryRequest
	suite.mockAccounting.On("PostJournalEntry", ctx, mock.AnythingOfType("dto.PostJournalEntryRequest"), "event-consumer").
		Run(func(args mock.Arguments) {
			posted = args.Get(1).(dto.PostJournalEntryRequest)
		}).Return(nil, nil).Once()

	err = suite.service.HandleEvent(ctx, env)

	suite.Require().NoError(err)
	suite.Require().Len(posted.Lines, 2)
	suite.True(posted.Lines[0].DebitAmount.Equal(decimal.NewFromInt(135)))
	suite.Require().NotNil(posted.ReferenceID)
	suite.Equal(invoiceID, *posted.ReferenceID)
}

func (suite *EventConsumerServiceTestSuite) TestHandleEvent_InvoiceSentPostsRevenue() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	env, err := events.NewEnvelope(events.EventInvoiceSent, "billing", events.InvoiceSentPayload{
		InvoiceID:     invoiceID,
		InvoiceNumber: "INV-00042",
		CustomerID:    uuid.NewString(),
		Subtotal:      decimal.NewFromInt(120),
		TaxAmount:     decimal.NewFromInt(15),
		SentAt:        time.Now().UTC(),
	}, events.Metadata{})
	suite.Require().NoError(err)

	suite.mockProcessedRepo.On("MarkProcessed", ctx, env.EventID, string(env.EventType)).Return(false, nil).Once()

	var posted dto.RecordRevenueRequest
	suite.mockAccounting.On("RecordRevenue", ctx, mock.AnythingOfType("dto.RecordRevenueRequest"), "event-consumer").
		Run(func(args mock.Arguments) {
			posted = args.Get(1).(dto.RecordRevenueRequest)
		}).Return(nil, nil).Once()

	err = suite.service.HandleEvent(ctx, env)

	suite.Require().NoError(err)
	suite.True(posted.Amount.Equal(decimal.NewFromInt(120)))
	suite.True(posted.TaxAmount.Equal(decimal.NewFromInt(15)))
	suite.Equal(invoiceID, posted.ReferenceID)
}

func (suite *EventConsumerServiceTestSuite) TestHandleEvent_InvoiceCreatedIsNotificationOnly() {
	ctx := context.Background()
	env, err := events.NewEnvelope(events.EventInvoiceCreated, "billing", events.InvoiceCreatedPayload{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: "INV-00043",
		CustomerID:    uuid.NewString(),
		Subtotal:      decimal.NewFromInt(200),
		TaxAmount:     decimal.NewFromInt(25),
		IssuedAt:      time.Now().UTC(),
	}, events.Metadata{})
	suite.Require().NoError(err)

	suite.mockProcessedRepo.On("MarkProcessed", ctx, env.EventID, string(env.EventType)).Return(false, nil).Once()

	err = suite.service.HandleEvent(ctx, env)

	suite.Require().NoError(err)
	suite.mockAccounting.AssertNotCalled(suite.T(), "RecordRevenue", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccounting.AssertNotCalled(suite.T(), "PostJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventConsumerServiceTestSuite) TestHandleEvent_StockLevelLowRetriesReorder() {
	ctx := context.Background()
	env, err := events.NewEnvelope(events.EventStockLevelLow, "inventory", events.StockLevelLowPayload{
		SKU:               "WIDGET-1",
		Name:              "Widget",
		AvailableQuantity: 3,
		ReorderPoint:      5,
		ReorderQuantity:   20,
		UnitCost:          decimal.NewFromInt(4),
		PreferredVendorID: uuid.NewString(),
		DetectedAt:        time.Now().UTC(),
	}, events.Metadata{})
	suite.Require().NoError(err)

	suite.mockProcessedRepo.On("MarkProcessed", ctx, env.EventID, string(env.EventType)).Return(false, nil).Once()
	suite.mockReorder.On("EvaluateReorder", ctx, "WIDGET-1", "event-consumer").
		Return(&domain.InventoryItem{SKU: "WIDGET-1", ReorderState: domain.ReorderPendingOrder}, nil).Once()

	err = suite.service.HandleEvent(ctx, env)

	suite.Require().NoError(err)
	suite.mockReorder.AssertExpectations(suite.T())
	suite.mockAccounting.AssertNotCalled(suite.T(), "PostJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestEventConsumerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EventConsumerServiceTestSuite))
}
