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

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

// Ensure MockInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Invoice, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

// --- Mock AccountingService (full facade, as used by BillingService) ---
type MockAccountingService struct {
	mock.Mock
}

var _ portssvc.AccountingSvcFacade = (*MockAccountingService)(nil)

func (m *MockAccountingService) PostJournalEntry(ctx context.Context, req dto.PostJournalEntryRequest, actorID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockAccountingService) ReverseByReference(ctx context.Context, referenceID, referenceType string, actorID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, referenceID, referenceType, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockAccountingService) GetLinesByReference(ctx context.Context, referenceID, referenceType string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, referenceID, referenceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockAccountingService) ListLines(ctx context.Context, limit, offset int) ([]domain.JournalLine, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockAccountingService) GetTrialBalance(ctx context.Context) (*dto.TrialBalanceResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TrialBalanceResponse), args.Error(1)
}

func (m *MockAccountingService) RecordPayrollExpense(ctx context.Context, req dto.RecordPayrollExpenseRequest, actorID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockAccountingService) RecordRevenue(ctx context.Context, req dto.RecordRevenueRequest, actorID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockAccountingService) RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest, actorID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

// --- Test Suite Setup ---
type BillingServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockAccounting  *MockAccountingService
	mockPublisher   *MockEventPublisher
	service         portssvc.BillingSvcFacade
	actorID         string
	customerID      string
}

func (suite *BillingServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockAccounting = new(MockAccountingService)
	suite.mockPublisher = new(MockEventPublisher)
	suite.service = services.NewBillingService(suite.mockInvoiceRepo, suite.mockAccounting, nil, false)
	suite.actorID = uuid.NewString()
	suite.customerID = uuid.NewString()
}

// asyncService wires the publisher in place of synchronous posting.
func (suite *BillingServiceTestSuite) asyncService() portssvc.BillingSvcFacade {
	return services.NewBillingService(suite.mockInvoiceRepo, suite.mockAccounting, suite.mockPublisher, true)
}

func (suite *BillingServiceTestSuite) newInvoice(status domain.InvoiceStatus) *domain.Invoice {
	invoiceID := uuid.NewString()
	return &domain.Invoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: "INV-20260830-ABCD1234",
		CustomerID:    suite.customerID,
		IssueDate:     time.Now(),
		DueDate:       time.Now().AddDate(0, 0, 30),
		Subtotal:      decimal.NewFromInt(125),
		TaxAmount:     decimal.NewFromInt(10),
		Total:         decimal.NewFromInt(135),
		Status:        status,
		Lines: []domain.InvoiceLine{
			{LineID: uuid.NewString(), InvoiceID: invoiceID, Description: "Consulting", Quantity: 5, UnitPrice: decimal.NewFromInt(25)},
		},
	}
}

// --- Test Cases ---

func (suite *BillingServiceTestSuite) TestCreateInvoice_ComputesTotals() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		CustomerID: suite.customerID,
		Lines: []dto.InvoiceLineInput{
			{Description: "Widgets", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
			{Description: "Shipping", Quantity: 1, UnitPrice: decimal.NewFromInt(25)},
		},
	}

	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.True(invoice.Subtotal.Equal(decimal.NewFromInt(125)))
	suite.True(invoice.TaxAmount.Equal(decimal.NewFromInt(10)))
	suite.True(invoice.Total.Equal(decimal.NewFromInt(135)))
	suite.Equal(domain.InvoiceDraft, invoice.Status)
	suite.Len(invoice.Lines, 2)
	suite.Contains(invoice.InvoiceNumber, "INV-")
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestCreateInvoice_RejectsZeroQuantity() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		CustomerID: suite.customerID,
		Lines: []dto.InvoiceLineInput{
			{Description: "Widgets", Quantity: 0, UnitPrice: decimal.NewFromInt(50)},
		},
	}

	_, err := suite.service.CreateInvoice(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestSendInvoice_PostsRevenue() {
	ctx := context.Background()
	invoice := suite.newInvoice(domain.InvoiceDraft)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	var posted dto.RecordRevenueRequest
	suite.mockAccounting.On("RecordRevenue", ctx, mock.AnythingOfType("dto.RecordRevenueRequest"), suite.actorID).
		Run(func(args mock.Arguments) {
			posted = args.Get(1).(dto.RecordRevenueRequest)
		}).Return([]domain.JournalLine{}, nil).Once()

	suite.mockInvoiceRepo.On("UpdateInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	result, err := suite.service.SendInvoice(ctx, invoice.InvoiceID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, result.Status)
	suite.Require().NotNil(result.LedgerRef)
	suite.Equal(invoice.InvoiceID, *result.LedgerRef)
	suite.True(posted.Amount.Equal(invoice.Subtotal))
	suite.True(posted.TaxAmount.Equal(invoice.TaxAmount))
	suite.Equal(invoice.InvoiceID, posted.ReferenceID)
	suite.mockAccounting.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestSendInvoice_PostingFailureStaysDraft() {
	ctx := context.Background()
	invoice := suite.newInvoice(domain.InvoiceDraft)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockAccounting.On("RecordRevenue", ctx, mock.AnythingOfType("dto.RecordRevenueRequest"), suite.actorID).
		Return(nil, errors.New("ledger unavailable")).Once()

	_, err := suite.service.SendInvoice(ctx, invoice.InvoiceID, suite.actorID)

	suite.Require().Error(err)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoice", mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestSendInvoice_RequiresDraft() {
	ctx := context.Background()
	invoice := suite.newInvoice(domain.InvoiceSent)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.SendInvoice(ctx, invoice.InvoiceID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockAccounting.AssertNotCalled(suite.T(), "RecordRevenue", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestRecordPayment_PostsCashAgainstReceivable() {
	ctx := context.Background()
	invoice := suite.newInvoice(domain.InvoiceSent)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	var posted dto.PostJournalEntryRequest
	suite.mockAccounting.On("PostJournalEntry", ctx, mock.AnythingOfType("dto.PostJournalEntryRequest"), suite.actorID).
		Run(func(args mock.Arguments) {
			posted = args.Get(1).(dto.PostJournalEntryRequest)
		}).Return([]domain.JournalLine{}, nil).Once()

	suite.mockInvoiceRepo.On("UpdateInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	result, err := suite.service.RecordPayment(ctx, invoice.InvoiceID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, result.Status)
	suite.Require().Len(posted.Lines, 2)
	suite.Equal(domain.AcctCash, posted.Lines[0].AccountCode)
	suite.True(posted.Lines[0].DebitAmount.Equal(invoice.Total))
	suite.Equal(domain.AcctAccountsReceivable, posted.Lines[1].AccountCode)
	suite.True(posted.Lines[1].CreditAmount.Equal(invoice.Total))
}

func (suite *BillingServiceTestSuite) TestRecordPayment_RequiresSent() {
	ctx := context.Background()
	invoice := suite.newInvoice(domain.InvoiceDraft)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.RecordPayment(ctx, invoice.InvoiceID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockAccounting.AssertNotCalled(suite.T(), "PostJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestSendInvoice_AsyncPublishesInsteadOfPosting() {
	ctx := context.Background()
	invoice := suite.newInvoice(domain.InvoiceDraft)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	var published events.Envelope
	suite.mockPublisher.On("Publish", ctx, mock.AnythingOfType("events.Envelope")).
		Run(func(args mock.Arguments) {
			published = args.Get(1).(events.Envelope)
		}).Return(nil).Once()

	result, err := suite.asyncService().SendInvoice(ctx, invoice.InvoiceID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, result.Status)
	suite.Nil(result.LedgerRef)
	suite.mockAccounting.AssertNotCalled(suite.T(), "RecordRevenue", mock.Anything, mock.Anything, mock.Anything)

	suite.Equal(events.EventInvoiceSent, published.EventType)
	var payload events.InvoiceSentPayload
	suite.Require().NoError(published.DecodePayload(&payload))
	suite.Equal(invoice.InvoiceID, payload.InvoiceID)
	suite.True(payload.Subtotal.Equal(invoice.Subtotal))
	suite.True(payload.TaxAmount.Equal(invoice.TaxAmount))
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestRecordPayment_AsyncPublishesInsteadOfPosting() {
	ctx := context.Background()
	invoice := suite.newInvoice(domain.InvoiceSent)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	var published events.Envelope
	suite.mockPublisher.On("Publish", ctx, mock.AnythingOfType("events.Envelope")).
		Run(func(args mock.Arguments) {
			published = args.Get(1).(events.Envelope)
		}).Return(nil).Once()

	result, err := suite.asyncService().RecordPayment(ctx, invoice.InvoiceID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, result.Status)
	suite.mockAccounting.AssertNotCalled(suite.T(), "PostJournalEntry", mock.Anything, mock.Anything, mock.Anything)

	suite.Equal(events.EventPaymentReceived, published.EventType)
	var payload events.PaymentReceivedPayload
	suite.Require().NoError(published.DecodePayload(&payload))
	suite.Equal(invoice.InvoiceID, payload.InvoiceID)
	suite.True(payload.Amount.Equal(invoice.Total))
	suite.mockPublisher.AssertExpectations(suite.T())
}

func TestBillingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillingServiceTestSuite))
}
