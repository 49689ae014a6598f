package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/openledgerhq/erp_backend/internal/apperrors"
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/erp_backend/internal/core/ports/services"
	"github.com/openledgerhq/erp_backend/internal/core/services"
	"github.com/openledgerhq/erp_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

// Ensure MockJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveLines(ctx context.Context, lines []domain.JournalLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) FindLinesByReference(ctx context.Context, referenceID, referenceType string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, referenceID, referenceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListLines(ctx context.Context, limit, offset int) ([]domain.JournalLine, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) GetTrialBalance(ctx context.Context) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

// --- Test Suite Setup ---
type AccountingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	service         portssvc.AccountingSvcFacade
	actorID         string
}

func (suite *AccountingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.service = services.NewAccountingService(suite.mockJournalRepo)
	suite.actorID = uuid.NewString()
}

// --- Test Cases ---

func (suite *AccountingServiceTestSuite) TestPostJournalEntry_Success() {
	ctx := context.Background()
	req := dto.PostJournalEntryRequest{
		Date:        time.Now(),
		Description: "Office supplies",
		Lines: []dto.JournalLineInput{
			{AccountCode: domain.AcctInventory, DebitAmount: decimal.NewFromInt(100)},
			{AccountCode: domain.AcctAccountsPayable, CreditAmount: decimal.NewFromInt(100)},
		},
		TransactionType: domain.TxnPurchase,
	}

	suite.mockJournalRepo.On("SaveLines", ctx, mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()

	lines, err := suite.service.PostJournalEntry(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(lines, 2)
	suite.NotEmpty(lines[0].LineID)
	suite.Equal(domain.Posted, lines[0].Status)
	suite.Equal(suite.actorID, lines[0].CreatedBy)
	suite.Equal(domain.AccountName(domain.AcctInventory), lines[0].AccountName)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *AccountingServiceTestSuite) TestPostJournalEntry_Unbalanced() {
	ctx := context.Background()
	req := dto.PostJournalEntryRequest{
		Date: time.Now(),
		Lines: []dto.JournalLineInput{
			{AccountCode: domain.AcctInventory, DebitAmount: decimal.NewFromInt(100)},
			{AccountCode: domain.AcctAccountsPayable, CreditAmount: decimal.NewFromInt(90)},
		},
		TransactionType: domain.TxnPurchase,
	}

	lines, err := suite.service.PostJournalEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.Nil(lines)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveLines", mock.Anything, mock.Anything)
}

func (suite *AccountingServiceTestSuite) TestPostJournalEntry_LineWithBothSides() {
	ctx := context.Background()
	req := dto.PostJournalEntryRequest{
		Date: time.Now(),
		Lines: []dto.JournalLineInput{
			{AccountCode: domain.AcctCash, DebitAmount: decimal.NewFromInt(50), CreditAmount: decimal.NewFromInt(50)},
			{AccountCode: domain.AcctRevenue, CreditAmount: decimal.Zero},
		},
		TransactionType: domain.TxnSale,
	}

	_, err := suite.service.PostJournalEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveLines", mock.Anything, mock.Anything)
}

func (suite *AccountingServiceTestSuite) TestReverseByReference_Success() {
	ctx := context.Background()
	refID := uuid.NewString()
	refType := "invoice"
	original := []domain.JournalLine{
		{
			LineID:       uuid.NewString(),
			AccountCode:  domain.AcctAccountsReceivable,
			AccountName:  domain.AccountName(domain.AcctAccountsReceivable),
			DebitAmount:  decimal.NewFromInt(108),
			CreditAmount: decimal.Zero,
			Description:  "Invoice INV-1",
			ReferenceID:  &refID,
			ReferenceType: &refType,
			Status:       domain.Posted,
		},
		{
			LineID:       uuid.NewString(),
			AccountCode:  domain.AcctRevenue,
			AccountName:  domain.AccountName(domain.AcctRevenue),
			DebitAmount:  decimal.Zero,
			CreditAmount: decimal.NewFromInt(108),
			Description:  "Invoice INV-1",
			ReferenceID:  &refID,
			ReferenceType: &refType,
			Status:       domain.Posted,
		},
	}

	suite.mockJournalRepo.On("FindLinesByReference", ctx, refID, refType).Return(original, nil).Once()

	var saved []domain.JournalLine
	suite.mockJournalRepo.On("SaveLines", ctx, mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domain.JournalLine)
		}).Return(nil).Once()

	reversal, err := suite.service.ReverseByReference(ctx, refID, refType, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(reversal, 2)
	suite.Require().Len(saved, 2)

	suite.True(saved[0].DebitAmount.Equal(original[0].CreditAmount))
	suite.True(saved[0].CreditAmount.Equal(original[0].DebitAmount))
	suite.True(saved[1].DebitAmount.Equal(original[1].CreditAmount))
	suite.True(saved[1].CreditAmount.Equal(original[1].DebitAmount))
	suite.Equal(domain.TxnAdjustment, saved[0].TransactionType)
	suite.Contains(saved[0].Description, "Reversal:")
	suite.NotEqual(original[0].LineID, saved[0].LineID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *AccountingServiceTestSuite) TestReverseByReference_NotFound() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindLinesByReference", ctx, "missing", "payroll").Return([]domain.JournalLine{}, nil).Once()

	_, err := suite.service.ReverseByReference(ctx, "missing", "payroll", suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveLines", mock.Anything, mock.Anything)
}

func (suite *AccountingServiceTestSuite) TestRecordPayrollExpense_BalancedBatch() {
	ctx := context.Background()

	var saved []domain.JournalLine
	suite.mockJournalRepo.On("SaveLines", ctx, mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domain.JournalLine)
		}).Return(nil).Once()

	payrollID := uuid.NewString()
	_, err := suite.service.RecordPayrollExpense(ctx, dto.RecordPayrollExpenseRequest{
		GrossPay:    decimal.NewFromInt(1000),
		TotalTaxes:  decimal.NewFromInt(200),
		NetPay:      decimal.NewFromInt(750),
		Deductions:  decimal.NewFromInt(50),
		Date:        time.Now(),
		ReferenceID: payrollID,
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(saved, 4)

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range saved {
		totalDebit = totalDebit.Add(line.DebitAmount)
		totalCredit = totalCredit.Add(line.CreditAmount)
	}
	suite.True(totalDebit.Equal(decimal.NewFromInt(1000)))
	suite.True(totalCredit.Equal(decimal.NewFromInt(1000)))

	suite.Equal(domain.AcctPayrollExpense, saved[0].AccountCode)
	suite.Equal(domain.TxnPayroll, saved[0].TransactionType)
	suite.Require().NotNil(saved[0].ReferenceID)
	suite.Equal(payrollID, *saved[0].ReferenceID)
}

func (suite *AccountingServiceTestSuite) TestRecordRevenue_GrossReceivable() {
	ctx := context.Background()

	var saved []domain.JournalLine
	suite.mockJournalRepo.On("SaveLines", ctx, mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domain.JournalLine)
		}).Return(nil).Once()

	_, err := suite.service.RecordRevenue(ctx, dto.RecordRevenueRequest{
		Amount:    decimal.NewFromInt(100),
		TaxAmount: decimal.NewFromInt(8),
		Date:      time.Now(),
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(saved, 3)
	suite.Equal(domain.AcctAccountsReceivable, saved[0].AccountCode)
	suite.True(saved[0].DebitAmount.Equal(decimal.NewFromInt(108)))
	suite.Equal(domain.AcctRevenue, saved[1].AccountCode)
	suite.True(saved[1].CreditAmount.Equal(decimal.NewFromInt(100)))
	suite.Equal(domain.AcctSalesTaxPayable, saved[2].AccountCode)
	suite.True(saved[2].CreditAmount.Equal(decimal.NewFromInt(8)))
}

func (suite *AccountingServiceTestSuite) TestGetTrialBalance_SumsTotals() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		{AccountCode: domain.AcctCash, TotalDebit: decimal.NewFromInt(500), TotalCredit: decimal.NewFromInt(200)},
		{AccountCode: domain.AcctRevenue, TotalDebit: decimal.Zero, TotalCredit: decimal.NewFromInt(300)},
	}
	suite.mockJournalRepo.On("GetTrialBalance", ctx).Return(rows, nil).Once()

	resp, err := suite.service.GetTrialBalance(ctx)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Len(resp.Rows, 2)
	suite.True(resp.TotalDebit.Equal(decimal.NewFromInt(500)))
	suite.True(resp.TotalCredit.Equal(decimal.NewFromInt(500)))
}

func TestAccountingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountingServiceTestSuite))
}
