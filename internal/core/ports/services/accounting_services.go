package services

import (
	"context"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/openledgerhq/erp_backend/internal/dto"
)

// JournalPostingSvc defines the posting operations of the ledger.
type JournalPostingSvc interface {
	// PostJournalEntry validates the double-entry invariant and persists the
	// batch atomically. An unbalanced batch fails with apperrors.ErrUnbalanced
	// and persists nothing.
	PostJournalEntry(ctx context.Context, req dto.PostJournalEntryRequest, actorID string) ([]domain.JournalLine, error)

	// ReverseByReference posts offsetting lines for everything previously
	// posted under the given reference. Posted lines are never mutated.
	ReverseByReference(ctx context.Context, referenceID, referenceType string, actorID string) ([]domain.JournalLine, error)
}

// LedgerReaderSvc defines read operations over the ledger store.
type LedgerReaderSvc interface {
	// GetLinesByReference retrieves the lines posted for a domain record.
	GetLinesByReference(ctx context.Context, referenceID, referenceType string) ([]domain.JournalLine, error)

	// ListLines retrieves a page of posted lines, newest first.
	ListLines(ctx context.Context, limit, offset int) ([]domain.JournalLine, error)

	// GetTrialBalance derives per-account totals by summation at read time.
	GetTrialBalance(ctx context.Context) (*dto.TrialBalanceResponse, error)
}

// AccountingRecipesSvc defines the convenience wrappers consumed by the other
// domains. Each builds a fixed balanced batch and posts it.
type AccountingRecipesSvc interface {
	// RecordPayrollExpense posts DR Payroll Expense / CR Taxes Payable /
	// CR Cash (/ CR Other Deductions Payable when deductions > 0).
	RecordPayrollExpense(ctx context.Context, req dto.RecordPayrollExpenseRequest, actorID string) ([]domain.JournalLine, error)

	// RecordRevenue posts DR Accounts Receivable / CR Revenue / CR Sales Tax Payable.
	RecordRevenue(ctx context.Context, req dto.RecordRevenueRequest, actorID string) ([]domain.JournalLine, error)

	// RecordPurchase posts DR Inventory / CR Accounts Payable.
	RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest, actorID string) ([]domain.JournalLine, error)
}

// AccountingSvcFacade combines all accounting service interfaces
type AccountingSvcFacade interface {
	JournalPostingSvc
	LedgerReaderSvc
	AccountingRecipesSvc
}
