package repositories

import (
	"context"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
)

// JournalLineReader defines read operations for posted ledger data
type JournalLineReader interface {
	// FindLinesByReference retrieves all lines posted for an originating domain record.
	FindLinesByReference(ctx context.Context, referenceID, referenceType string) ([]domain.JournalLine, error)

	// ListLines retrieves a page of posted lines, newest first.
	ListLines(ctx context.Context, limit, offset int) ([]domain.JournalLine, error)

	// GetTrialBalance derives per-account debit/credit totals by summation.
	GetTrialBalance(ctx context.Context) ([]domain.TrialBalanceRow, error)
}

// JournalLineWriter defines write operations for the ledger store
type JournalLineWriter interface {
	// SaveLines persists a validated batch atomically. Either every line is
	// written or none are. Posted lines are never updated or deleted.
	SaveLines(ctx context.Context, lines []domain.JournalLine) error
}

// JournalRepositoryFacade combines all ledger repository interfaces
type JournalRepositoryFacade interface {
	JournalLineReader
	JournalLineWriter
}
