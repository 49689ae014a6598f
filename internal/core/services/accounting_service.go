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
	"github.com/openledgerhq/erp_backend/internal/middleware"
	"github.com/openledgerhq/erp_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// accountingService provides journal posting, ledger reads, and the fixed
// posting recipes consumed by the other domains.
type accountingService struct {
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewAccountingService creates a new AccountingService.
func NewAccountingService(journalRepo portsrepo.JournalRepositoryFacade) portssvc.AccountingSvcFacade {
	return &accountingService{
		journalRepo: journalRepo,
	}
}

// Ensure accountingService implements the portssvc.AccountingSvcFacade interface
var _ portssvc.AccountingSvcFacade = (*accountingService)(nil)

// buildLines converts the request into domain lines, filling generated IDs,
// derived account names, and audit fields.
func (s *accountingService) buildLines(req dto.PostJournalEntryRequest, actorID string, now time.Time) []domain.JournalLine {
	date := req.Date
	if date.IsZero() {
		date = now
	}
	lines := make([]domain.JournalLine, len(req.Lines))
	for i, in := range req.Lines {
		name := in.AccountName
		if name == "" {
			name = domain.AccountName(in.AccountCode)
		}
		description := in.Description
		if description == "" {
			description = req.Description
		}
		lines[i] = domain.JournalLine{
			LineID:          uuid.NewString(),
			AccountCode:     in.AccountCode,
			AccountName:     name,
			DebitAmount:     in.DebitAmount,
			CreditAmount:    in.CreditAmount,
			TransactionDate: date,
			Description:     description,
			TransactionType: req.TransactionType,
			ReferenceID:     req.ReferenceID,
			ReferenceType:   req.ReferenceType,
			Status:          domain.Posted,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}
	return lines
}

// PostJournalEntry validates the double-entry invariant and persists the batch
// atomically. Implements portssvc.JournalPostingSvc
func (s *accountingService) PostJournalEntry(ctx context.Context, req dto.PostJournalEntryRequest, actorID string) ([]domain.JournalLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	lines := s.buildLines(req, actorID, now)

	if err := accounting.ValidateBatchBalance(lines); err != nil {
		logger.Warn("Journal batch rejected",
			slog.String("transaction_type", string(req.TransactionType)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnbalanced, err)
	}

	if err := s.journalRepo.SaveLines(ctx, lines); err != nil {
		logger.Error("Failed to save journal batch", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal batch: %w", err)
	}

	debits, credits := accounting.SumBatch(lines)
	logger.Info("Journal batch posted",
		slog.Int("lines", len(lines)),
		slog.String("transaction_type", string(req.TransactionType)),
		slog.String("total_debit", debits.String()),
		slog.String("total_credit", credits.String()),
	)
	return lines, nil
}

// ReverseByReference posts offsetting lines for everything previously posted
// under the given reference. Implements portssvc.JournalPostingSvc
func (s *accountingService) ReverseByReference(ctx context.Context, referenceID, referenceType string, actorID string) ([]domain.JournalLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindLinesByReference(ctx, referenceID, referenceType)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for reversal: %w", err)
	}
	if len(original) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no posted lines for reference %s/%s", referenceType, referenceID))
	}

	now := time.Now()
	reversal := make([]domain.JournalLine, len(original))
	for i, line := range original {
		reversal[i] = domain.JournalLine{
			LineID:          uuid.NewString(),
			AccountCode:     line.AccountCode,
			AccountName:     line.AccountName,
			DebitAmount:     line.CreditAmount,
			CreditAmount:    line.DebitAmount,
			TransactionDate: now,
			Description:     fmt.Sprintf("Reversal: %s", line.Description),
			TransactionType: domain.TxnAdjustment,
			ReferenceID:     line.ReferenceID,
			ReferenceType:   line.ReferenceType,
			Status:          domain.Posted,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}

	if err := s.journalRepo.SaveLines(ctx, reversal); err != nil {
		logger.Error("Failed to save reversal batch", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reversal batch: %w", err)
	}

	logger.Info("Reference reversed",
		slog.String("reference_id", referenceID),
		slog.String("reference_type", referenceType),
		slog.Int("lines", len(reversal)),
	)
	return reversal, nil
}

// GetLinesByReference retrieves the lines posted for a domain record.
// Implements portssvc.LedgerReaderSvc
func (s *accountingService) GetLinesByReference(ctx context.Context, referenceID, referenceType string) ([]domain.JournalLine, error) {
	return s.journalRepo.FindLinesByReference(ctx, referenceID, referenceType)
}

// ListLines retrieves a page of posted lines, newest first.
// Implements portssvc.LedgerReaderSvc
func (s *accountingService) ListLines(ctx context.Context, limit, offset int) ([]domain.JournalLine, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.journalRepo.ListLines(ctx, limit, offset)
}

// GetTrialBalance derives per-account totals by summation at read time.
// Implements portssvc.LedgerReaderSvc
func (s *accountingService) GetTrialBalance(ctx context.Context) (*dto.TrialBalanceResponse, error) {
	rows, err := s.journalRepo.GetTrialBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute trial balance: %w", err)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, row := range rows {
		totalDebit = totalDebit.Add(row.TotalDebit)
		totalCredit = totalCredit.Add(row.TotalCredit)
	}

	return &dto.TrialBalanceResponse{
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}

// RecordPayrollExpense posts the payroll recipe: DR Payroll Expense for gross,
// CR Payroll Taxes Payable, CR Cash for net, and CR Other Deductions Payable
// when deductions are present. Implements portssvc.AccountingRecipesSvc
func (s *accountingService) RecordPayrollExpense(ctx context.Context, req dto.RecordPayrollExpenseRequest, actorID string) ([]domain.JournalLine, error) {
	refType := "payroll"
	lines := []dto.JournalLineInput{
		{AccountCode: domain.AcctPayrollExpense, DebitAmount: req.GrossPay},
		{AccountCode: domain.AcctPayrollTaxesPayable, CreditAmount: req.TotalTaxes},
		{AccountCode: domain.AcctCash, CreditAmount: req.NetPay},
	}
	if req.Deductions.IsPositive() {
		lines = append(lines, dto.JournalLineInput{
			AccountCode:  domain.AcctOtherDeductionsPayable,
			CreditAmount: req.Deductions,
		})
	}

	post := dto.PostJournalEntryRequest{
		Date:            req.Date,
		Lines:           lines,
		Description:     recipeDescription(req.Description, "Payroll expense"),
		TransactionType: domain.TxnPayroll,
		ReferenceType:   &refType,
	}
	if req.ReferenceID != "" {
		post.ReferenceID = &req.ReferenceID
	}
	return s.PostJournalEntry(ctx, post, actorID)
}

// RecordRevenue posts the revenue recognition recipe: DR Accounts Receivable
// for the gross amount, CR Revenue, CR Sales Tax Payable.
// Implements portssvc.AccountingRecipesSvc
func (s *accountingService) RecordRevenue(ctx context.Context, req dto.RecordRevenueRequest, actorID string) ([]domain.JournalLine, error) {
	refType := "invoice"
	gross := req.Amount.Add(req.TaxAmount)
	lines := []dto.JournalLineInput{
		{AccountCode: domain.AcctAccountsReceivable, DebitAmount: gross},
		{AccountCode: domain.AcctRevenue, CreditAmount: req.Amount},
	}
	if req.TaxAmount.IsPositive() {
		lines = append(lines, dto.JournalLineInput{
			AccountCode:  domain.AcctSalesTaxPayable,
			CreditAmount: req.TaxAmount,
		})
	}

	post := dto.PostJournalEntryRequest{
		Date:            req.Date,
		Lines:           lines,
		Description:     recipeDescription(req.Description, "Revenue recognition"),
		TransactionType: domain.TxnSale,
		ReferenceType:   &refType,
	}
	if req.ReferenceID != "" {
		post.ReferenceID = &req.ReferenceID
	}
	return s.PostJournalEntry(ctx, post, actorID)
}

// RecordPurchase posts the purchase recipe: DR Inventory / CR Accounts Payable.
// Implements portssvc.AccountingRecipesSvc
func (s *accountingService) RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest, actorID string) ([]domain.JournalLine, error) {
	refType := "purchase_order"
	post := dto.PostJournalEntryRequest{
		Date: req.Date,
		Lines: []dto.JournalLineInput{
			{AccountCode: domain.AcctInventory, DebitAmount: req.Amount},
			{AccountCode: domain.AcctAccountsPayable, CreditAmount: req.Amount},
		},
		Description:     recipeDescription(req.Description, "Inventory purchase"),
		TransactionType: domain.TxnPurchase,
		ReferenceType:   &refType,
	}
	if req.ReferenceID != "" {
		post.ReferenceID = &req.ReferenceID
	}
	return s.PostJournalEntry(ctx, post, actorID)
}

func recipeDescription(given, fallback string) string {
	if given != "" {
		return given
	}
	return fallback
}
