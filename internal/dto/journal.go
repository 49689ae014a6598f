package dto

import (
	"time"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineInput is one debit/credit row submitted within a batch.
type JournalLineInput struct {
	AccountCode  string          `json:"accountCode" binding:"required"`
	AccountName  string          `json:"accountName"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// PostJournalEntryRequest is a journal batch to be validated and posted atomically.
type PostJournalEntryRequest struct {
	Date            time.Time              `json:"date" binding:"required"`
	Lines           []JournalLineInput     `json:"lines" binding:"required,min=1,dive"`
	Description     string                 `json:"description"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required"`
	ReferenceID     *string                `json:"referenceID,omitempty"`
	ReferenceType   *string                `json:"referenceType,omitempty"`
}

// RecordPayrollExpenseRequest carries the amounts for the payroll posting recipe.
// The caller is responsible for GrossPay == TotalTaxes + NetPay + Deductions.
type RecordPayrollExpenseRequest struct {
	GrossPay    decimal.Decimal `json:"grossPay" binding:"required"`
	TotalTaxes  decimal.Decimal `json:"totalTaxes"`
	NetPay      decimal.Decimal `json:"netPay" binding:"required"`
	Deductions  decimal.Decimal `json:"deductions"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	ReferenceID string          `json:"referenceID"`
}

// RecordRevenueRequest carries the amounts for the revenue recognition recipe.
type RecordRevenueRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	ReferenceID string          `json:"referenceID"`
}

// RecordPurchaseRequest carries the amount for the purchase recording recipe.
type RecordPurchaseRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	ReferenceID string          `json:"referenceID"`
}

// JournalLineResponse defines the data returned for a posted line.
type JournalLineResponse struct {
	LineID          string          `json:"lineID"`
	AccountCode     string          `json:"accountCode"`
	AccountName     string          `json:"accountName"`
	DebitAmount     decimal.Decimal `json:"debitAmount"`
	CreditAmount    decimal.Decimal `json:"creditAmount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	TransactionType string          `json:"transactionType"`
	ReferenceID     *string         `json:"referenceID,omitempty"`
	ReferenceType   *string         `json:"referenceType,omitempty"`
	Status          string          `json:"status"`
}

// ToJournalLineResponse converts a domain.JournalLine to its response DTO.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:          l.LineID,
		AccountCode:     l.AccountCode,
		AccountName:     l.AccountName,
		DebitAmount:     l.DebitAmount,
		CreditAmount:    l.CreditAmount,
		TransactionDate: l.TransactionDate,
		Description:     l.Description,
		TransactionType: string(l.TransactionType),
		ReferenceID:     l.ReferenceID,
		ReferenceType:   l.ReferenceType,
		Status:          string(l.Status),
	}
}

// ToJournalLineResponses converts a slice of domain lines to response DTOs.
func ToJournalLineResponses(lines []domain.JournalLine) []JournalLineResponse {
	responses := make([]JournalLineResponse, len(lines))
	for i := range lines {
		responses[i] = ToJournalLineResponse(&lines[i])
	}
	return responses
}

// TrialBalanceResponse is the derived per-account totals report.
type TrialBalanceResponse struct {
	Rows        []domain.TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal          `json:"totalDebit"`
	TotalCredit decimal.Decimal          `json:"totalCredit"`
}
