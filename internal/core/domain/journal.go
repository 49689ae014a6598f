package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineStatus indicates the state of a journal line.
type LineStatus string

const (
	Draft      LineStatus = "DRAFT"
	Posted     LineStatus = "POSTED"
	Reconciled LineStatus = "RECONCILED"
)

// TransactionType tags a journal line with the domain event that produced it.
type TransactionType string

const (
	TxnPayroll    TransactionType = "payroll"
	TxnSale       TransactionType = "sale"
	TxnPurchase   TransactionType = "purchase"
	TxnAdjustment TransactionType = "adjustment"
)

// Standard chart-of-accounts codes used by the posting recipes.
const (
	AcctPayrollExpense         = "6000"
	AcctPayrollTaxesPayable    = "2100"
	AcctOtherDeductionsPayable = "2110"
	AcctCash                   = "1000"
	AcctAccountsReceivable     = "1100"
	AcctRevenue                = "4000"
	AcctSalesTaxPayable        = "2200"
	AcctInventory              = "1200"
	AcctAccountsPayable        = "2000"
)

// AccountName returns the display name for a known account code.
func AccountName(code string) string {
	switch code {
	case AcctPayrollExpense:
		return "Payroll Expense"
	case AcctPayrollTaxesPayable:
		return "Payroll Taxes Payable"
	case AcctOtherDeductionsPayable:
		return "Other Deductions Payable"
	case AcctCash:
		return "Cash"
	case AcctAccountsReceivable:
		return "Accounts Receivable"
	case AcctRevenue:
		return "Revenue"
	case AcctSalesTaxPayable:
		return "Sales Tax Payable"
	case AcctInventory:
		return "Inventory"
	case AcctAccountsPayable:
		return "Accounts Payable"
	default:
		return code
	}
}

// JournalLine represents one row of a double-entry journal batch.
// Lines are immutable once posted; correction is done via offsetting entries.
type JournalLine struct {
	LineID          string          `json:"lineID"`      // Primary Key (UUID)
	AccountCode     string          `json:"accountCode"` // Chart-of-accounts identifier
	AccountName     string          `json:"accountName"`
	DebitAmount     decimal.Decimal `json:"debitAmount"`  // >= 0
	CreditAmount    decimal.Decimal `json:"creditAmount"` // >= 0, exclusive with debit on a line
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	TransactionType TransactionType `json:"transactionType"`
	ReferenceID     *string         `json:"referenceID,omitempty"`   // Originating domain record
	ReferenceType   *string         `json:"referenceType,omitempty"` // e.g. "payroll", "invoice", "purchase_order"
	Status          LineStatus      `json:"status"`
	AuditFields
}

// IsDebit reports whether this line carries its amount on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// TrialBalanceRow is one account's debit/credit totals, derived by summation at read time.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}
