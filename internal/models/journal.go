package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineStatus indicates the state of a journal line row.
type LineStatus string

const (
	Draft      LineStatus = "DRAFT"
	Posted     LineStatus = "POSTED"
	Reconciled LineStatus = "RECONCILED"
)

// TransactionType tags a journal line with the event that produced it.
type TransactionType string

// JournalLine is the persistence row for one side of a double-entry batch.
type JournalLine struct {
	LineID          string          `json:"lineID"` // Primary Key (UUID)
	AccountCode     string          `json:"accountCode"`
	AccountName     string          `json:"accountName"`
	DebitAmount     decimal.Decimal `json:"debitAmount"`
	CreditAmount    decimal.Decimal `json:"creditAmount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	TransactionType TransactionType `json:"transactionType"`
	ReferenceID     *string         `json:"referenceID,omitempty"`
	ReferenceType   *string         `json:"referenceType,omitempty"`
	Status          LineStatus      `json:"status"`
	AuditFields
}
