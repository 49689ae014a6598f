package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus is the stored lifecycle state of a payroll row.
type PayrollStatus string

// PayrollRecord is the persistence row for one employee's pay for one period.
type PayrollRecord struct {
	PayrollID   string          `json:"payrollID"` // Primary Key (UUID)
	EmployeeID  string          `json:"employeeID"`
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	GrossPay    decimal.Decimal `json:"grossPay"`
	TaxWithheld decimal.Decimal `json:"taxWithheld"`
	Deductions  decimal.Decimal `json:"deductions"`
	NetPay      decimal.Decimal `json:"netPay"`
	Status      PayrollStatus   `json:"status"`
	LedgerRef   *string         `json:"ledgerRef,omitempty"`
	AuditFields
}
