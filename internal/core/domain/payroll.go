package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus is the lifecycle state of a payroll record.
type PayrollStatus string

const (
	PayrollDraft     PayrollStatus = "DRAFT"
	PayrollProcessed PayrollStatus = "PROCESSED"
	PayrollApproved  PayrollStatus = "APPROVED"
	PayrollPaid      PayrollStatus = "PAID"
)

// PayrollRecord represents one employee's pay for one period.
// Invariant: GrossPay == TaxWithheld + Deductions + NetPay.
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
	LedgerRef   *string         `json:"ledgerRef,omitempty"` // back-reference to posted lines
	AuditFields
}

// Balanced reports whether the pay components sum back to gross pay.
func (p PayrollRecord) Balanced() bool {
	return p.GrossPay.Equal(p.TaxWithheld.Add(p.Deductions).Add(p.NetPay))
}
