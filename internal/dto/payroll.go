package dto

import (
	"time"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProcessPayrollRequest computes withholding for one employee and period.
type ProcessPayrollRequest struct {
	EmployeeID  string          `json:"employeeID" binding:"required"`
	PeriodStart time.Time       `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time       `json:"periodEnd" binding:"required"`
	GrossPay    decimal.Decimal `json:"grossPay" binding:"required"`
	Deductions  decimal.Decimal `json:"deductions"`
}

// ProcessPayrollBatchRequest processes payroll for multiple employees at once.
type ProcessPayrollBatchRequest struct {
	Records []ProcessPayrollRequest `json:"records" binding:"required,min=1,dive"`
}

// PayrollResponse defines the data returned for a payroll record.
type PayrollResponse struct {
	PayrollID   string          `json:"payrollID"`
	EmployeeID  string          `json:"employeeID"`
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	GrossPay    decimal.Decimal `json:"grossPay"`
	TaxWithheld decimal.Decimal `json:"taxWithheld"`
	Deductions  decimal.Decimal `json:"deductions"`
	NetPay      decimal.Decimal `json:"netPay"`
	Status      string          `json:"status"`
	LedgerRef   *string         `json:"ledgerRef,omitempty"`
}

// ToPayrollResponse converts a domain.PayrollRecord to its response DTO.
func ToPayrollResponse(p *domain.PayrollRecord) PayrollResponse {
	return PayrollResponse{
		PayrollID:   p.PayrollID,
		EmployeeID:  p.EmployeeID,
		PeriodStart: p.PeriodStart,
		PeriodEnd:   p.PeriodEnd,
		GrossPay:    p.GrossPay,
		TaxWithheld: p.TaxWithheld,
		Deductions:  p.Deductions,
		NetPay:      p.NetPay,
		Status:      string(p.Status),
		LedgerRef:   p.LedgerRef,
	}
}
