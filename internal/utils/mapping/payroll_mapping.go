package mapping

import (
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/openledgerhq/erp_backend/internal/models"
)

// ToModelPayrollRecord converts a domain PayrollRecord to a model PayrollRecord
func ToModelPayrollRecord(d domain.PayrollRecord) models.PayrollRecord {
	return models.PayrollRecord{
		PayrollID:   d.PayrollID,
		EmployeeID:  d.EmployeeID,
		PeriodStart: d.PeriodStart,
		PeriodEnd:   d.PeriodEnd,
		GrossPay:    d.GrossPay,
		TaxWithheld: d.TaxWithheld,
		Deductions:  d.Deductions,
		NetPay:      d.NetPay,
		Status:      models.PayrollStatus(d.Status),
		LedgerRef:   d.LedgerRef,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayrollRecord converts a model PayrollRecord to a domain PayrollRecord
func ToDomainPayrollRecord(m models.PayrollRecord) domain.PayrollRecord {
	return domain.PayrollRecord{
		PayrollID:   m.PayrollID,
		EmployeeID:  m.EmployeeID,
		PeriodStart: m.PeriodStart,
		PeriodEnd:   m.PeriodEnd,
		GrossPay:    m.GrossPay,
		TaxWithheld: m.TaxWithheld,
		Deductions:  m.Deductions,
		NetPay:      m.NetPay,
		Status:      domain.PayrollStatus(m.Status),
		LedgerRef:   m.LedgerRef,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPayrollRecordSlice converts a slice of model PayrollRecords to domain PayrollRecords
func ToDomainPayrollRecordSlice(ms []models.PayrollRecord) []domain.PayrollRecord {
	ds := make([]domain.PayrollRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayrollRecord(m)
	}
	return ds
}
