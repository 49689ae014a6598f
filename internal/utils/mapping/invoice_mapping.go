package mapping

import (
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/openledgerhq/erp_backend/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		InvoiceNumber: d.InvoiceNumber,
		CustomerID:    d.CustomerID,
		IssueDate:     d.IssueDate,
		DueDate:       d.DueDate,
		Subtotal:      d.Subtotal,
		TaxAmount:     d.TaxAmount,
		Total:         d.Total,
		Status:        models.InvoiceStatus(d.Status),
		LedgerRef:     d.LedgerRef,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     m.InvoiceID,
		InvoiceNumber: m.InvoiceNumber,
		CustomerID:    m.CustomerID,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		Subtotal:      m.Subtotal,
		TaxAmount:     m.TaxAmount,
		Total:         m.Total,
		Status:        domain.InvoiceStatus(m.Status),
		LedgerRef:     m.LedgerRef,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceLine converts a domain InvoiceLine to a model InvoiceLine
func ToModelInvoiceLine(d domain.InvoiceLine) models.InvoiceLine {
	return models.InvoiceLine{
		LineID:      d.LineID,
		InvoiceID:   d.InvoiceID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
	}
}

// ToDomainInvoiceLine converts a model InvoiceLine to a domain InvoiceLine
func ToDomainInvoiceLine(m models.InvoiceLine) domain.InvoiceLine {
	return domain.InvoiceLine{
		LineID:      m.LineID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
	}
}

// ToDomainInvoiceLineSlice converts a slice of model InvoiceLines to domain InvoiceLines
func ToDomainInvoiceLineSlice(ms []models.InvoiceLine) []domain.InvoiceLine {
	ds := make([]domain.InvoiceLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoiceLine(m)
	}
	return ds
}
