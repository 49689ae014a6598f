package mapping

import (
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/openledgerhq/erp_backend/internal/models"
)

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:          d.LineID,
		AccountCode:     d.AccountCode,
		AccountName:     d.AccountName,
		DebitAmount:     d.DebitAmount,
		CreditAmount:    d.CreditAmount,
		TransactionDate: d.TransactionDate,
		Description:     d.Description,
		TransactionType: models.TransactionType(d.TransactionType),
		ReferenceID:     d.ReferenceID,
		ReferenceType:   d.ReferenceType,
		Status:          models.LineStatus(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:          m.LineID,
		AccountCode:     m.AccountCode,
		AccountName:     m.AccountName,
		DebitAmount:     m.DebitAmount,
		CreditAmount:    m.CreditAmount,
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		TransactionType: domain.TransactionType(m.TransactionType),
		ReferenceID:     m.ReferenceID,
		ReferenceType:   m.ReferenceType,
		Status:          domain.LineStatus(m.Status),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLineSlice converts a slice of domain JournalLines to model JournalLines
func ToModelJournalLineSlice(ds []domain.JournalLine) []models.JournalLine {
	ms := make([]models.JournalLine, len(ds))
	for i, d := range ds {
		ms[i] = ToModelJournalLine(d)
	}
	return ms
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
