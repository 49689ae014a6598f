package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		JournalRepo:        newPgxJournalRepository(dbPool),
		InventoryRepo:      newPgxInventoryRepository(dbPool),
		PurchaseOrderRepo:  newPgxPurchaseOrderRepository(dbPool),
		PayrollRepo:        newPgxPayrollRepository(dbPool),
		InvoiceRepo:        newPgxInvoiceRepository(dbPool),
		ProcessedEventRepo: newPgxProcessedEventRepository(dbPool),
	}
}
