package services

import (
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/erp_backend/internal/core/ports/services"
	"github.com/openledgerhq/erp_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisher) *portssvc.ServiceContainer {
	// Create the container structure first
	container := &portssvc.ServiceContainer{}

	// Initialize accounting first since every other domain posts through it
	container.Accounting = NewAccountingService(repos.JournalRepo)

	// Procurement before inventory: the reorder monitor dispatches through it
	container.Procurement = NewProcurementService(
		repos.PurchaseOrderRepo,
		repos.InventoryRepo,
		container.Accounting,
		publisher,
		cfg.ReorderLeadTimeDays,
		cfg.AsyncPosting,
	)

	container.Inventory = NewInventoryService(repos.InventoryRepo, container.Procurement, publisher)
	container.Payroll = NewPayrollService(repos.PayrollRepo, container.Accounting, publisher, cfg.AsyncPosting)
	container.Billing = NewBillingService(repos.InvoiceRepo, container.Accounting, publisher, cfg.AsyncPosting)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountingSvcFacade  = (*accountingService)(nil)
	_ portssvc.InventorySvcFacade   = (*inventoryService)(nil)
	_ portssvc.ProcurementSvcFacade = (*procurementService)(nil)
	_ portssvc.PayrollSvcFacade     = (*payrollService)(nil)
	_ portssvc.BillingSvcFacade     = (*billingService)(nil)
)
