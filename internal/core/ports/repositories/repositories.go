package repositories

// RepositoryProvider bundles every repository implementation for injection
// into the service container.
type RepositoryProvider struct {
	JournalRepo        JournalRepositoryFacade
	InventoryRepo      InventoryRepositoryWithTx
	PurchaseOrderRepo  PurchaseOrderRepositoryFacade
	PayrollRepo        PayrollRepositoryFacade
	InvoiceRepo        InvoiceRepositoryFacade
	ProcessedEventRepo ProcessedEventRepository
}
