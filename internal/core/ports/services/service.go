package services

// ServiceContainer holds all the services and manages their dependencies
type ServiceContainer struct {
	Accounting  AccountingSvcFacade
	Inventory   InventorySvcFacade
	Procurement ProcurementSvcFacade
	Payroll     PayrollSvcFacade
	Billing     BillingSvcFacade
}
