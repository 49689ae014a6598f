package services

import (
	"context"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/openledgerhq/erp_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// ReorderRequesterSvc is the narrow interface consumed by the stock reorder
// monitor. Keeping it small lets inventory depend on procurement without the
// full facade.
type ReorderRequesterSvc interface {
	// CreateReorderPurchaseOrder places an auto-generated purchase order for a
	// shortage episode, expected delivery per the configured lead time.
	CreateReorderPurchaseOrder(ctx context.Context, sku, name string, quantity int64, unitPrice decimal.Decimal, vendorID string, actorID string) (*domain.PurchaseOrder, error)
}

// ProcurementReaderSvc defines read operations for purchase orders.
type ProcurementReaderSvc interface {
	GetPurchaseOrderByID(ctx context.Context, orderID string) (*domain.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, limit, offset int) ([]domain.PurchaseOrder, error)
}

// ProcurementWriterSvc defines lifecycle operations for purchase orders.
type ProcurementWriterSvc interface {
	CreatePurchaseOrder(ctx context.Context, req dto.CreatePurchaseOrderRequest, actorID string) (*domain.PurchaseOrder, error)
	ApprovePurchaseOrder(ctx context.Context, orderID string, actorID string) (*domain.PurchaseOrder, error)
	MarkOrdered(ctx context.Context, orderID string, actorID string) (*domain.PurchaseOrder, error)

	// ReceivePurchaseOrder books receipt of all ordered items: stock is routed
	// through the inventory service and the purchase recipe is posted.
	ReceivePurchaseOrder(ctx context.Context, orderID string, actorID string) (*domain.PurchaseOrder, error)

	// CancelPurchaseOrder cancels an open order. For auto-generated orders the
	// originating item's on-order quantity is released so the reorder monitor
	// can trigger again.
	CancelPurchaseOrder(ctx context.Context, orderID string, actorID string) (*domain.PurchaseOrder, error)
}

// ProcurementSvcFacade combines all procurement service interfaces
type ProcurementSvcFacade interface {
	ReorderRequesterSvc
	ProcurementReaderSvc
	ProcurementWriterSvc
}
