package repositories

import (
	"context"
	"time"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
)

// PurchaseOrderReader defines read operations for purchase order data
type PurchaseOrderReader interface {
	// FindOrderByID retrieves a purchase order with its items.
	FindOrderByID(ctx context.Context, orderID string) (*domain.PurchaseOrder, error)

	// ListOrders retrieves a page of orders, newest first.
	ListOrders(ctx context.Context, limit, offset int) ([]domain.PurchaseOrder, error)
}

// PurchaseOrderWriter defines write operations for purchase order data
type PurchaseOrderWriter interface {
	// SaveOrder persists an order and its items atomically.
	SaveOrder(ctx context.Context, order domain.PurchaseOrder) error

	// UpdateOrderStatus transitions an order's lifecycle state.
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.PurchaseOrderStatus, updatedBy string, updatedAt time.Time) error
}

// PurchaseOrderRepositoryFacade combines all purchase order repository interfaces
type PurchaseOrderRepositoryFacade interface {
	PurchaseOrderReader
	PurchaseOrderWriter
}
