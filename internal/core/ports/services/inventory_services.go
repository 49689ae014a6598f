package services

import (
	"context"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/openledgerhq/erp_backend/internal/dto"
)

// InventoryReaderSvc defines read operations for inventory items.
type InventoryReaderSvc interface {
	GetItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error)
	ListItems(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error)
}

// InventoryWriterSvc defines the stock mutation operations. Each mutation
// that can decrease available quantity runs the reorder monitor as a side
// effect, inside the same per-item critical section.
type InventoryWriterSvc interface {
	CreateItem(ctx context.Context, req dto.CreateInventoryItemRequest, actorID string) (*domain.InventoryItem, error)

	// AdjustStock changes quantity on hand by a signed delta.
	AdjustStock(ctx context.Context, sku string, req dto.AdjustStockRequest, actorID string) (*domain.InventoryItem, error)

	// ReserveStock soft-locks available stock; fails with
	// apperrors.ErrInsufficientStock when the request exceeds availability.
	ReserveStock(ctx context.Context, sku string, req dto.ReserveStockRequest, actorID string) (*domain.InventoryItem, error)

	// FulfillReservation ships previously reserved stock.
	FulfillReservation(ctx context.Context, sku string, req dto.FulfillReservationRequest, actorID string) (*domain.InventoryItem, error)

	// ReceiveStock books a goods receipt, reducing quantity on order.
	ReceiveStock(ctx context.Context, sku string, req dto.ReceiveStockRequest, actorID string) (*domain.InventoryItem, error)
}

// ReorderEvaluatorSvc re-runs the stock reorder monitor for one item without
// mutating quantities. The event consumer uses it to retry a shortage episode
// whose synchronous order dispatch failed; an item already pending an order
// comes out unchanged.
type ReorderEvaluatorSvc interface {
	EvaluateReorder(ctx context.Context, sku string, actorID string) (*domain.InventoryItem, error)
}

// InventorySvcFacade combines all inventory service interfaces
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
	ReorderEvaluatorSvc
}
