package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openledgerhq/erp_backend/internal/apperrors"
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/erp_backend/internal/core/ports/services"
	"github.com/openledgerhq/erp_backend/internal/dto"
	"github.com/openledgerhq/erp_backend/internal/events"
	"github.com/openledgerhq/erp_backend/internal/middleware"
)

// inventoryService provides stock reads and mutations. Every mutation runs
// inside a per-item row-locked transaction. The reorder monitor runs in that
// same critical section, but only for mutations that can open a shortage
// (negative adjustments and fulfillments) and for explicit re-evaluation, so
// concurrent mutations of one SKU cannot both trigger a purchase order and
// receipts or reservations never dispatch one.
type inventoryService struct {
	inventoryRepo portsrepo.InventoryRepositoryWithTx
	reorderSvc    portssvc.ReorderRequesterSvc
	publisher     portssvc.EventPublisher
}

// NewInventoryService creates a new InventoryService. The publisher may be nil
// when the event bus is disabled.
func NewInventoryService(inventoryRepo portsrepo.InventoryRepositoryWithTx, reorderSvc portssvc.ReorderRequesterSvc, publisher portssvc.EventPublisher) portssvc.InventorySvcFacade {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		reorderSvc:    reorderSvc,
		publisher:     publisher,
	}
}

// Ensure inventoryService implements the portssvc.InventorySvcFacade interface
var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// GetItemBySKU retrieves an item by its unique SKU.
// Implements portssvc.InventoryReaderSvc
func (s *inventoryService) GetItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	return s.inventoryRepo.FindItemBySKU(ctx, sku)
}

// ListItems retrieves a page of items ordered by SKU.
// Implements portssvc.InventoryReaderSvc
func (s *inventoryService) ListItems(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.inventoryRepo.ListItems(ctx, limit, offset)
}

// CreateItem persists a new stocked SKU with its replenishment policy.
// Implements portssvc.InventoryWriterSvc
func (s *inventoryService) CreateItem(ctx context.Context, req dto.CreateInventoryItemRequest, actorID string) (*domain.InventoryItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.ReorderQuantity <= 0 {
		return nil, fmt.Errorf("%w: reorder quantity must be positive", apperrors.ErrValidation)
	}
	if req.QuantityOnHand < 0 || req.ReorderPoint < 0 {
		return nil, fmt.Errorf("%w: quantities must be non-negative", apperrors.ErrValidation)
	}

	now := time.Now()
	item := domain.InventoryItem{
		ItemID:            uuid.NewString(),
		SKU:               req.SKU,
		Name:              req.Name,
		Category:          req.Category,
		QuantityOnHand:    req.QuantityOnHand,
		ReorderPoint:      req.ReorderPoint,
		ReorderQuantity:   req.ReorderQuantity,
		UnitCost:          req.UnitCost,
		UnitPrice:         req.UnitPrice,
		PreferredVendorID: req.PreferredVendorID,
		Status:            domain.ItemActive,
		Version:           1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	item.ReorderState = item.DeriveReorderState()

	if err := s.inventoryRepo.SaveItem(ctx, item); err != nil {
		logger.Error("Failed to save inventory item", slog.String("sku", req.SKU), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save inventory item: %w", err)
	}

	logger.Info("Inventory item created", slog.String("sku", item.SKU), slog.String("item_id", item.ItemID))
	return &item, nil
}

// AdjustStock changes quantity on hand by a signed delta. Only a negative
// delta can open a shortage, so the reorder monitor runs just for those.
// Implements portssvc.InventoryWriterSvc
func (s *inventoryService) AdjustStock(ctx context.Context, sku string, req dto.AdjustStockRequest, actorID string) (*domain.InventoryItem, error) {
	return s.mutateItem(ctx, sku, actorID, "adjustment", req.Delta < 0, func(item *domain.InventoryItem) error {
		next := item.QuantityOnHand + req.Delta
		if next < 0 {
			return fmt.Errorf("%w: adjustment would drive quantity on hand below zero", apperrors.ErrInsufficientStock)
		}
		if next < item.QuantityReserved {
			return fmt.Errorf("%w: adjustment would drive quantity on hand below reserved", apperrors.ErrInsufficientStock)
		}
		item.QuantityOnHand = next
		return nil
	})
}

// ReserveStock soft-locks available stock for an order. A pure reservation
// re-derives the replenishment tag but does not dispatch an order; the next
// qualifying mutation triggers the monitor.
// Implements portssvc.InventoryWriterSvc
func (s *inventoryService) ReserveStock(ctx context.Context, sku string, req dto.ReserveStockRequest, actorID string) (*domain.InventoryItem, error) {
	return s.mutateItem(ctx, sku, actorID, "reservation", false, func(item *domain.InventoryItem) error {
		if !item.CanReserve(req.Quantity) {
			return fmt.Errorf("%w: requested %d, available %d", apperrors.ErrInsufficientStock, req.Quantity, item.AvailableQuantity())
		}
		item.QuantityReserved += req.Quantity
		return nil
	})
}

// FulfillReservation ships previously reserved stock.
// Implements portssvc.InventoryWriterSvc
func (s *inventoryService) FulfillReservation(ctx context.Context, sku string, req dto.FulfillReservationRequest, actorID string) (*domain.InventoryItem, error) {
	return s.mutateItem(ctx, sku, actorID, "fulfillment", true, func(item *domain.InventoryItem) error {
		if req.Quantity <= 0 || req.Quantity > item.QuantityReserved {
			return fmt.Errorf("%w: fulfillment of %d exceeds reserved %d", apperrors.ErrInsufficientStock, req.Quantity, item.QuantityReserved)
		}
		item.QuantityReserved -= req.Quantity
		item.QuantityOnHand -= req.Quantity
		return nil
	})
}

// ReceiveStock books a goods receipt, reducing quantity on order. The on-order
// figure is clamped at zero so over-delivery cannot drive it negative. A
// receipt only increases stock, so it never dispatches an order; the
// replenishment tag is re-derived and the next qualifying mutation
// re-triggers the monitor if the item is still short.
// Implements portssvc.InventoryWriterSvc
func (s *inventoryService) ReceiveStock(ctx context.Context, sku string, req dto.ReceiveStockRequest, actorID string) (*domain.InventoryItem, error) {
	return s.mutateItem(ctx, sku, actorID, "receipt", false, func(item *domain.InventoryItem) error {
		if req.Quantity <= 0 {
			return fmt.Errorf("%w: receipt quantity must be positive", apperrors.ErrValidation)
		}
		item.QuantityOnHand += req.Quantity
		applied := req.Quantity
		if applied > item.QuantityOnOrder {
			applied = item.QuantityOnOrder
		}
		item.QuantityOnOrder -= applied
		if item.QuantityOnOrder == 0 {
			item.OutstandingOrderID = nil
		}
		return nil
	})
}

// EvaluateReorder re-runs the reorder monitor for one item under its row
// lock. Quantities are untouched, so an item that already has an outstanding
// order is left alone; one stuck in NEEDS_ORDER after a failed dispatch gets
// a fresh order attempt.
func (s *inventoryService) EvaluateReorder(ctx context.Context, sku string, actorID string) (*domain.InventoryItem, error) {
	return s.mutateItem(ctx, sku, actorID, "reorder-check", true, func(item *domain.InventoryItem) error {
		return nil
	})
}

// mutateItem runs one stock mutation inside a single row-locked transaction
// on the item. With runMonitor set the reorder monitor executes in the same
// critical section; otherwise the replenishment tag is only re-derived.
func (s *inventoryService) mutateItem(ctx context.Context, sku, actorID, movementType string, runMonitor bool, mutate func(*domain.InventoryItem) error) (*domain.InventoryItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.inventoryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.inventoryRepo.Rollback(ctx, tx)
	}()

	item, err := s.inventoryRepo.FindItemBySKUForUpdate(ctx, tx, sku)
	if err != nil {
		return nil, err
	}

	before := item.QuantityOnHand
	if err := mutate(item); err != nil {
		return nil, err
	}

	if runMonitor {
		s.runReorderMonitor(ctx, item, actorID, logger)
	} else {
		item.ReorderState = item.DeriveReorderState()
	}

	now := time.Now()
	item.LastUpdatedAt = now
	item.LastUpdatedBy = actorID
	item.Version++

	if err := s.inventoryRepo.UpdateItemInTx(ctx, tx, *item); err != nil {
		logger.Error("Failed to update inventory item", slog.String("sku", sku), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}

	if err := s.inventoryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit inventory transaction: %w", err)
	}

	s.publishMovement(ctx, item, movementType, item.QuantityOnHand-before, logger)
	return item, nil
}

// runReorderMonitor evaluates the replenishment state after a mutation and,
// on a HEALTHY to NEEDS_ORDER transition with a preferred vendor present,
// places an auto-generated purchase order. A dispatch failure leaves the item
// in NEEDS_ORDER with nothing on order, so the next qualifying mutation
// triggers again.
func (s *inventoryService) runReorderMonitor(ctx context.Context, item *domain.InventoryItem, actorID string, logger *slog.Logger) {
	state := item.DeriveReorderState()
	if state != domain.ReorderNeedsOrder {
		item.ReorderState = state
		return
	}

	item.ReorderState = domain.ReorderNeedsOrder
	s.publishStockLow(ctx, item, logger)

	if item.PreferredVendorID == nil || *item.PreferredVendorID == "" {
		logger.Warn("Item below reorder point has no preferred vendor",
			slog.String("sku", item.SKU),
			slog.Int64("available", item.AvailableQuantity()),
			slog.Int64("reorder_point", item.ReorderPoint),
		)
		return
	}

	po, err := s.reorderSvc.CreateReorderPurchaseOrder(ctx, item.SKU, item.Name, item.ReorderQuantity, item.UnitCost, *item.PreferredVendorID, actorID)
	if err != nil {
		logger.Error("Reorder purchase order dispatch failed",
			slog.String("sku", item.SKU),
			slog.String("error", err.Error()),
		)
		return
	}

	item.QuantityOnOrder += item.ReorderQuantity
	item.OutstandingOrderID = &po.OrderID
	item.ReorderState = domain.ReorderPendingOrder
	logger.Info("Reorder purchase order placed",
		slog.String("sku", item.SKU),
		slog.String("order_id", po.OrderID),
		slog.Int64("quantity", item.ReorderQuantity),
	)
}

func (s *inventoryService) publishStockLow(ctx context.Context, item *domain.InventoryItem, logger *slog.Logger) {
	if s.publisher == nil {
		return
	}
	payload := events.StockLevelLowPayload{
		SKU:               item.SKU,
		Name:              item.Name,
		AvailableQuantity: item.AvailableQuantity(),
		ReorderPoint:      item.ReorderPoint,
		ReorderQuantity:   item.ReorderQuantity,
		UnitCost:          item.UnitCost,
		DetectedAt:        time.Now().UTC(),
	}
	if item.PreferredVendorID != nil {
		payload.PreferredVendorID = *item.PreferredVendorID
	}
	env, err := events.NewEnvelope(events.EventStockLevelLow, "inventory", payload, events.Metadata{})
	if err != nil {
		logger.Error("Failed to build stock low event", slog.String("error", err.Error()))
		return
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		logger.Error("Failed to publish stock low event", slog.String("sku", item.SKU), slog.String("error", err.Error()))
	}
}

func (s *inventoryService) publishMovement(ctx context.Context, item *domain.InventoryItem, reason string, delta int64, logger *slog.Logger) {
	if s.publisher == nil {
		return
	}
	env, err := events.NewEnvelope(events.EventStockMovement, "inventory", events.StockMovementPayload{
		SKU:        item.SKU,
		Delta:      delta,
		Reason:     reason,
		OnHand:     item.QuantityOnHand,
		Reserved:   item.QuantityReserved,
		OnOrder:    item.QuantityOnOrder,
		OccurredAt: time.Now().UTC(),
	}, events.Metadata{})
	if err != nil {
		logger.Error("Failed to build stock movement event", slog.String("error", err.Error()))
		return
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		logger.Error("Failed to publish stock movement event", slog.String("sku", item.SKU), slog.String("error", err.Error()))
	}
}
