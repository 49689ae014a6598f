package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openledgerhq/erp_backend/internal/apperrors"
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/erp_backend/internal/core/ports/services"
	"github.com/openledgerhq/erp_backend/internal/dto"
	"github.com/openledgerhq/erp_backend/internal/events"
	"github.com/openledgerhq/erp_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// DefaultReorderLeadTimeDays is the expected delivery lead for purchase orders
// when no configuration overrides it.
const DefaultReorderLeadTimeDays = 7

// procurementService manages the purchase order lifecycle, including the
// auto-generated orders placed by the stock reorder monitor. It touches
// inventory through the repository's row-locked transactions rather than the
// inventory service, so the two services can depend on each other's concerns
// without a construction cycle.
type procurementService struct {
	poRepo        portsrepo.PurchaseOrderRepositoryFacade
	inventoryRepo portsrepo.InventoryRepositoryWithTx
	accountingSvc portssvc.AccountingRecipesSvc
	publisher     portssvc.EventPublisher
	leadTimeDays  int
	asyncPosting  bool
}

// NewProcurementService creates a new ProcurementService. The publisher may be
// nil when the event bus is disabled. With asyncPosting set, receiving an
// order publishes the PurchaseOrderReceived event instead of posting the
// purchase synchronously.
func NewProcurementService(poRepo portsrepo.PurchaseOrderRepositoryFacade, inventoryRepo portsrepo.InventoryRepositoryWithTx, accountingSvc portssvc.AccountingRecipesSvc, publisher portssvc.EventPublisher, leadTimeDays int, asyncPosting bool) portssvc.ProcurementSvcFacade {
	if leadTimeDays <= 0 {
		leadTimeDays = DefaultReorderLeadTimeDays
	}
	return &procurementService{
		poRepo:        poRepo,
		inventoryRepo: inventoryRepo,
		accountingSvc: accountingSvc,
		publisher:     publisher,
		leadTimeDays:  leadTimeDays,
		asyncPosting:  asyncPosting && publisher != nil,
	}
}

// Ensure procurementService implements the portssvc.ProcurementSvcFacade interface
var _ portssvc.ProcurementSvcFacade = (*procurementService)(nil)

// newPONumber generates a human readable order number.
func newPONumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("PO-%s-%s", now.Format("20060102"), suffix)
}

// CreateReorderPurchaseOrder places an auto-generated order for a shortage
// episode. Implements portssvc.ReorderRequesterSvc
func (s *procurementService) CreateReorderPurchaseOrder(ctx context.Context, sku, name string, quantity int64, unitPrice decimal.Decimal, vendorID string, actorID string) (*domain.PurchaseOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if quantity <= 0 {
		return nil, fmt.Errorf("%w: reorder quantity must be positive", apperrors.ErrValidation)
	}
	if vendorID == "" {
		return nil, fmt.Errorf("%w: reorder requires a vendor", apperrors.ErrValidation)
	}

	now := time.Now()
	orderID := uuid.NewString()
	item := domain.PurchaseOrderItem{
		ItemID:    uuid.NewString(),
		OrderID:   orderID,
		SKU:       sku,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	order := domain.PurchaseOrder{
		OrderID:              orderID,
		PONumber:             newPONumber(now),
		VendorID:             vendorID,
		OrderDate:            now,
		ExpectedDeliveryDate: now.AddDate(0, 0, s.leadTimeDays),
		Status:               domain.POPending,
		TotalAmount:          item.LineTotal(),
		AutoGenerated:        true,
		Items:                []domain.PurchaseOrderItem{item},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.poRepo.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrReorderDispatch, err)
	}

	logger.Info("Auto-generated purchase order saved",
		slog.String("order_id", order.OrderID),
		slog.String("po_number", order.PONumber),
		slog.String("sku", sku),
	)
	s.publishCreated(ctx, &order, logger)
	return &order, nil
}

// CreatePurchaseOrder places a manual order.
// Implements portssvc.ProcurementWriterSvc
func (s *procurementService) CreatePurchaseOrder(ctx context.Context, req dto.CreatePurchaseOrderRequest, actorID string) (*domain.PurchaseOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	orderID := uuid.NewString()
	total := decimal.Zero
	items := make([]domain.PurchaseOrderItem, len(req.Items))
	for i, in := range req.Items {
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", apperrors.ErrValidation)
		}
		items[i] = domain.PurchaseOrderItem{
			ItemID:    uuid.NewString(),
			OrderID:   orderID,
			SKU:       in.SKU,
			Name:      in.Name,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		}
		total = total.Add(items[i].LineTotal())
	}

	expected := now.AddDate(0, 0, s.leadTimeDays)
	if req.ExpectedDeliveryDate != nil {
		expected = *req.ExpectedDeliveryDate
	}

	order := domain.PurchaseOrder{
		OrderID:              orderID,
		PONumber:             newPONumber(now),
		VendorID:             req.VendorID,
		OrderDate:            now,
		ExpectedDeliveryDate: expected,
		Status:               domain.POPending,
		TotalAmount:          total,
		AutoGenerated:        false,
		Items:                items,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.poRepo.SaveOrder(ctx, order); err != nil {
		logger.Error("Failed to save purchase order", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save purchase order: %w", err)
	}

	logger.Info("Purchase order created", slog.String("order_id", order.OrderID), slog.String("po_number", order.PONumber))
	s.publishCreated(ctx, &order, logger)
	return &order, nil
}

// ApprovePurchaseOrder transitions a pending order to approved.
// Implements portssvc.ProcurementWriterSvc
func (s *procurementService) ApprovePurchaseOrder(ctx context.Context, orderID string, actorID string) (*domain.PurchaseOrder, error) {
	return s.transition(ctx, orderID, domain.POApproved, actorID)
}

// MarkOrdered transitions an approved order to ordered.
// Implements portssvc.ProcurementWriterSvc
func (s *procurementService) MarkOrdered(ctx context.Context, orderID string, actorID string) (*domain.PurchaseOrder, error) {
	return s.transition(ctx, orderID, domain.POOrdered, actorID)
}

// ReceivePurchaseOrder books receipt of all ordered items: stock moves in and
// the purchase is posted to the ledger. In the synchronous mode only a
// successful post lets the order transition to received; in the async mode
// the post is carried by the PurchaseOrderReceived event and derived by the
// worker. Implements portssvc.ProcurementWriterSvc
func (s *procurementService) ReceivePurchaseOrder(ctx context.Context, orderID string, actorID string) (*domain.PurchaseOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	order, err := s.poRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanTransitionTo(domain.POReceived) {
		return nil, fmt.Errorf("%w: cannot receive order in status %s", apperrors.ErrInvalidState, order.Status)
	}

	for _, item := range order.Items {
		if err := s.receiveItemStock(ctx, item, orderID, actorID); err != nil {
			return nil, fmt.Errorf("failed to receive stock for %s: %w", item.SKU, err)
		}
	}

	if !s.asyncPosting {
		if _, err := s.accountingSvc.RecordPurchase(ctx, dto.RecordPurchaseRequest{
			Amount:      order.TotalAmount,
			Date:        time.Now(),
			Description: fmt.Sprintf("Goods receipt %s", order.PONumber),
			ReferenceID: order.OrderID,
		}, actorID); err != nil {
			logger.Error("Purchase posting failed, order stays in current status",
				slog.String("order_id", orderID),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("failed to post purchase for order %s: %w", orderID, err)
		}
	}

	return s.finishTransition(ctx, order, domain.POReceived, actorID, logger)
}

// CancelPurchaseOrder cancels an open order. For auto-generated orders the
// originating item's on-order quantity is released so the reorder monitor can
// trigger again. Implements portssvc.ProcurementWriterSvc
func (s *procurementService) CancelPurchaseOrder(ctx context.Context, orderID string, actorID string) (*domain.PurchaseOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	order, err := s.poRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanTransitionTo(domain.POCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel order in status %s", apperrors.ErrInvalidState, order.Status)
	}

	if order.AutoGenerated {
		for _, item := range order.Items {
			if err := s.releaseItemStock(ctx, item, orderID, actorID); err != nil {
				logger.Error("Failed to release on-order quantity",
					slog.String("sku", item.SKU),
					slog.String("order_id", orderID),
					slog.String("error", err.Error()),
				)
				return nil, err
			}
		}
	}

	return s.finishTransition(ctx, order, domain.POCancelled, actorID, logger)
}

// GetPurchaseOrderByID retrieves a purchase order with its items.
// Implements portssvc.ProcurementReaderSvc
func (s *procurementService) GetPurchaseOrderByID(ctx context.Context, orderID string) (*domain.PurchaseOrder, error) {
	return s.poRepo.FindOrderByID(ctx, orderID)
}

// ListPurchaseOrders retrieves a page of orders, newest first.
// Implements portssvc.ProcurementReaderSvc
func (s *procurementService) ListPurchaseOrders(ctx context.Context, limit, offset int) ([]domain.PurchaseOrder, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.poRepo.ListOrders(ctx, limit, offset)
}

func (s *procurementService) transition(ctx context.Context, orderID string, next domain.PurchaseOrderStatus, actorID string) (*domain.PurchaseOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	order, err := s.poRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", apperrors.ErrInvalidState, order.Status, next)
	}
	return s.finishTransition(ctx, order, next, actorID, logger)
}

func (s *procurementService) finishTransition(ctx context.Context, order *domain.PurchaseOrder, next domain.PurchaseOrderStatus, actorID string, logger *slog.Logger) (*domain.PurchaseOrder, error) {
	now := time.Now()
	if err := s.poRepo.UpdateOrderStatus(ctx, order.OrderID, next, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = next
	order.LastUpdatedAt = now
	order.LastUpdatedBy = actorID

	logger.Info("Purchase order status changed",
		slog.String("order_id", order.OrderID),
		slog.String("status", string(next)),
	)
	if next == domain.POReceived && s.asyncPosting {
		s.publishReceived(ctx, order, logger)
	}
	return order, nil
}

// receiveItemStock books one item line of a goods receipt inside a row-locked
// transaction: quantity on hand rises, on-order falls (clamped at zero), and
// the replenishment tag is re-derived.
func (s *procurementService) receiveItemStock(ctx context.Context, poItem domain.PurchaseOrderItem, orderID, actorID string) error {
	tx, err := s.inventoryRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.inventoryRepo.Rollback(ctx, tx)
	}()

	item, err := s.inventoryRepo.FindItemBySKUForUpdate(ctx, tx, poItem.SKU)
	if err != nil {
		return err
	}

	item.QuantityOnHand += poItem.Quantity
	applied := poItem.Quantity
	if applied > item.QuantityOnOrder {
		applied = item.QuantityOnOrder
	}
	item.QuantityOnOrder -= applied
	if item.QuantityOnOrder == 0 {
		item.OutstandingOrderID = nil
	}
	item.ReorderState = item.DeriveReorderState()

	now := time.Now()
	item.LastUpdatedAt = now
	item.LastUpdatedBy = actorID
	item.Version++

	if err := s.inventoryRepo.UpdateItemInTx(ctx, tx, *item); err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return s.inventoryRepo.Commit(ctx, tx)
}

// releaseItemStock undoes the on-order quantity of a cancelled auto-generated
// order so the next qualifying mutation can trigger a fresh reorder.
func (s *procurementService) releaseItemStock(ctx context.Context, poItem domain.PurchaseOrderItem, orderID, actorID string) error {
	tx, err := s.inventoryRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.inventoryRepo.Rollback(ctx, tx)
	}()

	item, err := s.inventoryRepo.FindItemBySKUForUpdate(ctx, tx, poItem.SKU)
	if err != nil {
		return err
	}

	released := poItem.Quantity
	if released > item.QuantityOnOrder {
		released = item.QuantityOnOrder
	}
	item.QuantityOnOrder -= released
	if item.OutstandingOrderID != nil && *item.OutstandingOrderID == orderID {
		item.OutstandingOrderID = nil
	}
	item.ReorderState = item.DeriveReorderState()

	now := time.Now()
	item.LastUpdatedAt = now
	item.LastUpdatedBy = actorID
	item.Version++

	if err := s.inventoryRepo.UpdateItemInTx(ctx, tx, *item); err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return s.inventoryRepo.Commit(ctx, tx)
}

func (s *procurementService) publishCreated(ctx context.Context, order *domain.PurchaseOrder, logger *slog.Logger) {
	if s.publisher == nil {
		return
	}
	env, err := events.NewEnvelope(events.EventPurchaseOrderCreated, "procurement", events.PurchaseOrderCreatedPayload{
		OrderID:       order.OrderID,
		PONumber:      order.PONumber,
		VendorID:      order.VendorID,
		TotalAmount:   order.TotalAmount,
		AutoGenerated: order.AutoGenerated,
		OrderedAt:     order.OrderDate,
	}, events.Metadata{ActorID: order.CreatedBy})
	if err != nil {
		logger.Error("Failed to build purchase order created event", slog.String("error", err.Error()))
		return
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		logger.Error("Failed to publish purchase order created event", slog.String("order_id", order.OrderID), slog.String("error", err.Error()))
	}
}

func (s *procurementService) publishReceived(ctx context.Context, order *domain.PurchaseOrder, logger *slog.Logger) {
	if s.publisher == nil {
		return
	}
	env, err := events.NewEnvelope(events.EventPurchaseOrderReceived, "procurement", events.PurchaseOrderReceivedPayload{
		OrderID:     order.OrderID,
		PONumber:    order.PONumber,
		VendorID:    order.VendorID,
		TotalAmount: order.TotalAmount,
		ReceivedAt:  time.Now().UTC(),
	}, events.Metadata{ActorID: order.LastUpdatedBy})
	if err != nil {
		logger.Error("Failed to build purchase order received event", slog.String("error", err.Error()))
		return
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		logger.Error("Failed to publish purchase order received event", slog.String("order_id", order.OrderID), slog.String("error", err.Error()))
	}
}
