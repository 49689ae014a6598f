package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openledgerhq/erp_backend/internal/apperrors"
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
	"github.com/openledgerhq/erp_backend/internal/models"
	"github.com/openledgerhq/erp_backend/internal/utils/mapping"
)

type PgxPurchaseOrderRepository struct {
	BaseRepository
}

// newPgxPurchaseOrderRepository creates a new repository for purchase order data.
func newPgxPurchaseOrderRepository(pool *pgxpool.Pool) portsrepo.PurchaseOrderRepositoryFacade {
	return &PgxPurchaseOrderRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPurchaseOrderRepository implements portsrepo.PurchaseOrderRepositoryFacade
var _ portsrepo.PurchaseOrderRepositoryFacade = (*PgxPurchaseOrderRepository)(nil)

// SaveOrder persists an order and its items within one DB transaction.
func (r *PgxPurchaseOrderRepository) SaveOrder(ctx context.Context, order domain.PurchaseOrder) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelPurchaseOrder(order)
	orderQuery := `
		INSERT INTO purchase_orders (
			order_id, po_number, vendor_id, order_date, expected_delivery_date,
			status, total_amount, auto_generated,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, orderQuery,
		m.OrderID, m.PONumber, m.VendorID, m.OrderDate, m.ExpectedDeliveryDate,
		m.Status, m.TotalAmount, m.AutoGenerated,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert purchase order "+order.OrderID, err)
	}

	itemQuery := `
		INSERT INTO purchase_order_items (item_id, order_id, sku, name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for _, item := range order.Items {
		mi := mapping.ToModelPurchaseOrderItem(item)
		batch.Queue(itemQuery, mi.ItemID, mi.OrderID, mi.SKU, mi.Name, mi.Quantity, mi.UnitPrice)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute purchase order item batch for order "+order.OrderID, err)
	}

	return r.Commit(ctx, tx)
}

// FindOrderByID retrieves a purchase order with its items.
func (r *PgxPurchaseOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.PurchaseOrder, error) {
	query := `
		SELECT order_id, po_number, vendor_id, order_date, expected_delivery_date,
		       status, total_amount, auto_generated,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM purchase_orders
		WHERE order_id = $1;
	`
	var m models.PurchaseOrder
	err := r.Pool.QueryRow(ctx, query, orderID).Scan(
		&m.OrderID, &m.PONumber, &m.VendorID, &m.OrderDate, &m.ExpectedDeliveryDate,
		&m.Status, &m.TotalAmount, &m.AutoGenerated,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find purchase order by ID "+orderID, err)
	}

	items, err := r.findItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order := mapping.ToDomainPurchaseOrder(m)
	order.Items = items
	return &order, nil
}

// ListOrders retrieves a page of orders, newest first, without their items.
func (r *PgxPurchaseOrderRepository) ListOrders(ctx context.Context, limit, offset int) ([]domain.PurchaseOrder, error) {
	query := `
		SELECT order_id, po_number, vendor_id, order_date, expected_delivery_date,
		       status, total_amount, auto_generated,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM purchase_orders
		ORDER BY order_date DESC, order_id
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list purchase orders", err)
	}
	defer rows.Close()

	orders := []domain.PurchaseOrder{}
	for rows.Next() {
		var m models.PurchaseOrder
		err := rows.Scan(
			&m.OrderID, &m.PONumber, &m.VendorID, &m.OrderDate, &m.ExpectedDeliveryDate,
			&m.Status, &m.TotalAmount, &m.AutoGenerated,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan purchase order row", err)
		}
		orders = append(orders, mapping.ToDomainPurchaseOrder(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating purchase order rows", err)
	}
	return orders, nil
}

// UpdateOrderStatus transitions an order's lifecycle state.
func (r *PgxPurchaseOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.PurchaseOrderStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE purchase_orders
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE order_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, orderID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for purchase order "+orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPurchaseOrderRepository) findItemsByOrderID(ctx context.Context, orderID string) ([]domain.PurchaseOrderItem, error) {
	query := `
		SELECT item_id, order_id, sku, name, quantity, unit_price
		FROM purchase_order_items
		WHERE order_id = $1
		ORDER BY item_id;
	`
	rows, err := r.Pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for purchase order "+orderID, err)
	}
	defer rows.Close()

	items := []models.PurchaseOrderItem{}
	for rows.Next() {
		var m models.PurchaseOrderItem
		if err := rows.Scan(&m.ItemID, &m.OrderID, &m.SKU, &m.Name, &m.Quantity, &m.UnitPrice); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan purchase order item row", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating purchase order item rows", err)
	}
	return mapping.ToDomainPurchaseOrderItemSlice(items), nil
}
