package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openledgerhq/erp_backend/internal/apperrors"
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
	"github.com/openledgerhq/erp_backend/internal/models"
	"github.com/openledgerhq/erp_backend/internal/utils/mapping"
)

type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for inventory item data.
func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepositoryWithTx {
	return &PgxInventoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxInventoryRepository implements portsrepo.InventoryRepositoryWithTx
var _ portsrepo.InventoryRepositoryWithTx = (*PgxInventoryRepository)(nil)

const inventoryItemColumns = `
	item_id, sku, name, category, quantity_on_hand, quantity_reserved,
	quantity_on_order, reorder_point, reorder_quantity, unit_cost, unit_price,
	preferred_vendor_id, status, reorder_state, outstanding_order_id, version,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveItem persists a new inventory item.
func (r *PgxInventoryRepository) SaveItem(ctx context.Context, item domain.InventoryItem) error {
	m := mapping.ToModelInventoryItem(item)
	query := `
		INSERT INTO inventory_items (
			item_id, sku, name, category, quantity_on_hand, quantity_reserved,
			quantity_on_order, reorder_point, reorder_quantity, unit_cost, unit_price,
			preferred_vendor_id, status, reorder_state, outstanding_order_id, version,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ItemID, m.SKU, m.Name, m.Category, m.QuantityOnHand, m.QuantityReserved,
		m.QuantityOnOrder, m.ReorderPoint, m.ReorderQuantity, m.UnitCost, m.UnitPrice,
		m.PreferredVendorID, m.Status, m.ReorderState, m.OutstandingOrderID, m.Version,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "inventory item with SKU "+item.SKU+" already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert inventory item "+item.SKU, err)
	}
	return nil
}

// FindItemBySKU retrieves an item by its unique SKU.
func (r *PgxInventoryRepository) FindItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	query := `
		SELECT ` + inventoryItemColumns + `
		FROM inventory_items
		WHERE sku = $1;
	`
	return r.queryItem(ctx, r.Pool, query, sku)
}

// FindItemBySKUForUpdate selects an item and locks its row within a transaction.
// Concurrent mutations of the same SKU serialize here.
func (r *PgxInventoryRepository) FindItemBySKUForUpdate(ctx context.Context, tx pgx.Tx, sku string) (*domain.InventoryItem, error) {
	query := `
		SELECT ` + inventoryItemColumns + `
		FROM inventory_items
		WHERE sku = $1
		FOR UPDATE;
	`
	return r.queryItem(ctx, tx, query, sku)
}

// ListItems retrieves a page of items ordered by SKU.
func (r *PgxInventoryRepository) ListItems(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error) {
	query := `
		SELECT ` + inventoryItemColumns + `
		FROM inventory_items
		ORDER BY sku
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list inventory items", err)
	}
	defer rows.Close()

	items := []models.InventoryItem{}
	for rows.Next() {
		m, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating inventory item rows", err)
	}
	return mapping.ToDomainInventoryItemSlice(items), nil
}

// UpdateItemInTx writes the item's quantity and reorder-state fields within a
// transaction.
func (r *PgxInventoryRepository) UpdateItemInTx(ctx context.Context, tx pgx.Tx, item domain.InventoryItem) error {
	m := mapping.ToModelInventoryItem(item)
	query := `
		UPDATE inventory_items
		SET quantity_on_hand = $2,
		    quantity_reserved = $3,
		    quantity_on_order = $4,
		    reorder_state = $5,
		    outstanding_order_id = $6,
		    status = $7,
		    version = $8,
		    last_updated_at = $9,
		    last_updated_by = $10
		WHERE item_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.ItemID,
		m.QuantityOnHand,
		m.QuantityReserved,
		m.QuantityOnOrder,
		m.ReorderState,
		m.OutstandingOrderID,
		m.Status,
		m.Version,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update inventory item "+item.SKU, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// queryInterface covers both the pool and a transaction for single-row reads.
type queryInterface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PgxInventoryRepository) queryItem(ctx context.Context, q queryInterface, query, sku string) (*domain.InventoryItem, error) {
	var m models.InventoryItem
	var vendorID, outstandingID sql.NullString

	err := q.QueryRow(ctx, query, sku).Scan(
		&m.ItemID, &m.SKU, &m.Name, &m.Category, &m.QuantityOnHand, &m.QuantityReserved,
		&m.QuantityOnOrder, &m.ReorderPoint, &m.ReorderQuantity, &m.UnitCost, &m.UnitPrice,
		&vendorID, &m.Status, &m.ReorderState, &outstandingID, &m.Version,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find inventory item by SKU "+sku, err)
	}
	if vendorID.Valid {
		m.PreferredVendorID = &vendorID.String
	}
	if outstandingID.Valid {
		m.OutstandingOrderID = &outstandingID.String
	}

	item := mapping.ToDomainInventoryItem(m)
	return &item, nil
}

func scanInventoryItem(rows pgx.Rows) (*models.InventoryItem, error) {
	var m models.InventoryItem
	var vendorID, outstandingID sql.NullString
	err := rows.Scan(
		&m.ItemID, &m.SKU, &m.Name, &m.Category, &m.QuantityOnHand, &m.QuantityReserved,
		&m.QuantityOnOrder, &m.ReorderPoint, &m.ReorderQuantity, &m.UnitCost, &m.UnitPrice,
		&vendorID, &m.Status, &m.ReorderState, &outstandingID, &m.Version,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan inventory item row", err)
	}
	if vendorID.Valid {
		m.PreferredVendorID = &vendorID.String
	}
	if outstandingID.Valid {
		m.OutstandingOrderID = &outstandingID.String
	}
	return &m, nil
}
