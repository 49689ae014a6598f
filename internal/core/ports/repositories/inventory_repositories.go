package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/openledgerhq/erp_backend/internal/core/domain"
)

// InventoryReader defines read operations for inventory data
type InventoryReader interface {
	// FindItemBySKU retrieves an item by its unique SKU.
	FindItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error)

	// ListItems retrieves a page of items ordered by SKU.
	ListItems(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error)
}

// InventoryWriter defines write operations for inventory data
type InventoryWriter interface {
	// SaveItem persists a new inventory item.
	SaveItem(ctx context.Context, item domain.InventoryItem) error
}

// InventoryTransactionSupport defines the row-locked operations used by the
// stock mutation critical section. The reorder check and the quantity write
// happen under the same row lock.
type InventoryTransactionSupport interface {
	// FindItemBySKUForUpdate selects an item and locks its row within a transaction.
	FindItemBySKUForUpdate(ctx context.Context, tx pgx.Tx, sku string) (*domain.InventoryItem, error)

	// UpdateItemInTx writes the item's quantity and reorder-state fields within
	// a transaction, bumping the optimistic version.
	UpdateItemInTx(ctx context.Context, tx pgx.Tx, item domain.InventoryItem) error
}

// InventoryRepositoryFacade combines all inventory repository interfaces
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryWriter
	InventoryTransactionSupport
}

// InventoryRepositoryWithTx extends InventoryRepositoryFacade with transaction capabilities
type InventoryRepositoryWithTx interface {
	InventoryRepositoryFacade
	TransactionManager
}
