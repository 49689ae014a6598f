package domain

import "github.com/shopspring/decimal"

// ItemStatus indicates whether an inventory item is stocked.
type ItemStatus string

const (
	ItemActive       ItemStatus = "ACTIVE"
	ItemDiscontinued ItemStatus = "DISCONTINUED"
)

// ReorderState is the explicit replenishment state of an item, derived from
// its quantities but stored as a tag to avoid ambiguity between "no order
// needed" and "order fully received, still below threshold".
type ReorderState string

const (
	ReorderHealthy      ReorderState = "HEALTHY"
	ReorderNeedsOrder   ReorderState = "NEEDS_ORDER"
	ReorderPendingOrder ReorderState = "PENDING_ORDER"
)

// InventoryItem represents a stocked SKU with its replenishment policy.
type InventoryItem struct {
	ItemID             string          `json:"itemID"` // Primary Key (UUID)
	SKU                string          `json:"sku"`    // Unique
	Name               string          `json:"name"`
	Category           string          `json:"category"`
	QuantityOnHand     int64           `json:"quantityOnHand"`     // >= 0
	QuantityReserved   int64           `json:"quantityReserved"`   // >= 0, <= QuantityOnHand
	QuantityOnOrder    int64           `json:"quantityOnOrder"`    // >= 0
	ReorderPoint       int64           `json:"reorderPoint"`       // trigger threshold
	ReorderQuantity    int64           `json:"reorderQuantity"`    // > 0
	UnitCost           decimal.Decimal `json:"unitCost"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	PreferredVendorID  *string         `json:"preferredVendorID,omitempty"`
	Status             ItemStatus      `json:"status"`
	ReorderState       ReorderState    `json:"reorderState"`
	OutstandingOrderID *string         `json:"outstandingOrderID,omitempty"` // PO placed by the monitor
	Version            int64           `json:"version"`                      // optimistic counter
	AuditFields
}

// AvailableQuantity is the figure compared against the reorder point.
func (i InventoryItem) AvailableQuantity() int64 {
	return i.QuantityOnHand - i.QuantityReserved
}

// CanReserve reports whether the requested quantity fits within available stock.
func (i InventoryItem) CanReserve(qty int64) bool {
	return qty > 0 && i.AvailableQuantity() >= qty
}

// DeriveReorderState computes the replenishment state from current quantities.
func (i InventoryItem) DeriveReorderState() ReorderState {
	if i.AvailableQuantity() > i.ReorderPoint {
		return ReorderHealthy
	}
	if i.QuantityOnOrder > 0 {
		return ReorderPendingOrder
	}
	return ReorderNeedsOrder
}
