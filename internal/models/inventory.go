package models

import "github.com/shopspring/decimal"

// ItemStatus indicates whether an inventory item row is stocked.
type ItemStatus string

// ReorderState is the stored replenishment tag for an item row.
type ReorderState string

// InventoryItem is the persistence row for a stocked SKU.
type InventoryItem struct {
	ItemID             string          `json:"itemID"` // Primary Key (UUID)
	SKU                string          `json:"sku"`    // Unique
	Name               string          `json:"name"`
	Category           string          `json:"category"`
	QuantityOnHand     int64           `json:"quantityOnHand"`
	QuantityReserved   int64           `json:"quantityReserved"`
	QuantityOnOrder    int64           `json:"quantityOnOrder"`
	ReorderPoint       int64           `json:"reorderPoint"`
	ReorderQuantity    int64           `json:"reorderQuantity"`
	UnitCost           decimal.Decimal `json:"unitCost"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	PreferredVendorID  *string         `json:"preferredVendorID,omitempty"`
	Status             ItemStatus      `json:"status"`
	ReorderState       ReorderState    `json:"reorderState"`
	OutstandingOrderID *string         `json:"outstandingOrderID,omitempty"`
	Version            int64           `json:"version"`
	AuditFields
}
