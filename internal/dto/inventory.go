package dto

import (
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInventoryItemRequest defines a new stocked SKU and its replenishment policy.
type CreateInventoryItemRequest struct {
	SKU               string          `json:"sku" binding:"required,sku"`
	Name              string          `json:"name" binding:"required"`
	Category          string          `json:"category"`
	QuantityOnHand    int64           `json:"quantityOnHand" binding:"gte=0"`
	ReorderPoint      int64           `json:"reorderPoint" binding:"gte=0"`
	ReorderQuantity   int64           `json:"reorderQuantity" binding:"required,gt=0"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	PreferredVendorID *string         `json:"preferredVendorID,omitempty"`
}

// AdjustStockRequest changes quantity on hand by a signed delta.
type AdjustStockRequest struct {
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// ReserveStockRequest soft-locks available stock.
type ReserveStockRequest struct {
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// FulfillReservationRequest converts reserved stock into an outbound shipment.
type FulfillReservationRequest struct {
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// ReceiveStockRequest books a goods receipt.
type ReceiveStockRequest struct {
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// InventoryItemResponse defines the data returned for an inventory item.
type InventoryItemResponse struct {
	ItemID             string          `json:"itemID"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Category           string          `json:"category"`
	QuantityOnHand     int64           `json:"quantityOnHand"`
	QuantityReserved   int64           `json:"quantityReserved"`
	QuantityOnOrder    int64           `json:"quantityOnOrder"`
	AvailableQuantity  int64           `json:"availableQuantity"`
	ReorderPoint       int64           `json:"reorderPoint"`
	ReorderQuantity    int64           `json:"reorderQuantity"`
	UnitCost           decimal.Decimal `json:"unitCost"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	PreferredVendorID  *string         `json:"preferredVendorID,omitempty"`
	Status             string          `json:"status"`
	ReorderState       string          `json:"reorderState"`
	OutstandingOrderID *string         `json:"outstandingOrderID,omitempty"`
}

// ToInventoryItemResponse converts a domain.InventoryItem to its response DTO.
func ToInventoryItemResponse(i *domain.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ItemID:             i.ItemID,
		SKU:                i.SKU,
		Name:               i.Name,
		Category:           i.Category,
		QuantityOnHand:     i.QuantityOnHand,
		QuantityReserved:   i.QuantityReserved,
		QuantityOnOrder:    i.QuantityOnOrder,
		AvailableQuantity:  i.AvailableQuantity(),
		ReorderPoint:       i.ReorderPoint,
		ReorderQuantity:    i.ReorderQuantity,
		UnitCost:           i.UnitCost,
		UnitPrice:          i.UnitPrice,
		PreferredVendorID:  i.PreferredVendorID,
		Status:             string(i.Status),
		ReorderState:       string(i.ReorderState),
		OutstandingOrderID: i.OutstandingOrderID,
	}
}
