package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the lifecycle state of a purchase order.
type PurchaseOrderStatus string

const (
	POPending   PurchaseOrderStatus = "PENDING"
	POApproved  PurchaseOrderStatus = "APPROVED"
	POOrdered   PurchaseOrderStatus = "ORDERED"
	POReceived  PurchaseOrderStatus = "RECEIVED"
	POCancelled PurchaseOrderStatus = "CANCELLED"
)

// PurchaseOrderItem is one requested line of a purchase order.
type PurchaseOrderItem struct {
	ItemID    string          `json:"itemID"` // Primary Key (UUID)
	OrderID   string          `json:"orderID"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"` // > 0
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineTotal is quantity times unit price.
func (i PurchaseOrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// PurchaseOrder represents a replenishment request placed with a vendor.
// Auto-generated orders are created by the stock reorder monitor; their
// existence with a non-cancelled status is what suppresses duplicate triggers.
type PurchaseOrder struct {
	OrderID              string              `json:"orderID"`  // Primary Key (UUID)
	PONumber             string              `json:"poNumber"` // Human readable, unique
	VendorID             string              `json:"vendorID"`
	OrderDate            time.Time           `json:"orderDate"`
	ExpectedDeliveryDate time.Time           `json:"expectedDeliveryDate"`
	Status               PurchaseOrderStatus `json:"status"`
	TotalAmount          decimal.Decimal     `json:"totalAmount"`
	AutoGenerated        bool                `json:"autoGenerated"` // placed by the reorder monitor
	Items                []PurchaseOrderItem `json:"items,omitempty"`
	AuditFields
}

// CanTransitionTo reports whether the status change is a legal lifecycle step.
func (po PurchaseOrder) CanTransitionTo(next PurchaseOrderStatus) bool {
	switch po.Status {
	case POPending:
		return next == POApproved || next == POCancelled
	case POApproved:
		return next == POOrdered || next == POCancelled
	case POOrdered:
		return next == POReceived || next == POCancelled
	default:
		return false
	}
}
