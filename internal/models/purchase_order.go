package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the stored lifecycle state of a purchase order row.
type PurchaseOrderStatus string

// PurchaseOrderItem is the persistence row for one requested line of an order.
type PurchaseOrderItem struct {
	ItemID    string          `json:"itemID"` // Primary Key (UUID)
	OrderID   string          `json:"orderID"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// PurchaseOrder is the persistence row for a vendor replenishment request.
type PurchaseOrder struct {
	OrderID              string              `json:"orderID"` // Primary Key (UUID)
	PONumber             string              `json:"poNumber"`
	VendorID             string              `json:"vendorID"`
	OrderDate            time.Time           `json:"orderDate"`
	ExpectedDeliveryDate time.Time           `json:"expectedDeliveryDate"`
	Status               PurchaseOrderStatus `json:"status"`
	TotalAmount          decimal.Decimal     `json:"totalAmount"`
	AutoGenerated        bool                `json:"autoGenerated"`
	AuditFields
}
