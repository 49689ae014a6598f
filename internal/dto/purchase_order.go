package dto

import (
	"time"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseOrderItemInput is one requested line on a new purchase order.
type PurchaseOrderItemInput struct {
	SKU       string          `json:"sku" binding:"required,sku"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// CreatePurchaseOrderRequest defines a manually placed purchase order.
type CreatePurchaseOrderRequest struct {
	VendorID             string                   `json:"vendorID" binding:"required"`
	ExpectedDeliveryDate *time.Time               `json:"expectedDeliveryDate,omitempty"`
	Items                []PurchaseOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// PurchaseOrderItemResponse defines the data returned for an order line.
type PurchaseOrderItemResponse struct {
	ItemID    string          `json:"itemID"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// PurchaseOrderResponse defines the data returned for a purchase order.
type PurchaseOrderResponse struct {
	OrderID              string                      `json:"orderID"`
	PONumber             string                      `json:"poNumber"`
	VendorID             string                      `json:"vendorID"`
	OrderDate            time.Time                   `json:"orderDate"`
	ExpectedDeliveryDate time.Time                   `json:"expectedDeliveryDate"`
	Status               string                      `json:"status"`
	TotalAmount          decimal.Decimal             `json:"totalAmount"`
	AutoGenerated        bool                        `json:"autoGenerated"`
	Items                []PurchaseOrderItemResponse `json:"items,omitempty"`
}

// ToPurchaseOrderResponse converts a domain.PurchaseOrder to its response DTO.
func ToPurchaseOrderResponse(po *domain.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(po.Items))
	for i, item := range po.Items {
		items[i] = PurchaseOrderItemResponse{
			ItemID:    item.ItemID,
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
		}
	}
	return PurchaseOrderResponse{
		OrderID:              po.OrderID,
		PONumber:             po.PONumber,
		VendorID:             po.VendorID,
		OrderDate:            po.OrderDate,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		Status:               string(po.Status),
		TotalAmount:          po.TotalAmount,
		AutoGenerated:        po.AutoGenerated,
		Items:                items,
	}
}
