package mapping

import (
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/openledgerhq/erp_backend/internal/models"
)

// ToModelPurchaseOrder converts a domain PurchaseOrder to a model PurchaseOrder
func ToModelPurchaseOrder(d domain.PurchaseOrder) models.PurchaseOrder {
	return models.PurchaseOrder{
		OrderID:              d.OrderID,
		PONumber:             d.PONumber,
		VendorID:             d.VendorID,
		OrderDate:            d.OrderDate,
		ExpectedDeliveryDate: d.ExpectedDeliveryDate,
		Status:               models.PurchaseOrderStatus(d.Status),
		TotalAmount:          d.TotalAmount,
		AutoGenerated:        d.AutoGenerated,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPurchaseOrder converts a model PurchaseOrder to a domain PurchaseOrder
func ToDomainPurchaseOrder(m models.PurchaseOrder) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		OrderID:              m.OrderID,
		PONumber:             m.PONumber,
		VendorID:             m.VendorID,
		OrderDate:            m.OrderDate,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		Status:               domain.PurchaseOrderStatus(m.Status),
		TotalAmount:          m.TotalAmount,
		AutoGenerated:        m.AutoGenerated,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPurchaseOrderItem converts a domain PurchaseOrderItem to a model PurchaseOrderItem
func ToModelPurchaseOrderItem(d domain.PurchaseOrderItem) models.PurchaseOrderItem {
	return models.PurchaseOrderItem{
		ItemID:    d.ItemID,
		OrderID:   d.OrderID,
		SKU:       d.SKU,
		Name:      d.Name,
		Quantity:  d.Quantity,
		UnitPrice: d.UnitPrice,
	}
}

// ToDomainPurchaseOrderItem converts a model PurchaseOrderItem to a domain PurchaseOrderItem
func ToDomainPurchaseOrderItem(m models.PurchaseOrderItem) domain.PurchaseOrderItem {
	return domain.PurchaseOrderItem{
		ItemID:    m.ItemID,
		OrderID:   m.OrderID,
		SKU:       m.SKU,
		Name:      m.Name,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
	}
}

// ToDomainPurchaseOrderItemSlice converts a slice of model PurchaseOrderItems to domain PurchaseOrderItems
func ToDomainPurchaseOrderItemSlice(ms []models.PurchaseOrderItem) []domain.PurchaseOrderItem {
	ds := make([]domain.PurchaseOrderItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPurchaseOrderItem(m)
	}
	return ds
}
