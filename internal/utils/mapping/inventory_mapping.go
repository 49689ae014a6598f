package mapping

import (
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/openledgerhq/erp_backend/internal/models"
)

// ToModelInventoryItem converts a domain InventoryItem to a model InventoryItem
func ToModelInventoryItem(d domain.InventoryItem) models.InventoryItem {
	return models.InventoryItem{
		ItemID:             d.ItemID,
		SKU:                d.SKU,
		Name:               d.Name,
		Category:           d.Category,
		QuantityOnHand:     d.QuantityOnHand,
		QuantityReserved:   d.QuantityReserved,
		QuantityOnOrder:    d.QuantityOnOrder,
		ReorderPoint:       d.ReorderPoint,
		ReorderQuantity:    d.ReorderQuantity,
		UnitCost:           d.UnitCost,
		UnitPrice:          d.UnitPrice,
		PreferredVendorID:  d.PreferredVendorID,
		Status:             models.ItemStatus(d.Status),
		ReorderState:       models.ReorderState(d.ReorderState),
		OutstandingOrderID: d.OutstandingOrderID,
		Version:            d.Version,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInventoryItem converts a model InventoryItem to a domain InventoryItem
func ToDomainInventoryItem(m models.InventoryItem) domain.InventoryItem {
	return domain.InventoryItem{
		ItemID:             m.ItemID,
		SKU:                m.SKU,
		Name:               m.Name,
		Category:           m.Category,
		QuantityOnHand:     m.QuantityOnHand,
		QuantityReserved:   m.QuantityReserved,
		QuantityOnOrder:    m.QuantityOnOrder,
		ReorderPoint:       m.ReorderPoint,
		ReorderQuantity:    m.ReorderQuantity,
		UnitCost:           m.UnitCost,
		UnitPrice:          m.UnitPrice,
		PreferredVendorID:  m.PreferredVendorID,
		Status:             domain.ItemStatus(m.Status),
		ReorderState:       domain.ReorderState(m.ReorderState),
		OutstandingOrderID: m.OutstandingOrderID,
		Version:            m.Version,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInventoryItemSlice converts a slice of model InventoryItems to domain InventoryItems
func ToDomainInventoryItemSlice(ms []models.InventoryItem) []domain.InventoryItem {
	ds := make([]domain.InventoryItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInventoryItem(m)
	}
	return ds
}
