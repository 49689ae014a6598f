package domain_test

import (
	"testing"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestInventoryItem_DeriveReorderState(t *testing.T) {
	tests := []struct {
		name string
		item domain.InventoryItem
		want domain.ReorderState
	}{
		{
			name: "well above reorder point",
			item: domain.InventoryItem{QuantityOnHand: 100, QuantityReserved: 10, ReorderPoint: 50},
			want: domain.ReorderHealthy,
		},
		{
			name: "exactly at reorder point needs order",
			item: domain.InventoryItem{QuantityOnHand: 50, QuantityReserved: 0, ReorderPoint: 50},
			want: domain.ReorderNeedsOrder,
		},
		{
			name: "below reorder point with outstanding order",
			item: domain.InventoryItem{QuantityOnHand: 40, QuantityReserved: 0, ReorderPoint: 50, QuantityOnOrder: 100},
			want: domain.ReorderPendingOrder,
		},
		{
			name: "reservations push available below threshold",
			item: domain.InventoryItem{QuantityOnHand: 60, QuantityReserved: 20, ReorderPoint: 50},
			want: domain.ReorderNeedsOrder,
		},
		{
			name: "order fully received but still short",
			item: domain.InventoryItem{QuantityOnHand: 30, QuantityReserved: 0, ReorderPoint: 50, QuantityOnOrder: 0},
			want: domain.ReorderNeedsOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.DeriveReorderState())
		})
	}
}

func TestInventoryItem_CanReserve(t *testing.T) {
	item := domain.InventoryItem{QuantityOnHand: 10, QuantityReserved: 4}

	assert.True(t, item.CanReserve(6))
	assert.False(t, item.CanReserve(7))
	assert.False(t, item.CanReserve(0))
	assert.False(t, item.CanReserve(-1))
}

func TestPurchaseOrder_CanTransitionTo(t *testing.T) {
	po := domain.PurchaseOrder{Status: domain.POPending}
	assert.True(t, po.CanTransitionTo(domain.POApproved))
	assert.True(t, po.CanTransitionTo(domain.POCancelled))
	assert.False(t, po.CanTransitionTo(domain.POReceived))

	po.Status = domain.POReceived
	assert.False(t, po.CanTransitionTo(domain.POCancelled))

	po.Status = domain.POOrdered
	assert.True(t, po.CanTransitionTo(domain.POReceived))
}
