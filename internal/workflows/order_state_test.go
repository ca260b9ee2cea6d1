package workflows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/base-14/examples/go/go-temporal-oms/internal/activities"
	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
)

func newTestState(t *testing.T) *orderState {
	t.Helper()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := newOrderState(OrderInput{
		ID:         "O1",
		CustomerID: "C1",
		Items: []activities.OrderItem{
			{SKU: "Adidas-1", Quantity: 1},
			{SKU: "Nike-1", Quantity: 2},
		},
	}, "order-O1", now)
	s.buildFulfillments([]activities.Reservation{
		{Available: false, Location: activities.LocationWarehouse, Items: []activities.OrderItem{{SKU: "Adidas-1", Quantity: 1}}},
		{Available: true, Location: activities.LocationStore, Items: []activities.OrderItem{{SKU: "Nike-1", Quantity: 2}}},
	})
	return s
}

func TestOrderState_BuildFulfillments(t *testing.T) {
	s := newTestState(t)

	require.Len(t, s.order.Fulfillments, 2)
	assert.Equal(t, "O1:1", s.order.Fulfillments[0].ID)
	assert.Equal(t, FulfillmentStatusUnavailable, s.order.Fulfillments[0].Status)
	assert.Equal(t, "O1:2", s.order.Fulfillments[1].ID)
	assert.Equal(t, FulfillmentStatusPending, s.order.Fulfillments[1].Status)
	assert.True(t, s.hasUnavailable())
}

func TestOrderState_SnapshotIsDetached(t *testing.T) {
	s := newTestState(t)
	s.applyShipmentUpdate(ShipmentStatusUpdate{ShipmentID: "O1:2", Status: models.ShipmentStatusBooked})

	snap := s.snapshot()
	snap.Items[0].Quantity = 99
	snap.Fulfillments[1].Status = FulfillmentStatusFailed
	snap.Fulfillments[1].Shipment.Status = models.ShipmentStatusCancelled
	snap.Fulfillments[1].Items[0].SKU = "changed"

	assert.Equal(t, 1, s.order.Items[0].Quantity)
	assert.Equal(t, FulfillmentStatusPending, s.order.Fulfillments[1].Status)
	assert.Equal(t, models.ShipmentStatusBooked, s.order.Fulfillments[1].Shipment.Status)
	assert.Equal(t, "Nike-1", s.order.Fulfillments[1].Items[0].SKU)
}

func TestOrderState_CancelUnavailable(t *testing.T) {
	s := newTestState(t)
	s.cancelUnavailable()

	assert.Equal(t, FulfillmentStatusCancelled, s.order.Fulfillments[0].Status)
	assert.Equal(t, FulfillmentStatusPending, s.order.Fulfillments[1].Status)
	require.Len(t, s.dispatchable(), 1)
	assert.Equal(t, "O1:2", s.dispatchable()[0].ID)
}

func TestOrderState_CancelAll(t *testing.T) {
	s := newTestState(t)
	s.cancelAll()

	for _, f := range s.order.Fulfillments {
		assert.Equal(t, FulfillmentStatusCancelled, f.Status)
	}
	assert.Empty(t, s.dispatchable())
}

func TestOrderState_ShipmentMirrorOnlyMovesForward(t *testing.T) {
	s := newTestState(t)
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.True(t, s.applyShipmentUpdate(ShipmentStatusUpdate{ShipmentID: "O1:2", Status: models.ShipmentStatusDispatched, UpdatedAt: t0}))
	require.True(t, s.applyShipmentUpdate(ShipmentStatusUpdate{ShipmentID: "O1:2", Status: models.ShipmentStatusBooked, UpdatedAt: t0.Add(time.Minute)}))

	shipment := s.order.Fulfillments[1].Shipment
	require.NotNil(t, shipment)
	assert.Equal(t, models.ShipmentStatusDispatched, shipment.Status)
	assert.Equal(t, t0, shipment.UpdatedAt)

	require.True(t, s.applyShipmentUpdate(ShipmentStatusUpdate{ShipmentID: "O1:2", Status: models.ShipmentStatusDelivered, UpdatedAt: t0.Add(2 * time.Minute)}))
	assert.Equal(t, models.ShipmentStatusDelivered, shipment.Status)

	assert.False(t, s.applyShipmentUpdate(ShipmentStatusUpdate{ShipmentID: "O9:1", Status: models.ShipmentStatusBooked}))
}

func TestOrderState_ApplyResultKeepsTerminalStatus(t *testing.T) {
	s := newTestState(t)
	s.cancelUnavailable()

	s.applyResult(&FulfillOutput{ID: "O1:1", Status: FulfillmentStatusCompleted})
	s.applyResult(&FulfillOutput{ID: "O1:2", Status: FulfillmentStatusCompleted, Payment: &Payment{Status: PaymentStatusCharged}})
	s.markFailed("O1:2")

	assert.Equal(t, FulfillmentStatusCancelled, s.order.Fulfillments[0].Status)
	assert.Equal(t, FulfillmentStatusCompleted, s.order.Fulfillments[1].Status)
	require.NotNil(t, s.order.Fulfillments[1].Payment)
	assert.Equal(t, 0, s.countFailed())
}

func TestParseCustomerAction(t *testing.T) {
	action, ok := ParseCustomerAction("amend")
	assert.True(t, ok)
	assert.Equal(t, CustomerActionAmend, action)

	_, ok = ParseCustomerAction("timedOut")
	assert.False(t, ok)
	_, ok = ParseCustomerAction("refund")
	assert.False(t, ok)
}

func TestWorkflowIDs(t *testing.T) {
	assert.Equal(t, "order-O1", OrderWorkflowID("O1"))
	assert.Equal(t, "O1:3", FulfillmentID("O1", 2))
	assert.Equal(t, "fulfillment-O1:3", FulfillmentWorkflowID("O1:3"))
	assert.Equal(t, "shipment-O1:3", ShipmentWorkflowID("O1:3"))
	assert.Equal(t, "charge-O1:3", ChargeWorkflowID("O1:3"))
}
