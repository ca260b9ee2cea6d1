package workflows

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/base-14/examples/go/go-temporal-oms/internal/activities"
)

const (
	OrderTaskQueue    = "orders"
	BillingTaskQueue  = "billing"
	ShipmentTaskQueue = "shipments"
)

const (
	CustomerActionSignal        = "customerAction"
	ShipmentStatusUpdatedSignal = "ShipmentStatusUpdated"
	ShipmentCarrierUpdateSignal = "ShipmentCarrierUpdate"

	OrderStatusQuery    = "getOrderStatus"
	ShipmentStatusQuery = "getShipmentStatus"
)

const (
	ErrTypeInvalidOrder   = "InvalidOrder"
	ErrTypeNoReservations = "NoReservations"
	ErrTypeChargeDeclined = "ChargeDeclined"
)

const DefaultCustomerActionTimeout = 10 * time.Minute

// a is only used to resolve activity names; workers register a configured
// instance.
var a *activities.Activities

var idempotencyNamespace = uuid.MustParse("9a3c5e1f-2b7d-4c8a-9e6f-1d0b3a5c7e92")

func OrderWorkflowID(orderID string) string {
	return "order-" + orderID
}

func FulfillmentWorkflowID(fulfillmentID string) string {
	return "fulfillment-" + fulfillmentID
}

func ShipmentWorkflowID(shipmentID string) string {
	return "shipment-" + shipmentID
}

func ChargeWorkflowID(reference string) string {
	return "charge-" + reference
}

// FulfillmentID numbers fulfillments from 1 within an order.
func FulfillmentID(orderID string, index int) string {
	return fmt.Sprintf("%s:%d", orderID, index+1)
}

// IdempotencyKey is derived from the charge reference so that a re-executed
// Charge workflow presents the same key to the payment provider.
func IdempotencyKey(customerID, reference string) string {
	return uuid.NewSHA1(idempotencyNamespace, []byte(customerID+"/"+reference)).String()
}

var activityRetryPolicy = &temporal.RetryPolicy{
	InitialInterval:    time.Minute,
	BackoffCoefficient: 2.0,
	MaximumInterval:    16 * time.Minute,
	MaximumAttempts:    500,
}

func withActivityOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Hour,
		RetryPolicy:         activityRetryPolicy,
	})
}
