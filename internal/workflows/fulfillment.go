package workflows

import (
	"go.temporal.io/sdk/workflow"

	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
)

// Fulfill charges the customer for one reservation's items and then ships
// them. Shipping only starts once the charge has succeeded.
func Fulfill(ctx workflow.Context, input FulfillInput) (*FulfillOutput, error) {
	logger := workflow.GetLogger(ctx)

	out := &FulfillOutput{ID: input.ID, Status: input.Status}
	if input.Status == FulfillmentStatusCancelled {
		logger.Info("Fulfillment cancelled before start", "fulfillment_id", input.ID)
		return out, nil
	}

	chargeCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
		WorkflowID: ChargeWorkflowID(input.ID),
		TaskQueue:  BillingTaskQueue,
	})
	var charge ChargeOutput
	if err := workflow.ExecuteChildWorkflow(chargeCtx, Charge, ChargeInput{
		CustomerID: input.CustomerID,
		Reference:  input.ID,
		Items:      input.Items,
	}).Get(ctx, &charge); err != nil {
		logger.Error("Charge failed, not shipping", "fulfillment_id", input.ID, "error", err)
		out.Status = FulfillmentStatusFailed
		return out, nil
	}
	out.Payment = &Payment{
		InvoiceReference: charge.InvoiceReference,
		SubTotal:         charge.SubTotal,
		Tax:              charge.Tax,
		Shipping:         charge.Shipping,
		Total:            charge.Total,
		Status:           PaymentStatusCharged,
		AuthCode:         charge.AuthCode,
	}

	shipCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
		WorkflowID: ShipmentWorkflowID(input.ID),
		TaskQueue:  ShipmentTaskQueue,
	})
	var shipped ShipOutput
	if err := workflow.ExecuteChildWorkflow(shipCtx, Ship, ShipInput{
		RequestorID: input.RequestorID,
		ShipmentID:  input.ID,
		Items:       input.Items,
	}).Get(ctx, &shipped); err != nil {
		logger.Error("Shipment failed", "fulfillment_id", input.ID, "error", err)
		out.Status = FulfillmentStatusFailed
		return out, nil
	}

	out.Shipment = &Shipment{
		ID:        shipped.ID,
		Status:    shipped.Status,
		Items:     input.Items,
		UpdatedAt: workflow.Now(ctx),
	}
	if shipped.Status == models.ShipmentStatusDelivered {
		out.Status = FulfillmentStatusCompleted
	} else {
		out.Status = FulfillmentStatusFailed
	}

	logger.Info("Fulfillment finished", "fulfillment_id", input.ID, "status", out.Status)
	return out, nil
}
