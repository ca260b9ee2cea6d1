package workflows

import (
	"slices"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/base-14/examples/go/go-temporal-oms/internal/activities"
	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
)

// Ship books a shipment and then follows carrier updates until the shipment
// is delivered or cancelled. Every status change is persisted and reported
// to the requestor workflow.
func Ship(ctx workflow.Context, input ShipInput) (*ShipOutput, error) {
	logger := workflow.GetLogger(ctx)

	if input.ShipmentID == "" {
		return nil, temporal.NewNonRetryableApplicationError("shipment ID is required", activities.ErrTypeInvalidShipment, nil)
	}
	if len(input.Items) == 0 {
		return nil, temporal.NewNonRetryableApplicationError("shipment has no items", activities.ErrTypeInvalidShipment, nil)
	}

	view := ShipmentView{
		ID:        input.ShipmentID,
		Items:     slices.Clone(input.Items),
		Status:    models.ShipmentStatusPending,
		UpdatedAt: workflow.Now(ctx),
	}
	if err := workflow.SetQueryHandler(ctx, ShipmentStatusQuery, func() (ShipmentView, error) {
		out := view
		out.Items = slices.Clone(view.Items)
		return out, nil
	}); err != nil {
		return nil, err
	}

	carrierUpdates := workflow.GetSignalChannel(ctx, ShipmentCarrierUpdateSignal)
	ctx = withActivityOptions(ctx)

	transition := func(status models.ShipmentStatus) error {
		view.Status = status
		view.UpdatedAt = workflow.Now(ctx)
		if err := workflow.ExecuteActivity(ctx, a.PersistShipmentStatus, activities.PersistShipmentInput{
			ID:        view.ID,
			Status:    view.Status,
			UpdatedAt: view.UpdatedAt,
		}).Get(ctx, nil); err != nil {
			return err
		}
		notifyRequestor(ctx, input.RequestorID, ShipmentStatusUpdate{
			ShipmentID: view.ID,
			Status:     view.Status,
			UpdatedAt:  view.UpdatedAt,
		})
		return nil
	}

	var booking activities.BookShipmentResult
	if err := workflow.ExecuteActivity(ctx, a.BookShipment, activities.BookShipmentInput{
		Reference: input.ShipmentID,
		Items:     input.Items,
	}).Get(ctx, &booking); err != nil {
		logger.Error("Shipment booking failed", "shipment_id", input.ShipmentID, "error", err)
		return nil, err
	}
	view.CourierReference = booking.CourierReference

	if err := transition(models.ShipmentStatusBooked); err != nil {
		return nil, err
	}
	logger.Info("Shipment booked", "shipment_id", view.ID, "courier_reference", view.CourierReference)

	for !view.Status.IsTerminal() {
		var update CarrierUpdate
		carrierUpdates.Receive(ctx, &update)

		next, ok := models.ParseShipmentStatus(string(update.Status))
		if !ok || !view.Status.Precedes(next) {
			logger.Warn("Ignoring carrier update", "shipment_id", view.ID, "current", view.Status, "received", update.Status)
			continue
		}
		if err := transition(next); err != nil {
			return nil, err
		}
		logger.Info("Shipment status changed", "shipment_id", view.ID, "status", next)
	}

	return &ShipOutput{
		ID:               view.ID,
		Status:           view.Status,
		CourierReference: view.CourierReference,
	}, nil
}

// notifyRequestor signals the requestor without waiting for delivery. A
// failed signal is logged and otherwise ignored.
func notifyRequestor(ctx workflow.Context, requestorID string, update ShipmentStatusUpdate) {
	if requestorID == "" {
		return
	}
	future := workflow.SignalExternalWorkflow(ctx, requestorID, "", ShipmentStatusUpdatedSignal, update)
	workflow.Go(ctx, func(gctx workflow.Context) {
		if err := future.Get(gctx, nil); err != nil {
			workflow.GetLogger(gctx).Warn("Failed to notify requestor",
				"requestor_id", requestorID, "shipment_id", update.ShipmentID, "status", update.Status, "error", err)
		}
	})
}
