package workflows

import (
	"fmt"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/base-14/examples/go/go-temporal-oms/internal/activities"
	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
)

func validateOrder(input OrderInput) error {
	if input.ID == "" {
		return temporal.NewNonRetryableApplicationError("order ID is required", ErrTypeInvalidOrder, nil)
	}
	if input.CustomerID == "" {
		return temporal.NewNonRetryableApplicationError("customer ID is required", ErrTypeInvalidOrder, nil)
	}
	if len(input.Items) == 0 {
		return temporal.NewNonRetryableApplicationError("order must contain at least one item", ErrTypeInvalidOrder, nil)
	}
	for i, item := range input.Items {
		if item.SKU == "" {
			return temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("item %d has no SKU", i), ErrTypeInvalidOrder, nil)
		}
		if item.Quantity <= 0 {
			return temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("item %s must have a positive quantity", item.SKU), ErrTypeInvalidOrder, nil)
		}
	}
	return nil
}

// Order drives one customer order from reservation to a terminal status. The
// workflow ID is derived from the order ID, so at most one runs per order.
func Order(ctx workflow.Context, input OrderInput) (*OrderContext, error) {
	logger := workflow.GetLogger(ctx)

	if err := validateOrder(input); err != nil {
		logger.Error("Rejecting invalid order", "order_id", input.ID, "error", err)
		return nil, err
	}
	logger.Info("Starting order workflow", "order_id", input.ID)

	startTime := workflow.Now(ctx)
	state := newOrderState(input, workflow.GetInfo(ctx).WorkflowExecution.ID, startTime)

	if err := workflow.SetQueryHandler(ctx, OrderStatusQuery, func() (*OrderContext, error) {
		return state.snapshot(), nil
	}); err != nil {
		return nil, err
	}

	shipmentUpdates := workflow.GetSignalChannel(ctx, ShipmentStatusUpdatedSignal)
	applyUpdate := func(update ShipmentStatusUpdate) {
		if !state.applyShipmentUpdate(update) {
			logger.Warn("Dropping shipment update for unknown fulfillment",
				"order_id", input.ID, "shipment_id", update.ShipmentID)
			return
		}
		logger.Info("Shipment status mirrored",
			"shipment_id", update.ShipmentID, "status", update.Status)
	}
	workflow.Go(ctx, func(gctx workflow.Context) {
		for {
			var update ShipmentStatusUpdate
			shipmentUpdates.Receive(gctx, &update)
			applyUpdate(update)
		}
	})

	ctx = withActivityOptions(ctx)

	persist := func(status models.OrderStatus) error {
		state.setStatus(status, workflow.Now(ctx))
		return workflow.ExecuteActivity(ctx, a.PersistOrderStatus, state.persistInput()).Get(ctx, nil)
	}

	finish := func(customerAction CustomerAction, failureReason string) {
		order := state.snapshot()
		if err := workflow.ExecuteActivity(ctx, activities.RecordOrderMetrics, activities.RecordMetricsInput{
			OrderID:          order.ID,
			Status:           order.Status,
			FulfillmentCount: len(order.Fulfillments),
			FailedCount:      state.countFailed(),
			CustomerAction:   string(customerAction),
			DurationSecs:     workflow.Now(ctx).Sub(startTime).Seconds(),
			FailureReason:    failureReason,
		}).Get(ctx, nil); err != nil {
			logger.Warn("Failed to record order metrics", "order_id", order.ID, "error", err)
		}

		notificationType, message := terminalNotification(order.Status)
		if notificationType == "" {
			return
		}
		notify(ctx, order, notificationType, message)
	}

	if err := persist(models.OrderStatusPending); err != nil {
		return nil, err
	}

	var reserved activities.ReserveItemsResult
	if err := workflow.ExecuteActivity(ctx, a.ReserveItems, activities.ReserveItemsInput{
		OrderID: input.ID,
		Items:   input.Items,
	}).Get(ctx, &reserved); err != nil {
		logger.Error("Reservation failed", "order_id", input.ID, "error", err)
		return nil, err
	}

	if len(reserved.Reservations) == 0 {
		logger.Error("No reservations for order", "order_id", input.ID)
		if err := persist(models.OrderStatusFailed); err != nil {
			logger.Warn("Failed to persist failed status", "order_id", input.ID, "error", err)
		}
		finish("", "no_reservations")
		return nil, temporal.NewNonRetryableApplicationError(
			"no reservations for order "+input.ID, ErrTypeNoReservations, nil)
	}

	state.buildFulfillments(reserved.Reservations)

	var customerAction CustomerAction
	if state.hasUnavailable() {
		if err := persist(models.OrderStatusCustomerActionRequired); err != nil {
			return nil, err
		}
		notify(ctx, state.snapshot(), activities.NotificationActionRequired,
			"Some items are unavailable. Amend or cancel your order.")

		timeout := input.CustomerActionTimeout
		if timeout <= 0 {
			timeout = DefaultCustomerActionTimeout
		}
		deadline := workflow.Now(ctx).Add(timeout)
		actions := workflow.GetSignalChannel(ctx, CustomerActionSignal)

	gate:
		for {
			customerAction = awaitCustomerAction(ctx, actions, deadline.Sub(workflow.Now(ctx)))
			logger.Info("Customer action received", "order_id", input.ID, "action", customerAction)

			switch customerAction {
			case CustomerActionAmend:
				state.cancelUnavailable()
				break gate
			case CustomerActionCancel:
				state.cancelAll()
				if err := persist(models.OrderStatusCancelled); err != nil {
					return nil, err
				}
				finish(customerAction, "")
				return state.snapshot(), nil
			case CustomerActionTimedOut:
				state.cancelAll()
				if err := persist(models.OrderStatusTimedOut); err != nil {
					return nil, err
				}
				finish(customerAction, "customer_action_timeout")
				return state.snapshot(), nil
			default:
				logger.Warn("Ignoring unknown customer action", "order_id", input.ID, "action", customerAction)
			}
		}
	}

	if err := persist(models.OrderStatusProcessing); err != nil {
		return nil, err
	}

	type dispatched struct {
		id     string
		future workflow.ChildWorkflowFuture
	}
	var children []dispatched
	for _, f := range state.dispatchable() {
		childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
			WorkflowID:               FulfillmentWorkflowID(f.ID),
			TaskQueue:                OrderTaskQueue,
			WorkflowExecutionTimeout: input.FulfillmentTimeout,
		})
		children = append(children, dispatched{
			id: f.ID,
			future: workflow.ExecuteChildWorkflow(childCtx, Fulfill, FulfillInput{
				RequestorID: state.order.WorkflowID,
				ID:          f.ID,
				OrderID:     f.OrderID,
				CustomerID:  f.CustomerID,
				Items:       f.Items,
				Status:      f.Status,
			}),
		})
	}

	for _, child := range children {
		var out FulfillOutput
		if err := child.future.Get(ctx, &out); err != nil {
			logger.Error("Fulfillment failed", "order_id", input.ID, "fulfillment_id", child.id, "error", err)
			state.markFailed(child.id)
			continue
		}
		state.applyResult(&out)
		logger.Info("Fulfillment finished", "fulfillment_id", child.id, "status", out.Status)
	}

	for {
		var update ShipmentStatusUpdate
		if !shipmentUpdates.ReceiveAsync(&update) {
			break
		}
		applyUpdate(update)
	}

	if err := persist(models.OrderStatusCompleted); err != nil {
		return nil, err
	}
	finish(customerAction, "")

	logger.Info("Order workflow completed", "order_id", input.ID, "failed_fulfillments", state.countFailed())
	return state.snapshot(), nil
}

func terminalNotification(status models.OrderStatus) (string, string) {
	switch status {
	case models.OrderStatusCompleted:
		return activities.NotificationOrderCompleted, "Your order has been processed."
	case models.OrderStatusCancelled:
		return activities.NotificationOrderCancelled, "Your order has been cancelled."
	case models.OrderStatusTimedOut:
		return activities.NotificationOrderTimedOut, "Your order was cancelled because we did not hear back in time."
	}
	return "", ""
}

func notify(ctx workflow.Context, order *OrderContext, notificationType, message string) {
	if err := workflow.ExecuteActivity(ctx, activities.NotifyCustomer, activities.NotificationInput{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Type:       notificationType,
		Message:    message,
	}).Get(ctx, nil); err != nil {
		workflow.GetLogger(ctx).Warn("Failed to notify customer", "order_id", order.ID, "type", notificationType, "error", err)
	}
}
