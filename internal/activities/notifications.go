package activities

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	NotificationOrderCompleted = "order_completed"
	NotificationOrderCancelled = "order_cancelled"
	NotificationOrderTimedOut  = "order_timed_out"
	NotificationActionRequired = "customer_action_required"
)

// NotifyCustomer only logs; delivery over a real channel is out of scope.
func NotifyCustomer(ctx context.Context, input NotificationInput) error {
	ctx, span := otel.Tracer("activities").Start(ctx, "notify_customer",
		trace.WithAttributes(
			attribute.String("order.id", input.OrderID),
			attribute.String("customer.id", input.CustomerID),
			attribute.String("notification.type", input.Type),
		),
	)
	defer span.End()

	slog.InfoContext(ctx, "notification sent",
		slog.String("order_id", input.OrderID),
		slog.String("customer_id", input.CustomerID),
		slog.String("type", input.Type),
		slog.String("message", input.Message),
	)

	span.SetAttributes(attribute.Bool("notification.sent", true))
	return nil
}
