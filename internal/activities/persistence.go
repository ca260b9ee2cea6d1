package activities

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
	"github.com/base-14/examples/go/go-temporal-oms/internal/telemetry"
)

// PersistOrderStatus mirrors the order status into the database. ReceivedAt is
// only written on the first insert.
func (a *Activities) PersistOrderStatus(ctx context.Context, input PersistOrderInput) error {
	ctx, span := otel.Tracer("activities").Start(ctx, "persist_order_status",
		trace.WithAttributes(
			attribute.String("order.id", input.ID),
			attribute.String("order.status", string(input.Status)),
		),
	)
	defer span.End()

	err := a.Orders.Upsert(ctx, &models.Order{
		ID:         input.ID,
		CustomerID: input.CustomerID,
		Status:     input.Status,
		ReceivedAt: input.ReceivedAt,
		UpdatedAt:  input.UpdatedAt,
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("persist order %s: %w", input.ID, err)
	}
	return nil
}

// PersistShipmentStatus mirrors the shipment status into the database. The
// first write sets BookedAt.
func (a *Activities) PersistShipmentStatus(ctx context.Context, input PersistShipmentInput) error {
	ctx, span := otel.Tracer("activities").Start(ctx, "persist_shipment_status",
		trace.WithAttributes(
			attribute.String("shipment.id", input.ID),
			attribute.String("shipment.status", string(input.Status)),
		),
	)
	defer span.End()

	err := a.Shipments.Upsert(ctx, &models.Shipment{
		ID:        input.ID,
		Status:    input.Status,
		BookedAt:  input.UpdatedAt,
		UpdatedAt: input.UpdatedAt,
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("persist shipment %s: %w", input.ID, err)
	}

	telemetry.RecordShipmentStatusUpdate(ctx, string(input.Status))
	return nil
}
