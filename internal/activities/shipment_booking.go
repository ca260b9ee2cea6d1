package activities

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/base-14/examples/go/go-temporal-oms/pkg/simulation"
)

var courierNamespace = uuid.MustParse("0b8e2f7a-3c1d-4e59-8f0a-6d2b9c4e7a13")

// CourierReference is stable for a shipment reference, so re-booking after a
// retry returns the same courier reference.
func CourierReference(reference string) string {
	id := uuid.NewSHA1(courierNamespace, []byte(reference))
	return fmt.Sprintf("%s:%s", reference, id.String()[:8])
}

func (a *Activities) BookShipment(ctx context.Context, input BookShipmentInput) (*BookShipmentResult, error) {
	info := activity.GetInfo(ctx)

	ctx, span := otel.Tracer("activities").Start(ctx, "book_shipment",
		trace.WithAttributes(
			attribute.String("shipment.reference", input.Reference),
			attribute.Int("shipment.item_count", len(input.Items)),
			attribute.Int("temporal.attempt", int(info.Attempt)),
		),
	)
	defer span.End()

	if input.Reference == "" {
		return nil, temporal.NewNonRetryableApplicationError("shipment reference cannot be empty", ErrTypeInvalidShipment, nil)
	}
	if len(input.Items) == 0 {
		return nil, temporal.NewNonRetryableApplicationError("items cannot be empty", ErrTypeInvalidShipment, nil)
	}

	if err := simulation.MaybeFailWithLatency(ctx, a.CarrierFaults); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "carrier unavailable")
		slog.WarnContext(ctx, "carrier booking failed",
			slog.String("reference", input.Reference),
			slog.Int("attempt", int(info.Attempt)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	courierRef := CourierReference(input.Reference)
	span.SetAttributes(attribute.String("shipment.courier_reference", courierRef))

	slog.InfoContext(ctx, "shipment booked",
		slog.String("reference", input.Reference),
		slog.String("courier_reference", courierRef),
	)

	return &BookShipmentResult{CourierReference: courierRef}, nil
}
