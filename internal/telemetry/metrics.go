package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter       metric.Meter
	metricsOnce sync.Once

	ordersFinished          metric.Int64Counter
	ordersCustomerAction    metric.Int64Counter
	fulfillmentsFinished    metric.Int64Counter
	shipmentStatusUpdates   metric.Int64Counter
	orderProcessingDuration metric.Float64Histogram
)

func initMetrics() {
	meter = otel.Meter("order-management")

	var err error

	ordersFinished, err = meter.Int64Counter("orders.finished",
		metric.WithDescription("Orders that reached a terminal status"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		panic(err)
	}

	ordersCustomerAction, err = meter.Int64Counter("orders.customer_action",
		metric.WithDescription("Orders that required a customer decision, by outcome"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		panic(err)
	}

	fulfillmentsFinished, err = meter.Int64Counter("fulfillments.finished",
		metric.WithDescription("Fulfillments that reached a terminal status"),
		metric.WithUnit("{fulfillment}"),
	)
	if err != nil {
		panic(err)
	}

	shipmentStatusUpdates, err = meter.Int64Counter("shipments.status_updates",
		metric.WithDescription("Shipment status transitions"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		panic(err)
	}

	orderProcessingDuration, err = meter.Float64Histogram("orders.processing_duration",
		metric.WithDescription("Order processing duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 10, 60, 300, 900, 1800, 3600, 7200),
	)
	if err != nil {
		panic(err)
	}
}

func ensureMetrics() {
	metricsOnce.Do(initMetrics)
}

func RecordOrderFinished(ctx context.Context, status, reason string) {
	ensureMetrics()
	attrs := []attribute.KeyValue{attribute.String("status", status)}
	if reason != "" {
		attrs = append(attrs, attribute.String("reason", reason))
	}
	ordersFinished.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func RecordCustomerAction(ctx context.Context, action string) {
	ensureMetrics()
	ordersCustomerAction.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
	))
}

func RecordFulfillments(ctx context.Context, status string, count int) {
	if count <= 0 {
		return
	}
	ensureMetrics()
	fulfillmentsFinished.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("status", status),
	))
}

func RecordShipmentStatusUpdate(ctx context.Context, status string) {
	ensureMetrics()
	shipmentStatusUpdates.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

func RecordOrderProcessingDuration(ctx context.Context, durationSeconds float64, status string) {
	ensureMetrics()
	orderProcessingDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("status", status),
	))
}
