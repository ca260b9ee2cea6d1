package activities

import (
	"context"

	"github.com/base-14/examples/go/go-temporal-oms/internal/telemetry"
)

func RecordOrderMetrics(ctx context.Context, input RecordMetricsInput) error {
	telemetry.RecordOrderFinished(ctx, string(input.Status), input.FailureReason)

	if input.CustomerAction != "" {
		telemetry.RecordCustomerAction(ctx, input.CustomerAction)
	}

	telemetry.RecordFulfillments(ctx, "completed", input.FulfillmentCount-input.FailedCount)
	telemetry.RecordFulfillments(ctx, "failed", input.FailedCount)

	if input.DurationSecs > 0 {
		telemetry.RecordOrderProcessingDuration(ctx, input.DurationSecs, string(input.Status))
	}

	return nil
}
