package activities

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/base-14/examples/go/go-temporal-oms/pkg/simulation"
)

// DeclinedCustomerID is always refused by the fraud check.
const DeclinedCustomerID = "test_decline"

var authCodeNamespace = uuid.MustParse("6f1d7c38-5f43-4f0e-9a55-2b0c3cfd8a61")

var (
	paymentMeter         = otel.Meter("payment-processing")
	paymentAttemptsCount metric.Int64Counter
	paymentDeclinedCount metric.Int64Counter
	paymentSuccessCount  metric.Int64Counter
	paymentAmountTotal   metric.Float64Counter
)

func init() {
	var err error

	paymentAttemptsCount, err = paymentMeter.Int64Counter("payments.attempts",
		metric.WithDescription("Total charge attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		panic(err)
	}

	paymentDeclinedCount, err = paymentMeter.Int64Counter("payments.declined",
		metric.WithDescription("Charges declined by the fraud check"),
		metric.WithUnit("{decline}"),
	)
	if err != nil {
		panic(err)
	}

	paymentSuccessCount, err = paymentMeter.Int64Counter("payments.successes",
		metric.WithDescription("Successful charges"),
		metric.WithUnit("{success}"),
	)
	if err != nil {
		panic(err)
	}

	paymentAmountTotal, err = paymentMeter.Float64Counter("payments.amount.total",
		metric.WithDescription("Total amount charged"),
		metric.WithUnit("{USD}"),
	)
	if err != nil {
		panic(err)
	}
}

type fraudCheckResult struct {
	Declined bool
	Reason   string
}

func fraudCheck(input ChargeCustomerInput) fraudCheckResult {
	switch {
	case input.CustomerID == "":
		return fraudCheckResult{Declined: true, Reason: "missing customer ID"}
	case input.Reference == "":
		return fraudCheckResult{Declined: true, Reason: "missing reference"}
	case input.CustomerID == DeclinedCustomerID:
		return fraudCheckResult{Declined: true, Reason: "customer flagged"}
	case !input.Amount.IsPositive():
		return fraudCheckResult{Declined: true, Reason: "non-positive amount"}
	}
	return fraudCheckResult{}
}

// AuthCode derives the authorisation code from the idempotency key, so a
// retried charge reports the code of the first attempt.
func AuthCode(idempotencyKey string) string {
	id := uuid.NewSHA1(authCodeNamespace, []byte(idempotencyKey))
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:12])
}

func (a *Activities) ChargeCustomer(ctx context.Context, input ChargeCustomerInput) (*ChargeCustomerResult, error) {
	info := activity.GetInfo(ctx)

	ctx, span := otel.Tracer("activities").Start(ctx, "charge_customer",
		trace.WithAttributes(
			attribute.String("customer.id", input.CustomerID),
			attribute.String("payment.reference", input.Reference),
			attribute.String("payment.amount", input.Amount.StringFixed(2)),
			attribute.Int("temporal.attempt", int(info.Attempt)),
			attribute.String("temporal.workflow_id", info.WorkflowExecution.ID),
		),
	)
	defer span.End()

	paymentAttemptsCount.Add(ctx, 1)

	if err := simulation.MaybeFailWithLatency(ctx, a.PaymentFaults); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if check := fraudCheck(input); check.Declined {
		span.SetStatus(codes.Error, "fraud check declined")
		span.SetAttributes(
			attribute.Bool("payment.success", false),
			attribute.String("payment.decline_reason", check.Reason),
		)
		paymentDeclinedCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("reason", check.Reason),
		))

		slog.WarnContext(ctx, "charge declined",
			slog.String("customer_id", input.CustomerID),
			slog.String("reference", input.Reference),
			slog.String("reason", check.Reason),
		)
		return nil, temporal.NewNonRetryableApplicationError("fraud check declined: "+check.Reason, ErrTypeFraudCheckDeclined, nil)
	}

	authCode := AuthCode(input.IdempotencyKey)

	span.SetStatus(codes.Ok, "charge successful")
	span.SetAttributes(
		attribute.Bool("payment.success", true),
		attribute.String("payment.auth_code", authCode),
	)
	paymentSuccessCount.Add(ctx, 1)
	paymentAmountTotal.Add(ctx, input.Amount.InexactFloat64())

	slog.InfoContext(ctx, "customer charged",
		slog.String("customer_id", input.CustomerID),
		slog.String("reference", input.Reference),
		slog.String("amount", input.Amount.StringFixed(2)),
		slog.String("auth_code", authCode),
		slog.String("workflow_id", info.WorkflowExecution.ID),
	)

	return &ChargeCustomerResult{
		Success:  true,
		AuthCode: authCode,
	}, nil
}
