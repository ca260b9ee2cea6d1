package workflows

import (
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/base-14/examples/go/go-temporal-oms/internal/activities"
)

// Charge invoices the items and charges the invoice total in a single pass.
func Charge(ctx workflow.Context, input ChargeInput) (*ChargeOutput, error) {
	logger := workflow.GetLogger(ctx)
	ctx = withActivityOptions(ctx)

	var invoice activities.Invoice
	if err := workflow.ExecuteActivity(ctx, activities.GenerateInvoice, activities.GenerateInvoiceInput{
		CustomerID: input.CustomerID,
		Reference:  input.Reference,
		Items:      input.Items,
	}).Get(ctx, &invoice); err != nil {
		logger.Error("Invoice generation failed", "reference", input.Reference, "error", err)
		return nil, err
	}

	var charge activities.ChargeCustomerResult
	if err := workflow.ExecuteActivity(ctx, a.ChargeCustomer, activities.ChargeCustomerInput{
		CustomerID:     input.CustomerID,
		Reference:      input.Reference,
		Amount:         invoice.Total,
		IdempotencyKey: IdempotencyKey(input.CustomerID, input.Reference),
	}).Get(ctx, &charge); err != nil {
		logger.Error("Charge failed", "reference", input.Reference, "error", err)
		return nil, err
	}

	if !charge.Success {
		return nil, temporal.NewNonRetryableApplicationError(
			"charge declined for "+input.Reference, ErrTypeChargeDeclined, nil)
	}

	logger.Info("Customer charged", "reference", input.Reference, "total", invoice.Total.StringFixed(2))
	return &ChargeOutput{
		InvoiceReference: invoice.InvoiceReference,
		SubTotal:         invoice.SubTotal,
		Tax:              invoice.Tax,
		Shipping:         invoice.Shipping,
		Total:            invoice.Total,
		Success:          charge.Success,
		AuthCode:         charge.AuthCode,
	}, nil
}
