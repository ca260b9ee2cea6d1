package activities

import (
	"context"
	"hash/fnv"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/temporal"
)

var taxRate = decimal.RequireFromString("0.20")

// GenerateInvoice prices the items. Unit prices and shipping rates are derived
// from the SKU so the same items always produce the same invoice.
func GenerateInvoice(ctx context.Context, input GenerateInvoiceInput) (*Invoice, error) {
	_, span := otel.Tracer("activities").Start(ctx, "generate_invoice",
		trace.WithAttributes(
			attribute.String("customer.id", input.CustomerID),
			attribute.String("invoice.reference", input.Reference),
			attribute.Int("invoice.item_count", len(input.Items)),
		),
	)
	defer span.End()

	if input.CustomerID == "" {
		return nil, temporal.NewNonRetryableApplicationError("customer ID cannot be empty", ErrTypeInvalidInvoice, nil)
	}
	if input.Reference == "" {
		return nil, temporal.NewNonRetryableApplicationError("reference cannot be empty", ErrTypeInvalidInvoice, nil)
	}
	if len(input.Items) == 0 {
		return nil, temporal.NewNonRetryableApplicationError("items cannot be empty", ErrTypeInvalidInvoice, nil)
	}

	invoice := &Invoice{
		InvoiceReference: input.Reference,
		SubTotal:         decimal.Zero,
		Tax:              decimal.Zero,
		Shipping:         decimal.Zero,
	}
	for _, item := range input.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		cost := unitPrice(item.SKU).Mul(qty)
		invoice.SubTotal = invoice.SubTotal.Add(cost)
		invoice.Tax = invoice.Tax.Add(cost.Mul(taxRate).Round(2))
		invoice.Shipping = invoice.Shipping.Add(shippingRate(item.SKU).Mul(qty))
	}
	invoice.Total = invoice.SubTotal.Add(invoice.Tax).Add(invoice.Shipping)

	span.SetAttributes(attribute.String("invoice.total", invoice.Total.StringFixed(2)))
	return invoice, nil
}

// unitPrice is between 35.00 and 119.99.
func unitPrice(sku string) decimal.Decimal {
	return decimal.New(3500+int64(skuHash(sku)%8500), -2)
}

// shippingRate is between 5.00 and 9.99 per unit.
func shippingRate(sku string) decimal.Decimal {
	return decimal.New(500+int64(skuHash(sku)%500), -2)
}

func skuHash(sku string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sku))
	return h.Sum32()
}
