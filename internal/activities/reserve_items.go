package activities

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/temporal"
)

// PrefixInventory treats every SKU as in stock except those starting with one
// of the configured prefixes.
type PrefixInventory struct {
	UnavailablePrefixes []string
}

func NewPrefixInventory(prefixes ...string) PrefixInventory {
	if len(prefixes) == 0 {
		prefixes = []string{"Adidas"}
	}
	return PrefixInventory{UnavailablePrefixes: prefixes}
}

func (p PrefixInventory) Available(_ context.Context, sku string, _ int) (bool, error) {
	for _, prefix := range p.UnavailablePrefixes {
		if strings.HasPrefix(sku, prefix) {
			return false, nil
		}
	}
	return true, nil
}

// ReserveItems groups the order items into reservations: every unavailable
// item goes to one warehouse backorder, the last available item is reserved
// at the store and the remaining available items at the warehouse.
func (a *Activities) ReserveItems(ctx context.Context, input ReserveItemsInput) (*ReserveItemsResult, error) {
	ctx, span := otel.Tracer("activities").Start(ctx, "reserve_items",
		trace.WithAttributes(
			attribute.String("order.id", input.OrderID),
			attribute.Int("order.item_count", len(input.Items)),
		),
	)
	defer span.End()

	if input.OrderID == "" {
		return nil, temporal.NewNonRetryableApplicationError("order ID cannot be empty", ErrTypeInvalidReservation, nil)
	}
	if len(input.Items) == 0 {
		return nil, temporal.NewNonRetryableApplicationError("items cannot be empty", ErrTypeInvalidReservation, nil)
	}

	var available, unavailable []OrderItem
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("item quantity must be greater than zero for SKU: %s", item.SKU),
				ErrTypeInvalidReservation, nil)
		}
		ok, err := a.Inventory.Available(ctx, item.SKU, item.Quantity)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if ok {
			available = append(available, item)
		} else {
			unavailable = append(unavailable, item)
		}
	}

	var reservations []Reservation
	if len(unavailable) > 0 {
		reservations = append(reservations, Reservation{
			Available: false,
			Location:  LocationWarehouse,
			Items:     unavailable,
		})
	}
	if n := len(available); n > 0 {
		reservations = append(reservations, Reservation{
			Available: true,
			Location:  LocationStore,
			Items:     []OrderItem{available[n-1]},
		})
		if n > 1 {
			reservations = append(reservations, Reservation{
				Available: true,
				Location:  LocationWarehouse,
				Items:     available[:n-1],
			})
		}
	}

	span.SetAttributes(
		attribute.Int("reservation.count", len(reservations)),
		attribute.Int("reservation.unavailable_items", len(unavailable)),
	)

	return &ReserveItemsResult{Reservations: reservations}, nil
}
