package workflows

import (
	"slices"
	"time"

	"github.com/base-14/examples/go/go-temporal-oms/internal/activities"
	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
)

// orderState is mutated only from the Order workflow's coroutines. Queries
// read through snapshot.
type orderState struct {
	order OrderContext
}

func newOrderState(input OrderInput, workflowID string, now time.Time) *orderState {
	return &orderState{order: OrderContext{
		ID:         input.ID,
		CustomerID: input.CustomerID,
		Items:      slices.Clone(input.Items),
		ReceivedAt: now,
		Status:     models.OrderStatusPending,
		UpdatedAt:  now,
		WorkflowID: workflowID,
	}}
}

func (s *orderState) snapshot() *OrderContext {
	out := s.order
	out.Items = slices.Clone(s.order.Items)
	out.Fulfillments = make([]Fulfillment, len(s.order.Fulfillments))
	for i, f := range s.order.Fulfillments {
		f.Items = slices.Clone(f.Items)
		if f.Shipment != nil {
			shipment := *f.Shipment
			shipment.Items = slices.Clone(shipment.Items)
			f.Shipment = &shipment
		}
		if f.Payment != nil {
			payment := *f.Payment
			f.Payment = &payment
		}
		out.Fulfillments[i] = f
	}
	return &out
}

func (s *orderState) setStatus(status models.OrderStatus, now time.Time) {
	s.order.Status = status
	s.order.UpdatedAt = now
}

func (s *orderState) persistInput() activities.PersistOrderInput {
	return activities.PersistOrderInput{
		ID:         s.order.ID,
		CustomerID: s.order.CustomerID,
		Status:     s.order.Status,
		ReceivedAt: s.order.ReceivedAt,
		UpdatedAt:  s.order.UpdatedAt,
	}
}

func (s *orderState) buildFulfillments(reservations []activities.Reservation) {
	s.order.Fulfillments = make([]Fulfillment, len(reservations))
	for i, r := range reservations {
		status := FulfillmentStatusPending
		if !r.Available {
			status = FulfillmentStatusUnavailable
		}
		s.order.Fulfillments[i] = Fulfillment{
			ID:         FulfillmentID(s.order.ID, i),
			OrderID:    s.order.ID,
			CustomerID: s.order.CustomerID,
			Items:      slices.Clone(r.Items),
			Location:   r.Location,
			Status:     status,
		}
	}
}

func (s *orderState) hasUnavailable() bool {
	return slices.ContainsFunc(s.order.Fulfillments, func(f Fulfillment) bool {
		return f.Status == FulfillmentStatusUnavailable
	})
}

func (s *orderState) cancelUnavailable() {
	for i := range s.order.Fulfillments {
		if s.order.Fulfillments[i].Status == FulfillmentStatusUnavailable {
			s.order.Fulfillments[i].Status = FulfillmentStatusCancelled
		}
	}
}

func (s *orderState) cancelAll() {
	for i := range s.order.Fulfillments {
		switch s.order.Fulfillments[i].Status {
		case FulfillmentStatusPending, FulfillmentStatusUnavailable:
			s.order.Fulfillments[i].Status = FulfillmentStatusCancelled
		}
	}
}

func (s *orderState) fulfillment(id string) *Fulfillment {
	for i := range s.order.Fulfillments {
		if s.order.Fulfillments[i].ID == id {
			return &s.order.Fulfillments[i]
		}
	}
	return nil
}

// applyShipmentUpdate mirrors a tracker notification. It reports false when no
// fulfillment matches. Updates that would move the mirror backwards are
// ignored since notifications can arrive out of order.
func (s *orderState) applyShipmentUpdate(update ShipmentStatusUpdate) bool {
	f := s.fulfillment(update.ShipmentID)
	if f == nil {
		return false
	}
	if f.Shipment == nil {
		f.Shipment = &Shipment{
			ID:     update.ShipmentID,
			Status: models.ShipmentStatusPending,
			Items:  slices.Clone(f.Items),
		}
	}
	if f.Shipment.Status.Precedes(update.Status) {
		f.Shipment.Status = update.Status
		f.Shipment.UpdatedAt = update.UpdatedAt
	}
	return true
}

func (s *orderState) applyResult(out *FulfillOutput) {
	f := s.fulfillment(out.ID)
	if f == nil || f.Status.IsTerminal() {
		return
	}
	f.Status = out.Status
	if out.Payment != nil {
		f.Payment = out.Payment
	}
	if out.Shipment != nil {
		s.applyShipmentUpdate(ShipmentStatusUpdate{
			ShipmentID: out.ID,
			Status:     out.Shipment.Status,
			UpdatedAt:  out.Shipment.UpdatedAt,
		})
	}
}

func (s *orderState) markFailed(id string) {
	if f := s.fulfillment(id); f != nil && !f.Status.IsTerminal() {
		f.Status = FulfillmentStatusFailed
	}
}

// dispatchable lists the fulfillments that still need a Fulfill child.
func (s *orderState) dispatchable() []Fulfillment {
	var out []Fulfillment
	for _, f := range s.order.Fulfillments {
		if f.Status != FulfillmentStatusCancelled {
			out = append(out, f)
		}
	}
	return out
}

func (s *orderState) countFailed() int {
	n := 0
	for _, f := range s.order.Fulfillments {
		if f.Status == FulfillmentStatusFailed {
			n++
		}
	}
	return n
}
