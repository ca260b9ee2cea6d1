package workflows

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/base-14/examples/go/go-temporal-oms/internal/activities"
	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
)

type OrderInput struct {
	ID                    string                 `json:"id"`
	CustomerID            string                 `json:"customer_id"`
	Items                 []activities.OrderItem `json:"items"`
	CustomerActionTimeout time.Duration          `json:"customer_action_timeout,omitempty"`
	FulfillmentTimeout    time.Duration          `json:"fulfillment_timeout,omitempty"`
}

type FulfillmentStatus string

const (
	FulfillmentStatusPending     FulfillmentStatus = "pending"
	FulfillmentStatusUnavailable FulfillmentStatus = "unavailable"
	FulfillmentStatusCompleted   FulfillmentStatus = "completed"
	FulfillmentStatusFailed      FulfillmentStatus = "failed"
	FulfillmentStatusCancelled   FulfillmentStatus = "cancelled"
)

func (s FulfillmentStatus) IsTerminal() bool {
	switch s {
	case FulfillmentStatusCompleted, FulfillmentStatusFailed, FulfillmentStatusCancelled:
		return true
	}
	return false
}

const PaymentStatusCharged = "charged"

type Payment struct {
	InvoiceReference string          `json:"invoice_reference"`
	SubTotal         decimal.Decimal `json:"sub_total"`
	Tax              decimal.Decimal `json:"tax"`
	Shipping         decimal.Decimal `json:"shipping"`
	Total            decimal.Decimal `json:"total"`
	Status           string          `json:"status"`
	AuthCode         string          `json:"auth_code"`
}

// Shipment is the order's copy of a tracker's state. It may lag behind the
// tracker.
type Shipment struct {
	ID        string                 `json:"id"`
	Status    models.ShipmentStatus  `json:"status"`
	Items     []activities.OrderItem `json:"items"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type Fulfillment struct {
	ID         string                 `json:"id"`
	OrderID    string                 `json:"order_id"`
	CustomerID string                 `json:"customer_id"`
	Items      []activities.OrderItem `json:"items"`
	Location   string                 `json:"location"`
	Status     FulfillmentStatus      `json:"status"`
	Shipment   *Shipment              `json:"shipment,omitempty"`
	Payment    *Payment               `json:"payment,omitempty"`
}

type OrderContext struct {
	ID           string                 `json:"id"`
	CustomerID   string                 `json:"customer_id"`
	Items        []activities.OrderItem `json:"items"`
	ReceivedAt   time.Time              `json:"received_at"`
	Status       models.OrderStatus     `json:"status"`
	Fulfillments []Fulfillment          `json:"fulfillments"`
	UpdatedAt    time.Time              `json:"updated_at"`
	WorkflowID   string                 `json:"workflow_id"`
}

type CustomerAction string

const (
	CustomerActionAmend    CustomerAction = "amend"
	CustomerActionCancel   CustomerAction = "cancel"
	CustomerActionTimedOut CustomerAction = "timedOut"
)

// ParseCustomerAction accepts the actions a customer may send. timedOut is
// only ever produced by the gate itself.
func ParseCustomerAction(s string) (CustomerAction, bool) {
	switch action := CustomerAction(s); action {
	case CustomerActionAmend, CustomerActionCancel:
		return action, true
	}
	return "", false
}

type ShipmentStatusUpdate struct {
	ShipmentID string                `json:"shipment_id"`
	Status     models.ShipmentStatus `json:"status"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

type CarrierUpdate struct {
	Status models.ShipmentStatus `json:"status"`
}

type FulfillInput struct {
	RequestorID string                 `json:"requestor_id"`
	ID          string                 `json:"id"`
	OrderID     string                 `json:"order_id"`
	CustomerID  string                 `json:"customer_id"`
	Items       []activities.OrderItem `json:"items"`
	Status      FulfillmentStatus      `json:"status"`
}

type FulfillOutput struct {
	ID       string            `json:"id"`
	Status   FulfillmentStatus `json:"status"`
	Payment  *Payment          `json:"payment,omitempty"`
	Shipment *Shipment         `json:"shipment,omitempty"`
}

type ChargeInput struct {
	CustomerID string                 `json:"customer_id"`
	Reference  string                 `json:"reference"`
	Items      []activities.OrderItem `json:"items"`
}

type ChargeOutput struct {
	InvoiceReference string          `json:"invoice_reference"`
	SubTotal         decimal.Decimal `json:"sub_total"`
	Tax              decimal.Decimal `json:"tax"`
	Shipping         decimal.Decimal `json:"shipping"`
	Total            decimal.Decimal `json:"total"`
	Success          bool            `json:"success"`
	AuthCode         string          `json:"auth_code"`
}

type ShipInput struct {
	RequestorID string                 `json:"requestor_id"`
	ShipmentID  string                 `json:"shipment_id"`
	Items       []activities.OrderItem `json:"items"`
}

type ShipOutput struct {
	ID               string                `json:"id"`
	Status           models.ShipmentStatus `json:"status"`
	CourierReference string                `json:"courier_reference"`
}

type ShipmentView struct {
	ID               string                 `json:"id"`
	Items            []activities.OrderItem `json:"items"`
	Status           models.ShipmentStatus  `json:"status"`
	CourierReference string                 `json:"courier_reference,omitempty"`
	UpdatedAt        time.Time              `json:"updated_at"`
}
