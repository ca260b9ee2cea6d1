package activities

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
)

const (
	ErrTypeInvalidReservation = "InvalidReservation"
	ErrTypeInvalidInvoice     = "InvalidInvoice"
	ErrTypeFraudCheckDeclined = "FraudCheckDeclined"
	ErrTypeInvalidShipment    = "InvalidShipment"
)

const (
	LocationStore     = "store"
	LocationWarehouse = "warehouse"
)

type OrderItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type ReserveItemsInput struct {
	OrderID string      `json:"order_id"`
	Items   []OrderItem `json:"items"`
}

type Reservation struct {
	Available bool        `json:"available"`
	Location  string      `json:"location"`
	Items     []OrderItem `json:"items"`
}

type ReserveItemsResult struct {
	Reservations []Reservation `json:"reservations"`
}

type GenerateInvoiceInput struct {
	CustomerID string      `json:"customer_id"`
	Reference  string      `json:"reference"`
	Items      []OrderItem `json:"items"`
}

type Invoice struct {
	InvoiceReference string          `json:"invoice_reference"`
	SubTotal         decimal.Decimal `json:"sub_total"`
	Tax              decimal.Decimal `json:"tax"`
	Shipping         decimal.Decimal `json:"shipping"`
	Total            decimal.Decimal `json:"total"`
}

type ChargeCustomerInput struct {
	CustomerID     string          `json:"customer_id"`
	Reference      string          `json:"reference"`
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key"`
}

type ChargeCustomerResult struct {
	Success  bool   `json:"success"`
	AuthCode string `json:"auth_code,omitempty"`
}

type BookShipmentInput struct {
	Reference string      `json:"reference"`
	Items     []OrderItem `json:"items"`
}

type BookShipmentResult struct {
	CourierReference string `json:"courier_reference"`
}

type PersistOrderInput struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customer_id"`
	Status     models.OrderStatus `json:"status"`
	ReceivedAt time.Time          `json:"received_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type PersistShipmentInput struct {
	ID        string                `json:"id"`
	Status    models.ShipmentStatus `json:"status"`
	UpdatedAt time.Time             `json:"updated_at"`
}

type NotificationInput struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

type RecordMetricsInput struct {
	OrderID          string             `json:"order_id"`
	Status           models.OrderStatus `json:"status"`
	FulfillmentCount int                `json:"fulfillment_count"`
	FailedCount      int                `json:"failed_count"`
	CustomerAction   string             `json:"customer_action,omitempty"`
	DurationSecs     float64            `json:"duration_secs"`
	FailureReason    string             `json:"failure_reason,omitempty"`
}
