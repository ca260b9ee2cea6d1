package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending                OrderStatus = "pending"
	OrderStatusCustomerActionRequired OrderStatus = "customerActionRequired"
	OrderStatusProcessing             OrderStatus = "processing"
	OrderStatusCompleted              OrderStatus = "completed"
	OrderStatusFailed                 OrderStatus = "failed"
	OrderStatusCancelled              OrderStatus = "cancelled"
	OrderStatusTimedOut               OrderStatus = "timedOut"
)

func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusFailed, OrderStatusCancelled, OrderStatusTimedOut:
		return true
	}
	return false
}

// Order is the persisted projection of an order saga. Rows are written with
// upsert-by-id and may lag behind the live workflow state.
type Order struct {
	ID         string      `gorm:"type:varchar(128);primaryKey" json:"id"`
	CustomerID string      `gorm:"not null;index" json:"customer_id"`
	Status     OrderStatus `gorm:"type:varchar(50);default:'pending';index" json:"status"`
	ReceivedAt time.Time   `gorm:"not null;index" json:"received_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
