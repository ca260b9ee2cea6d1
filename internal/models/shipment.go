package models

import "time"

type ShipmentStatus string

const (
	ShipmentStatusPending    ShipmentStatus = "pending"
	ShipmentStatusBooked     ShipmentStatus = "booked"
	ShipmentStatusDispatched ShipmentStatus = "dispatched"
	ShipmentStatusDelivered  ShipmentStatus = "delivered"
	ShipmentStatusCancelled  ShipmentStatus = "cancelled"
)

var shipmentStatusRank = map[ShipmentStatus]int{
	ShipmentStatusPending:    0,
	ShipmentStatusBooked:     1,
	ShipmentStatusDispatched: 2,
	ShipmentStatusDelivered:  3,
	ShipmentStatusCancelled:  3,
}

func ParseShipmentStatus(s string) (ShipmentStatus, bool) {
	status := ShipmentStatus(s)
	_, ok := shipmentStatusRank[status]
	return status, ok
}

func (s ShipmentStatus) IsTerminal() bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusCancelled
}

// Precedes reports whether moving from s to next is a forward transition.
// Cancellation is reachable from every non-terminal status.
func (s ShipmentStatus) Precedes(next ShipmentStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == ShipmentStatusCancelled {
		return true
	}
	cur, ok := shipmentStatusRank[s]
	if !ok {
		return true
	}
	n, ok := shipmentStatusRank[next]
	return ok && n > cur
}

type Shipment struct {
	ID        string         `gorm:"type:varchar(128);primaryKey" json:"id"`
	Status    ShipmentStatus `gorm:"type:varchar(50);default:'pending';index" json:"status"`
	BookedAt  time.Time      `gorm:"index" json:"booked_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
