package activities

import (
	"context"

	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
	"github.com/base-14/examples/go/go-temporal-oms/pkg/simulation"
)

type Inventory interface {
	Available(ctx context.Context, sku string, quantity int) (bool, error)
}

type OrderStore interface {
	Upsert(ctx context.Context, order *models.Order) error
}

type ShipmentStore interface {
	Upsert(ctx context.Context, shipment *models.Shipment) error
}

// Activities holds the collaborators used by the side-effecting activities.
// Workflows reference its methods through a nil *Activities so that only the
// activity names are resolved on the workflow side.
type Activities struct {
	Inventory     Inventory
	Orders        OrderStore
	Shipments     ShipmentStore
	PaymentFaults simulation.Config
	CarrierFaults simulation.Config
}
