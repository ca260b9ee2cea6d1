package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
	"github.com/base-14/examples/go/go-temporal-oms/internal/workflows"
)

type ShipmentService interface {
	QueryShipmentStatus(ctx context.Context, shipmentID string) (*workflows.ShipmentView, error)
	SignalCarrierUpdate(ctx context.Context, shipmentID, status string) error
	ListShipments(ctx context.Context) ([]models.Shipment, error)
}

type ShipmentHandler struct {
	shipments ShipmentService
}

func NewShipmentHandler(shipments ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments}
}

type CarrierUpdateRequest struct {
	Status string `json:"status"`
}

func (h *ShipmentHandler) List(c echo.Context) error {
	shipments, err := h.shipments.ListShipments(c.Request().Context())
	if err != nil {
		return err
	}
	if shipments == nil {
		shipments = []models.Shipment{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"shipments": shipments,
	})
}

func (h *ShipmentHandler) Get(c echo.Context) error {
	shipment, err := h.shipments.QueryShipmentStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"shipment": shipment,
	})
}

// UpdateStatus forwards a carrier status report to the shipment tracker.
func (h *ShipmentHandler) UpdateStatus(c echo.Context) error {
	var req CarrierUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.shipments.SignalCarrierUpdate(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"shipment_id": c.Param("id"),
		"status":      req.Status,
	})
}
