package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/base-14/examples/go/go-temporal-oms/internal/activities"
	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
	"github.com/base-14/examples/go/go-temporal-oms/internal/oms"
	"github.com/base-14/examples/go/go-temporal-oms/internal/workflows"
)

type OrderService interface {
	StartOrder(ctx context.Context, req oms.StartOrderRequest) (*workflows.OrderContext, error)
	QueryOrderStatus(ctx context.Context, orderID string) (*workflows.OrderContext, error)
	SignalCustomerAction(ctx context.Context, orderID, action string) error
	ListOrders(ctx context.Context) ([]models.Order, error)
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type CreateOrderRequest struct {
	ID         string                 `json:"id"`
	CustomerID string                 `json:"customer_id"`
	Items      []activities.OrderItem `json:"items"`
}

type CustomerActionRequest struct {
	Action string `json:"action"`
}

func (h *OrderHandler) Create(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.StartOrder(c.Request().Context(), oms.StartOrderRequest{
		ID:         req.ID,
		CustomerID: req.CustomerID,
		Items:      req.Items,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"order":       order,
		"workflow_id": order.WorkflowID,
	})
}

func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orders.ListOrders(c.Request().Context())
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}

func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.orders.QueryOrderStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"order": order,
	})
}

func (h *OrderHandler) Action(c echo.Context) error {
	var req CustomerActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.orders.SignalCustomerAction(c.Request().Context(), c.Param("id"), req.Action); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"order_id": c.Param("id"),
		"action":   req.Action,
	})
}
