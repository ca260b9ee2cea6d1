// Package oms is the client side of the order sagas: it starts, queries and
// signals workflows and falls back to the persisted rows once a workflow can
// no longer answer.
package oms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"github.com/base-14/examples/go/go-temporal-oms/internal/activities"
	"github.com/base-14/examples/go/go-temporal-oms/internal/database"
	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
	"github.com/base-14/examples/go/go-temporal-oms/internal/workflows"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrShipmentNotFound = errors.New("shipment not found")
	ErrInvalidOrder     = errors.New("invalid order")
	ErrInvalidAction    = errors.New("invalid customer action")
	ErrInvalidStatus    = errors.New("invalid shipment status")
)

const startQueryTimeout = 5 * time.Second

type WorkflowClient interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	QueryWorkflow(ctx context.Context, workflowID string, runID string, queryType string, args ...interface{}) (converter.EncodedValue, error)
	SignalWorkflow(ctx context.Context, workflowID string, runID string, signalName string, arg interface{}) error
}

type OrderReader interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
}

type ShipmentReader interface {
	Get(ctx context.Context, id string) (*models.Shipment, error)
	List(ctx context.Context) ([]models.Shipment, error)
}

type Config struct {
	CustomerActionTimeout time.Duration
	FulfillmentTimeout    time.Duration
}

type Service struct {
	client    WorkflowClient
	orders    OrderReader
	shipments ShipmentReader
	cfg       Config
}

func NewService(c WorkflowClient, orders OrderReader, shipments ShipmentReader, cfg Config) *Service {
	return &Service{client: c, orders: orders, shipments: shipments, cfg: cfg}
}

type StartOrderRequest struct {
	ID         string                 `json:"id"`
	CustomerID string                 `json:"customer_id"`
	Items      []activities.OrderItem `json:"items"`
}

func (r StartOrderRequest) validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidOrder)
	}
	if r.CustomerID == "" {
		return fmt.Errorf("%w: customer_id is required", ErrInvalidOrder)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidOrder)
	}
	for _, item := range r.Items {
		if item.SKU == "" || item.Quantity <= 0 {
			return fmt.Errorf("%w: every item needs a sku and a positive quantity", ErrInvalidOrder)
		}
	}
	return nil
}

// StartOrder starts the Order workflow for req.ID, or attaches to the one
// already running, and returns its current context.
func (s *Service) StartOrder(ctx context.Context, req StartOrderRequest) (*workflows.OrderContext, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	workflowID := workflows.OrderWorkflowID(req.ID)
	opts := client.StartWorkflowOptions{
		ID:                       workflowID,
		TaskQueue:                workflows.OrderTaskQueue,
		WorkflowIDReusePolicy:    enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		WorkflowIDConflictPolicy: enumspb.WORKFLOW_ID_CONFLICT_POLICY_USE_EXISTING,
	}

	run, err := s.client.ExecuteWorkflow(ctx, opts, workflows.Order, workflows.OrderInput{
		ID:                    req.ID,
		CustomerID:            req.CustomerID,
		Items:                 req.Items,
		CustomerActionTimeout: s.cfg.CustomerActionTimeout,
		FulfillmentTimeout:    s.cfg.FulfillmentTimeout,
	})
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	switch {
	case errors.As(err, &alreadyStarted):
		slog.InfoContext(ctx, "order already exists", slog.String("order_id", req.ID))
	case err != nil:
		return nil, fmt.Errorf("start order %s: %w", req.ID, err)
	default:
		slog.InfoContext(ctx, "order workflow started",
			slog.String("order_id", req.ID),
			slog.String("workflow_id", run.GetID()),
			slog.String("run_id", run.GetRunID()),
		)
	}

	queryCtx, cancel := context.WithTimeout(ctx, startQueryTimeout)
	defer cancel()
	order, err := s.QueryOrderStatus(queryCtx, req.ID)
	if err != nil {
		slog.WarnContext(ctx, "order not queryable yet",
			slog.String("order_id", req.ID),
			slog.String("error", err.Error()),
		)
		return &workflows.OrderContext{
			ID:         req.ID,
			CustomerID: req.CustomerID,
			Items:      req.Items,
			Status:     models.OrderStatusPending,
			WorkflowID: workflowID,
		}, nil
	}
	return order, nil
}

// QueryOrderStatus asks the workflow for its live context. Orders whose
// workflow is gone are answered from the persisted row.
func (s *Service) QueryOrderStatus(ctx context.Context, orderID string) (*workflows.OrderContext, error) {
	workflowID := workflows.OrderWorkflowID(orderID)
	val, err := s.client.QueryWorkflow(ctx, workflowID, "", workflows.OrderStatusQuery)
	if err == nil {
		var order workflows.OrderContext
		if err := val.Get(&order); err != nil {
			return nil, fmt.Errorf("decode order %s: %w", orderID, err)
		}
		return &order, nil
	}

	var notFound *serviceerror.NotFound
	if !errors.As(err, &notFound) {
		return nil, fmt.Errorf("query order %s: %w", orderID, err)
	}

	row, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &workflows.OrderContext{
		ID:         row.ID,
		CustomerID: row.CustomerID,
		ReceivedAt: row.ReceivedAt,
		Status:     row.Status,
		UpdatedAt:  row.UpdatedAt,
		WorkflowID: workflowID,
	}, nil
}

func (s *Service) SignalCustomerAction(ctx context.Context, orderID, action string) error {
	parsed, ok := workflows.ParseCustomerAction(action)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	err := s.client.SignalWorkflow(ctx, workflows.OrderWorkflowID(orderID), "", workflows.CustomerActionSignal, string(parsed))
	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("signal order %s: %w", orderID, err)
	}

	slog.InfoContext(ctx, "customer action sent",
		slog.String("order_id", orderID),
		slog.String("action", string(parsed)),
	)
	return nil
}

func (s *Service) QueryShipmentStatus(ctx context.Context, shipmentID string) (*workflows.ShipmentView, error) {
	val, err := s.client.QueryWorkflow(ctx, workflows.ShipmentWorkflowID(shipmentID), "", workflows.ShipmentStatusQuery)
	if err == nil {
		var view workflows.ShipmentView
		if err := val.Get(&view); err != nil {
			return nil, fmt.Errorf("decode shipment %s: %w", shipmentID, err)
		}
		return &view, nil
	}

	var notFound *serviceerror.NotFound
	if !errors.As(err, &notFound) {
		return nil, fmt.Errorf("query shipment %s: %w", shipmentID, err)
	}

	row, err := s.shipments.Get(ctx, shipmentID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrShipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &workflows.ShipmentView{
		ID:        row.ID,
		Status:    row.Status,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (s *Service) SignalCarrierUpdate(ctx context.Context, shipmentID, status string) error {
	parsed, ok := models.ParseShipmentStatus(status)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	err := s.client.SignalWorkflow(ctx, workflows.ShipmentWorkflowID(shipmentID), "",
		workflows.ShipmentCarrierUpdateSignal, workflows.CarrierUpdate{Status: parsed})
	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		return ErrShipmentNotFound
	}
	if err != nil {
		return fmt.Errorf("signal shipment %s: %w", shipmentID, err)
	}

	slog.InfoContext(ctx, "carrier update sent",
		slog.String("shipment_id", shipmentID),
		slog.String("status", string(parsed)),
	)
	return nil
}

func (s *Service) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx)
}

func (s *Service) ListShipments(ctx context.Context) ([]models.Shipment, error) {
	return s.shipments.List(ctx)
}
