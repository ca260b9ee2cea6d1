package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/base-14/examples/go/go-temporal-oms/internal/database"
	"github.com/base-14/examples/go/go-temporal-oms/internal/handlers"
	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
	"github.com/base-14/examples/go/go-temporal-oms/internal/oms"
	"github.com/base-14/examples/go/go-temporal-oms/internal/workflows"
)

type fakeOrderService struct {
	started []oms.StartOrderRequest
	actions map[string]string
	orders  map[string]*workflows.OrderContext
}

func newFakeOrderService() *fakeOrderService {
	return &fakeOrderService{actions: map[string]string{}, orders: map[string]*workflows.OrderContext{}}
}

func (f *fakeOrderService) StartOrder(_ context.Context, req oms.StartOrderRequest) (*workflows.OrderContext, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("%w: id is required", oms.ErrInvalidOrder)
	}
	f.started = append(f.started, req)
	order := &workflows.OrderContext{
		ID:         req.ID,
		CustomerID: req.CustomerID,
		Items:      req.Items,
		Status:     models.OrderStatusPending,
		WorkflowID: workflows.OrderWorkflowID(req.ID),
	}
	f.orders[req.ID] = order
	return order, nil
}

func (f *fakeOrderService) QueryOrderStatus(_ context.Context, orderID string) (*workflows.OrderContext, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, oms.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderService) SignalCustomerAction(_ context.Context, orderID, action string) error {
	if _, ok := workflows.ParseCustomerAction(action); !ok {
		return oms.ErrInvalidAction
	}
	if _, ok := f.orders[orderID]; !ok {
		return oms.ErrOrderNotFound
	}
	f.actions[orderID] = action
	return nil
}

func (f *fakeOrderService) ListOrders(context.Context) ([]models.Order, error) {
	return nil, nil
}

type fakeShipmentService struct {
	updates map[string]string
	listErr error
}

func (f *fakeShipmentService) QueryShipmentStatus(_ context.Context, shipmentID string) (*workflows.ShipmentView, error) {
	if shipmentID != "O1:1" {
		return nil, oms.ErrShipmentNotFound
	}
	return &workflows.ShipmentView{ID: shipmentID, Status: models.ShipmentStatusBooked}, nil
}

func (f *fakeShipmentService) SignalCarrierUpdate(_ context.Context, shipmentID, status string) error {
	if _, ok := models.ParseShipmentStatus(status); !ok {
		return oms.ErrInvalidStatus
	}
	f.updates[shipmentID] = status
	return nil
}

func (f *fakeShipmentService) ListShipments(context.Context) ([]models.Shipment, error) {
	return nil, f.listErr
}

type fakeProducts struct{}

func (fakeProducts) List(context.Context) ([]models.Product, error) {
	return []models.Product{{SKU: "Nike-1", Stock: 10}}, nil
}

func (fakeProducts) GetBySKU(_ context.Context, sku string) (*models.Product, error) {
	if sku != "Nike-1" {
		return nil, database.ErrNotFound
	}
	return &models.Product{SKU: sku, Stock: 10}, nil
}

type testServer struct {
	e         *echo.Echo
	orders    *fakeOrderService
	shipments *fakeShipmentService
}

func newTestServer(dbErr error) *testServer {
	s := &testServer{
		e:         echo.New(),
		orders:    newFakeOrderService(),
		shipments: &fakeShipmentService{updates: map[string]string{}},
	}
	s.e.HTTPErrorHandler = handlers.ErrorHandler
	handlers.Register(s.e, handlers.Handlers{
		Health: handlers.NewHealthHandler(
			func(context.Context) error { return dbErr },
			func(context.Context) error { return nil },
		),
		Orders:    handlers.NewOrderHandler(s.orders),
		Shipments: handlers.NewShipmentHandler(s.shipments),
		Products:  handlers.NewProductHandler(fakeProducts{}),
	})
	return s
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateOrder(t *testing.T) {
	s := newTestServer(nil)

	rec := s.do(http.MethodPost, "/api/orders",
		`{"id":"O1","customer_id":"C1","items":[{"sku":"Nike-1","quantity":2}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "order-O1", body["workflow_id"])
	require.Len(t, s.orders.started, 1)
	assert.Equal(t, "Nike-1", s.orders.started[0].Items[0].SKU)
	assert.Equal(t, 2, s.orders.started[0].Items[0].Quantity)
}

func TestCreateOrder_Invalid(t *testing.T) {
	s := newTestServer(nil)

	rec := s.do(http.MethodPost, "/api/orders", `{"customer_id":"C1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "id is required")

	rec = s.do(http.MethodPost, "/api/orders", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder(t *testing.T) {
	s := newTestServer(nil)
	s.do(http.MethodPost, "/api/orders", `{"id":"O1","customer_id":"C1","items":[{"sku":"Nike-1","quantity":1}]}`)

	rec := s.do(http.MethodGet, "/api/orders/O1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	order := decode(t, rec)["order"].(map[string]any)
	assert.Equal(t, "pending", order["status"])

	rec = s.do(http.MethodGet, "/api/orders/O404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrders_EmptyIsArray(t *testing.T) {
	s := newTestServer(nil)

	rec := s.do(http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"orders":[]}`, rec.Body.String())
}

func TestCustomerAction(t *testing.T) {
	s := newTestServer(nil)
	s.do(http.MethodPost, "/api/orders", `{"id":"O2","customer_id":"C1","items":[{"sku":"Adidas-1","quantity":1}]}`)

	rec := s.do(http.MethodPost, "/api/orders/O2/action", `{"action":"cancel"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "cancel", s.orders.actions["O2"])

	rec = s.do(http.MethodPost, "/api/orders/O2/action", `{"action":"refund"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/orders/O9/action", `{"action":"amend"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShipmentRoutes(t *testing.T) {
	s := newTestServer(nil)

	rec := s.do(http.MethodGet, "/api/shipments/O1:1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "booked", decode(t, rec)["shipment"].(map[string]any)["status"])

	rec = s.do(http.MethodGet, "/api/shipments/O1:9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/shipments/O1:1/status", `{"status":"delivered"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "delivered", s.shipments.updates["O1:1"])

	rec = s.do(http.MethodPost, "/api/shipments/O1:1/status", `{"status":"lost"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListShipments_StoreErrorIsInternal(t *testing.T) {
	s := newTestServer(nil)
	s.shipments.listErr = errors.New("connection reset")

	rec := s.do(http.MethodGet, "/api/shipments", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode(t, rec)["error"])
}

func TestProducts(t *testing.T) {
	s := newTestServer(nil)

	rec := s.do(http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/products/Nike-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/products/Reebok-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := newTestServer(nil).do(http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])

	rec = newTestServer(errors.New("db down")).do(http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unhealthy", body["database"])
	assert.Equal(t, "healthy", body["temporal"])
}
