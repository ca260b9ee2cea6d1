package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrder(t *testing.T) {
	order := generateOrder(7)

	assert.True(t, strings.HasPrefix(order.ID, "LG-7-"))
	assert.NotEmpty(t, order.CustomerID)
	require.NotEmpty(t, order.Items)
	for _, item := range order.Items {
		assert.NotEmpty(t, item.SKU)
		assert.Positive(t, item.Quantity)
	}
}

// fakeAPI blocks the order on a customer decision, then ships it and
// completes once the carrier reports delivery.
type fakeAPI struct {
	mu      sync.Mutex
	status  string
	actions []string
	updates []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/orders":
		f.status = "customerActionRequired"
		w.WriteHeader(http.StatusCreated)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/action"):
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.actions = append(f.actions, body["action"])
		f.status = "processing"
		w.WriteHeader(http.StatusAccepted)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/status"):
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.updates = append(f.updates, body["status"])
		if body["status"] == "delivered" {
			f.status = "completed"
		}
		w.WriteHeader(http.StatusAccepted)
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{
			"order": map[string]any{
				"id":     "O1",
				"status": f.status,
				"fulfillments": []any{
					map[string]any{"id": "O1:1", "shipment": map[string]any{"id": "O1:1", "status": "booked"}},
				},
			},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestDriver_PlaysCustomerAndCarrier(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	d := &driver{
		client:     srv.Client(),
		baseURL:    srv.URL + "/api",
		cancelRate: 0,
		maxPolls:   10,
	}

	status, err := d.drive(context.Background(), OrderRequest{ID: "O1", CustomerID: "C1",
		Items: []OrderItem{{SKU: "Adidas-1", Quantity: 1}}})
	require.NoError(t, err)

	assert.Equal(t, "completed", status)
	assert.Equal(t, []string{"amend"}, api.actions)
	assert.Equal(t, []string{"dispatched", "delivered"}, api.updates)
}

func TestDriver_GivesUp(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	d := &driver{client: srv.Client(), baseURL: srv.URL + "/api", cancelRate: 1, maxPolls: 1}

	_, err := d.drive(context.Background(), OrderRequest{ID: "O1"})
	require.Error(t, err)
	assert.Equal(t, []string{"cancel"}, api.actions)
}
