package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

func cryptoRandIntn(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}

func cryptoRandFloat64() float64 {
	max := big.NewInt(1 << 53)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 0.5
	}
	return float64(n.Int64()) / float64(1<<53)
}

type OrderRequest struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customer_id"`
	Items      []OrderItem `json:"items"`
}

type OrderItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type orderResponse struct {
	Order struct {
		ID           string `json:"id"`
		Status       string `json:"status"`
		Fulfillments []struct {
			ID       string `json:"id"`
			Shipment *struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"shipment"`
		} `json:"fulfillments"`
	} `json:"order"`
}

type product struct {
	SKU    string
	Weight float64 // higher weight = more frequent
}

var (
	// Adidas SKUs are seeded out of stock and force a customer decision.
	products = []product{
		{"Nike-1", 30},
		{"Nike-2", 25},
		{"Puma-1", 20},
		{"Adidas-1", 4},
		{"Adidas-2", 1},
	}

	carrierProgress = []string{"dispatched", "delivered"}

	totalWeight float64
)

func init() {
	for _, p := range products {
		totalWeight += p.Weight
	}
}

type driver struct {
	client     *http.Client
	baseURL    string
	cancelRate float64
	pollEvery  time.Duration
	maxPolls   int
}

func main() {
	defaultURL := os.Getenv("API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080/api"
	}

	var (
		apiURL     = flag.String("url", defaultURL, "API base URL")
		count      = flag.Int("count", 0, "Number of orders to generate (0 = unlimited)")
		rps        = flag.Float64("rps", 1, "Requests per second")
		duration   = flag.Duration("duration", 0, "Duration to run (0 = until count reached or forever)")
		workers    = flag.Int("workers", 5, "Number of concurrent workers")
		cancelRate = flag.Float64("cancel-rate", 0.3, "Share of blocked orders the customer cancels instead of amending")
		pollEvery  = flag.Duration("poll", 2*time.Second, "Interval between order status polls")
		maxPolls   = flag.Int("max-polls", 30, "Polls per order before giving up on driving it")
	)
	flag.Parse()

	if *count == 0 && *duration == 0 {
		slog.Error("must specify either --count or --duration")
		os.Exit(1)
	}

	slog.Info("starting load generator",
		slog.String("url", *apiURL),
		slog.Int("count", *count),
		slog.Float64("rps", *rps),
		slog.Duration("duration", *duration),
		slog.Int("workers", *workers),
	)

	var (
		successCount int64
		failureCount int64
		totalCount   int64
		startTime    = time.Now()
		stopCh       = make(chan struct{})
		orderCh      = make(chan OrderRequest, *workers*2)
		wg           sync.WaitGroup
	)

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			d := &driver{
				client:     &http.Client{Timeout: 30 * time.Second},
				baseURL:    strings.TrimSuffix(*apiURL, "/"),
				cancelRate: *cancelRate,
				pollEvery:  *pollEvery,
				maxPolls:   *maxPolls,
			}

			for order := range orderCh {
				status, err := d.drive(context.Background(), order)
				if err != nil {
					atomic.AddInt64(&failureCount, 1)
					slog.Error("order failed",
						slog.Int("worker", workerID),
						slog.String("order_id", order.ID),
						slog.String("error", err.Error()),
					)
					continue
				}
				atomic.AddInt64(&successCount, 1)
				slog.Debug("order driven",
					slog.Int("worker", workerID),
					slog.String("order_id", order.ID),
					slog.String("status", status),
				)
			}
		}(i)
	}

	if *duration > 0 {
		go func() {
			time.Sleep(*duration)
			close(stopCh)
		}()
	}

	interval := time.Duration(float64(time.Second) / *rps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-stopCh:
			break loop
		case <-ticker.C:
			if *count > 0 && atomic.LoadInt64(&totalCount) >= int64(*count) {
				break loop
			}
			atomic.AddInt64(&totalCount, 1)
			orderCh <- generateOrder(atomic.LoadInt64(&totalCount))
		}
	}

	close(orderCh)
	wg.Wait()

	elapsed := time.Since(startTime)
	success := atomic.LoadInt64(&successCount)
	failure := atomic.LoadInt64(&failureCount)
	total := success + failure

	var successRate float64
	if total > 0 {
		successRate = float64(success) / float64(total) * 100
	}

	slog.Info("load generation complete",
		slog.Int64("total", total),
		slog.Int64("success", success),
		slog.Int64("failure", failure),
		slog.Float64("success_rate", successRate),
		slog.Duration("elapsed", elapsed),
		slog.Float64("actual_rps", float64(total)/elapsed.Seconds()),
	)
}

func generateOrder(seq int64) OrderRequest {
	numItems := 1 + cryptoRandIntn(3)
	items := make([]OrderItem, numItems)
	for i := 0; i < numItems; i++ {
		items[i] = OrderItem{
			SKU:      selectWeightedProduct().SKU,
			Quantity: 1 + cryptoRandIntn(2),
		}
	}

	return OrderRequest{
		ID:         fmt.Sprintf("LG-%d-%s", seq, uuid.NewString()[:8]),
		CustomerID: fmt.Sprintf("cust-%d", cryptoRandIntn(1000)),
		Items:      items,
	}
}

func selectWeightedProduct() product {
	r := cryptoRandFloat64() * totalWeight
	cumulative := 0.0
	for _, p := range products {
		cumulative += p.Weight
		if r <= cumulative {
			return p
		}
	}
	return products[0]
}

// drive submits the order and then plays the customer and the carrier until
// the order reaches a terminal status or maxPolls is exhausted.
func (d *driver) drive(ctx context.Context, order OrderRequest) (string, error) {
	if err := d.post(ctx, "/orders", order, nil); err != nil {
		return "", err
	}

	acted := false
	advanced := map[string]int{}
	for i := 0; i < d.maxPolls; i++ {
		time.Sleep(d.pollEvery)

		var resp orderResponse
		if err := d.get(ctx, "/orders/"+order.ID, &resp); err != nil {
			return "", err
		}

		switch resp.Order.Status {
		case "completed", "failed", "cancelled", "timedOut":
			return resp.Order.Status, nil
		case "customerActionRequired":
			if !acted {
				action := "amend"
				if cryptoRandFloat64() < d.cancelRate {
					action = "cancel"
				}
				if err := d.post(ctx, "/orders/"+order.ID+"/action", map[string]string{"action": action}, nil); err != nil {
					return "", err
				}
				acted = true
			}
		case "processing":
			for _, f := range resp.Order.Fulfillments {
				if f.Shipment == nil || f.Shipment.Status == "delivered" || f.Shipment.Status == "cancelled" {
					continue
				}
				step := advanced[f.Shipment.ID]
				if step >= len(carrierProgress) {
					continue
				}
				body := map[string]string{"status": carrierProgress[step]}
				if err := d.post(ctx, "/shipments/"+f.Shipment.ID+"/status", body, nil); err != nil {
					slog.Warn("carrier update rejected",
						slog.String("shipment_id", f.Shipment.ID),
						slog.String("error", err.Error()),
					)
					continue
				}
				advanced[f.Shipment.ID] = step + 1
			}
		}
	}

	return "", fmt.Errorf("order %s still running after %d polls", order.ID, d.maxPolls)
}

func (d *driver) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request creation error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return d.do(req, out)
}

func (d *driver) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("request creation error: %w", err)
	}
	return d.do(req, out)
}

func (d *driver) do(req *http.Request, out any) error {
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("API error: %s %s status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
