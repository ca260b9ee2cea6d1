// Package app holds the process bootstrap shared by the worker binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/worker"
	"gorm.io/gorm"

	"github.com/base-14/examples/go/go-temporal-oms/config"
	"github.com/base-14/examples/go/go-temporal-oms/internal/activities"
	"github.com/base-14/examples/go/go-temporal-oms/internal/database"
	"github.com/base-14/examples/go/go-temporal-oms/pkg/simulation"
	"github.com/base-14/examples/go/go-temporal-oms/pkg/telemetry"
	pkgtemporal "github.com/base-14/examples/go/go-temporal-oms/pkg/temporal"
)

type WorkerOptions struct {
	ServiceName  string
	TaskQueue    string
	UsesDatabase bool
	Register     func(w worker.Worker, a *activities.Activities)
}

// RunWorker wires telemetry, the database, the Temporal client and one
// worker polling opts.TaskQueue, then blocks until SIGINT or SIGTERM.
func RunWorker(opts WorkerOptions) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    opts.ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTelEndpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Error("failed to shutdown telemetry", slog.String("error", err.Error()))
		}
	}()

	a := &activities.Activities{
		PaymentFaults: simulation.LoadConfig("PAYMENT"),
		CarrierFaults: simulation.LoadConfig("CARRIER"),
	}

	if opts.UsesDatabase {
		db, err := database.New(database.Config{
			DatabaseURL: cfg.DatabaseURL,
			Debug:       cfg.IsDevelopment(),
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			if err := database.Close(db); err != nil {
				slog.Error("failed to close database", slog.String("error", err.Error()))
			}
		}()
		wireStores(a, db, cfg.InventoryBackend)
	}

	temporalClient, err := pkgtemporal.NewClient(pkgtemporal.ClientConfig{
		HostPort:  cfg.TemporalHost,
		Namespace: cfg.TemporalNamespace,
		Logger:    telemetry.Logger(),
	})
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w, err := pkgtemporal.NewWorker(temporalClient, pkgtemporal.WorkerConfig{
		TaskQueue: opts.TaskQueue,
	})
	if err != nil {
		return fmt.Errorf("failed to create Temporal worker: %w", err)
	}

	opts.Register(w, a)

	slog.Info("starting worker",
		slog.String("service", opts.ServiceName),
		slog.String("temporal_host", cfg.TemporalHost),
		slog.String("task_queue", opts.TaskQueue),
		slog.String("environment", cfg.Environment),
	)

	return pkgtemporal.RunUntilSignal(w, opts.TaskQueue)
}

func wireStores(a *activities.Activities, db *gorm.DB, inventoryBackend string) {
	a.Orders = database.NewOrderRepository(db)
	a.Shipments = database.NewShipmentRepository(db)
	if inventoryBackend == "memory" {
		a.Inventory = activities.NewPrefixInventory()
		return
	}
	a.Inventory = database.NewInventoryRepository(db)
}
