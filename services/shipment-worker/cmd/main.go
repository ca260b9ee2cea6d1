package main

import (
	"log/slog"
	"os"

	"go.temporal.io/sdk/worker"

	"github.com/base-14/examples/go/go-temporal-oms/internal/activities"
	"github.com/base-14/examples/go/go-temporal-oms/internal/app"
	"github.com/base-14/examples/go/go-temporal-oms/internal/workflows"
)

func main() {
	err := app.RunWorker(app.WorkerOptions{
		ServiceName:  "shipment-worker",
		TaskQueue:    workflows.ShipmentTaskQueue,
		UsesDatabase: true,
		Register: func(w worker.Worker, a *activities.Activities) {
			w.RegisterWorkflow(workflows.Ship)

			w.RegisterActivity(a.BookShipment)
			w.RegisterActivity(a.PersistShipmentStatus)
		},
	})
	if err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
