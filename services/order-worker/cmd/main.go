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
		ServiceName:  "order-worker",
		TaskQueue:    workflows.OrderTaskQueue,
		UsesDatabase: true,
		Register: func(w worker.Worker, a *activities.Activities) {
			w.RegisterWorkflow(workflows.Order)
			w.RegisterWorkflow(workflows.Fulfill)

			w.RegisterActivity(a.ReserveItems)
			w.RegisterActivity(a.PersistOrderStatus)
			w.RegisterActivity(activities.RecordOrderMetrics)
			w.RegisterActivity(activities.NotifyCustomer)
		},
	})
	if err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
