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
		ServiceName: "billing-worker",
		TaskQueue:   workflows.BillingTaskQueue,
		Register: func(w worker.Worker, a *activities.Activities) {
			w.RegisterWorkflow(workflows.Charge)

			w.RegisterActivity(activities.GenerateInvoice)
			w.RegisterActivity(a.ChargeCustomer)
		},
	})
	if err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
