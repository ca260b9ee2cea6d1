package temporal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"
)

type WorkerConfig struct {
	TaskQueue string
}

func NewWorker(c client.Client, cfg WorkerConfig) (worker.Worker, error) {
	if cfg.TaskQueue == "" {
		return nil, fmt.Errorf("task queue is required")
	}

	tracingInterceptor, err := opentelemetry.NewTracingInterceptor(opentelemetry.TracerOptions{
		Tracer: otel.Tracer("temporal-worker"),
	})
	if err != nil {
		return nil, err
	}

	opts := worker.Options{
		Interceptors: []interceptor.WorkerInterceptor{
			tracingInterceptor,
		},
	}

	return worker.New(c, cfg.TaskQueue, opts), nil
}

// RunUntilSignal starts w and blocks until the worker fails or the process
// receives SIGINT or SIGTERM.
func RunUntilSignal(w worker.Worker, taskQueue string) error {
	workerErr := make(chan error, 1)
	go func() {
		if err := w.Run(nil); err != nil {
			workerErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	slog.Info("worker is running, waiting for tasks...", slog.String("task_queue", taskQueue))

	select {
	case err := <-workerErr:
		return fmt.Errorf("worker error: %w", err)
	case <-sigCh:
	}

	slog.Info("shutting down worker", slog.String("task_queue", taskQueue))
	w.Stop()
	return nil
}
