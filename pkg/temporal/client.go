package temporal

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/log"
)

type ClientConfig struct {
	HostPort  string
	Namespace string
	Logger    *slog.Logger
}

// NewClient dials Temporal with OTel tracing, SDK metrics exported through
// the global meter provider and SDK logs routed to slog.
func NewClient(cfg ClientConfig) (client.Client, error) {
	return client.Dial(clientOptions(cfg))
}

func clientOptions(cfg ClientConfig) client.Options {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
		Logger:    log.NewStructuredLogger(logger),
		MetricsHandler: opentelemetry.NewMetricsHandler(opentelemetry.MetricsHandlerOptions{
			Meter: otel.Meter("temporal-sdk"),
		}),
	}

	if tracingInterceptor, err := opentelemetry.NewTracingInterceptor(opentelemetry.TracerOptions{
		Tracer: otel.Tracer("temporal-client"),
	}); err == nil {
		opts.Interceptors = []interceptor.ClientInterceptor{tracingInterceptor}
	} else {
		logger.Warn("temporal tracing disabled", slog.String("error", err.Error()))
	}

	if opts.Namespace == "" {
		opts.Namespace = "default"
	}

	return opts
}
