package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.temporal.io/sdk/client"

	"github.com/base-14/examples/go/go-temporal-oms/config"
	"github.com/base-14/examples/go/go-temporal-oms/internal/database"
	"github.com/base-14/examples/go/go-temporal-oms/internal/handlers"
	"github.com/base-14/examples/go/go-temporal-oms/internal/oms"
	"github.com/base-14/examples/go/go-temporal-oms/pkg/telemetry"
	pkgtemporal "github.com/base-14/examples/go/go-temporal-oms/pkg/temporal"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.OTelServiceName,
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

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	if err := database.Seed(db); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
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

	service := oms.NewService(temporalClient,
		database.NewOrderRepository(db),
		database.NewShipmentRepository(db),
		oms.Config{
			CustomerActionTimeout: cfg.CustomerActionTimeout,
			FulfillmentTimeout:    cfg.FulfillmentTimeout,
		},
	)

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(otelecho.Middleware(cfg.OTelServiceName, otelecho.WithSkipper(func(c echo.Context) bool {
		return c.Path() == "/api/health"
	})))
	e.HTTPErrorHandler = handlers.ErrorHandler

	if cfg.IsDevelopment() {
		e.Use(echomiddleware.Logger())
	}

	handlers.Register(e, handlers.Handlers{
		Health: handlers.NewHealthHandler(
			func(ctx context.Context) error { return database.Ping(ctx, db) },
			func(ctx context.Context) error {
				_, err := temporalClient.CheckHealth(ctx, &client.CheckHealthRequest{})
				return err
			},
		),
		Orders:    handlers.NewOrderHandler(service),
		Shipments: handlers.NewShipmentHandler(service),
		Products:  handlers.NewProductHandler(database.NewInventoryRepository(db)),
	})

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", slog.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return e.Shutdown(shutdownCtx)
}
