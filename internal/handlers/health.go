package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

// CheckFunc reports whether one dependency is reachable.
type CheckFunc func(ctx context.Context) error

type HealthHandler struct {
	database CheckFunc
	temporal CheckFunc
}

func NewHealthHandler(database, temporal CheckFunc) *HealthHandler {
	return &HealthHandler{database: database, temporal: temporal}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Temporal string `json:"temporal"`
}

func (h *HealthHandler) Check(c echo.Context) error {
	ctx := c.Request().Context()

	dbStatus := probe(ctx, h.database)
	temporalStatus := probe(ctx, h.temporal)

	overallStatus := "healthy"
	statusCode := http.StatusOK
	if dbStatus != "healthy" || temporalStatus != "healthy" {
		overallStatus = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, HealthResponse{
		Status:   overallStatus,
		Database: dbStatus,
		Temporal: temporalStatus,
	})
}

func probe(ctx context.Context, check CheckFunc) string {
	if check == nil {
		return "unknown"
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := check(ctx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}
