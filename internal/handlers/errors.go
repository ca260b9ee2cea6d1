package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/base-14/examples/go/go-temporal-oms/internal/oms"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler renders every handler error as JSON and records it on the
// request span.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	ctx := c.Request().Context()
	span := trace.SpanFromContext(ctx)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	code, message := statusFor(err)
	span.SetAttributes(attribute.Int("http.response.status_code", code))

	var traceID string
	if span.SpanContext().HasTraceID() {
		traceID = span.SpanContext().TraceID().String()
	}

	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(ctx, level, "request error",
		slog.String("error", err.Error()),
		slog.Int("status", code),
		slog.String("path", c.Path()),
	)

	if err := c.JSON(code, ErrorResponse{Error: message, TraceID: traceID}); err != nil {
		slog.ErrorContext(ctx, "failed to write error response", slog.String("error", err.Error()))
	}
}

func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			return he.Code, m
		}
		return he.Code, http.StatusText(he.Code)
	}

	switch {
	case errors.Is(err, oms.ErrOrderNotFound), errors.Is(err, oms.ErrShipmentNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, oms.ErrInvalidOrder), errors.Is(err, oms.ErrInvalidAction), errors.Is(err, oms.ErrInvalidStatus):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}
