package handlers

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health    *HealthHandler
	Orders    *OrderHandler
	Shipments *ShipmentHandler
	Products  *ProductHandler
}

func Register(e *echo.Echo, h Handlers) {
	api := e.Group("/api")

	api.GET("/health", h.Health.Check)

	api.POST("/orders", h.Orders.Create)
	api.GET("/orders", h.Orders.List)
	api.GET("/orders/:id", h.Orders.Get)
	api.POST("/orders/:id/action", h.Orders.Action)

	api.GET("/shipments", h.Shipments.List)
	api.GET("/shipments/:id", h.Shipments.Get)
	api.POST("/shipments/:id/status", h.Shipments.UpdateStatus)

	api.GET("/products", h.Products.List)
	api.GET("/products/:sku", h.Products.Get)
}
