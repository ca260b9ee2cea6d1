package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/base-14/examples/go/go-temporal-oms/internal/database"
	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
)

type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
}

type ProductHandler struct {
	products ProductStore
}

func NewProductHandler(products ProductStore) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.products.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch products").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
	})
}

func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.products.GetBySKU(c.Request().Context(), c.Param("sku"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch product").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"product": product,
	})
}
