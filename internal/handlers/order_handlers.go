package handlers

import (
	"net/http"

	"denimops/internal/common"
	"denimops/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles order-related HTTP requests
type OrderHandlers struct {
	orderService services.OrderService
	allocService services.AllocationService
}

func NewOrderHandlers(orderService services.OrderService, allocService services.AllocationService) *OrderHandlers {
	return &OrderHandlers{
		orderService: orderService,
		allocService: allocService,
	}
}

// PlaceOrder creates an order and allocates inventory to it in one call.
func (h *OrderHandlers) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var input services.OrderInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	order, err := h.orderService.PlaceOrder(ctx, input)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder returns one order with its items.
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orderService.GetOrder(ctx, id)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListOrdersRequest represents query parameters for listing orders
type ListOrdersRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *OrderHandlers) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListOrdersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	orders, err := h.orderService.ListOrders(ctx, req.Limit, req.Offset)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}

// Allocate re-runs allocation for an existing order, picking up inventory
// that has become available since it was placed.
func (h *OrderHandlers) Allocate(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.allocService.ProcessOrder(ctx, id)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, order)
}
