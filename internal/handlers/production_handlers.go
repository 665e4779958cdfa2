package handlers

import (
	"net/http"

	"denimops/internal/common"
	"denimops/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductionHandlers handles the manufacturing handoff endpoints
type ProductionHandlers struct {
	productionService services.ProductionService
}

func NewProductionHandlers(productionService services.ProductionService) *ProductionHandlers {
	return &ProductionHandlers{productionService: productionService}
}

// ListPendingRequest represents query parameters for listing pending production
type ListPendingRequest struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

func (h *ProductionHandlers) ListPending(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListPendingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pending, err := h.productionService.ListPendingProduction(ctx, req.Status, limit, offset)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"pending_requests": pending,
	})
}

// Accept turns a pending production request into a batch of inventory items.
func (h *ProductionHandlers) Accept(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "pending production id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	batch, err := h.productionService.AcceptPendingProduction(ctx, id)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusCreated, batch)
}
