package handlers

import (
	"net/http"

	"denimops/internal/services"

	"github.com/labstack/echo/v4"
)

// WaitlistHandlers exposes the production waitlist, grouped by raw SKU.
type WaitlistHandlers struct {
	waitlistService services.WaitlistService
}

func NewWaitlistHandlers(waitlistService services.WaitlistService) *WaitlistHandlers {
	return &WaitlistHandlers{waitlistService: waitlistService}
}

func (h *WaitlistHandlers) ListByRawSKU(c echo.Context) error {
	ctx := c.Request().Context()

	rawSKU := c.Param("raw_sku")
	if rawSKU == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Raw SKU is required")
	}

	entries, err := h.waitlistService.ListByRawSKU(ctx, rawSKU)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}
