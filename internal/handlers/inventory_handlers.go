package handlers

import (
	"net/http"

	"denimops/internal/common"
	"denimops/internal/models"
	"denimops/internal/services"

	"github.com/labstack/echo/v4"
)

// InventoryHandlers handles inventory-related HTTP requests
type InventoryHandlers struct {
	inventoryService  services.InventoryService
	commitmentService services.CommitmentService
}

func NewInventoryHandlers(inventoryService services.InventoryService,
	commitmentService services.CommitmentService) *InventoryHandlers {
	return &InventoryHandlers{
		inventoryService:  inventoryService,
		commitmentService: commitmentService,
	}
}

// CreateStockItemRequest represents the stock entry payload
type CreateStockItemRequest struct {
	SKU      string `json:"sku"`
	Location string `json:"location"`
}

// CreateStockItem registers a finished garment as free stock.
func (h *InventoryHandlers) CreateStockItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateStockItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	item, err := h.inventoryService.CreateStockItem(ctx, req.SKU, req.Location)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandlers) GetItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "item id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.inventoryService.GetItem(ctx, id)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// GetItemHistory returns the audit trail of one item.
func (h *InventoryHandlers) GetItemHistory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "item id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	events, err := h.inventoryService.GetItemHistory(ctx, id)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// SearchItems performs filtered inventory queries for the dashboard.
func (h *InventoryHandlers) SearchItems(c echo.Context) error {
	ctx := c.Request().Context()

	var filter models.ItemSearchFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	items, err := h.inventoryService.Search(ctx, &filter)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// MoveLocationRequest represents a physical move
type MoveLocationRequest struct {
	Location string `json:"location"`
}

func (h *InventoryHandlers) MoveLocation(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "item id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req MoveLocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Location == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Location is required")
	}

	item, err := h.inventoryService.MoveLocation(ctx, id, req.Location)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// GetCommitments returns the committed/uncommitted ledger for a SKU.
func (h *InventoryHandlers) GetCommitments(c echo.Context) error {
	ctx := c.Request().Context()

	sku := c.Param("sku")
	if sku == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "SKU is required")
	}

	commitment, err := h.commitmentService.GetCommitments(ctx, sku)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, commitment)
}
