package handlers

import (
	"net/http"
	"time"

	"denimops/internal/common"
	"denimops/internal/services"

	"github.com/labstack/echo/v4"
)

const photoURLExpiry = 15 * time.Minute

// RequestHandlers exposes the production pipeline: request lookup, step
// completion, and QC photos.
type RequestHandlers struct {
	pipelineService services.PipelineService
	photoService    services.GarmentPhotoService
}

func NewRequestHandlers(pipelineService services.PipelineService,
	photoService services.GarmentPhotoService) *RequestHandlers {
	return &RequestHandlers{
		pipelineService: pipelineService,
		photoService:    photoService,
	}
}

func (h *RequestHandlers) GetRequest(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "request id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req, err := h.pipelineService.GetRequest(ctx, id)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, req)
}

// ListItemRequests returns every pipeline request ever raised for one item.
func (h *RequestHandlers) ListItemRequests(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := common.ValidateUUID(c.Param("item_id"), "item id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	requests, err := h.pipelineService.ListRequestsForItem(ctx, itemID)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

// CompleteStep marks one step of a request done; completing the last step
// advances the item to its next stage.
func (h *RequestHandlers) CompleteStep(c echo.Context) error {
	ctx := c.Request().Context()

	requestID, err := common.ValidateUUID(c.Param("id"), "request id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	stepID, err := common.ValidateUUID(c.Param("step_id"), "step id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req, err := h.pipelineService.CompleteStep(ctx, requestID, stepID)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, req)
}

// UploadPhoto stores a QC photo for an item.
func (h *RequestHandlers) UploadPhoto(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := common.ValidateUUID(c.Param("item_id"), "item id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Photo file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot read uploaded photo")
	}
	defer src.Close()

	objectName, err := h.photoService.UploadPhoto(ctx, itemID, src, file.Size,
		file.Header.Get("Content-Type"))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]string{
		"object_name": objectName,
	})
}

// ListPhotos returns presigned URLs for an item's QC photos.
func (h *RequestHandlers) ListPhotos(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := common.ValidateUUID(c.Param("item_id"), "item id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	names, err := h.photoService.ListPhotos(ctx, itemID)
	if err != nil {
		return domainHTTPError(err)
	}

	urls := make([]string, 0, len(names))
	for _, name := range names {
		url, err := h.photoService.GetPhotoURL(ctx, name, photoURLExpiry)
		if err != nil {
			return domainHTTPError(err)
		}
		urls = append(urls, url)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"photos": urls,
	})
}
