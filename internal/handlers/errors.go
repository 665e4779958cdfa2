package handlers

import (
	"errors"
	"log"
	"net/http"

	"denimops/internal/common"

	"github.com/labstack/echo/v4"
)

var codeStatuses = map[string]int{
	common.CodeInvalidSKU:                http.StatusBadRequest,
	common.CodeIncompatibleWash:          http.StatusBadRequest,
	common.CodeUniversalSKUError:         http.StatusBadRequest,
	common.CodeInvalidQuantity:           http.StatusBadRequest,
	common.CodeOrderNotFound:             http.StatusNotFound,
	common.CodeRequestNotFound:           http.StatusNotFound,
	common.CodeProductionRequestNotFound: http.StatusNotFound,
	common.CodeNoInventoryAvailable:      http.StatusConflict,
	common.CodeRequestBlocked:            http.StatusConflict,
	common.CodeInvalidStateTransition:    http.StatusConflict,
}

// domainHTTPError maps a service error onto an HTTP response. Coded errors
// surface their code and message; anything else is a 500 with the detail
// kept out of the response body.
func domainHTTPError(err error) error {
	var de *common.DomainError
	if errors.As(err, &de) {
		status, ok := codeStatuses[de.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return echo.NewHTTPError(status, map[string]string{
			"code":    de.Code,
			"message": de.Message,
		})
	}
	log.Printf("Internal error: %v", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
