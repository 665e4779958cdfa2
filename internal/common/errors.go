package common

import (
	"errors"
	"fmt"
)

// Error codes returned by the allocation core. Handlers map these onto HTTP
// statuses; services branch on them instead of matching error strings.
const (
	CodeInvalidSKU                 = "INVALID_SKU"
	CodeIncompatibleWash           = "INCOMPATIBLE_WASH"
	CodeUniversalSKUError          = "UNIVERSAL_SKU_ERROR"
	CodeInvalidQuantity            = "INVALID_QUANTITY"
	CodeOrderNotFound              = "ORDER_NOT_FOUND"
	CodeNoInventoryAvailable       = "NO_INVENTORY_AVAILABLE"
	CodeRequestNotFound            = "REQUEST_NOT_FOUND"
	CodeProductionRequestNotFound  = "PRODUCTION_REQUEST_NOT_FOUND"
	CodeRequestBlocked             = "REQUEST_BLOCKED"
	CodeInvalidStateTransition     = "INVALID_STATE_TRANSITION"
)

// DomainError is a coded, recoverable error. None of these should ever
// terminate the process; they are surfaced synchronously to the caller.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a coded error with a formatted message.
func NewDomainError(code, format string, args ...interface{}) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapDomainError attaches an underlying cause to a coded error.
func WrapDomainError(code string, err error, format string, args ...interface{}) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf extracts the domain error code from err, or "" if err carries none.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err is a domain error with the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
