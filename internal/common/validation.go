package common

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// ValidatePaginationParams normalizes limit/offset to safe bounds.
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit < 0 {
		return 0, 0, fmt.Errorf("limit cannot be negative")
	}
	if limit == 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset, nil
}

// ValidateUUID parses a UUID path/query parameter with a field-specific error.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", fieldName)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%s cannot be the nil UUID", fieldName)
	}
	return id, nil
}
