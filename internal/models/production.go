package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PendingProductionStatusPending  = "PENDING"
	PendingProductionStatusAccepted = "ACCEPTED"
)

// PendingProductionRequest is unmet demand escalated to manufacturing. SKU
// is the universal SKU, not the order's exact target: production always
// makes the longest raw version that can later be cut and finished down.
type PendingProductionRequest struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	SKU       string     `json:"sku" db:"sku"`
	Quantity  int        `json:"quantity" db:"quantity"`
	Priority  int        `json:"priority" db:"priority"`
	OrderID   *uuid.UUID `json:"order_id,omitempty" db:"order_id"`
	Status    string     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// ProductionBatch groups the inventory items spawned by one accepted
// pending-production request.
type ProductionBatch struct {
	ID               uuid.UUID `json:"id" db:"id"`
	PendingRequestID uuid.UUID `json:"pending_request_id" db:"pending_request_id"`
	SKU              string    `json:"sku" db:"sku"`
	Quantity         int       `json:"quantity" db:"quantity"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
