package models

import (
	"time"

	"github.com/google/uuid"
)

// Order and order-item fulfillment statuses. An order's status is derived
// from its items: all COMMITTED makes the order COMMITTED, any mix makes it
// PARTIALLY_COMMITTED, otherwise it stays PENDING or PENDING_PRODUCTION.
const (
	OrderStatusPending            = "PENDING"
	OrderStatusCommitted          = "COMMITTED"
	OrderStatusPartiallyCommitted = "PARTIALLY_COMMITTED"
	OrderStatusPendingProduction  = "PENDING_PRODUCTION"
)

type Order struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	CustomerName string       `json:"customer_name" db:"customer_name"`
	Status       string       `json:"status" db:"status"`
	Notes        *string      `json:"notes,omitempty" db:"notes"`
	Items        []*OrderItem `json:"items,omitempty" db:"-"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// AggregateOrderStatus derives the order-level status from its items.
func AggregateOrderStatus(items []*OrderItem) string {
	if len(items) == 0 {
		return OrderStatusPending
	}

	committed := 0
	partial := 0
	pendingProduction := 0
	for _, item := range items {
		switch item.Status {
		case OrderStatusCommitted:
			committed++
		case OrderStatusPartiallyCommitted:
			partial++
		case OrderStatusPendingProduction:
			pendingProduction++
		}
	}

	switch {
	case committed == len(items):
		return OrderStatusCommitted
	case partial > 0 || (committed > 0 && committed < len(items)):
		return OrderStatusPartiallyCommitted
	case pendingProduction == len(items):
		return OrderStatusPendingProduction
	default:
		return OrderStatusPending
	}
}
