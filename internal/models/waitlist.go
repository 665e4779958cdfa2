package models

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry records unmet demand for a SKU. Entries for the same raw
// SKU form a FIFO queue ordered by creation time; Position is 1-based and
// renumbered without gaps when an entry is removed.
type WaitlistEntry struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	OrderItemID uuid.UUID `json:"order_item_id" db:"order_item_id"`
	SKU         string    `json:"sku" db:"sku"`
	RawSKU      string    `json:"raw_sku" db:"raw_sku"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
