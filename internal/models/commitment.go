package models

import "time"

// Commitment is the per-SKU ledger row: how many physical units are bound
// to orders versus still free. Both quantities are invariantly non-negative.
type Commitment struct {
	SKU         string    `json:"sku" db:"sku"`
	Committed   int       `json:"committed_quantity" db:"committed_quantity"`
	Uncommitted int       `json:"uncommitted_quantity" db:"uncommitted_quantity"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
