package models

import (
	"time"

	"github.com/google/uuid"
)

// Manufacturing state (status1).
const (
	Status1Stock      = "STOCK"
	Status1Production = "PRODUCTION"
	Status1Wash       = "WASH"
	Status1QC         = "QC"
	Status1Finishing  = "FINISHING"
	Status1Packing    = "PACKING"
)

// Fulfillment state (status2).
const (
	Status2Uncommitted = "UNCOMMITTED"
	Status2Committed   = "COMMITTED"
	Status2Assigned    = "ASSIGNED"
)

// Pipeline stages, in physical order.
const (
	StagePattern   = "PATTERN"
	StageCutting   = "CUTTING"
	StageSewing    = "SEWING"
	StageWashing   = "WASHING"
	StageQC        = "QC"
	StageFinishing = "FINISHING"
	StagePacking   = "PACKING"
	StageComplete  = "COMPLETE"
)

// Known physical locations referenced by the pipeline's blocking rules.
const (
	LocationFactory = "FACTORY"
	LocationLaundry = "LAUNDRY"
)

// InventoryItem is one physical garment. SKU is its current configuration,
// which may differ from the order target it is committed against (a longer
// raw garment committed to a shorter finished target).
type InventoryItem struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	SKU         string     `json:"sku" db:"sku"`
	Status1     string     `json:"status1" db:"status1"`
	Status2     string     `json:"status2" db:"status2"`
	ActiveStage string     `json:"active_stage,omitempty" db:"active_stage"`
	OrderID     *uuid.UUID `json:"order_id,omitempty" db:"order_id"`
	OrderItemID *uuid.UUID `json:"order_item_id,omitempty" db:"order_item_id"`
	BatchID     *uuid.UUID `json:"batch_id,omitempty" db:"batch_id"`
	Location    string     `json:"location" db:"location"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ItemSearchFilter holds filter criteria for inventory item queries.
type ItemSearchFilter struct {
	SKU       *string    `json:"sku,omitempty"`
	Status1   *string    `json:"status1,omitempty"`
	Status2   *string    `json:"status2,omitempty"`
	Location  *string    `json:"location,omitempty"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	BatchID   *uuid.UUID `json:"batch_id,omitempty"`
	SortBy    string     `json:"sort_by,omitempty"`    // created_at, updated_at, sku
	SortOrder string     `json:"sort_order,omitempty"` // asc, desc
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}
