package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestType identifies the unit of work that moves an item through one
// stage of the pipeline.
type RequestType string

const (
	RequestTypePattern   RequestType = "PATTERN_REQUEST"
	RequestTypeCutting   RequestType = "CUTTING_REQUEST"
	RequestTypeSewing    RequestType = "SEWING_REQUEST"
	RequestTypeWash      RequestType = "WASH_REQUEST"
	RequestTypeQC        RequestType = "QC_REQUEST"
	RequestTypeFinishing RequestType = "FINISHING_REQUEST"
)

const (
	RequestStatusPending    = "PENDING"
	RequestStatusInProgress = "IN_PROGRESS"
	RequestStatusCompleted  = "COMPLETED"
	RequestStatusCancelled  = "CANCELLED"
)

const (
	StepStatusPending   = "PENDING"
	StepStatusCompleted = "COMPLETED"
)

// ProductionRequest is a typed unit of work with ordered steps. It is
// COMPLETED only when every step is; completing the last step drives the
// item's stage transition and may spawn the next request in the chain,
// linked back through PreviousRequestID for audit.
type ProductionRequest struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	ItemID            uuid.UUID      `json:"item_id" db:"item_id"`
	Type              RequestType    `json:"request_type" db:"request_type"`
	Status            string         `json:"status" db:"status"`
	Priority          int            `json:"priority" db:"priority"`
	PreviousRequestID *uuid.UUID     `json:"previous_request_id,omitempty" db:"previous_request_id"`
	Steps             []*RequestStep `json:"steps,omitempty" db:"-"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
}

type RequestStep struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	RequestID   uuid.UUID  `json:"request_id" db:"request_id"`
	Sequence    int        `json:"sequence" db:"sequence"`
	Name        string     `json:"name" db:"name"`
	Status      string     `json:"status" db:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}
