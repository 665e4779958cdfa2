package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InventoryEventType discriminates the closed set of event payloads.
type InventoryEventType string

const (
	EventItemCommitted     InventoryEventType = "ITEM_COMMITTED"
	EventStageTransition   InventoryEventType = "STAGE_TRANSITION"
	EventLocationMoved     InventoryEventType = "LOCATION_MOVED"
	EventProductionCreated InventoryEventType = "PRODUCTION_CREATED"
)

// EventPayload is implemented only by the payload structs below, so every
// event carries a fully typed payload instead of a free-form bag.
type EventPayload interface {
	EventType() InventoryEventType
}

type ItemCommittedPayload struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderItemID uuid.UUID `json:"order_item_id"`
	SKU         string    `json:"sku"`
	MatchType   string    `json:"match_type"`
}

func (ItemCommittedPayload) EventType() InventoryEventType { return EventItemCommitted }

type StageTransitionPayload struct {
	RequestID   uuid.UUID   `json:"request_id"`
	RequestType RequestType `json:"request_type"`
	FromStage   string      `json:"from_stage"`
	ToStage     string      `json:"to_stage"`
	NewStatus1  string      `json:"new_status1"`
}

func (StageTransitionPayload) EventType() InventoryEventType { return EventStageTransition }

type LocationMovedPayload struct {
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
}

func (LocationMovedPayload) EventType() InventoryEventType { return EventLocationMoved }

type ProductionCreatedPayload struct {
	BatchID  uuid.UUID `json:"batch_id"`
	SKU      string    `json:"sku"`
	Quantity int       `json:"quantity"`
}

func (ProductionCreatedPayload) EventType() InventoryEventType { return EventProductionCreated }

// InventoryEvent is an audit record of a state change on one item.
type InventoryEvent struct {
	ID        uuid.UUID          `json:"id" db:"id"`
	ItemID    uuid.UUID          `json:"item_id" db:"item_id"`
	Type      InventoryEventType `json:"event_type" db:"event_type"`
	Payload   json.RawMessage    `json:"payload" db:"payload"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}

// NewInventoryEvent builds an event from a typed payload.
func NewInventoryEvent(itemID uuid.UUID, payload EventPayload) (*InventoryEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", payload.EventType(), err)
	}
	return &InventoryEvent{
		ID:      uuid.New(),
		ItemID:  itemID,
		Type:    payload.EventType(),
		Payload: raw,
	}, nil
}
