package models

import "time"

// Domain notification types pushed to the sink.
const (
	NotifyItemCommitted       = "item_committed"
	NotifyProductionRequested = "production_requested"
	NotifyProductionAccepted  = "production_accepted"
	NotifyStageAdvanced       = "stage_advanced"
	NotifyItemCompleted       = "item_completed"
	NotifyRequestStale        = "request_stale"
)

// Notification is a fire-and-forget domain event record.
type Notification struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
