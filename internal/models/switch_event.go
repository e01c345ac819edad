package models

import "time"

// Event types stored in the switch history.
const (
	EventModeChange = "MODE_CHANGE"
	EventError      = "ERROR"
)

// SwitchEvent is a single history entry.
type SwitchEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // MODE_CHANGE | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
