package models

import "time"

// SchedulerStatus is the snapshot of the most recent tick.
type SchedulerStatus struct {
	ID         int       `json:"id"`
	Mode       string    `json:"mode"` // last reported/applied mode, "" if never read
	LightTime  string    `json:"light_time"`
	DarkTime   string    `json:"dark_time"`
	Automatic  bool      `json:"automatic"`
	LastAction Action    `json:"last_action"`
	ErrorCode  int       `json:"error_code,omitempty"`
	TickCount  int64     `json:"tick_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}
