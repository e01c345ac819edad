package models

import "time"

// Action is the outcome of a single scheduler tick.
type Action string

const (
	ActionNone        Action = "none"
	ActionSwitchLight Action = "switched-to-Light"
	ActionSwitchDark  Action = "switched-to-Dark"
	ActionParseError  Action = "parse-error"
	ActionClockError  Action = "clock-error"
	ActionReadError   Action = "read-error"
	ActionWriteError  Action = "write-error"
	ActionPanicked    Action = "panic"
)

// SwitchedTo returns the action recorded after a successful switch to m.
func SwitchedTo(m AppearanceMode) Action {
	return Action("switched-to-" + m.String())
}

// Failed reports whether the tick ended early on an error.
func (a Action) Failed() bool {
	switch a {
	case ActionParseError, ActionClockError, ActionReadError, ActionWriteError, ActionPanicked:
		return true
	}
	return false
}

// Switched reports whether the tick applied a new mode.
func (a Action) Switched() bool {
	return a == ActionSwitchLight || a == ActionSwitchDark
}

// TickReport summarizes one tick. Fields after the failing step are zero.
type TickReport struct {
	At        time.Time       `json:"at"`
	Now       TimeOfDay       `json:"now"`
	Config    SchedulerConfig `json:"config"`
	Reported  AppearanceMode  `json:"reported"`
	Intended  AppearanceMode  `json:"intended"`
	HasMode   bool            `json:"has_mode"` // Reported is valid
	Action    Action          `json:"action"`
	ErrorCode int             `json:"error_code,omitempty"`
	Err       error           `json:"-"`
}

// Fail marks the tick as ended early by err.
func (r *TickReport) Fail(a Action, code int, err error) {
	r.Action = a
	r.ErrorCode = code
	r.Err = err
}
