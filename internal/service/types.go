package service

import "time"

// EventFilter supports history filtering by time range and type.
type EventFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "MODE_CHANGE", "ERROR"
}
