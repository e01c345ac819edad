package platform

import (
	"fmt"
	"time"
)

// Clock returns the current local calendar time.
type Clock interface {
	Now() (time.Time, error)
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() (time.Time, error)

func (f ClockFunc) Now() (time.Time, error) { return f() }

// FixedClock always reports t. Used when driving ticks by hand.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() (time.Time, error) { return t, nil })
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	loc *time.Location
	now func() time.Time
}

// NewSystemClock resolves tz ("" or "Local" means the host zone).
func NewSystemClock(tz string) (*SystemClock, error) {
	loc := time.Local
	if tz != "" && tz != "Local" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, newError(OpClock, CodeUnavailable, fmt.Errorf("load timezone %q: %w", tz, err))
		}
		loc = l
	}
	return &SystemClock{loc: loc, now: time.Now}, nil
}

// Now returns the current time in the configured zone.
func (c *SystemClock) Now() (time.Time, error) {
	t := c.now()
	if t.IsZero() {
		return time.Time{}, newError(OpClock, CodeUnavailable, nil)
	}
	return t.In(c.loc), nil
}

// Location returns the zone used by Now.
func (c *SystemClock) Location() *time.Location { return c.loc }
