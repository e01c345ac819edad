package platform

import (
	"errors"
	"fmt"
)

// Op names the platform capability that failed.
type Op string

const (
	OpRead  Op = "mode.read"
	OpWrite Op = "mode.write"
	OpClock Op = "clock"
)

// Sentinels matched with errors.Is against a *PlatformError.
var (
	ErrModeRead         = errors.New("appearance mode read failed")
	ErrModeWrite        = errors.New("appearance mode write failed")
	ErrClockUnavailable = errors.New("clock unavailable")
)

// Error codes reported alongside a PlatformError.
const (
	CodeUnknown     = 1
	CodeUnavailable = 2
	CodeTimeout     = 3
	CodeBadOutput   = 4
)

// PlatformError is returned by every adapter in this package.
type PlatformError struct {
	Op   Op
	Code int
	Err  error
}

func (e *PlatformError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed (code %d)", e.Op, e.Code)
	}
	return fmt.Sprintf("%s failed (code %d): %v", e.Op, e.Code, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }

// Is lets callers match on the operation sentinel.
func (e *PlatformError) Is(target error) bool {
	switch target {
	case ErrModeRead:
		return e.Op == OpRead
	case ErrModeWrite:
		return e.Op == OpWrite
	case ErrClockUnavailable:
		return e.Op == OpClock
	}
	return false
}

func newError(op Op, code int, err error) *PlatformError {
	return &PlatformError{Op: op, Code: code, Err: err}
}

// ErrorCode extracts the code of a *PlatformError, or CodeUnknown.
func ErrorCode(err error) int {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeUnknown
}
