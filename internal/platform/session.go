package platform

import (
	"errors"
	"fmt"
	"sync"
)

// ReleaseFunc gives back a resource taken by Session.Acquire.
type ReleaseFunc func() error

// Session owns the process-wide resources acquired at startup and releases
// them in strict reverse order of acquisition.
type Session struct {
	mu       sync.Mutex
	names    []string
	releases []ReleaseFunc
	closed   bool
}

func NewSession() *Session {
	return &Session{}
}

// Acquire runs open and, on success, stacks its release func.
// A nil release is allowed for resources that need no cleanup.
func (s *Session) Acquire(name string, open func() (ReleaseFunc, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("acquire %s: session closed", name)
	}
	release, err := open()
	if err != nil {
		return fmt.Errorf("acquire %s: %w", name, err)
	}
	if release == nil {
		release = func() error { return nil }
	}
	s.names = append(s.names, name)
	s.releases = append(s.releases, release)
	return nil
}

// Acquired lists resource names in acquisition order.
func (s *Session) Acquired() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Close releases everything, last acquired first. Every release runs even
// if an earlier one fails; errors are joined. Later calls are no-ops.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for i := len(s.releases) - 1; i >= 0; i-- {
		if err := s.releases[i](); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", s.names[i], err))
		}
	}
	s.names, s.releases = nil, nil
	return errors.Join(errs...)
}
