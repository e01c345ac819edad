package repository

import (
	"context"
	"sync"
	"time"

	"lightswitch/internal/models"
)

// memoryStatus keeps the latest snapshot when history is disabled, so the
// status API still reflects the last tick.
type memoryStatus struct {
	mu sync.RWMutex
	st models.SchedulerStatus
}

func (m *memoryStatus) Save(_ context.Context, s models.SchedulerStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st = s
	return nil
}

func (m *memoryStatus) Load(context.Context) (models.SchedulerStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st, nil
}

// noopEvents drops the event log when history is disabled.
type noopEvents struct{}

func (noopEvents) Append(context.Context, models.SwitchEvent) error { return nil }
func (noopEvents) List(context.Context, time.Time, time.Time, string) ([]models.SwitchEvent, error) {
	return nil, nil
}
func (noopEvents) Prune(context.Context, time.Time) (int64, error) { return 0, nil }
