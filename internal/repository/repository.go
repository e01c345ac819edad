package repository

import (
	"context"
	"database/sql"
	"time"

	"lightswitch/internal/models"
)

// ScheduleRepo loads the light/dark thresholds. It is read on every tick.
type ScheduleRepo interface {
	Read(ctx context.Context) (models.SchedulerConfig, error)
}

type StatusRepo interface {
	Save(ctx context.Context, s models.SchedulerStatus) error
	Load(ctx context.Context) (models.SchedulerStatus, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.SwitchEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.SwitchEvent, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}

type Repository struct {
	Schedule ScheduleRepo
	Status   StatusRepo
	Events   EventRepo
}

// NewRepository wires the schedule file and, when db is non-nil, the SQLite
// history tables. A nil db keeps only the latest status in memory and
// drops events.
func NewRepository(db *sql.DB, schedulePath string) *Repository {
	r := &Repository{Schedule: NewScheduleINI(schedulePath)}
	if db == nil {
		r.Status = &memoryStatus{}
		r.Events = noopEvents{}
		return r
	}
	r.Status = NewStatusSQLite(db)
	r.Events = NewEventSQLite(db)
	return r
}
