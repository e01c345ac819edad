package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lightswitch/internal/models"
)

type StatusSQLite struct {
	db *sql.DB
}

func NewStatusSQLite(db *sql.DB) *StatusSQLite {
	return &StatusSQLite{db: db}
}

const (
	statusRowID = 1

	upsertStatusSQL = `
		INSERT INTO scheduler_status (id, mode, light_time, dark_time, automatic, last_action, error_code, tick_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mode=excluded.mode,
			light_time=excluded.light_time,
			dark_time=excluded.dark_time,
			automatic=excluded.automatic,
			last_action=excluded.last_action,
			error_code=excluded.error_code,
			tick_count=excluded.tick_count,
			updated_at=excluded.updated_at
	`

	selectStatusSQL = `
		SELECT id, mode, light_time, dark_time, automatic, last_action, error_code, tick_count, updated_at
		FROM scheduler_status WHERE id=?
	`
)

// Save upserts the single status row. UpdatedAt is stored as UTC, now if zero.
func (r *StatusSQLite) Save(ctx context.Context, s models.SchedulerStatus) error {
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertStatusSQL,
		statusRowID,
		s.Mode,
		s.LightTime,
		s.DarkTime,
		s.Automatic,
		string(s.LastAction),
		s.ErrorCode,
		s.TickCount,
		ts,
	)
	return err
}

// Load returns the status row, or the zero value if no tick was recorded yet.
func (r *StatusSQLite) Load(ctx context.Context) (models.SchedulerStatus, error) {
	row := r.db.QueryRowContext(ctx, selectStatusSQL, statusRowID)

	var s models.SchedulerStatus
	var action string
	if err := row.Scan(
		&s.ID,
		&s.Mode,
		&s.LightTime,
		&s.DarkTime,
		&s.Automatic,
		&action,
		&s.ErrorCode,
		&s.TickCount,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SchedulerStatus{}, nil
		}
		return models.SchedulerStatus{}, err
	}
	s.LastAction = models.Action(action)
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
