package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"lightswitch/internal/models"
	"lightswitch/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool { return f(v) }

var statusColumns = []string{"id", "mode", "light_time", "dark_time", "automatic", "last_action", "error_code", "tick_count", "updated_at"}

func TestStatusSQLite_Save_ConvertsToUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStatusSQLite(db)

	locTokyo := time.FixedZone("JST", 9*3600)
	original := time.Date(2026, 10, 19, 16, 30, 0, 0, locTokyo)

	st := models.SchedulerStatus{
		Mode:       "Light",
		LightTime:  "07:00",
		DarkTime:   "19:00",
		LastAction: models.ActionSwitchLight,
		TickCount:  42,
		UpdatedAt:  original,
	}

	isExactUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		return ok && tm.Equal(original) && tm.Location() == time.UTC
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO scheduler_status")).
		WithArgs(1, "Light", "07:00", "19:00", false, "switched-to-Light", 0, int64(42), isExactUTC).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatusSQLite_Save_ZeroTimeBecomesNow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStatusSQLite(db)

	isRecentUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		return time.Since(tm) < 5*time.Second
	})

	mock.ExpectExec("INSERT INTO scheduler_status").
		WithArgs(1, "", "00:00", "00:00", false, "parse-error", -1, int64(1), isRecentUTC).
		WillReturnError(errors.New("db down"))

	err = repo.Save(context.Background(), models.SchedulerStatus{
		LightTime:  "00:00",
		DarkTime:   "00:00",
		LastAction: models.ActionParseError,
		ErrorCode:  -1,
		TickCount:  1,
	})
	if err == nil {
		t.Fatalf("Save() expected error, got nil")
	}
}

func TestStatusSQLite_Load_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStatusSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, mode, light_time, dark_time")).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.ID != 0 || got.TickCount != 0 {
		t.Fatalf("Load() expected zero status, got: %+v", got)
	}
}

func TestStatusSQLite_Load_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStatusSQLite(db)

	nonUTC := time.Date(2026, 2, 1, 8, 30, 0, 0, time.FixedZone("EST", -5*3600))
	rows := sqlmock.NewRows(statusColumns).
		AddRow(1, "Dark", "07:00", "19:00", true, "none", 0, int64(9), nonUTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, mode, light_time, dark_time")).
		WithArgs(1).
		WillReturnRows(rows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.ID != 1 || got.Mode != "Dark" || got.LightTime != "07:00" || got.DarkTime != "19:00" ||
		!got.Automatic || got.LastAction != models.ActionNone || got.TickCount != 9 {
		t.Fatalf("Load() unexpected fields: %+v", got)
	}
	if got.UpdatedAt.Location() != time.UTC {
		t.Fatalf("Load() UpdatedAt not UTC: %v", got.UpdatedAt.Location())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewRepository_NilDBKeepsStatusInMemory(t *testing.T) {
	r := repository.NewRepository(nil, "missing.ini")

	st, err := r.Status.Load(context.Background())
	if err != nil || st.ID != 0 {
		t.Fatalf("Load before first Save: %+v, %v", st, err)
	}

	saved := models.SchedulerStatus{ID: 1, Mode: "Dark", LastAction: models.ActionSwitchDark, TickCount: 7}
	if err := r.Status.Save(context.Background(), saved); err != nil {
		t.Fatalf("Save: %v", err)
	}
	st, err = r.Status.Load(context.Background())
	if err != nil || st != saved {
		t.Fatalf("Load: got %+v, %v; want %+v", st, err, saved)
	}

	if err := r.Events.Append(context.Background(), models.SwitchEvent{}); err != nil {
		t.Fatalf("noop Append: %v", err)
	}
	evs, err := r.Events.List(context.Background(), time.Time{}, time.Time{}, "")
	if err != nil || len(evs) != 0 {
		t.Fatalf("noop List: %v, %v", evs, err)
	}
}
