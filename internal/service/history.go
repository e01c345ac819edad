package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"lightswitch/internal/models"
	"lightswitch/internal/repository"

	"github.com/google/uuid"
)

// pruneEvery limits how often Record trims old events.
const pruneEvery = time.Hour

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// HistoryService keeps the last-tick snapshot and the switch/error event log.
type HistoryService struct {
	statusRepo repository.StatusRepo
	eventRepo  repository.EventRepo
	retention  time.Duration
	now        func() time.Time

	mu        sync.Mutex
	ticks     int64
	lastMode  string // last mode seen, for display only
	lastPrune time.Time
}

func NewHistoryService(statusRepo repository.StatusRepo, eventRepo repository.EventRepo, retention time.Duration) *HistoryService {
	return &HistoryService{
		statusRepo: statusRepo,
		eventRepo:  eventRepo,
		retention:  retention,
		now:        time.Now,
	}
}

// Record stores the snapshot for r and appends an event when the tick
// switched the mode or failed. Quiet ticks only touch the snapshot.
func (h *HistoryService) Record(ctx context.Context, r models.TickReport) error {
	at := r.At
	if at.IsZero() {
		at = h.now()
	}

	h.mu.Lock()
	h.ticks++
	if r.Action.Switched() {
		h.lastMode = r.Intended.String()
	} else if r.HasMode {
		h.lastMode = r.Reported.String()
	}
	st := models.SchedulerStatus{
		ID:         1,
		Mode:       h.lastMode,
		LightTime:  r.Config.LightTime.String(),
		DarkTime:   r.Config.DarkTime.String(),
		Automatic:  r.Config.Automatic,
		LastAction: r.Action,
		ErrorCode:  r.ErrorCode,
		TickCount:  h.ticks,
		UpdatedAt:  at.UTC(),
	}
	prune := h.retention > 0 && at.Sub(h.lastPrune) >= pruneEvery
	if prune {
		h.lastPrune = at
	}
	h.mu.Unlock()

	var errs []error
	if err := h.statusRepo.Save(ctx, st); err != nil {
		errs = append(errs, fmt.Errorf("save status: %w", err))
	}
	if ev, ok := eventFor(r, at); ok {
		if err := h.eventRepo.Append(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("append event: %w", err))
		}
	}
	if prune {
		if _, err := h.eventRepo.Prune(ctx, at.Add(-h.retention)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// eventFor builds the history entry for a tick, if it deserves one.
func eventFor(r models.TickReport, at time.Time) (models.SwitchEvent, bool) {
	ev := models.SwitchEvent{
		EventID:    uuid.NewString(),
		OccurredAt: at.UTC(),
	}
	switch {
	case r.Action.Switched():
		ev.Type = models.EventModeChange
		ev.Description = "Switched to " + r.Intended.String()
		ev.Metadata = map[string]any{
			"from":  r.Reported.String(),
			"to":    r.Intended.String(),
			"time":  r.Now.String(),
			"light": r.Config.LightTime.String(),
			"dark":  r.Config.DarkTime.String(),
		}
	case r.Action.Failed():
		ev.Type = models.EventError
		ev.Description = string(r.Action)
		meta := map[string]any{"action": string(r.Action), "code": r.ErrorCode}
		if r.Err != nil {
			meta["error"] = r.Err.Error()
		}
		ev.Metadata = meta
	default:
		return models.SwitchEvent{}, false
	}
	return ev, true
}

// Status returns the latest snapshot, or a baseline before the first tick.
func (h *HistoryService) Status(ctx context.Context) (models.SchedulerStatus, error) {
	st, err := h.statusRepo.Load(ctx)
	if err != nil {
		return models.SchedulerStatus{}, err
	}
	if st.ID == 0 {
		return models.SchedulerStatus{
			ID:         1,
			LightTime:  models.Midnight.String(),
			DarkTime:   models.Midnight.String(),
			LastAction: models.ActionNone,
			UpdatedAt:  h.now().UTC(),
		}, nil
	}
	if !st.UpdatedAt.IsZero() {
		st.UpdatedAt = st.UpdatedAt.UTC()
	}
	return st, nil
}

// List returns events matching f after validating the range.
func (h *HistoryService) List(ctx context.Context, f EventFilter) ([]models.SwitchEvent, error) {
	from, to := f.From, f.To
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	return h.eventRepo.List(ctx, from, to, strings.ToUpper(strings.TrimSpace(f.Type)))
}
