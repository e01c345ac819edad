package service

import (
	"context"
	"sync"
	"time"

	"lightswitch/internal/models"
	"lightswitch/internal/platform"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ---- Test doubles ----

type stubSchedule struct {
	cfg   models.SchedulerConfig
	err   error
	reads int
}

func (s *stubSchedule) Read(ctx context.Context) (models.SchedulerConfig, error) {
	s.reads++
	return s.cfg, s.err
}

// stubModes remembers the applied mode so consecutive ticks see it.
type stubModes struct {
	current  models.AppearanceMode
	getErr   error
	setErr   error
	setPanic any // non-nil makes Set panic with this value
	gets     int
	sets     []models.AppearanceMode
}

func (m *stubModes) Get(ctx context.Context) (models.AppearanceMode, error) {
	m.gets++
	return m.current, m.getErr
}

func (m *stubModes) Set(ctx context.Context, mode models.AppearanceMode) error {
	m.sets = append(m.sets, mode)
	if m.setPanic != nil {
		panic(m.setPanic)
	}
	if m.setErr != nil {
		return m.setErr
	}
	m.current = mode
	return nil
}

type logLine struct {
	msg    string
	fields map[string]any
}

// recordingSink captures diagnostics lines with their fields decoded.
type recordingSink struct {
	mu    sync.Mutex
	lines []logLine
}

func (r *recordingSink) Log(msg string, fields ...zap.Field) {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, logLine{msg: msg, fields: enc.Fields})
}

func (r *recordingSink) all() []logLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]logLine, len(r.lines))
	copy(out, r.lines)
	return out
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 19, hour, minute, 30, 0, time.Local)
}

func tod(hour, minute int) models.TimeOfDay {
	return models.TimeOfDay{Hour: hour, Minute: minute}
}

func cfg(light, dark models.TimeOfDay) models.SchedulerConfig {
	return models.SchedulerConfig{LightTime: light, DarkTime: dark}
}

func newTestScheduler(sched *stubSchedule, now time.Time, modes *stubModes, sink *recordingSink) *SchedulerService {
	return NewSchedulerService(sched, platform.FixedClock(now), modes, sink)
}
