package service

import (
	"context"
	"errors"
	"fmt"

	"lightswitch/internal/models"
	"lightswitch/internal/platform"
	"lightswitch/internal/repository"

	"go.uber.org/zap"
)

// tickMessage is the diagnostics message written once per tick.
const tickMessage = "tick"

// SchedulerService decides, once per tick, which appearance mode the
// platform should be in and applies it when the platform disagrees.
// It keeps no state between ticks.
type SchedulerService struct {
	schedule repository.ScheduleRepo
	clock    platform.Clock
	modes    platform.ModeController
	diag     DiagnosticsSink
}

func NewSchedulerService(
	schedule repository.ScheduleRepo,
	clock platform.Clock,
	modes platform.ModeController,
	diag DiagnosticsSink,
) *SchedulerService {
	return &SchedulerService{
		schedule: schedule,
		clock:    clock,
		modes:    modes,
		diag:     diag,
	}
}

// Tick runs one read-compute-apply cycle. It never returns an error: every
// failure ends the tick early and is carried in the report. Exactly one
// diagnostics line is written per call; a panicking collaborator is logged
// with action "panic" and the panic is re-raised to the caller.
func (s *SchedulerService) Tick(ctx context.Context) (report models.TickReport) {
	report.Action = models.ActionNone
	defer func() {
		if r := recover(); r != nil {
			report.Fail(models.ActionPanicked, 0, fmt.Errorf("tick panicked: %v", r))
			s.logReport(report)
			panic(r)
		}
		s.logReport(report)
	}()

	cfg, err := s.schedule.Read(ctx)
	if err != nil {
		report.Fail(models.ActionParseError, configErrorCode(err), err)
		return report
	}
	report.Config = cfg

	now, err := s.clock.Now()
	if err != nil {
		report.Fail(models.ActionClockError, platform.ErrorCode(err), err)
		return report
	}
	report.At = now
	report.Now = models.TimeOfDayOf(now)
	report.Intended = IntendedMode(report.Now, cfg)

	current, err := s.modes.Get(ctx)
	if err != nil {
		report.Fail(models.ActionReadError, platform.ErrorCode(err), err)
		return report
	}
	report.Reported = current
	report.HasMode = true

	if report.Intended == current {
		return report
	}

	if err := s.modes.Set(ctx, report.Intended); err != nil {
		report.Fail(models.ActionWriteError, platform.ErrorCode(err), err)
		return report
	}
	report.Action = models.SwitchedTo(report.Intended)
	return report
}

func (s *SchedulerService) logReport(r models.TickReport) {
	fields := []zap.Field{
		zap.String("time", clockField(r)),
		zap.String("mode", modeField(r)),
		zap.Stringer("light", r.Config.LightTime),
		zap.Stringer("dark", r.Config.DarkTime),
		zap.Bool("automatic", r.Config.Automatic),
		zap.String("action", string(r.Action)),
	}
	if r.Err != nil {
		fields = append(fields, zap.Int("code", r.ErrorCode), zap.Error(r.Err))
	}
	s.diag.Log(tickMessage, fields...)
}

func clockField(r models.TickReport) string {
	if r.At.IsZero() {
		return "--:--"
	}
	return r.Now.String()
}

func modeField(r models.TickReport) string {
	if !r.HasMode {
		return "unknown"
	}
	return r.Reported.String()
}

// configErrorCode returns the ConfigError code, or CodeMalformed for
// anything else that stopped the read.
func configErrorCode(err error) int {
	var ce *repository.ConfigError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return repository.CodeMalformed
}
