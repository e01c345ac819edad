package service

import (
	"context"
	"time"

	"lightswitch/internal/logger"
	"lightswitch/internal/models"
	"lightswitch/internal/platform"
	"lightswitch/internal/repository"

	"go.uber.org/zap"
)

// DiagnosticsSink is the append-only log the scheduler reports to.
type DiagnosticsSink interface {
	Log(msg string, fields ...zap.Field)
}

// Scheduler runs one read-compute-apply cycle.
type Scheduler interface {
	Tick(ctx context.Context) models.TickReport
}

// History records tick outcomes and serves them back read-only.
type History interface {
	Record(ctx context.Context, r models.TickReport) error
	Status(ctx context.Context) (models.SchedulerStatus, error)
	List(ctx context.Context, f EventFilter) ([]models.SwitchEvent, error)
}

// Worker drives the scheduler on a fixed interval until stopped.
type Worker interface {
	Run(ctx context.Context, interval time.Duration) error
	Start(ctx context.Context, interval time.Duration) error
	Stop()
}

// Authorization guards the optional status API.
type Authorization interface {
	Enabled() bool
	GenerateToken(password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Service aggregates all sub-services.
type Service struct {
	Scheduler
	History
	Worker
	Authorization
}

// Deps are the platform collaborators and settings the services need
// beyond the repositories.
type Deps struct {
	Clock       platform.Clock
	Modes       platform.ModeController
	Diagnostics DiagnosticsSink
	Log         *logger.Logger

	Retention    time.Duration // 0 keeps history forever
	JWTSecret    string
	PasswordHash string
}

// NewService wires the repository layer and platform adapters into services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	scheduler := NewSchedulerService(repos.Schedule, deps.Clock, deps.Modes, deps.Diagnostics)
	history := NewHistoryService(repos.Status, repos.Events, deps.Retention)
	return &Service{
		Scheduler:     scheduler,
		History:       history,
		Worker:        NewWorkerService(scheduler, history, deps.Log),
		Authorization: NewAuthService(deps.PasswordHash, deps.JWTSecret),
	}
}
