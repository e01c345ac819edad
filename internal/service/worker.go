package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"lightswitch/internal/logger"
	"lightswitch/internal/models"
)

// DefaultInterval is the pause between ticks.
const DefaultInterval = 10 * time.Second

var (
	ErrWorkerRunning   = errors.New("worker already running")
	errInvalidInterval = errors.New("worker interval must be positive")
)

// WorkerService runs Scheduler.Tick on a fixed interval. Ticks never
// overlap and cancellation is only observed between ticks.
type WorkerService struct {
	scheduler Scheduler
	history   History
	log       *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewWorkerService(scheduler Scheduler, history History, log *logger.Logger) *WorkerService {
	if log == nil {
		log = logger.Nop()
	}
	return &WorkerService{scheduler: scheduler, history: history, log: log}
}

// Run ticks once immediately, then every interval until ctx is canceled.
// The loop holds its OS thread for its whole lifetime.
func (w *WorkerService) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errInvalidInterval
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	w.log.Infow("worker started", "interval", interval)
	defer w.log.Infow("worker stopped")

	w.tick(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			// a tick that raced with shutdown is skipped
			if ctx.Err() != nil {
				return nil
			}
			w.tick(ctx)
		}
	}
}

// tick runs one scheduler cycle to completion, shielded from cancellation,
// and records its outcome. Panics in either step stay inside the tick.
func (w *WorkerService) tick(ctx context.Context) {
	tickCtx := context.WithoutCancel(ctx)

	report := w.runScheduler(tickCtx)
	if w.history != nil {
		w.record(tickCtx, report)
	}
}

func (w *WorkerService) runScheduler(ctx context.Context) (report models.TickReport) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("tick panicked: %v", r)
			report = models.TickReport{At: time.Now(), Action: models.ActionPanicked, Err: err}
			w.log.Errorw("tick_panicked", "err", err)
		}
	}()
	return w.scheduler.Tick(ctx)
}

func (w *WorkerService) record(ctx context.Context, report models.TickReport) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Errorw("history_record_panicked", "panic", r, "action", string(report.Action))
		}
	}()
	if err := w.history.Record(ctx, report); err != nil {
		w.log.Warnw("history_record_failed", "err", err, "action", string(report.Action))
	}
}

// Start runs the loop on its own goroutine.
func (w *WorkerService) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errInvalidInterval
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		return ErrWorkerRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w.cancel, w.done = cancel, done

	go func() {
		defer close(done)
		if err := w.Run(ctx, interval); err != nil {
			w.log.Errorw("worker_run_failed", "err", err)
		}
	}()
	return nil
}

// Stop cancels the loop and waits for the in-flight tick to finish.
func (w *WorkerService) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
