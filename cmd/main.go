package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lightswitch/internal/config"
	"lightswitch/internal/handlers"
	"lightswitch/internal/logger"
	"lightswitch/internal/platform"
	"lightswitch/internal/repository"
	"lightswitch/internal/repository/db"
	"lightswitch/internal/server"
	"lightswitch/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// defaultInterval can be overridden with -ldflags "-X main.defaultInterval=30s".
var defaultInterval = "10s"

// Process exit codes for startup failures.
const (
	exitRuntime     = 1
	exitConfig      = 2
	exitSession     = 3
	exitDiagnostics = 4
	exitHistory     = 5
	exitPlatform    = 6
)

func main() {
	os.Exit(run())
}

// startupError carries the exit code of a failed acquisition.
type startupError struct {
	code int
	err  error
}

func (e *startupError) Error() string { return e.err.Error() }
func (e *startupError) Unwrap() error { return e.err }

func run() (code int) {
	log := logger.New(logger.InfoLevel)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load("configs", ".")
	if err != nil {
		log.Errorw("error reading config", "err", err)
		return exitConfig
	}
	if cfg.Log.Level != logger.InfoLevel {
		log = logger.New(cfg.Log.Level)
	}
	if cfg.Log.Level != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	session := platform.NewSession()
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("panic escaped the main loop", "panic", r)
			code = exitRuntime
		}
		if err := session.Close(); err != nil {
			log.Errorw("failed to release resources", "err", err)
		}
	}()

	deps, sqlDB, err := acquire(session, cfg, log)
	if err != nil {
		log.Errorw("startup failed", "err", err, "acquired", session.Acquired())
		var se *startupError
		if errors.As(err, &se) {
			return se.code
		}
		return exitSession
	}

	repos := repository.NewRepository(sqlDB, cfg.Schedule.Path)
	services := service.NewService(repos, deps)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, services, log); err != nil {
		log.Errorw("stopped with error", "err", err)
		return exitRuntime
	}
	deps.Diagnostics.Log("Stopping lightswitch")
	return 0
}

// acquire opens every process-wide resource in order: diagnostics, history,
// clock, mode controller. Each one is released by session.Close.
func acquire(session *platform.Session, cfg *config.Config, log *logger.Logger) (service.Deps, *sql.DB, error) {
	deps := service.Deps{
		Log:       log,
		Retention: cfg.DB.Retention,
	}
	if cfg.HTTP.Enabled {
		deps.JWTSecret = cfg.HTTP.JWTSecret
		deps.PasswordHash = cfg.HTTP.PasswordHash
	}

	var diag *logger.Diagnostics
	err := session.Acquire("diagnostics", func() (platform.ReleaseFunc, error) {
		var tee zapcore.Core
		if cfg.Diagnostics.Console {
			tee = log.Core()
		}
		d, err := logger.OpenDiagnostics(cfg.Diagnostics.Path, tee)
		if err != nil {
			return nil, err
		}
		if err := d.Clear(); err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("clear diagnostics: %w", err)
		}
		diag = d
		return d.Close, nil
	})
	if err != nil {
		return deps, nil, &startupError{code: exitDiagnostics, err: err}
	}
	diag.Log("Starting lightswitch")
	deps.Diagnostics = diag

	var sqlDB *sql.DB
	if cfg.DB.Path != "" {
		err = session.Acquire("history", func() (platform.ReleaseFunc, error) {
			conn, err := db.InitDB(cfg.DB.Path)
			if err != nil {
				return nil, err
			}
			sqlDB = conn
			return conn.Close, nil
		})
		if err != nil {
			return deps, nil, &startupError{code: exitHistory, err: err}
		}
	}

	err = session.Acquire("clock", func() (platform.ReleaseFunc, error) {
		clock, err := platform.NewSystemClock(cfg.Clock.Timezone)
		if err != nil {
			return nil, err
		}
		deps.Clock = clock
		return nil, nil
	})
	if err != nil {
		return deps, sqlDB, &startupError{code: exitSession, err: err}
	}

	err = session.Acquire("mode controller", func() (platform.ReleaseFunc, error) {
		modes, err := newModeController(cfg.Mode)
		if err != nil {
			return nil, err
		}
		deps.Modes = modes
		return nil, nil
	})
	if err != nil {
		return deps, sqlDB, &startupError{code: exitPlatform, err: err}
	}

	log.Infow("resources acquired", "resources", session.Acquired())
	return deps, sqlDB, nil
}

func newModeController(cfg config.ModeConfig) (platform.ModeController, error) {
	switch cfg.Driver {
	case config.DriverCommand:
		return platform.NewCommandMode(platform.CommandConfig{
			Get:      cfg.GetCommand,
			SetLight: cfg.SetLightCommand,
			SetDark:  cfg.SetDarkCommand,
			Timeout:  cfg.CommandTimeout,
		})
	case config.DriverFile:
		return platform.NewFileMode(cfg.File), nil
	}
	return nil, fmt.Errorf("unknown mode driver %q", cfg.Driver)
}

// serve runs the worker and, when enabled, the status API until ctx is
// canceled or one of them fails.
func serve(ctx context.Context, cfg *config.Config, services *service.Service, log *logger.Logger) error {
	interval := workerInterval(cfg.Worker.Interval, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(recovered("worker", func() error {
		return services.Run(gctx, interval)
	}))

	if cfg.HTTP.Enabled {
		srv := server.New(cfg.HTTP.Port, handlers.NewHandler(services, log).InitRoutes())
		log.Infow("status api listening", "addr", srv.Addr(), "auth", services.Enabled())
		g.Go(recovered("status api", func() error {
			return srv.Run(gctx)
		}))
	}

	err := g.Wait()
	log.Infow("shutting down")
	return err
}

// recovered turns a panic in fn into an error, so it surfaces from g.Wait
// on the main goroutine and the session is still released.
func recovered(name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s panicked: %v", name, r)
			}
		}()
		return fn()
	}
}

// workerInterval picks the configured interval, then the build-time default.
func workerInterval(configured time.Duration, log *logger.Logger) time.Duration {
	if configured > 0 {
		return configured
	}
	d, err := time.ParseDuration(defaultInterval)
	if err != nil || d <= 0 {
		log.Warnw("bad build-time interval, using fallback", "value", defaultInterval, "fallback", service.DefaultInterval)
		return service.DefaultInterval
	}
	return d
}
