package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DiagnosticsTimeLayout is the timestamp prefix of every diagnostics line.
const DiagnosticsTimeLayout = "02-01-2006 15:04:05"

// Diagnostics is an append-only text log. Each call to Log writes one line:
//
//	DD-MM-YYYY HH:MM:SS: <message>: {<fields>}
type Diagnostics struct {
	path string

	mu   sync.Mutex
	file *os.File
	log  *zap.Logger
}

// newDiagnosticsEncoder renders "<time>: <msg>: {json fields}" with no level or caller.
func newDiagnosticsEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "ts",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(DiagnosticsTimeLayout),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: ": ",
	})
}

// OpenDiagnostics opens (or creates) the log file at path in append mode.
// If tee is non-nil every line is also written to it.
func OpenDiagnostics(path string, tee zapcore.Core, opts ...zap.Option) (*Diagnostics, error) {
	if path == "" {
		return nil, errors.New("diagnostics path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create diagnostics dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open diagnostics file %q: %w", path, err)
	}

	core := zapcore.NewCore(newDiagnosticsEncoder(), zapcore.Lock(f), zapcore.DebugLevel)
	if tee != nil {
		core = zapcore.NewTee(core, tee)
	}

	return &Diagnostics{
		path: path,
		file: f,
		log:  zap.New(core, opts...),
	}, nil
}

// Path returns the file the sink writes to.
func (d *Diagnostics) Path() string { return d.path }

// Log appends one line.
func (d *Diagnostics) Log(msg string, fields ...zap.Field) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log.Info(msg, fields...)
}

// Clear truncates the file. Later writes start at offset zero because the
// file is opened with O_APPEND.
func (d *Diagnostics) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return os.ErrClosed
	}
	if err := d.file.Truncate(0); err != nil {
		return fmt.Errorf("truncate diagnostics file: %w", err)
	}
	return nil
}

// Close flushes and closes the file. Safe to call more than once.
func (d *Diagnostics) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	_ = d.log.Sync()
	err := d.file.Close()
	d.file = nil
	return err
}
