package logger

import "go.uber.org/zap/zapcore"

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// New returns a process logger writing to stdout at the given level.
// Callers own the returned value and pass it down explicitly.
func New(level string) *Logger {
	return newZapLogger(level)
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	core := zapcore.NewNopCore()
	return &Logger{SugaredLogger: newFromCore(core), core: core}
}
