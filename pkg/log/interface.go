// Package log provides the structured logging interface used by eigenpro.
//
// The interface mirrors log/slog's method set so callers can plug in any
// backend; the default implementation writes JSON lines through zerolog.
//
//	logger := log.GetLoggerWithName("eigenpro").With(
//	    log.ModelNameKey, "FastKernelRegression",
//	)
//	logger.Info("fit started",
//	    log.SamplesKey, 4000,
//	    log.FeaturesKey, 20,
//	)
package log

import (
	"context"
)

// Logger is a leveled, structured logger. Fields are alternating key/value pairs.
type Logger interface {
	// Debug logs diagnostic detail, usually disabled outside development.
	Debug(msg string, fields ...any)

	// Info logs normal operational events.
	Info(msg string, fields ...any)

	// Warn logs conditions that do not stop the operation.
	Warn(msg string, fields ...any)

	// Error logs failures. A bare error as the first field is attached
	// under the "error" key together with its stack trace.
	Error(msg string, fields ...any)

	// With returns a child logger that always carries fields.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be written.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level with slog-compatible values.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the upper-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider hands out loggers; tests swap in a TestLoggerProvider.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}
