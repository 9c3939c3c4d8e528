package nmslib

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with nmslib-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSpace adds the space description to the logger.
func (l *Logger) WithSpace(desc string) *Logger {
	return &Logger{
		Logger: l.Logger.With("space", desc),
	}
}

// WithPath adds a dataset path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithLine adds a file line number field to the logger.
func (l *Logger) WithLine(line int) *Logger {
	return &Logger{
		Logger: l.Logger.With("line", line),
	}
}

// WithCount adds a record count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogReadDataset logs a completed dataset read pass.
func (l *Logger) LogReadDataset(path string, count int, err error) {
	if err != nil {
		l.Error("dataset read failed",
			"path", path,
			"records", count,
			"error", err,
		)
	} else {
		l.Info("dataset read completed",
			"path", path,
			"records", count,
		)
	}
}

// LogWriteDataset logs a completed dataset write pass.
func (l *Logger) LogWriteDataset(path string, count int, err error) {
	if err != nil {
		l.Error("dataset write failed",
			"path", path,
			"records", count,
			"error", err,
		)
	} else {
		l.Info("dataset write completed",
			"path", path,
			"records", count,
		)
	}
}

// LogParseError logs a record-level parse failure with its line context.
func (l *Logger) LogParseError(line int, raw string, err error) {
	l.Error("record parse failed",
		"line", line,
		"raw", raw,
		"error", err,
	)
}
