// Package applog builds the logfmt loggers used by commands and TUIs.
package applog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New returns a logfmt logger writing to w with timestamp and caller keys.
func New(w io.Writer) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

// NewFile returns a logger appending to path and a function closing the file.
func NewFile(path string) (log.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(file), file.Close, nil
}

// Nop returns a logger that discards everything.
func Nop() log.Logger {
	return log.NewNopLogger()
}

// Error logs msg with err at error level.
func Error(logger log.Logger, msg string, err error, keyvals ...any) {
	kv := append([]any{"msg", msg, "err", err}, keyvals...)
	if lerr := level.Error(logger).Log(kv...); lerr != nil {
		// Best-effort logging.
		_ = lerr
	}
}

// Info logs msg at info level.
func Info(logger log.Logger, msg string, keyvals ...any) {
	kv := append([]any{"msg", msg}, keyvals...)
	if lerr := level.Info(logger).Log(kv...); lerr != nil {
		// Best-effort logging.
		_ = lerr
	}
}
