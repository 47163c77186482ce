package core

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards all records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger shared by all tracer packages.
// By default nothing is logged. Passing nil restores the silent default.
// Safe for concurrent use.
//
// Levels used:
//   - [slog.LevelDebug]: per-band progress
//   - [slog.LevelInfo]: render and frame lifecycle
//   - [slog.LevelWarn]: recoverable issues such as a failed CPU probe
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current shared logger
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
