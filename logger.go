package letterstim

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// silent drops every record. Enabled reports false, so debug-only work in
// the distortion path (offset statistics) is skipped entirely.
type silent struct{}

func (silent) Enabled(context.Context, slog.Level) bool  { return false }
func (silent) Handle(context.Context, slog.Record) error { return nil }
func (s silent) WithAttrs([]slog.Attr) slog.Handler      { return s }
func (s silent) WithGroup(string) slog.Handler           { return s }

// current is read by every generation worker.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(silent{}))
}

// SetLogger routes generation progress ("generating stimuli", one
// "stimulus written" per file at debug level, "generation complete") and
// Bex offset statistics to l. A nil l silences the package again, which is
// the state a library caller starts in.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(silent{})
	}
	current.Store(l)
}

// Logger returns the logger installed by SetLogger.
func Logger() *slog.Logger {
	return current.Load()
}
