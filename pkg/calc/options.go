// Package calc provides the public API for the calculator engine.
package calc

import (
	"io"
	"log/slog"
	"time"

	"nickandperla.net/calc/internal/editor"
	"nickandperla.net/calc/internal/format"
	"nickandperla.net/calc/internal/store"
)

// DefaultSession is the session name used when none is configured.
const DefaultSession = "main"

// Option configures a Runtime.
type Option func(*Runtime)

// WithSQLiteStore configures SQLite persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err != nil {
			r.storeErr = err
			return
		}
		r.store = s
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithStore configures a custom store.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.store = s
	}
}

// WithSession selects the name under which the editor state is saved.
func WithSession(name string) Option {
	return func(r *Runtime) {
		if name != "" {
			r.session = name
		}
	}
}

// WithDegrees starts the runtime in degree mode. A restored session
// keeps its own angle mode unless this option is given.
func WithDegrees(on bool) Option {
	return func(r *Runtime) {
		r.degrees = &on
	}
}

// WithSeparators sets the decimal and grouping separators. A zero
// grouping rune disables grouping.
func WithSeparators(decimal, grouping rune) Option {
	return func(r *Runtime) {
		r.formatter = format.New(decimal, grouping)
	}
}

// WithResultWriter sets the sink for the live result line.
func WithResultWriter(w func(text string)) Option {
	return func(r *Runtime) {
		r.resultW = w
	}
}

// WithFormulaWriter sets the sink for the previous-formula echo.
func WithFormulaWriter(w func(text string)) Option {
	return func(r *Runtime) {
		r.formulaW = w
	}
}

// WithNotifier sets the sink for evaluation failures.
func WithNotifier(n func(message string, severity Severity)) Option {
	return func(r *Runtime) {
		r.notify = n
	}
}

// WithLogger sets the logger for persistence diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithLogOutput logs to w with a text handler at the given level.
func WithLogOutput(w io.Writer, level slog.Level) Option {
	return func(r *Runtime) {
		r.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}
}

// WithClock sets the time source for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runtime) {
		r.clock = now
	}
}

// Store interface for custom stores.
type Store = store.Store

// HistoryEntry is one recorded calculation.
type HistoryEntry = store.HistoryEntry

// Severity grades a notification.
type Severity = editor.Severity

// Severity constants.
const (
	SeverityInfo    = editor.SeverityInfo
	SeverityWarning = editor.SeverityWarning
	SeverityError   = editor.SeverityError
)
