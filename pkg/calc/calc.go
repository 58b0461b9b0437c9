package calc

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"nickandperla.net/calc/internal/editor"
	"nickandperla.net/calc/internal/format"
)

// Runtime is one calculator session bound to a store.
type Runtime struct {
	editor    *editor.Editor
	store     Store
	storeErr  error
	logger    *slog.Logger
	session   string
	degrees   *bool
	formatter format.Formatter
	resultW   func(text string)
	formulaW  func(text string)
	notify    func(message string, severity Severity)
	clock     func() time.Time
}

// New creates a runtime with the given options and restores the saved
// state of its session, if any.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{
		session:   DefaultSession,
		formatter: format.Default(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:     time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.storeErr != nil {
		return nil, fmt.Errorf("open store: %w", r.storeErr)
	}

	edOpts := []editor.Option{
		editor.WithFormatter(r.formatter),
		editor.WithClock(r.clock),
		editor.WithHistoryWriter(r.recordHistory),
	}
	if r.resultW != nil {
		edOpts = append(edOpts, editor.WithResultWriter(r.resultW))
	}
	if r.formulaW != nil {
		edOpts = append(edOpts, editor.WithFormulaWriter(r.formulaW))
	}
	edOpts = append(edOpts, editor.WithNotifier(r.notifyError))
	r.editor = editor.New(edOpts...)

	if err := r.restore(); err != nil {
		r.logger.Warn("restore session", "session", r.session, "error", err)
	}
	if r.degrees != nil {
		r.editor.SetDegrees(*r.degrees)
	}
	return r, nil
}

func (r *Runtime) restore() error {
	if r.store == nil {
		return nil
	}
	data, err := r.store.LoadState(r.session)
	if err != nil || data == nil {
		return err
	}
	s, err := editor.UnmarshalState(data)
	if err != nil {
		return err
	}
	r.editor.Restore(s)
	r.logger.Debug("restored session", "session", r.session, "formula", s.Formula)
	return nil
}

// Editor returns the session editor for key-by-key input.
func (r *Runtime) Editor() *editor.Editor {
	return r.editor
}

// SetNotifier changes the host sink for evaluation failures. Failures are
// still logged before n is called.
func (r *Runtime) SetNotifier(n func(message string, severity Severity)) {
	r.notify = n
}

// Eval replaces the formula with input, evaluates it and saves the
// session. The formatted result is returned.
func (r *Runtime) Eval(input string) (string, error) {
	r.editor.SetFormula(input)
	result, err := r.editor.Equals()
	r.saveQuietly()
	return result, err
}

// Press feeds one key to the editor and saves the session.
func (r *Runtime) Press(k editor.Key) {
	r.editor.Operation(k)
	r.saveQuietly()
}

// History returns recorded calculations, newest first.
func (r *Runtime) History(limit int) ([]HistoryEntry, error) {
	if r.store == nil {
		return nil, nil
	}
	return r.store.History(limit)
}

// ClearHistory removes all recorded calculations.
func (r *Runtime) ClearHistory() error {
	if r.store == nil {
		return nil
	}
	return r.store.ClearHistory()
}

// Recall resets the editor to a number, such as a result from history.
func (r *Runtime) Recall(number string) {
	r.editor.AddNumber(number)
	r.saveQuietly()
}

// SetDegrees switches the angle mode.
func (r *Runtime) SetDegrees(on bool) {
	r.editor.SetDegrees(on)
	r.saveQuietly()
}

// Degrees reports whether degree mode is active.
func (r *Runtime) Degrees() bool {
	return r.editor.Degrees()
}

// Formatter returns the active separators.
func (r *Runtime) Formatter() format.Formatter {
	return r.formatter
}

// Save writes the editor state of the session to the store.
func (r *Runtime) Save() error {
	if r.store == nil {
		return nil
	}
	data, err := editor.MarshalState(r.editor.State())
	if err != nil {
		return err
	}
	return r.store.SaveState(r.session, data)
}

// Close saves the session and releases the store.
func (r *Runtime) Close() error {
	if r.store == nil {
		return nil
	}
	if err := r.Save(); err != nil {
		r.logger.Warn("save session", "session", r.session, "error", err)
	}
	return r.store.Close()
}

func (r *Runtime) saveQuietly() {
	if err := r.Save(); err != nil {
		r.logger.Warn("save session", "session", r.session, "error", err)
	}
}

func (r *Runtime) recordHistory(formula, result string, ts int64) {
	if r.store == nil {
		return
	}
	_, err := r.store.AddHistory(HistoryEntry{Formula: formula, Result: result, Timestamp: ts})
	if err != nil {
		r.logger.Warn("record history", "formula", formula, "error", err)
	}
}

func (r *Runtime) notifyError(message string, severity Severity) {
	r.logger.Debug("evaluation failed", "message", message, "severity", severity)
	if r.notify != nil {
		r.notify(message, severity)
	}
}
