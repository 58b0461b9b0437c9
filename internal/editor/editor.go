// Package editor implements the formula-editing state machine that turns
// keypad input into a displayed formula and evaluates it on equals.
package editor

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"

	"nickandperla.net/calc/internal/eval"
	"nickandperla.net/calc/internal/format"
	"nickandperla.net/calc/internal/scanner"
	"nickandperla.net/calc/internal/token"
)

// Severity grades a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Status is the display state of the editor.
type Status int

const (
	StatusEmpty Status = iota
	StatusEntering
	StatusResultShown
	StatusError
)

// TextWriter receives the live result or the previous-formula echo.
type TextWriter func(text string)

// Notifier receives evaluation failures.
type Notifier func(message string, severity Severity)

// HistoryWriter receives every successful calculation.
type HistoryWriter func(formula, result string, timestampMillis int64)

// Editor owns one calculator session. It is not safe for concurrent use.
type Editor struct {
	state     State
	status    Status
	evaluator *eval.Evaluator
	formatter format.Formatter
	resultW   TextWriter
	formulaW  TextWriter
	notify    Notifier
	history   HistoryWriter
	now       func() time.Time
}

// Option configures an Editor.
type Option func(*Editor)

// WithFormatter sets the separator/grouping collaborator.
func WithFormatter(f format.Formatter) Option {
	return func(e *Editor) { e.formatter = f }
}

// WithResultWriter sets the sink for the live result line.
func WithResultWriter(w TextWriter) Option {
	return func(e *Editor) { e.resultW = w }
}

// WithFormulaWriter sets the sink for the previous-formula echo.
func WithFormulaWriter(w TextWriter) Option {
	return func(e *Editor) { e.formulaW = w }
}

// WithNotifier sets the sink for evaluation failures.
func WithNotifier(n Notifier) Option {
	return func(e *Editor) { e.notify = n }
}

// WithHistoryWriter sets the sink for successful calculations.
func WithHistoryWriter(h HistoryWriter) Option {
	return func(e *Editor) { e.history = h }
}

// WithEvaluator replaces the default evaluator.
func WithEvaluator(ev *eval.Evaluator) Option {
	return func(e *Editor) { e.evaluator = ev }
}

// WithClock sets the time source for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// New creates an editor showing "0".
func New(opts ...Option) *Editor {
	e := &Editor{
		state:     State{Formula: "0", Result: "0"},
		formatter: format.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.evaluator == nil {
		e.evaluator = eval.New()
	}
	e.evaluator.SetDegrees(e.state.Degrees)
	return e
}

// SetResultWriter changes the sink for the live result line.
func (e *Editor) SetResultWriter(w TextWriter) { e.resultW = w }

// SetFormulaWriter changes the sink for the previous-formula echo.
func (e *Editor) SetFormulaWriter(w TextWriter) { e.formulaW = w }

// State returns a copy of the session state.
func (e *Editor) State() State {
	return e.state
}

// Status returns the current display state.
func (e *Editor) Status() Status {
	return e.status
}

// Formula returns the displayed formula.
func (e *Editor) Formula() string {
	return e.state.Formula
}

// Restore replaces the session state, e.g. after a restart, and re-emits
// the displayed texts.
func (e *Editor) Restore(s State) {
	e.state = s
	e.evaluator.SetDegrees(s.Degrees)
	switch {
	case s.Formula == "" || s.Formula == "0":
		e.status = StatusEmpty
	case s.LastKey == KindEquals:
		e.status = StatusResultShown
	default:
		e.status = StatusEntering
	}
	e.showResult(s.Result)
	e.showFormula(s.PreviousFormula)
}

// SetDegrees switches the angle mode used by the next evaluation.
func (e *Editor) SetDegrees(on bool) {
	e.state.Degrees = on
	e.evaluator.SetDegrees(on)
}

// Degrees reports whether degree mode is active.
func (e *Editor) Degrees() bool {
	return e.state.Degrees
}

// Digit appends a digit. A lone "0" is replaced, and a second leading
// zero in the current number is refused.
func (e *Editor) Digit(n int) {
	if n < 0 || n > 9 {
		return
	}
	if e.state.LastKey == KindEquals {
		e.state.LastOperation = KeyEquals
	}
	e.state.LastKey = KindDigit

	if n == 0 && e.formatter.Normalize(e.segment()) == "0" {
		return
	}
	if e.state.Formula == "0" {
		e.state.Formula = ""
	}
	e.state.Formula = e.formatter.Group(e.state.Formula + string(rune('0'+n)))
	e.status = StatusEntering
	e.showResult(e.state.Formula)
}

// Decimal appends a decimal separator, at most one per number. An empty
// number segment gets a leading zero.
func (e *Editor) Decimal() {
	sep := string(e.formatter.Decimal)
	seg := e.segment()
	if !strings.Contains(seg, sep) {
		if seg == "" {
			e.state.Formula += "0" + sep
		} else {
			e.state.Formula += sep
		}
	}
	e.state.LastKey = KindDecimal
	e.status = StatusEntering
	e.showResult(e.state.Formula)
}

// Operation appends the display symbol of an operator, function,
// bracket or constant key. KeyEquals evaluates instead.
func (e *Editor) Operation(k Key) {
	switch k {
	case KeyNone:
		return
	case KeyEquals:
		e.Equals()
		return
	}
	if e.state.Formula == "0" {
		e.state.Formula = ""
	}
	e.state.Formula += k.Symbol()
	e.state.LastKey = KindOperator
	e.state.LastOperation = k
	e.status = StatusEntering
	e.showResult(e.state.Formula)
}

// Equals evaluates the displayed formula. On success the result is shown,
// recorded in history and becomes the next formula. On failure the
// formula is kept, the notifier is told, and the error is returned.
func (e *Editor) Equals() (string, error) {
	d, err := e.Evaluate()
	if err != nil {
		e.status = StatusError
		if e.notify != nil {
			e.notify(err.Error(), SeverityError)
		}
		return "", err
	}

	formula := e.state.Formula
	result := e.formatter.Result(d)
	e.showResult(result)
	if e.history != nil {
		e.history(formula, result, e.now().UnixMilli())
	}
	e.showFormula(formula)
	e.state.Formula = result
	e.state.BaseValue = d
	e.state.LastKey = KindEquals
	e.status = StatusResultShown
	return result, nil
}

// Evaluate computes the displayed formula without touching any state.
func (e *Editor) Evaluate() (*apd.Decimal, error) {
	return e.evaluator.Eval(e.formatter.Normalize(e.state.Formula))
}

// Clear removes the last logical token: one character inside a number,
// otherwise the whole operator, function name, bracket or constant.
func (e *Editor) Clear() {
	formula := e.state.Formula
	normalized := e.formatter.Normalize(formula)

	var value string
	raw, err := scanner.Lex(normalized)
	switch {
	case err != nil || len(raw) == 0:
		value = dropLastRune(formula)
	case raw[len(raw)-1].Kind == token.NUMBER:
		value = dropLastRune(formula)
	default:
		value = e.formatter.Denormalize(normalized[:raw[len(raw)-1].Pos])
	}

	if value == "" || value == "0" {
		value = "0"
		e.state.LastKey = KindClear
		e.status = StatusEmpty
	} else {
		e.status = StatusEntering
	}
	e.state.Formula = e.formatter.Group(value)
	e.showResult(e.state.Formula)
}

// Reset returns the editor to its zero state. The angle mode is a host
// setting and survives.
func (e *Editor) Reset() {
	e.state = State{Degrees: e.state.Degrees}
	e.status = StatusEmpty
	e.showResult("0")
	e.showFormula("")
}

// AddNumber resets the editor and seeds the formula with a number, such
// as a result picked from history.
func (e *Editor) AddNumber(number string) {
	e.Reset()
	e.state.Formula = e.formatter.Group(number)
	if e.state.Formula != "" && e.state.Formula != "0" {
		e.status = StatusEntering
	}
	e.showResult(e.state.Formula)
}

// SetFormula replaces the displayed formula with typed text, keeping the
// last answer and angle mode.
func (e *Editor) SetFormula(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "0"
	}
	e.state.Formula = e.formatter.Group(text)
	e.state.LastKey = KindNone
	if e.state.Formula == "0" {
		e.status = StatusEmpty
	} else {
		e.status = StatusEntering
	}
	e.showResult(e.state.Formula)
}

// segment returns the number being typed: the trailing run of digits and
// separators of the displayed formula.
func (e *Editor) segment() string {
	f := e.state.Formula
	i := len(f)
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(f[:i])
		if !(r >= '0' && r <= '9') && r != e.formatter.Decimal && r != e.formatter.Grouping {
			break
		}
		i -= size
	}
	return f[i:]
}

func (e *Editor) showResult(text string) {
	e.state.Result = text
	if e.resultW != nil {
		e.resultW(text)
	}
}

func (e *Editor) showFormula(text string) {
	e.state.PreviousFormula = text
	if e.formulaW != nil {
		e.formulaW(text)
	}
}

func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
