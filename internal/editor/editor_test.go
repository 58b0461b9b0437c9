package editor

import (
	"errors"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nickandperla.net/calc/internal/calcerr"
	"nickandperla.net/calc/internal/format"
)

type historyCall struct {
	formula, result string
	ts              int64
}

type recorder struct {
	results  []string
	formulas []string
	notes    []string
	history  []historyCall
}

func newTestEditor(opts ...Option) (*Editor, *recorder) {
	rec := &recorder{}
	clock := time.UnixMilli(1700000000000)
	base := []Option{
		WithResultWriter(func(s string) { rec.results = append(rec.results, s) }),
		WithFormulaWriter(func(s string) { rec.formulas = append(rec.formulas, s) }),
		WithNotifier(func(msg string, sev Severity) {
			if sev == SeverityError {
				rec.notes = append(rec.notes, msg)
			}
		}),
		WithHistoryWriter(func(f, r string, ts int64) {
			rec.history = append(rec.history, historyCall{f, r, ts})
		}),
		WithClock(func() time.Time { return clock }),
	}
	return New(append(base, opts...)...), rec
}

func digits(e *Editor, ds ...int) {
	for _, d := range ds {
		e.Digit(d)
	}
}

func TestNewEditor(t *testing.T) {
	e, _ := newTestEditor()
	assert.Equal(t, "0", e.Formula())
	assert.Equal(t, StatusEmpty, e.Status())
	assert.Equal(t, "0", e.State().Result)
}

func TestDigitEntry(t *testing.T) {
	e, rec := newTestEditor()

	e.Digit(0)
	assert.Equal(t, "0", e.Formula())

	digits(e, 1, 2, 3, 4)
	assert.Equal(t, "1,234", e.Formula())
	assert.Equal(t, "1,234", rec.results[len(rec.results)-1])
	assert.Equal(t, KindDigit, e.State().LastKey)
	assert.Equal(t, StatusEntering, e.Status())

	e.Digit(10)
	assert.Equal(t, "1,234", e.Formula())
}

func TestLeadingZeroRefused(t *testing.T) {
	e, _ := newTestEditor()
	e.Digit(5)
	e.Operation(KeyPlus)
	e.Digit(0)
	e.Digit(0)
	assert.Equal(t, "5+0", e.Formula())

	e.Decimal()
	e.Digit(0)
	assert.Equal(t, "5+0.0", e.Formula())
}

func TestDecimal(t *testing.T) {
	e, _ := newTestEditor()
	e.Decimal()
	assert.Equal(t, "0.", e.Formula())
	e.Decimal()
	assert.Equal(t, "0.", e.Formula())
	e.Digit(5)
	assert.Equal(t, "0.5", e.Formula())

	e.Operation(KeyPlus)
	e.Decimal()
	assert.Equal(t, "0.5+0.", e.Formula())
	assert.Equal(t, KindDecimal, e.State().LastKey)
}

func TestDecimalLocale(t *testing.T) {
	e, _ := newTestEditor(WithFormatter(format.New(',', '.')))
	digits(e, 1, 2, 3, 4)
	e.Decimal()
	e.Digit(5)
	assert.Equal(t, "1.234,5", e.Formula())

	got, err := e.Equals()
	require.NoError(t, err)
	assert.Equal(t, "1.234,5", got)
}

func TestOperationSymbols(t *testing.T) {
	e, _ := newTestEditor()
	e.Operation(KeySin)
	assert.Equal(t, "sin(", e.Formula())
	digits(e, 3, 0)
	e.Operation(KeyCloseBracket)
	e.Operation(KeyMultiply)
	e.Operation(KeyArccos)
	assert.Equal(t, "sin(30)×cos⁻¹(", e.Formula())
	assert.Equal(t, KeyArccos, e.State().LastOperation)
	assert.Equal(t, KindOperator, e.State().LastKey)

	e.Operation(KeyNone)
	assert.Equal(t, "sin(30)×cos⁻¹(", e.Formula())
}

func TestClear(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Editor)
		want  string
	}{
		{"digit", func(e *Editor) { digits(e, 1, 2) }, "1"},
		{"operator", func(e *Editor) { digits(e, 1, 2); e.Operation(KeyPlus) }, "12"},
		{"grouped", func(e *Editor) { digits(e, 1, 2, 3, 4) }, "123"},
		{"bracket", func(e *Editor) { e.Operation(KeyLog) }, "log"},
		{"function", func(e *Editor) { digits(e, 2); e.Operation(KeyPlus); e.Operation(KeyArcsin); e.Clear() }, "2+"},
		{"constant", func(e *Editor) { digits(e, 2); e.Operation(KeyPi) }, "2"},
		{"factorial", func(e *Editor) { digits(e, 5); e.Operation(KeyFactorial) }, "5"},
		{"decimal", func(e *Editor) { digits(e, 5); e.Decimal() }, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEditor()
			tt.setup(e)
			e.Clear()
			assert.Equal(t, tt.want, e.Formula())
			assert.Equal(t, StatusEntering, e.Status())
		})
	}
}

func TestClearToZero(t *testing.T) {
	e, _ := newTestEditor()
	e.Digit(7)
	e.Clear()
	assert.Equal(t, "0", e.Formula())
	assert.Equal(t, KindClear, e.State().LastKey)
	assert.Equal(t, StatusEmpty, e.Status())

	e.Clear()
	assert.Equal(t, "0", e.Formula())
}

func TestEquals(t *testing.T) {
	e, rec := newTestEditor()
	digits(e, 3)
	e.Operation(KeyPlus)
	digits(e, 4)
	e.Operation(KeyMultiply)
	digits(e, 2)

	got, err := e.Equals()
	require.NoError(t, err)
	assert.Equal(t, "11", got)

	st := e.State()
	assert.Equal(t, "11", st.Formula)
	assert.Equal(t, "11", st.Result)
	assert.Equal(t, "3+4×2", st.PreviousFormula)
	assert.Equal(t, KindEquals, st.LastKey)
	assert.Zero(t, st.BaseValue.Cmp(apd.New(11, 0)))
	assert.Equal(t, StatusResultShown, e.Status())

	require.Len(t, rec.history, 1)
	assert.Equal(t, historyCall{"3+4×2", "11", 1700000000000}, rec.history[0])
	assert.Equal(t, []string{"3+4×2"}, rec.formulas)

	// Typing continues the result
	e.Digit(5)
	assert.Equal(t, "115", e.Formula())
	assert.Equal(t, KeyEquals, e.State().LastOperation)
}

func TestEqualsViaOperation(t *testing.T) {
	e, rec := newTestEditor()
	digits(e, 2)
	e.Operation(KeyPower)
	digits(e, 1, 0)
	e.Operation(KeyEquals)
	assert.Equal(t, "1,024", e.Formula())
	assert.Len(t, rec.history, 1)
}

func TestEqualsError(t *testing.T) {
	e, rec := newTestEditor()
	digits(e, 1)
	e.Operation(KeyDivide)
	digits(e, 0)

	got, err := e.Equals()
	assert.Empty(t, got)
	assert.True(t, errors.Is(err, calcerr.ErrDivisionByZero))
	assert.Equal(t, "1÷0", e.Formula())
	assert.Equal(t, StatusError, e.Status())
	require.Len(t, rec.notes, 1)
	assert.Contains(t, rec.notes[0], "Division by zero")
	assert.Empty(t, rec.history)

	// Editing recovers from the error state
	e.Clear()
	digits(e, 4)
	got, err = e.Equals()
	require.NoError(t, err)
	assert.Equal(t, "0.25", got)
}

func TestEqualsZeroToNegativePower(t *testing.T) {
	e, rec := newTestEditor()
	e.SetFormula("(5-5)^-1")

	got, err := e.Equals()
	assert.Empty(t, got)
	assert.True(t, errors.Is(err, calcerr.ErrDivisionByZero))
	assert.Equal(t, "(5-5)^-1", e.Formula())
	assert.Equal(t, StatusError, e.Status())
	assert.Empty(t, rec.history)
	require.Len(t, rec.notes, 1)

	// The formula is still editable and evaluates once fixed
	e.Clear()
	e.Clear()
	digits(e, 2)
	assert.Equal(t, "(5-5)^2", e.Formula())
	got, err = e.Equals()
	require.NoError(t, err)
	assert.Equal(t, "0", got)
}

func TestEqualsUnbalanced(t *testing.T) {
	e, rec := newTestEditor()
	e.Operation(KeyOpenBracket)
	digits(e, 1)
	_, err := e.Equals()
	assert.True(t, errors.Is(err, calcerr.ErrUnbalancedBrackets))
	assert.Len(t, rec.notes, 1)
}

func TestImplicitMultiplyAndDegrees(t *testing.T) {
	e, _ := newTestEditor()
	digits(e, 2)
	e.Operation(KeyPi)
	got, err := e.Equals()
	require.NoError(t, err)
	assert.Equal(t, "6.28318530717959", got)

	e.SetDegrees(true)
	e.SetFormula("sin(90)")
	got, err = e.Equals()
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	assert.True(t, e.State().Degrees)
}

func TestReset(t *testing.T) {
	e, rec := newTestEditor()
	e.SetDegrees(true)
	digits(e, 9)
	_, err := e.Equals()
	require.NoError(t, err)

	e.Reset()
	st := e.State()
	assert.Equal(t, "", st.Formula)
	assert.Equal(t, "0", st.Result)
	assert.Equal(t, "", st.PreviousFormula)
	assert.Nil(t, st.BaseValue)
	assert.True(t, st.Degrees)
	assert.Equal(t, StatusEmpty, e.Status())
	assert.Equal(t, "", rec.formulas[len(rec.formulas)-1])

	e.Digit(5)
	assert.Equal(t, "5", e.Formula())
}

func TestAddNumber(t *testing.T) {
	e, _ := newTestEditor()
	digits(e, 1)
	e.Operation(KeyPlus)

	e.AddNumber("1234.5")
	assert.Equal(t, "1,234.5", e.Formula())
	assert.Equal(t, StatusEntering, e.Status())
	assert.Equal(t, "", e.State().PreviousFormula)
}

func TestSetFormula(t *testing.T) {
	e, _ := newTestEditor()
	e.SetFormula("  12345+1 ")
	assert.Equal(t, "12,345+1", e.Formula())
	assert.Equal(t, StatusEntering, e.Status())

	e.SetFormula("")
	assert.Equal(t, "0", e.Formula())
	assert.Equal(t, StatusEmpty, e.Status())
}

func TestRestore(t *testing.T) {
	e, rec := newTestEditor()
	e.Restore(State{
		Formula:         "42",
		Result:          "42",
		PreviousFormula: "6×7",
		LastKey:         KindEquals,
		Degrees:         true,
	})
	assert.Equal(t, StatusResultShown, e.Status())
	assert.True(t, e.Degrees())
	assert.Equal(t, "42", rec.results[len(rec.results)-1])
	assert.Equal(t, "6×7", rec.formulas[len(rec.formulas)-1])

	got, err := e.Evaluate()
	require.NoError(t, err)
	assert.Zero(t, got.Cmp(apd.New(42, 0)))
}

func TestSetters(t *testing.T) {
	e, _ := newTestEditor()
	var shown, echoed string
	e.SetResultWriter(func(s string) { shown = s })
	e.SetFormulaWriter(func(s string) { echoed = s })

	e.SetFormula("2+2")
	_, _ = e.Equals()
	assert.Equal(t, "4", shown)
	assert.Equal(t, "2+2", echoed)
}
