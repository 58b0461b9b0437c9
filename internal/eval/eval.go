// Package eval executes postfix calculator programs on a decimal stack.
package eval

import (
	"math"
	"math/big"

	"github.com/cockroachdb/apd/v3"

	"nickandperla.net/calc/internal/calcerr"
	"nickandperla.net/calc/internal/rpn"
	"nickandperla.net/calc/internal/scanner"
	"nickandperla.net/calc/internal/token"
)

// DefaultPrecision is the working precision for division and integer
// powers, in significant digits (decimal128).
const DefaultPrecision = 34

// MaxFactorial is the largest operand accepted by "!".
const MaxFactorial = 1000

// Evaluator runs postfix token sequences. The angle mode is read on every
// run and never stored in tokens.
type Evaluator struct {
	degrees bool
	work    *apd.Context // ÷ and ^
	exact   *apd.Context // + - ×, no rounding
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithDegrees selects degree (true) or radian (false) angle mode.
func WithDegrees(on bool) Option {
	return func(e *Evaluator) { e.degrees = on }
}

// WithPrecision sets the working precision in significant digits.
func WithPrecision(digits uint32) Option {
	return func(e *Evaluator) {
		if digits > 0 {
			e.work = workContext(digits)
		}
	}
}

func workContext(digits uint32) *apd.Context {
	c := apd.BaseContext.WithPrecision(digits)
	c.Rounding = apd.RoundHalfEven
	return c
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	exact := apd.BaseContext
	e := &Evaluator{
		work:  workContext(DefaultPrecision),
		exact: &exact,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetDegrees switches the angle mode.
func (e *Evaluator) SetDegrees(on bool) {
	e.degrees = on
}

// Degrees reports whether degree mode is active.
func (e *Evaluator) Degrees() bool {
	return e.degrees
}

// Eval tokenizes, converts and runs a normalized formula in one pass.
func (e *Evaluator) Eval(formula string) (*apd.Decimal, error) {
	tokens, err := scanner.Tokenize(formula)
	if err != nil {
		return nil, err
	}
	postfix, err := rpn.Convert(tokens)
	if err != nil {
		return nil, err
	}
	return e.Run(postfix)
}

// Run executes a postfix token sequence. The stack must hold exactly one
// value at the end.
func (e *Evaluator) Run(postfix []token.Token) (*apd.Decimal, error) {
	var stack []*apd.Decimal
	pop := func() *apd.Decimal {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return d
	}

	for _, t := range postfix {
		switch t.Kind {
		case token.NUMBER:
			d, _, err := apd.NewFromString(t.Text)
			if err != nil {
				return nil, calcerr.At(calcerr.InvalidToken, t.Text, t.Pos)
			}
			stack = append(stack, d)

		case token.CONSTANT:
			d, err := constant(t)
			if err != nil {
				return nil, err
			}
			stack = append(stack, d)

		case token.OPERATOR:
			if !t.Op.IsBinary() {
				return nil, calcerr.At(calcerr.InvalidToken, t.Text, t.Pos)
			}
			if len(stack) < 2 {
				return nil, calcerr.At(calcerr.InsufficientOperands, t.Text, t.Pos)
			}
			operand2 := pop()
			operand1 := pop()
			d, err := e.binary(t.Op, operand1, operand2)
			if err == nil {
				err = finite(d, t)
			}
			if err != nil {
				return nil, err
			}
			stack = append(stack, d)

		case token.FUNCTION:
			if !t.Op.IsUnary() {
				return nil, calcerr.At(calcerr.InvalidToken, t.Text, t.Pos)
			}
			if len(stack) < 1 {
				return nil, calcerr.At(calcerr.InsufficientOperands, t.Text, t.Pos)
			}
			d, err := e.unary(t.Op, pop())
			if err == nil {
				err = finite(d, t)
			}
			if err != nil {
				return nil, err
			}
			stack = append(stack, d)

		default:
			return nil, calcerr.At(calcerr.InvalidToken, t.Text, t.Pos)
		}
	}

	if len(stack) != 1 {
		return nil, calcerr.New(calcerr.SyntaxError, "")
	}
	return stack[0], nil
}

// finite rejects Infinity and NaN, which apd can produce without raising a
// condition.
func finite(d *apd.Decimal, t token.Token) error {
	switch d.Form {
	case apd.Finite:
		return nil
	case apd.Infinite:
		return calcerr.At(calcerr.Overflow, t.Text, t.Pos)
	default:
		return calcerr.At(calcerr.DomainError, t.Text, t.Pos)
	}
}

func constant(t token.Token) (*apd.Decimal, error) {
	name := t.Text
	if t.Negated() {
		name = name[1:]
	}
	var f float64
	switch name {
	case string(token.RunePi):
		f = math.Pi
	case string(token.RuneE):
		f = math.E
	default:
		return nil, calcerr.At(calcerr.InvalidToken, t.Text, t.Pos)
	}
	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		return nil, calcerr.At(calcerr.InvalidToken, t.Text, t.Pos)
	}
	if t.Negated() {
		d.Neg(d)
	}
	return d, nil
}

func (e *Evaluator) binary(op token.Op, x, y *apd.Decimal) (*apd.Decimal, error) {
	d := new(apd.Decimal)
	var (
		cond apd.Condition
		err  error
	)
	switch op {
	case token.Add:
		cond, err = e.exact.Add(d, x, y)
	case token.Sub:
		cond, err = e.exact.Sub(d, x, y)
	case token.Mul:
		cond, err = e.exact.Mul(d, x, y)
	case token.Div:
		if y.IsZero() {
			return nil, calcerr.New(calcerr.DivisionByZero, op.String())
		}
		cond, err = e.work.Quo(d, x, y)
	case token.Pow:
		return e.pow(x, y)
	default:
		return nil, calcerr.New(calcerr.InvalidToken, op.String())
	}
	if err != nil {
		return nil, conditionError(cond, op)
	}
	return d, nil
}

// pow is exact for integral exponents and falls back to float64 otherwise.
func (e *Evaluator) pow(base, exponent *apd.Decimal) (*apd.Decimal, error) {
	if exponent.IsZero() {
		return apd.New(1, 0), nil
	}
	if base.IsZero() && exponent.Negative {
		return nil, calcerr.New(calcerr.DivisionByZero, token.Pow.String())
	}
	if n, err := asInteger(exponent); err == nil && n >= -math.MaxInt32 && n <= math.MaxInt32 {
		d := new(apd.Decimal)
		cond, err := e.work.Pow(d, base, apd.New(n, 0))
		if err != nil {
			return nil, conditionError(cond, token.Pow)
		}
		return d, nil
	}
	b, err := toFloat(base, token.Pow)
	if err != nil {
		return nil, err
	}
	x, err := toFloat(exponent, token.Pow)
	if err != nil {
		return nil, err
	}
	return fromFloat(math.Pow(b, x), token.Pow)
}

func (e *Evaluator) unary(op token.Op, x *apd.Decimal) (*apd.Decimal, error) {
	switch op {
	case token.Neg:
		return new(apd.Decimal).Neg(x), nil

	case token.Percent:
		d := new(apd.Decimal)
		if _, err := e.exact.Mul(d, x, apd.New(1, -2)); err != nil {
			return nil, calcerr.New(calcerr.Overflow, op.String())
		}
		return d, nil

	case token.Factorial:
		return factorial(x)
	}

	v, err := toFloat(x, op)
	if err != nil {
		return nil, err
	}

	switch op {
	case token.Sin:
		return fromFloat(math.Sin(e.toRadians(v)), op)
	case token.Cos:
		return fromFloat(math.Cos(e.toRadians(v)), op)
	case token.Tan:
		return fromFloat(math.Tan(e.toRadians(v)), op)
	case token.Asin:
		if math.Abs(v) > 1 {
			return nil, calcerr.New(calcerr.DomainError, op.String())
		}
		return fromFloat(e.fromRadians(math.Asin(v)), op)
	case token.Acos:
		if math.Abs(v) > 1 {
			return nil, calcerr.New(calcerr.DomainError, op.String())
		}
		return fromFloat(e.fromRadians(math.Acos(v)), op)
	case token.Atan:
		return fromFloat(e.fromRadians(math.Atan(v)), op)
	case token.Log:
		if x.Sign() <= 0 {
			return nil, calcerr.New(calcerr.DomainError, op.String())
		}
		return fromFloat(math.Log10(v), op)
	case token.Ln:
		if x.Sign() <= 0 {
			return nil, calcerr.New(calcerr.DomainError, op.String())
		}
		return fromFloat(math.Log(v), op)
	case token.Sqrt:
		if x.Sign() < 0 {
			return nil, calcerr.New(calcerr.DomainError, op.String())
		}
		return fromFloat(math.Sqrt(v), op)
	}
	return nil, calcerr.New(calcerr.InvalidToken, op.String())
}

func (e *Evaluator) toRadians(v float64) float64 {
	if !e.degrees {
		return v
	}
	return v * math.Pi / 180.0
}

func (e *Evaluator) fromRadians(v float64) float64 {
	if !e.degrees {
		return v
	}
	return v * 180.0 / math.Pi
}

func factorial(x *apd.Decimal) (*apd.Decimal, error) {
	if x.Sign() < 0 {
		return nil, calcerr.New(calcerr.DomainError, "!")
	}
	n, err := asInteger(x)
	if err != nil {
		return nil, err
	}
	if n > MaxFactorial {
		return nil, calcerr.New(calcerr.Overflow, "!")
	}
	// MulRange(2, n) is 1 for n < 2.
	prod := new(big.Int).MulRange(2, n)
	d, _, err := apd.NewFromString(prod.String())
	if err != nil {
		return nil, calcerr.New(calcerr.Overflow, "!")
	}
	return d, nil
}

// asInteger returns x as an int64 if it has no fractional part. A
// fractional value is a DomainError; an integer beyond int64 is Overflow.
func asInteger(x *apd.Decimal) (int64, error) {
	if x.Form != apd.Finite {
		return 0, calcerr.New(calcerr.DomainError, x.String())
	}
	var integ, frac apd.Decimal
	x.Modf(&integ, &frac)
	if !frac.IsZero() {
		return 0, calcerr.New(calcerr.DomainError, x.String())
	}
	n, err := integ.Int64()
	if err != nil {
		return 0, calcerr.New(calcerr.Overflow, x.String())
	}
	return n, nil
}

func toFloat(x *apd.Decimal, op token.Op) (float64, error) {
	f, err := x.Float64()
	if err != nil || math.IsInf(f, 0) {
		return 0, calcerr.New(calcerr.Overflow, op.String())
	}
	return f, nil
}

func fromFloat(f float64, op token.Op) (*apd.Decimal, error) {
	if math.IsNaN(f) {
		return nil, calcerr.New(calcerr.DomainError, op.String())
	}
	if math.IsInf(f, 0) {
		return nil, calcerr.New(calcerr.Overflow, op.String())
	}
	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		return nil, calcerr.New(calcerr.DomainError, op.String())
	}
	return d, nil
}

// conditionError maps a trapped apd condition onto a failure kind.
func conditionError(cond apd.Condition, op token.Op) error {
	switch {
	case cond.DivisionByZero():
		return calcerr.New(calcerr.DivisionByZero, op.String())
	case cond.Overflow():
		return calcerr.New(calcerr.Overflow, op.String())
	}
	return calcerr.New(calcerr.DomainError, op.String())
}
