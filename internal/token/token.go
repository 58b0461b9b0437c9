// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines calculator token kinds, operators and the
// operator precedence table.
package token

import "fmt"

// Kind is the lexical class of a token.
type Kind int

const (
	NUMBER Kind = iota
	OPERATOR
	FUNCTION
	CONSTANT
	OPEN_BRACKET
	CLOSE_BRACKET
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case NUMBER:
		return "NUMBER"
	case OPERATOR:
		return "OPERATOR"
	case FUNCTION:
		return "FUNCTION"
	case CONSTANT:
		return "CONSTANT"
	case OPEN_BRACKET:
		return "OPEN_BRACKET"
	case CLOSE_BRACKET:
		return "CLOSE_BRACKET"
	}
	return "UNKNOWN"
}

// Op identifies an operator or function. The zero value is no operator.
type Op int

const (
	NoOp Op = iota
	Add
	Sub
	Mul
	Div
	Pow
	Sqrt
	Log
	Ln
	Sin
	Cos
	Tan
	Asin
	Acos
	Atan
	Factorial
	Percent
	Neg
	numOps
)

// Symbols as they appear in a formula.
const (
	RuneAdd          = '+'
	RuneSub          = '-'
	RuneMul          = '×' // U+00D7
	RuneDiv          = '÷' // U+00F7
	RunePow          = '^'
	RuneSqrt         = '√' // U+221A
	RuneFactorial    = '!'
	RunePercent      = '%'
	RuneOpenBracket  = '('
	RuneCloseBracket = ')'
	RunePi           = 'π' // U+03C0
	RuneE            = 'e'
	RuneDecimalPoint = '.'

	Inverse = "⁻¹" // U+207B U+00B9
)

// Spec describes how an operator binds.
type Spec struct {
	Precedence int
	Arity      int
	Postfix    bool // applies to the value before it (!, %)
	Symbol     string
}

// FunctionPrecedence is the weight shared by all unary functions.
const FunctionPrecedence = 4

var specs = [numOps]Spec{
	Add:       {Precedence: 1, Arity: 2, Symbol: "+"},
	Sub:       {Precedence: 1, Arity: 2, Symbol: "-"},
	Mul:       {Precedence: 2, Arity: 2, Symbol: "×"},
	Div:       {Precedence: 2, Arity: 2, Symbol: "÷"},
	Pow:       {Precedence: 3, Arity: 2, Symbol: "^"},
	Sqrt:      {Precedence: 4, Arity: 1, Symbol: "√"},
	Log:       {Precedence: 4, Arity: 1, Symbol: "log"},
	Ln:        {Precedence: 4, Arity: 1, Symbol: "ln"},
	Sin:       {Precedence: 4, Arity: 1, Symbol: "sin"},
	Cos:       {Precedence: 4, Arity: 1, Symbol: "cos"},
	Tan:       {Precedence: 4, Arity: 1, Symbol: "tan"},
	Asin:      {Precedence: 4, Arity: 1, Symbol: "sin" + Inverse},
	Acos:      {Precedence: 4, Arity: 1, Symbol: "cos" + Inverse},
	Atan:      {Precedence: 4, Arity: 1, Symbol: "tan" + Inverse},
	Factorial: {Precedence: 4, Arity: 1, Postfix: true, Symbol: "!"},
	Percent:   {Precedence: 4, Arity: 1, Postfix: true, Symbol: "%"},
	Neg:       {Precedence: 4, Arity: 1, Symbol: "-"},
}

// Spec returns the precedence table entry for op.
func (op Op) Spec() Spec {
	if op <= NoOp || op >= numOps {
		return Spec{}
	}
	return specs[op]
}

// Precedence returns the binding weight of op, 0 for NoOp.
func (op Op) Precedence() int { return op.Spec().Precedence }

// IsBinary returns true for the two-operand operators.
func (op Op) IsBinary() bool { return op.Spec().Arity == 2 }

// IsUnary returns true for functions, postfix operators and negation.
func (op Op) IsUnary() bool { return op.Spec().Arity == 1 }

// IsPrefix returns true for unary operators written before their operand.
func (op Op) IsPrefix() bool {
	s := op.Spec()
	return s.Arity == 1 && !s.Postfix
}

func (op Op) String() string {
	if s := op.Spec().Symbol; s != "" {
		return s
	}
	return "NOOP"
}

// Functions lists the named functions, longest name first so that a
// greedy match prefers sin⁻¹ over sin.
var Functions = []Op{Asin, Acos, Atan, Sin, Cos, Tan, Log, Ln}

// OpFromRune returns the operator spelled by a single rune.
func OpFromRune(r rune) Op {
	switch r {
	case RuneAdd:
		return Add
	case RuneSub:
		return Sub
	case RuneMul:
		return Mul
	case RuneDiv:
		return Div
	case RunePow:
		return Pow
	case RuneSqrt:
		return Sqrt
	case RuneFactorial:
		return Factorial
	case RunePercent:
		return Percent
	}
	return NoOp
}

// IsConstant returns true if the rune names a constant.
func IsConstant(r rune) bool {
	return r == RunePi || r == RuneE
}

// Token is a single lexical unit. Tokens are values and never shared.
type Token struct {
	Kind Kind
	Op   Op     // OPERATOR and FUNCTION only
	Text string // literal text; numbers always use '.' as decimal point
	Pos  int    // byte offset in the normalized formula, -1 if synthetic
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, %d)", t.Kind, t.Text, t.Pos)
}

// Precedence returns the binding weight of an operator or function token.
func (t Token) Precedence() int {
	if t.Kind != OPERATOR && t.Kind != FUNCTION {
		return 0
	}
	return t.Op.Precedence()
}

// Negated reports whether a constant token carries a folded unary minus.
func (t Token) Negated() bool {
	return t.Kind == CONSTANT && len(t.Text) > 1 && t.Text[0] == '-'
}

// Number returns a number token.
func Number(text string, pos int) Token {
	return Token{Kind: NUMBER, Text: text, Pos: pos}
}

// Operator returns a binary operator token.
func Operator(op Op, pos int) Token {
	return Token{Kind: OPERATOR, Op: op, Text: op.String(), Pos: pos}
}

// Function returns a unary function token.
func Function(op Op, pos int) Token {
	return Token{Kind: FUNCTION, Op: op, Text: op.String(), Pos: pos}
}

// Constant returns a constant token, negated if neg is set.
func Constant(r rune, neg bool, pos int) Token {
	text := string(r)
	if neg {
		text = "-" + text
	}
	return Token{Kind: CONSTANT, Text: text, Pos: pos}
}

// OpenBracket returns a "(" token.
func OpenBracket(pos int) Token {
	return Token{Kind: OPEN_BRACKET, Text: "(", Pos: pos}
}

// CloseBracket returns a ")" token.
func CloseBracket(pos int) Token {
	return Token{Kind: CLOSE_BRACKET, Text: ")", Pos: pos}
}
