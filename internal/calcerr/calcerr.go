// Package calcerr defines the failure kinds shared by the tokenizer,
// converter and evaluator.
package calcerr

import (
	"errors"
	"fmt"
)

// Kind classifies a calculation failure.
type Kind int

const (
	UnbalancedBrackets Kind = iota + 1
	InsufficientOperands
	DivisionByZero
	DomainError
	UnknownToken
	InvalidToken
	SyntaxError
	Overflow
)

// String returns the user-facing message for a kind.
func (k Kind) String() string {
	switch k {
	case UnbalancedBrackets:
		return "Unbalanced brackets"
	case InsufficientOperands:
		return "Insufficient operands"
	case DivisionByZero:
		return "Division by zero"
	case DomainError:
		return "Invalid input"
	case UnknownToken:
		return "Unknown token"
	case InvalidToken:
		return "Invalid token"
	case SyntaxError:
		return "Wrong syntax"
	case Overflow:
		return "Result too large"
	}
	return "UNKNOWN"
}

// Error is a failure of one pipeline stage. Token and Pos are optional
// context; Pos is -1 when the failure has no source position.
type Error struct {
	Kind  Kind
	Token string
	Pos   int
}

func (e *Error) Error() string {
	switch {
	case e.Token != "" && e.Pos >= 0:
		return fmt.Sprintf("%s [%s] at %d", e.Kind, e.Token, e.Pos)
	case e.Token != "":
		return fmt.Sprintf("%s [%s]", e.Kind, e.Token)
	}
	return e.Kind.String()
}

// Is reports whether target is a *Error of the same kind, so that
// errors.Is(err, ErrDivisionByZero) matches any division failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// New returns an Error of the given kind about tok.
func New(kind Kind, tok string) *Error {
	return &Error{Kind: kind, Token: tok, Pos: -1}
}

// At returns an Error of the given kind about tok at byte offset pos.
func At(kind Kind, tok string, pos int) *Error {
	return &Error{Kind: kind, Token: tok, Pos: pos}
}

// KindOf returns the kind carried by err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Sentinels for errors.Is.
var (
	ErrUnbalancedBrackets   = &Error{Kind: UnbalancedBrackets, Pos: -1}
	ErrInsufficientOperands = &Error{Kind: InsufficientOperands, Pos: -1}
	ErrDivisionByZero       = &Error{Kind: DivisionByZero, Pos: -1}
	ErrDomain               = &Error{Kind: DomainError, Pos: -1}
	ErrUnknownToken         = &Error{Kind: UnknownToken, Pos: -1}
	ErrInvalidToken         = &Error{Kind: InvalidToken, Pos: -1}
	ErrSyntax               = &Error{Kind: SyntaxError, Pos: -1}
	ErrOverflow             = &Error{Kind: Overflow, Pos: -1}
)
