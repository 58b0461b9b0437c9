// Package rpn reorders infix calculator tokens into postfix order.
package rpn

import (
	"nickandperla.net/calc/internal/calcerr"
	"nickandperla.net/calc/internal/token"
)

// Convert runs the shunting-yard algorithm over a tokenized formula.
//
// Functions (including postfix ! and %) are pushed without popping and are
// released by the next operator of lower or equal weight, by the closing
// bracket of their argument, or at the end of input. All binary operators,
// "^" included, are left-associative. On a bracket mismatch Convert returns
// an UnbalancedBrackets error and no output.
func Convert(tokens []token.Token) ([]token.Token, error) {
	var stack []token.Token
	output := make([]token.Token, 0, len(tokens))

	pop := func() token.Token {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return t
	}

	for _, t := range tokens {
		switch t.Kind {
		case token.NUMBER, token.CONSTANT:
			output = append(output, t)

		case token.FUNCTION, token.OPEN_BRACKET:
			stack = append(stack, t)

		case token.CLOSE_BRACKET:
			for len(stack) > 0 && stack[len(stack)-1].Kind != token.OPEN_BRACKET {
				output = append(output, pop())
			}
			if len(stack) == 0 {
				return nil, calcerr.At(calcerr.UnbalancedBrackets, t.Text, t.Pos)
			}
			pop()
			// A function binds to the bracket group it wraps.
			if len(stack) > 0 && stack[len(stack)-1].Precedence() == token.FunctionPrecedence {
				output = append(output, pop())
			}

		case token.OPERATOR:
			prec := t.Precedence()
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind == token.OPEN_BRACKET || top.Precedence() < prec {
					break
				}
				output = append(output, pop())
			}
			stack = append(stack, t)

		default:
			return nil, calcerr.At(calcerr.InvalidToken, t.Text, t.Pos)
		}
	}

	for len(stack) > 0 {
		t := pop()
		if t.Kind == token.OPEN_BRACKET || t.Kind == token.CLOSE_BRACKET {
			return nil, calcerr.At(calcerr.UnbalancedBrackets, t.Text, t.Pos)
		}
		output = append(output, t)
	}
	return output, nil
}
