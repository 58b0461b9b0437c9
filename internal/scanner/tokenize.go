package scanner

import "nickandperla.net/calc/internal/token"

// Lex returns the raw tokens of a normalized formula. On an unrecognized
// character it returns no tokens and an UnknownToken error.
func Lex(formula string) ([]token.Token, error) {
	s := NewFromString(formula)
	var tokens []token.Token
	for {
		t, err := s.Next()
		if err != nil {
			return nil, err
		}
		if t == nil {
			return tokens, nil
		}
		tokens = append(tokens, *t)
	}
}

// Tokenize lexes a normalized formula and applies the context rewrites in
// a single pass:
//
//   - a unary minus before a number or constant is folded into a signed
//     literal; before a prefix function or "(" it becomes a Neg function;
//     anywhere else it stays a binary operator
//   - a "×" is inserted when a constant or "(" directly follows a number
func Tokenize(formula string) ([]token.Token, error) {
	s := NewFromString(formula)
	var (
		out  []token.Token
		prev *token.Token
	)
	for {
		t, err := s.Next()
		if err != nil {
			return nil, err
		}
		if t == nil {
			return out, nil
		}

		if t.Kind == token.OPERATOR && t.Op == token.Sub && unaryAfter(prev) {
			p, err := s.Peek()
			if err != nil {
				return nil, err
			}
			if p != nil {
				next := *p
				switch {
				case next.Kind == token.NUMBER:
					out = append(out, token.Number("-"+next.Text, t.Pos))
					_, _ = s.Next()
					prev = &next
					continue
				case next.Kind == token.CONSTANT:
					out = append(out, token.Token{Kind: token.CONSTANT, Text: "-" + next.Text, Pos: t.Pos})
					_, _ = s.Next()
					prev = &next
					continue
				case next.Kind == token.OPEN_BRACKET, next.Kind == token.FUNCTION && next.Op.IsPrefix():
					out = append(out, token.Function(token.Neg, t.Pos))
					prev = t
					continue
				}
			}
		}

		if (t.Kind == token.CONSTANT || t.Kind == token.OPEN_BRACKET) && prev != nil && prev.Kind == token.NUMBER {
			out = append(out, token.Operator(token.Mul, -1))
		}
		out = append(out, *t)
		prev = t
	}
}

// unaryAfter reports whether a minus following prev has no left operand.
func unaryAfter(prev *token.Token) bool {
	if prev == nil {
		return true
	}
	switch prev.Kind {
	case token.OPEN_BRACKET, token.OPERATOR:
		return true
	case token.FUNCTION:
		return prev.Op.IsPrefix()
	}
	return false
}
