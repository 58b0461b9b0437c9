package rpn

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nickandperla.net/calc/internal/calcerr"
	"nickandperla.net/calc/internal/scanner"
	"nickandperla.net/calc/internal/token"
)

func convert(t *testing.T, formula string) ([]token.Token, error) {
	t.Helper()
	tokens, err := scanner.Tokenize(formula)
	require.NoError(t, err)
	return Convert(tokens)
}

func postfix(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

func TestConvert(t *testing.T) {
	tests := []struct {
		formula string
		want    string
	}{
		{"3+4×2", "3 4 2 × +"},
		{"(3+4)×2", "3 4 + 2 ×"},
		{"8÷4÷2", "8 4 ÷ 2 ÷"},
		{"2^3^2", "2 3 ^ 2 ^"},
		{"2×3^2", "2 3 2 ^ ×"},
		{"sin(30)+1", "30 sin 1 +"},
		{"√16+2", "16 √ 2 +"},
		{"2×3!", "2 3 ! ×"},
		{"200×10%", "200 10 % ×"},
		{"2(3+4)", "2 3 4 + ×"},
		{"-(2+3)", "2 3 + -"},
		{"-sin(30)", "30 sin -"},
		{"log(ln(e))", "e ln log"},
		{"((1))", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			got, err := convert(t, tt.formula)
			require.NoError(t, err)
			assert.Equal(t, tt.want, postfix(got))
			for _, tok := range got {
				assert.NotEqual(t, token.OPEN_BRACKET, tok.Kind)
				assert.NotEqual(t, token.CLOSE_BRACKET, tok.Kind)
			}
		})
	}
}

func TestConvertUnbalanced(t *testing.T) {
	for _, formula := range []string{"(1+2", "1+2)", "((3)", "(3))", ")(", "sin(1"} {
		t.Run(formula, func(t *testing.T) {
			got, err := convert(t, formula)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, calcerr.ErrUnbalancedBrackets), "got %v", err)
		})
	}
}

func TestConvertInvalidKind(t *testing.T) {
	_, err := Convert([]token.Token{{Kind: token.Kind(99), Text: "?"}})
	assert.Equal(t, calcerr.InvalidToken, calcerr.KindOf(err))
}
