// Package format converts between the displayed formula, with locale
// separators and digit grouping, and the canonical form the tokenizer reads.
package format

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// MaxResultLength is the number of significant digits a result keeps
// when it is formatted for display.
const MaxResultLength = 15

// Formatter holds the active separators. Grouping 0 disables grouping.
type Formatter struct {
	Decimal   rune
	Grouping  rune
	MaxLength int
}

// Default returns a formatter using '.' for decimals and ',' for groups.
func Default() Formatter {
	return Formatter{Decimal: '.', Grouping: ',', MaxLength: MaxResultLength}
}

// New returns a formatter with the given separators. Equal separators
// disable grouping.
func New(decimal, grouping rune) Formatter {
	f := Default()
	if decimal != 0 {
		f.Decimal = decimal
	}
	f.Grouping = grouping
	if f.Grouping == f.Decimal {
		f.Grouping = 0
	}
	return f
}

// Normalize removes grouping separators and rewrites the decimal
// separator as '.'.
func (f Formatter) Normalize(display string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case f.Grouping != 0 && r == f.Grouping:
			return -1
		case r == f.Decimal:
			return '.'
		}
		return r
	}, display)
}

// Denormalize rewrites '.' as the display decimal separator.
func (f Formatter) Denormalize(canonical string) string {
	if f.Decimal == '.' {
		return canonical
	}
	return strings.Map(func(r rune) rune {
		if r == '.' {
			return f.Decimal
		}
		return r
	}, canonical)
}

// Group re-applies digit grouping to every number in a displayed formula.
func (f Formatter) Group(display string) string {
	if f.Grouping == 0 {
		return display
	}
	var out, run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			out.WriteString(f.groupNumber(run.String()))
			run.Reset()
		}
	}
	for _, r := range display {
		if isDigit(r) || r == f.Decimal || r == f.Grouping {
			run.WriteRune(r)
			continue
		}
		flush()
		out.WriteRune(r)
	}
	flush()
	return out.String()
}

func (f Formatter) groupNumber(number string) string {
	number = strings.ReplaceAll(number, string(f.Grouping), "")
	intPart, frac, hasFrac := strings.Cut(number, string(f.Decimal))
	if len(intPart) <= 3 {
		return number
	}

	var sb strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		sb.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if sb.Len() > 0 {
			sb.WriteRune(f.Grouping)
		}
		sb.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		sb.WriteRune(f.Decimal)
		sb.WriteString(frac)
	}
	return sb.String()
}

// Result formats an evaluation result for display: rounded to MaxLength
// significant digits, trailing zeros dropped, no exponent, grouped.
func (f Formatter) Result(d *apd.Decimal) string {
	return f.Group(f.Denormalize(f.Canonical(d)))
}

// Canonical formats d like Result but with '.' and no grouping.
func (f Formatter) Canonical(d *apd.Decimal) string {
	r := new(apd.Decimal).Set(d)
	maxLen := f.MaxLength
	if maxLen <= 0 {
		maxLen = MaxResultLength
	}
	if significantDigits(r) > maxLen {
		ctx := apd.BaseContext.WithPrecision(uint32(maxLen))
		ctx.Rounding = apd.RoundHalfEven
		if _, err := ctx.Round(r, r); err != nil {
			r.Set(d)
		}
	}
	r.Reduce(r)
	if r.IsZero() {
		r.Negative = false
	}
	return r.Text('f')
}

func significantDigits(d *apd.Decimal) int {
	n := 0
	leading := true
	for _, r := range d.Text('f') {
		if !isDigit(r) {
			continue
		}
		if leading && r == '0' {
			continue
		}
		leading = false
		n++
	}
	return n
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
