package main

import "strings"

// asciiAliases maps keyboard-friendly spellings to the calculator's
// display symbols. Longer spellings come first.
var asciiAliases = strings.NewReplacer(
	"asin", "sin⁻¹",
	"acos", "cos⁻¹",
	"atan", "tan⁻¹",
	"sqrt", "√",
	"pi", "π",
	"**", "^",
	"*", "×",
	"/", "÷",
)

// normalizeInput rewrites typed input into display symbols.
func normalizeInput(s string) string {
	return asciiAliases.Replace(strings.TrimSpace(s))
}
