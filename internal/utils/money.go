package utils

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatAmount rounds to whole units (half to even) and adds thousands separators
func FormatAmount(d decimal.Decimal) string {
	return humanize.Comma(d.RoundBank(0).IntPart())
}

// FormatCurrency formats a magnitude as dollars, e.g. $12,345
func FormatCurrency(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + FormatAmount(d.Abs())
	}
	return "$" + FormatAmount(d)
}

// Plural returns word with an "s" appended unless n is exactly one
func Plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
