package output

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats a decimal as USD currency with 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string { return "$" + amount.StringFixed(2) }

// FormatProbability formats a 0..1 fraction as a percentage with 1 decimal.
func FormatProbability(fraction decimal.Decimal) string {
	return fraction.Mul(hundred).StringFixed(1) + "%"
}
