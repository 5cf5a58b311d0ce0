package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/wealthsim/retirement-simulator/internal/domain"
)

// RMDCalculator computes required minimum distributions from the age-indexed
// divisor table in the supplied rules.
type RMDCalculator struct {
	Rules *domain.RMDRules
}

// NewRMDCalculator creates a new RMD calculator.
func NewRMDCalculator(rules *domain.RMDRules) *RMDCalculator {
	return &RMDCalculator{Rules: rules}
}

// Required returns the minimum distribution for the given pre-tax balance
// and age: zero below the start age or for a non-positive balance, otherwise
// balance divided by the age's divisor. Ages past the table use the fallback
// divisor.
func (rc *RMDCalculator) Required(preTaxBalance decimal.Decimal, age int) decimal.Decimal {
	if age < rc.Rules.StartAge || preTaxBalance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	divisor, ok := rc.Rules.Divisors[age]
	if !ok {
		divisor = rc.Rules.FallbackDivisor
	}
	return preTaxBalance.Div(divisor)
}
