package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/wealthsim/retirement-simulator/internal/domain"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Bracket tables and standard deductions come entirely from the supplied
//    rules; nothing is derived or inflation-indexed here.
// 2. Long-term capital gains stack on top of ordinary income: ordinary
//    income consumes bracket room first, and only the remaining room in each
//    bracket is available to the gain.
// 3. The net-investment-income surcharge applies to the lesser of the gain
//    and the excess of modified AGI over the filing-status threshold.
// 4. State tax is a flat rate on combined ordinary and gain income.

// TaxCalculator computes federal and state taxes against the bracket tables
// of a single filing status. All methods are pure.
type TaxCalculator struct {
	FilingStatus domain.FilingStatus
	Rules        *domain.Rules
}

// NewTaxCalculator creates a tax calculator bound to one filing status.
func NewTaxCalculator(filingStatus domain.FilingStatus, rules *domain.Rules) *TaxCalculator {
	return &TaxCalculator{FilingStatus: filingStatus, Rules: rules}
}

// taxAcrossBrackets walks a bracket table bottom-up and taxes only the slice
// of income falling inside each bracket.
func taxAcrossBrackets(income decimal.Decimal, brackets []domain.Bracket) decimal.Decimal {
	var totalTax decimal.Decimal
	for _, bracket := range brackets {
		if income.LessThanOrEqual(bracket.Min) {
			break
		}
		incomeInBracket := decimal.Min(income, bracket.Max).Sub(bracket.Min)
		if incomeInBracket.GreaterThan(decimal.Zero) {
			totalTax = totalTax.Add(incomeInBracket.Mul(bracket.Rate))
		}
	}
	return totalTax
}

// OrdinaryTax computes progressive federal income tax on ordinary income
// after the standard deduction. Returns zero for income at or below the
// deduction.
func (tc *TaxCalculator) OrdinaryTax(grossIncome decimal.Decimal) decimal.Decimal {
	taxableIncome := grossIncome.Sub(tc.Rules.StandardDeductions[tc.FilingStatus])
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return taxAcrossBrackets(taxableIncome, tc.Rules.OrdinaryBrackets[tc.FilingStatus])
}

// CapitalGainsTax computes long-term capital gains tax on a gain stacked on
// top of already-recognized ordinary income. The ordinary income fills the
// gains brackets first; the gain is taxed only in the room that remains.
func (tc *TaxCalculator) CapitalGainsTax(gain, ordinaryIncome decimal.Decimal) decimal.Decimal {
	if gain.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if ordinaryIncome.IsNegative() {
		ordinaryIncome = decimal.Zero
	}
	brackets := tc.Rules.CapitalGainsBrackets[tc.FilingStatus]
	stackedTop := ordinaryIncome.Add(gain)

	var totalTax decimal.Decimal
	for _, bracket := range brackets {
		if stackedTop.LessThanOrEqual(bracket.Min) {
			break
		}
		// The gain occupies this bracket only above the ordinary income.
		lower := decimal.Max(bracket.Min, ordinaryIncome)
		upper := decimal.Min(stackedTop, bracket.Max)
		if upper.GreaterThan(lower) {
			totalTax = totalTax.Add(upper.Sub(lower).Mul(bracket.Rate))
		}
	}
	return totalTax
}

// InvestmentIncomeSurcharge computes the net-investment-income surcharge: a
// flat rate on the lesser of investment income and the excess of modified
// AGI over the filing-status threshold. Zero below the threshold.
func (tc *TaxCalculator) InvestmentIncomeSurcharge(investmentIncome, modifiedAGI decimal.Decimal) decimal.Decimal {
	if investmentIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	excess := modifiedAGI.Sub(tc.Rules.InvestmentSurcharge.Thresholds[tc.FilingStatus])
	if excess.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	base := decimal.Min(investmentIncome, excess)
	return base.Mul(tc.Rules.InvestmentSurcharge.Rate)
}

// EstateTax computes the one-time estate tax: a flat rate on the excess of
// the estate over the filing-status exemption. Zero at or below it.
func (tc *TaxCalculator) EstateTax(totalEstate decimal.Decimal) decimal.Decimal {
	excess := totalEstate.Sub(tc.Rules.EstateTax.Exemptions[tc.FilingStatus])
	if excess.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return excess.Mul(tc.Rules.EstateTax.Rate)
}

// StateTax computes a flat state tax on the given income.
func StateTax(income, rate decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return income.Mul(rate)
}
