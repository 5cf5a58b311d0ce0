package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/wealthsim/retirement-simulator/internal/domain"
)

var (
	monthsPerYear = decimal.NewFromInt(12)

	// Statutory early-claim and delayed-claim adjustments, per month.
	earlyRateFirst36 = decimal.NewFromFloat(5.0 / 9.0 / 100.0)
	earlyRateBeyond  = decimal.NewFromFloat(5.0 / 12.0 / 100.0)
	delayedRate      = decimal.NewFromFloat(2.0 / 3.0 / 100.0)
)

// SocialSecurityCalculator computes annual Social Security benefits from the
// bend-point formula in the supplied rules.
type SocialSecurityCalculator struct {
	Rules *domain.SocialSecurityRules
}

// NewSocialSecurityCalculator creates a new Social Security calculator.
func NewSocialSecurityCalculator(rules *domain.SocialSecurityRules) *SocialSecurityCalculator {
	return &SocialSecurityCalculator{Rules: rules}
}

// PrimaryInsuranceAmount computes the monthly benefit at full retirement age
// from average annual earnings: marginal replacement tiers across the two
// bend points (90/32/15 under the default rules).
func (ssc *SocialSecurityCalculator) PrimaryInsuranceAmount(averageAnnualIncome decimal.Decimal) decimal.Decimal {
	if averageAnnualIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	monthly := averageAnnualIncome.Div(monthsPerYear)

	pia := decimal.Min(monthly, ssc.Rules.BendPoint1).Mul(ssc.Rules.Rate1)
	if monthly.GreaterThan(ssc.Rules.BendPoint1) {
		tier2 := decimal.Min(monthly, ssc.Rules.BendPoint2).Sub(ssc.Rules.BendPoint1)
		pia = pia.Add(tier2.Mul(ssc.Rules.Rate2))
	}
	if monthly.GreaterThan(ssc.Rules.BendPoint2) {
		pia = pia.Add(monthly.Sub(ssc.Rules.BendPoint2).Mul(ssc.Rules.Rate3))
	}
	return pia
}

// AnnualBenefit computes the annualized benefit for a claim at the given age:
// the PIA reduced for early claiming (5/9% per month for the first 36 months,
// 5/12% per month beyond) or increased by delayed credits (2/3% per month,
// capped at age 70).
func (ssc *SocialSecurityCalculator) AnnualBenefit(averageAnnualIncome decimal.Decimal, claimAge int) decimal.Decimal {
	if claimAge < 62 {
		return decimal.Zero
	}

	pia := ssc.PrimaryInsuranceAmount(averageAnnualIncome)
	fra := ssc.Rules.FullRetirementAge

	monthly := pia
	switch {
	case claimAge < fra:
		monthsEarly := (fra - claimAge) * 12
		var reduction decimal.Decimal
		if monthsEarly <= 36 {
			reduction = earlyRateFirst36.Mul(decimal.NewFromInt(int64(monthsEarly)))
		} else {
			reduction = earlyRateFirst36.Mul(decimal.NewFromInt(36)).
				Add(earlyRateBeyond.Mul(decimal.NewFromInt(int64(monthsEarly - 36))))
		}
		monthly = pia.Mul(decimal.NewFromInt(1).Sub(reduction))
	case claimAge > fra:
		monthsDelayed := (claimAge - fra) * 12
		if cap := (70 - fra) * 12; monthsDelayed > cap {
			monthsDelayed = cap
		}
		credit := delayedRate.Mul(decimal.NewFromInt(int64(monthsDelayed)))
		monthly = pia.Mul(decimal.NewFromInt(1).Add(credit))
	}

	return monthly.Mul(monthsPerYear)
}

// HouseholdBenefit sums the annual benefits of every elected person whose
// current age has reached their claim age.
func (ssc *SocialSecurityCalculator) HouseholdBenefit(persons []domain.Person, currentAges []int) decimal.Decimal {
	total := decimal.Zero
	for i, p := range persons {
		if !p.SocialSecurity.Elected || currentAges[i] < p.SocialSecurity.ClaimAge {
			continue
		}
		total = total.Add(ssc.AnnualBenefit(p.SocialSecurity.BenefitBaseIncome, p.SocialSecurity.ClaimAge))
	}
	return total
}
