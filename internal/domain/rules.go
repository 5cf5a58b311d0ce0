package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is one row of a progressive tax table. Rows are contiguous: each
// row's Min equals the previous row's Max, and the last row's Max is an
// effectively unbounded sentinel.
type Bracket struct {
	Min  decimal.Decimal `yaml:"min" json:"min"`
	Max  decimal.Decimal `yaml:"max" json:"max"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// InvestmentSurchargeRules holds the net-investment-income surcharge rate and
// its modified-AGI thresholds by filing status.
type InvestmentSurchargeRules struct {
	Rate       decimal.Decimal                  `yaml:"rate" json:"rate"`
	Thresholds map[FilingStatus]decimal.Decimal `yaml:"thresholds" json:"thresholds"`
}

// EstateTaxRules holds the estate tax exemption by filing status and the flat
// rate applied above it.
type EstateTaxRules struct {
	Exemptions map[FilingStatus]decimal.Decimal `yaml:"exemptions" json:"exemptions"`
	Rate       decimal.Decimal                  `yaml:"rate" json:"rate"`
}

// RMDRules holds the required-minimum-distribution starting age and the
// age-indexed life-expectancy divisor table.
type RMDRules struct {
	StartAge int `yaml:"start_age" json:"start_age"`
	// Divisors maps age to the uniform-lifetime divisor. Ages beyond the
	// table use FallbackDivisor.
	Divisors        map[int]decimal.Decimal `yaml:"divisors" json:"divisors"`
	FallbackDivisor decimal.Decimal         `yaml:"fallback_divisor" json:"fallback_divisor"`
}

// SocialSecurityRules holds the bend-point formula parameters. Bend points
// are monthly earnings thresholds; replacement rates apply marginally across
// them (first tier, second tier, remainder).
type SocialSecurityRules struct {
	BendPoint1        decimal.Decimal `yaml:"bend_point_1" json:"bend_point_1"`
	BendPoint2        decimal.Decimal `yaml:"bend_point_2" json:"bend_point_2"`
	Rate1             decimal.Decimal `yaml:"rate_1" json:"rate_1"`
	Rate2             decimal.Decimal `yaml:"rate_2" json:"rate_2"`
	Rate3             decimal.Decimal `yaml:"rate_3" json:"rate_3"`
	FullRetirementAge int             `yaml:"full_retirement_age" json:"full_retirement_age"`
}

// GlidePoint maps an age to a stock allocation fraction in [0, 1].
type GlidePoint struct {
	Age             int             `yaml:"age" json:"age"`
	StockAllocation decimal.Decimal `yaml:"stock_allocation" json:"stock_allocation"`
}

// GlidePathRules optionally blends sampled stock returns with a flat bond
// return estimate, weighted by an age-indexed stock allocation curve. A nil
// or empty Points slice disables blending.
type GlidePathRules struct {
	Points             []GlidePoint    `yaml:"points" json:"points"`
	BondReturnEstimate decimal.Decimal `yaml:"bond_return_estimate" json:"bond_return_estimate"`
}

// Enabled reports whether the glide path has any allocation points.
func (g *GlidePathRules) Enabled() bool {
	return g != nil && len(g.Points) > 0
}

// AllocationAt returns the stock allocation for the given age: the allocation
// of the last point whose age does not exceed it, or the first point's
// allocation below the curve.
func (g *GlidePathRules) AllocationAt(age int) decimal.Decimal {
	alloc := g.Points[0].StockAllocation
	for _, p := range g.Points {
		if p.Age > age {
			break
		}
		alloc = p.StockAllocation
	}
	return alloc
}

// Rules bundles every externally supplied table and constant the simulation
// consumes. The engine never derives tax law; it only reads these.
type Rules struct {
	OrdinaryBrackets     map[FilingStatus][]Bracket       `yaml:"ordinary_brackets" json:"ordinary_brackets"`
	StandardDeductions   map[FilingStatus]decimal.Decimal `yaml:"standard_deductions" json:"standard_deductions"`
	CapitalGainsBrackets map[FilingStatus][]Bracket       `yaml:"capital_gains_brackets" json:"capital_gains_brackets"`

	InvestmentSurcharge InvestmentSurchargeRules `yaml:"investment_surcharge" json:"investment_surcharge"`
	EstateTax           EstateTaxRules           `yaml:"estate_tax" json:"estate_tax"`
	RMD                 RMDRules                 `yaml:"rmd" json:"rmd"`
	SocialSecurity      SocialSecurityRules      `yaml:"social_security" json:"social_security"`

	// HistoricalReturns is the ordered annual nominal return series sampled
	// in sampled return mode, as fractions (0.07 = 7%).
	HistoricalReturns []decimal.Decimal `yaml:"historical_returns" json:"historical_returns"`

	// LifeExpectancy sizes the drawdown horizon.
	LifeExpectancy int `yaml:"life_expectancy" json:"life_expectancy"`

	GlidePath *GlidePathRules `yaml:"glide_path,omitempty" json:"glide_path,omitempty"`
}

func validateBrackets(name string, brackets []Bracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("%s: no brackets defined", name)
	}
	prev := decimal.Zero
	for i, b := range brackets {
		if !b.Min.Equal(prev) {
			return fmt.Errorf("%s: bracket %d min %s does not continue from %s", name, i, b.Min, prev)
		}
		if b.Max.LessThanOrEqual(b.Min) {
			return fmt.Errorf("%s: bracket %d max %s must exceed min %s", name, i, b.Max, b.Min)
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%s: bracket %d rate %s out of range", name, i, b.Rate)
		}
		prev = b.Max
	}
	return nil
}

// Validate checks structural invariants: contiguous strictly increasing
// bracket bounds, tables present for both filing statuses, and a usable RMD
// divisor table.
func (r *Rules) Validate() error {
	for _, fs := range []FilingStatus{FilingSingle, FilingMarried} {
		if err := validateBrackets(fmt.Sprintf("ordinary brackets (%s)", fs), r.OrdinaryBrackets[fs]); err != nil {
			return err
		}
		if err := validateBrackets(fmt.Sprintf("capital gains brackets (%s)", fs), r.CapitalGainsBrackets[fs]); err != nil {
			return err
		}
		if _, ok := r.StandardDeductions[fs]; !ok {
			return fmt.Errorf("no standard deduction for filing status %s", fs)
		}
		if _, ok := r.InvestmentSurcharge.Thresholds[fs]; !ok {
			return fmt.Errorf("no investment surcharge threshold for filing status %s", fs)
		}
		if _, ok := r.EstateTax.Exemptions[fs]; !ok {
			return fmt.Errorf("no estate tax exemption for filing status %s", fs)
		}
	}
	if r.RMD.StartAge <= 0 {
		return fmt.Errorf("rmd start age must be positive, got %d", r.RMD.StartAge)
	}
	if r.RMD.FallbackDivisor.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("rmd fallback divisor must be positive, got %s", r.RMD.FallbackDivisor)
	}
	for age, div := range r.RMD.Divisors {
		if div.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("rmd divisor for age %d must be positive, got %s", age, div)
		}
	}
	if r.SocialSecurity.BendPoint1.LessThanOrEqual(decimal.Zero) ||
		r.SocialSecurity.BendPoint2.LessThanOrEqual(r.SocialSecurity.BendPoint1) {
		return fmt.Errorf("social security bend points must be positive and increasing")
	}
	if r.SocialSecurity.FullRetirementAge < 62 || r.SocialSecurity.FullRetirementAge > 70 {
		return fmt.Errorf("full retirement age %d outside claimable range", r.SocialSecurity.FullRetirementAge)
	}
	if r.LifeExpectancy <= 0 {
		return fmt.Errorf("life expectancy must be positive, got %d", r.LifeExpectancy)
	}
	if r.GlidePath.Enabled() {
		prevAge := -1
		for i, p := range r.GlidePath.Points {
			if p.Age <= prevAge {
				return fmt.Errorf("glide path point %d: ages must be strictly increasing", i)
			}
			if p.StockAllocation.IsNegative() || p.StockAllocation.GreaterThan(decimal.NewFromInt(1)) {
				return fmt.Errorf("glide path point %d: allocation %s out of [0,1]", i, p.StockAllocation)
			}
			prevAge = p.Age
		}
	}
	return nil
}
