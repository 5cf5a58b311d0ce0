package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FilingStatus selects which tax bracket tables apply to the household.
type FilingStatus string

const (
	FilingSingle  FilingStatus = "single"
	FilingMarried FilingStatus = "married"
)

// ReturnMode selects how the per-year growth factors are produced.
type ReturnMode string

const (
	// ReturnModeFixed compounds every year at the profile's nominal rate.
	ReturnModeFixed ReturnMode = "fixed"
	// ReturnModeSampled draws each year's return from the historical series.
	ReturnModeSampled ReturnMode = "sampled"
)

// SocialSecurityElection holds a person's Social Security claiming plan.
type SocialSecurityElection struct {
	Elected bool `yaml:"elected"`
	// ClaimAge is the age at which benefits begin (62-70 in practice).
	ClaimAge int `yaml:"claim_age"`
	// BenefitBaseIncome is the average annual income the benefit formula
	// is computed from.
	BenefitBaseIncome decimal.Decimal `yaml:"benefit_base_income"`
}

// ContributionSchedule is one person's annual contributions by account type.
// EmployerMatch is always pre-tax.
type ContributionSchedule struct {
	Taxable       decimal.Decimal `yaml:"taxable"`
	PreTax        decimal.Decimal `yaml:"pre_tax"`
	Roth          decimal.Decimal `yaml:"roth"`
	EmployerMatch decimal.Decimal `yaml:"employer_match"`
}

// Person is one member of the household.
type Person struct {
	Age            int                    `yaml:"age"`
	Contributions  ContributionSchedule   `yaml:"contributions"`
	SocialSecurity SocialSecurityElection `yaml:"social_security"`
}

// AccountBalances holds the household's starting balances for the three
// account types the simulation tracks.
type AccountBalances struct {
	Taxable decimal.Decimal `yaml:"taxable"`
	PreTax  decimal.Decimal `yaml:"pre_tax"`
	Roth    decimal.Decimal `yaml:"roth"`
}

// ContributionGrowth scales all contribution amounts up over time when
// enabled.
type ContributionGrowth struct {
	Enabled bool            `yaml:"enabled"`
	Rate    decimal.Decimal `yaml:"rate"`
}

// HouseholdProfile is the immutable input to a simulation run.
type HouseholdProfile struct {
	FilingStatus  FilingStatus `yaml:"filing_status"`
	Persons       []Person     `yaml:"persons"`
	RetirementAge int          `yaml:"retirement_age"`

	Balances AccountBalances `yaml:"balances"`
	// TaxableBasis is the cost basis of the taxable account. Zero means
	// the whole starting balance is treated as unrealized gain.
	TaxableBasis decimal.Decimal `yaml:"taxable_basis"`

	NominalReturn decimal.Decimal    `yaml:"nominal_return"`
	InflationRate decimal.Decimal    `yaml:"inflation_rate"`
	StateTaxRate  decimal.Decimal    `yaml:"state_tax_rate"`
	Growth        ContributionGrowth `yaml:"contribution_growth"`

	// WithdrawalRate anchors the first-year gross withdrawal as a fraction
	// of the portfolio at retirement.
	WithdrawalRate decimal.Decimal `yaml:"withdrawal_rate"`

	ReturnMode ReturnMode `yaml:"return_mode"`
	// RealReturns converts sampled nominal returns to inflation-adjusted
	// ones before they reach the simulator.
	RealReturns bool `yaml:"real_returns"`
}

// YoungestAge returns the lowest current age in the household.
func (hp *HouseholdProfile) YoungestAge() int {
	youngest := hp.Persons[0].Age
	for _, p := range hp.Persons[1:] {
		if p.Age < youngest {
			youngest = p.Age
		}
	}
	return youngest
}

// OldestAge returns the highest current age in the household.
func (hp *HouseholdProfile) OldestAge() int {
	oldest := hp.Persons[0].Age
	for _, p := range hp.Persons[1:] {
		if p.Age > oldest {
			oldest = p.Age
		}
	}
	return oldest
}

// YearsToRetirement is the accumulation span for the youngest person.
func (hp *HouseholdProfile) YearsToRetirement() int {
	return hp.RetirementAge - hp.YoungestAge()
}

// Validate checks the profile invariants. A profile that fails validation
// must not be simulated.
func (hp *HouseholdProfile) Validate() error {
	if len(hp.Persons) == 0 || len(hp.Persons) > 2 {
		return fmt.Errorf("household must contain one or two persons, got %d", len(hp.Persons))
	}
	switch hp.FilingStatus {
	case FilingSingle:
		if len(hp.Persons) != 1 {
			return fmt.Errorf("single filing status requires exactly one person")
		}
	case FilingMarried:
		if len(hp.Persons) != 2 {
			return fmt.Errorf("married filing status requires exactly two persons")
		}
	default:
		return fmt.Errorf("unknown filing status %q", hp.FilingStatus)
	}

	if hp.RetirementAge <= hp.YoungestAge() {
		return fmt.Errorf("retirement age (%d) must be greater than the youngest person's age (%d)",
			hp.RetirementAge, hp.YoungestAge())
	}

	for i, p := range hp.Persons {
		if p.Age < 0 {
			return fmt.Errorf("person %d: age cannot be negative", i)
		}
		if p.Contributions.Taxable.IsNegative() || p.Contributions.PreTax.IsNegative() ||
			p.Contributions.Roth.IsNegative() || p.Contributions.EmployerMatch.IsNegative() {
			return fmt.Errorf("person %d: contribution amounts cannot be negative", i)
		}
		if p.SocialSecurity.Elected {
			if p.SocialSecurity.ClaimAge < 62 || p.SocialSecurity.ClaimAge > 70 {
				return fmt.Errorf("person %d: social security claim age must be between 62 and 70", i)
			}
			if p.SocialSecurity.BenefitBaseIncome.IsNegative() {
				return fmt.Errorf("person %d: benefit base income cannot be negative", i)
			}
		}
	}

	if hp.Balances.Taxable.IsNegative() || hp.Balances.PreTax.IsNegative() || hp.Balances.Roth.IsNegative() {
		return fmt.Errorf("starting balances cannot be negative")
	}
	if hp.TaxableBasis.IsNegative() {
		return fmt.Errorf("taxable basis cannot be negative")
	}
	if hp.TaxableBasis.GreaterThan(hp.Balances.Taxable) {
		return fmt.Errorf("taxable basis (%s) cannot exceed the taxable balance (%s)",
			hp.TaxableBasis.StringFixed(2), hp.Balances.Taxable.StringFixed(2))
	}

	if hp.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) || hp.InflationRate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return fmt.Errorf("inflation rate must be between -10%% and 20%%, got %s%%",
			hp.InflationRate.Mul(decimal.NewFromInt(100)).StringFixed(2))
	}
	if hp.NominalReturn.LessThan(decimal.NewFromFloat(-1.0)) {
		return fmt.Errorf("nominal return cannot be less than -100%%")
	}
	if hp.StateTaxRate.IsNegative() || hp.StateTaxRate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return fmt.Errorf("state tax rate must be between 0 and 20%%")
	}
	if hp.WithdrawalRate.IsNegative() || hp.WithdrawalRate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return fmt.Errorf("withdrawal rate must be between 0 and 20%%")
	}
	if hp.Growth.Enabled && hp.Growth.Rate.IsNegative() {
		return fmt.Errorf("contribution growth rate cannot be negative when enabled")
	}
	switch hp.ReturnMode {
	case ReturnModeFixed, ReturnModeSampled:
	case "":
		return fmt.Errorf("return mode is required")
	default:
		return fmt.Errorf("unknown return mode %q", hp.ReturnMode)
	}

	return nil
}
