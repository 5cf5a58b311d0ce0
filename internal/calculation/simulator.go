package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wealthsim/retirement-simulator/internal/domain"
)

// SIMULATION MODEL:
//
// A run walks two phases over one shared growth-factor stream.
//
// Accumulation (years 0..R, R = retirement age - youngest age): balances
// compound each year (skipped in year 0), eligible persons contribute with
// mid-year timing (contributions earn half the year's return), and the
// taxable basis grows by the raw taxable contribution.
//
// Transition: the first-year gross withdrawal is anchored at the ending
// nominal balance times the target withdrawal rate, then indexed to
// inflation in later years.
//
// Drawdown (years 1..N, N = life expectancy - retirement age): the
// retirement-year growth was already applied as the final accumulation
// year, so drawdown year 1 withdraws without compounding again. Withdrawals
// are apportioned across accounts proportionally with a taxable -> pre-tax
// -> Roth shortfall cascade, RMDs override smaller spending needs, and all
// wealth is recorded deflated to today's dollars.

var half = decimal.NewFromFloat(0.5)

// Simulator runs single lifetime wealth paths for a household under one set
// of rules.
type Simulator struct {
	Rules  *domain.Rules
	Logger Logger
}

// NewSimulator creates a simulator. A nil logger falls back to NopLogger.
func NewSimulator(rules *domain.Rules, logger Logger) *Simulator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Simulator{Rules: rules, Logger: logger}
}

// runState is the mutable per-run state. Each run owns its state privately;
// nothing is shared across runs.
type runState struct {
	taxable decimal.Decimal
	preTax  decimal.Decimal
	roth    decimal.Decimal
	basis   decimal.Decimal

	// trajectory holds real total wealth per year boundary.
	trajectory []decimal.Decimal

	factors []decimal.Decimal
	next    int // next unconsumed growth factor
}

func (st *runState) total() decimal.Decimal {
	return st.taxable.Add(st.preTax).Add(st.roth)
}

func (st *runState) consumeFactor() decimal.Decimal {
	f := st.factors[st.next]
	st.next++
	return f
}

func (st *runState) compound(factor decimal.Decimal) {
	st.taxable = st.taxable.Mul(factor)
	st.preTax = st.preTax.Mul(factor)
	st.roth = st.roth.Mul(factor)
}

// RunSingle simulates one full lifetime path for the profile with the given
// seed and returns its outcome. Validation failures surface before any
// simulation work begins.
func (s *Simulator) RunSingle(profile *domain.HouseholdProfile, seed int64) (*domain.OutcomeRecord, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid household profile: %w", err)
	}

	accumYears := profile.YearsToRetirement()
	drawYears := s.Rules.LifeExpectancy - profile.RetirementAge
	if drawYears <= 0 {
		return nil, fmt.Errorf("retirement age (%d) must be below life expectancy (%d)",
			profile.RetirementAge, s.Rules.LifeExpectancy)
	}

	gen, err := NewReturnGenerator(profile, s.Rules, seed)
	if err != nil {
		return nil, err
	}
	// The retirement-year factor is shared between phases: the accumulation
	// loop consumes it last, drawdown year 1 reuses its result.
	factors, err := gen.GrowthFactors(accumYears + drawYears - 1)
	if err != nil {
		return nil, err
	}

	st := &runState{
		taxable:    profile.Balances.Taxable,
		preTax:     profile.Balances.PreTax,
		roth:       profile.Balances.Roth,
		basis:      profile.TaxableBasis,
		trajectory: make([]decimal.Decimal, 0, 1+accumYears+drawYears),
		factors:    factors,
	}

	s.runAccumulation(profile, st, accumYears)

	anchor := st.total().Mul(profile.WithdrawalRate)
	s.Logger.Debugf("accumulation complete: balance=%s first-year withdrawal=%s", st.total(), anchor)

	outcome := s.runDrawdown(profile, st, anchor, accumYears, drawYears)
	return outcome, nil
}

// runAccumulation advances the state through the working years, recording a
// real wealth point at every year boundary including year 0.
func (s *Simulator) runAccumulation(profile *domain.HouseholdProfile, st *runState, accumYears int) {
	deflator := one.Add(profile.InflationRate)
	contrib := make([]domain.ContributionSchedule, len(profile.Persons))
	for i, p := range profile.Persons {
		contrib[i] = p.Contributions
	}
	growthRate := one
	if profile.Growth.Enabled {
		growthRate = one.Add(profile.Growth.Rate)
	}

	for year := 0; year <= accumYears; year++ {
		halfGrowth := one
		if year > 0 {
			factor := st.consumeFactor()
			st.compound(factor)
			// Contributions arrive through the year, so they earn only
			// half the year's return.
			halfGrowth = one.Add(factor.Sub(one).Mul(half))
			if profile.Growth.Enabled {
				for i := range contrib {
					contrib[i].Taxable = contrib[i].Taxable.Mul(growthRate)
					contrib[i].PreTax = contrib[i].PreTax.Mul(growthRate)
					contrib[i].Roth = contrib[i].Roth.Mul(growthRate)
					contrib[i].EmployerMatch = contrib[i].EmployerMatch.Mul(growthRate)
				}
			}
		}

		for i, p := range profile.Persons {
			if p.Age+year >= profile.RetirementAge {
				continue
			}
			c := contrib[i]
			st.taxable = st.taxable.Add(c.Taxable.Mul(halfGrowth))
			st.preTax = st.preTax.Add(c.PreTax.Add(c.EmployerMatch).Mul(halfGrowth))
			st.roth = st.roth.Add(c.Roth.Mul(halfGrowth))
			st.basis = st.basis.Add(c.Taxable)
		}

		st.trajectory = append(st.trajectory, st.total().Div(deflator.Pow(decimal.NewFromInt(int64(year)))))
	}
}

// withdrawalResult reports one year's withdrawal after apportionment.
type withdrawalResult struct {
	fromTaxable decimal.Decimal
	fromPreTax  decimal.Decimal
	fromRoth    decimal.Decimal
	// unfunded is the demand no account could cover.
	unfunded decimal.Decimal
}

func (w withdrawalResult) gross() decimal.Decimal {
	return w.fromTaxable.Add(w.fromPreTax).Add(w.fromRoth)
}

// apportion draws amount across the three accounts proportionally to their
// balances. Shortfalls cascade taxable -> pre-tax -> Roth; this ordering
// decides which account depletes first and must not change. A zero total
// means nothing to withdraw.
func apportion(st *runState, amount decimal.Decimal) withdrawalResult {
	var w withdrawalResult
	total := st.total()
	if total.LessThanOrEqual(decimal.Zero) || amount.LessThanOrEqual(decimal.Zero) {
		return w
	}

	taxableTarget := amount.Mul(st.taxable).Div(total)
	preTaxTarget := amount.Mul(st.preTax).Div(total)
	rothTarget := amount.Sub(taxableTarget).Sub(preTaxTarget)

	w.fromTaxable = decimal.Min(taxableTarget, st.taxable)
	preTaxTarget = preTaxTarget.Add(taxableTarget.Sub(w.fromTaxable))

	w.fromPreTax = decimal.Min(preTaxTarget, st.preTax)
	rothTarget = rothTarget.Add(preTaxTarget.Sub(w.fromPreTax))

	w.fromRoth = decimal.Min(rothTarget, st.roth)
	w.unfunded = rothTarget.Sub(w.fromRoth)

	st.taxable = st.taxable.Sub(w.fromTaxable)
	st.preTax = st.preTax.Sub(w.fromPreTax)
	st.roth = st.roth.Sub(w.fromRoth)
	return w
}

// runDrawdown advances the state through retirement, one withdrawal per
// year, until the horizon or ruin.
func (s *Simulator) runDrawdown(profile *domain.HouseholdProfile, st *runState, anchor decimal.Decimal, accumYears, drawYears int) *domain.OutcomeRecord {
	taxes := NewTaxCalculator(profile.FilingStatus, s.Rules)
	ssCalc := NewSocialSecurityCalculator(&s.Rules.SocialSecurity)
	rmdCalc := NewRMDCalculator(&s.Rules.RMD)

	deflator := one.Add(profile.InflationRate)
	target := anchor
	ages := make([]int, len(profile.Persons))

	outcome := &domain.OutcomeRecord{
		FirstYearIncome: decimal.Zero,
		SurvivalYears:   drawYears,
	}

	for year := 1; year <= drawYears; year++ {
		if year > 1 {
			st.compound(st.consumeFactor())
			target = target.Mul(deflator)
		}

		oldestAge := 0
		for i, p := range profile.Persons {
			ages[i] = p.Age + accumYears + year - 1
			if ages[i] > oldestAge {
				oldestAge = ages[i]
			}
		}

		if st.total().LessThanOrEqual(decimal.Zero) {
			outcome.Ruined = true
			outcome.SurvivalYears = year - 1
			break
		}

		rmd := rmdCalc.Required(st.preTax, oldestAge)
		ss := ssCalc.HouseholdBenefit(profile.Persons, ages)

		need := decimal.Max(decimal.Zero, target.Sub(ss))
		demand := need
		rmdExcess := decimal.Zero
		if rmd.GreaterThan(need) {
			demand = rmd
			rmdExcess = rmd.Sub(need)
		}

		// Unrealized-gain ratio before the draw decides the gain/basis
		// split of the taxable portion.
		gainRatio := decimal.Zero
		if st.taxable.GreaterThan(decimal.Zero) {
			gainRatio = decimal.Max(decimal.Zero, st.taxable.Sub(st.basis)).Div(st.taxable)
		}

		w := apportion(st, demand)
		gross := w.gross()

		gain := w.fromTaxable.Mul(gainRatio)
		basisReturn := w.fromTaxable.Sub(gain)
		st.basis = decimal.Max(decimal.Zero, st.basis.Sub(basisReturn))

		ordinaryTax := taxes.OrdinaryTax(w.fromPreTax)
		gainsTax := taxes.CapitalGainsTax(gain, w.fromPreTax)
		surcharge := taxes.InvestmentIncomeSurcharge(gain, w.fromPreTax.Add(gain))
		stateTax := StateTax(w.fromPreTax.Add(gain), profile.StateTaxRate)
		totalTax := ordinaryTax.Add(gainsTax).Add(surcharge).Add(stateTax)

		// An RMD above the spending need is withdrawn anyway; the after-tax
		// excess goes back into the taxable account and raises basis.
		if rmdExcess.GreaterThan(decimal.Zero) && w.fromPreTax.GreaterThan(decimal.Zero) {
			excessShare := decimal.Min(rmdExcess, w.fromPreTax)
			excessTax := ordinaryTax.Add(StateTax(w.fromPreTax, profile.StateTaxRate)).
				Mul(excessShare).Div(w.fromPreTax)
			afterTaxExcess := decimal.Max(decimal.Zero, excessShare.Sub(excessTax))
			st.taxable = st.taxable.Add(afterTaxExcess)
			st.basis = st.basis.Add(afterTaxExcess)
		}

		if year == 1 {
			income := gross.Add(ss).Sub(totalTax)
			exp := decimal.NewFromInt(int64(accumYears + year - 1))
			outcome.FirstYearIncome = income.Div(deflator.Pow(exp))
		}

		// Floors guard against rounding drift after apportionment.
		st.taxable = decimal.Max(decimal.Zero, st.taxable)
		st.preTax = decimal.Max(decimal.Zero, st.preTax)
		st.roth = decimal.Max(decimal.Zero, st.roth)
		st.basis = decimal.Min(st.basis, st.taxable)

		boundary := decimal.NewFromInt(int64(accumYears + year))
		st.trajectory = append(st.trajectory, st.total().Div(deflator.Pow(boundary)))

		if w.unfunded.GreaterThan(decimal.Zero) {
			outcome.Ruined = true
			outcome.SurvivalYears = year - 1
			break
		}
		if st.total().LessThanOrEqual(decimal.Zero) {
			outcome.Ruined = true
			outcome.SurvivalYears = year
			break
		}
	}

	horizon := 1 + accumYears + drawYears
	if outcome.Ruined {
		// Zero out from the ruin year on so every trajectory has the same
		// length for per-year aggregation.
		st.trajectory = st.trajectory[:min(len(st.trajectory), horizon)]
		if n := len(st.trajectory); n > 0 && st.trajectory[n-1].LessThan(decimal.Zero) {
			st.trajectory[n-1] = decimal.Zero
		}
		for len(st.trajectory) < horizon {
			st.trajectory = append(st.trajectory, decimal.Zero)
		}
		outcome.EndOfLifeWealth = decimal.Zero
	} else {
		outcome.EndOfLifeWealth = st.trajectory[len(st.trajectory)-1]
	}

	outcome.WealthPath = st.trajectory
	outcome.EstateTax = taxes.EstateTax(st.total())
	return outcome
}
