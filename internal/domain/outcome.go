package domain

import "github.com/shopspring/decimal"

// OutcomeRecord is the result of one single-path simulation. All monetary
// values are inflation-adjusted (real) unless noted. Immutable once produced.
type OutcomeRecord struct {
	// WealthPath holds real total wealth at each simulated year boundary,
	// index 0 being the starting year. Years after ruin are zero.
	WealthPath []decimal.Decimal `json:"wealth_path"`

	// EndOfLifeWealth is the real portfolio value at the final simulated
	// year; exactly zero when the run is ruined.
	EndOfLifeWealth decimal.Decimal `json:"end_of_life_wealth"`

	// FirstYearIncome is the real after-tax income in the first retirement
	// year (withdrawal plus Social Security, net of all taxes).
	FirstYearIncome decimal.Decimal `json:"first_year_income"`

	Ruined bool `json:"ruined"`

	// SurvivalYears counts fully funded drawdown years; it freezes at the
	// last funded year when the run is ruined.
	SurvivalYears int `json:"survival_years"`

	// EstateTax is the one-time estate tax that would be due on the nominal
	// end-of-life estate. Informational; it never feeds back into the run.
	EstateTax decimal.Decimal `json:"estate_tax"`
}

// PercentileTriple holds the 10th/50th/90th percentile of a scalar outcome
// across a batch.
type PercentileTriple struct {
	P10 decimal.Decimal `json:"p10"`
	P50 decimal.Decimal `json:"p50"`
	P90 decimal.Decimal `json:"p90"`
}

// WealthBands holds per-year percentile time series over the trajectory
// matrix. Each series has one entry per simulated year; entry t is the
// percentile of year-t wealth across all runs, not the path of any one run.
type WealthBands struct {
	P10 []decimal.Decimal `json:"p10"`
	P50 []decimal.Decimal `json:"p50"`
	P90 []decimal.Decimal `json:"p90"`
}

// BatchSummary aggregates a Monte Carlo ensemble. Immutable once built.
type BatchSummary struct {
	Runs     int   `json:"runs"`
	BaseSeed int64 `json:"base_seed"`

	Wealth          WealthBands      `json:"wealth_bands"`
	EndOfLifeWealth PercentileTriple `json:"end_of_life_wealth"`
	FirstYearIncome PercentileTriple `json:"first_year_income"`

	// RuinProbability is ruined runs divided by total runs, in [0, 1].
	RuinProbability decimal.Decimal `json:"ruin_probability"`
}
