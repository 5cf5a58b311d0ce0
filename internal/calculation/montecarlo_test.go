package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthsim/retirement-simulator/internal/config"
	"github.com/wealthsim/retirement-simulator/internal/domain"
)

func sampledProfile() *domain.HouseholdProfile {
	return &domain.HouseholdProfile{
		FilingStatus:  domain.FilingSingle,
		Persons:       []domain.Person{{Age: 55}},
		RetirementAge: 65,
		Balances: domain.AccountBalances{
			Taxable: decimal.NewFromInt(200000),
			PreTax:  decimal.NewFromInt(500000),
			Roth:    decimal.NewFromInt(100000),
		},
		TaxableBasis:   decimal.NewFromInt(150000),
		InflationRate:  decimal.NewFromFloat(0.025),
		WithdrawalRate: decimal.NewFromFloat(0.04),
		ReturnMode:     domain.ReturnModeSampled,
	}
}

// TestBatchRunnerAggregates checks the ensemble invariants: ruin probability
// in [0,1], ordered percentiles, full-length wealth bands
func TestBatchRunnerAggregates(t *testing.T) {
	rules := config.DefaultRules()
	runner := NewBatchRunner(NewSimulator(rules, nil), 64, nil)

	summary, err := runner.Run(sampledProfile(), 99)
	require.NoError(t, err)

	assert.Equal(t, 64, summary.Runs)
	assert.Equal(t, int64(99), summary.BaseSeed)

	assert.True(t, summary.RuinProbability.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, summary.RuinProbability.LessThanOrEqual(decimal.NewFromInt(1)))

	for _, triple := range []domain.PercentileTriple{summary.EndOfLifeWealth, summary.FirstYearIncome} {
		assert.True(t, triple.P10.LessThanOrEqual(triple.P50), "p10 %s above p50 %s", triple.P10, triple.P50)
		assert.True(t, triple.P50.LessThanOrEqual(triple.P90), "p50 %s above p90 %s", triple.P50, triple.P90)
	}

	// 10 accumulation years + 30 drawdown years + the year-0 boundary.
	horizon := 41
	require.Len(t, summary.Wealth.P10, horizon)
	require.Len(t, summary.Wealth.P50, horizon)
	require.Len(t, summary.Wealth.P90, horizon)
	for year := 0; year < horizon; year++ {
		assert.True(t, summary.Wealth.P10[year].LessThanOrEqual(summary.Wealth.P50[year]),
			"year %d: p10 above p50", year)
		assert.True(t, summary.Wealth.P50[year].LessThanOrEqual(summary.Wealth.P90[year]),
			"year %d: p50 above p90", year)
	}
}

// TestBatchRunnerReproducible verifies the same base seed reproduces the
// summary exactly and a different seed does not
func TestBatchRunnerReproducible(t *testing.T) {
	rules := config.DefaultRules()
	profile := sampledProfile()

	first, err := NewBatchRunner(NewSimulator(rules, nil), 32, nil).Run(profile, 7)
	require.NoError(t, err)
	second, err := NewBatchRunner(NewSimulator(rules, nil), 32, nil).Run(profile, 7)
	require.NoError(t, err)
	other, err := NewBatchRunner(NewSimulator(rules, nil), 32, nil).Run(profile, 8)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same base seed must reproduce the summary bit for bit")
	assert.NotEqual(t, first, other, "distinct base seeds produced identical summaries")
}

// TestBatchRunnerInvalidProfile verifies the batch fails fast, before any
// run is dispatched
func TestBatchRunnerInvalidProfile(t *testing.T) {
	runner := NewBatchRunner(NewSimulator(config.DefaultRules(), nil), 8, nil)

	profile := sampledProfile()
	profile.RetirementAge = 50
	_, err := runner.Run(profile, 1)
	require.Error(t, err)
}

// TestBatchRunnerFailingRunFailsBatch verifies one bad run poisons the whole
// batch instead of yielding a partial summary
func TestBatchRunnerFailingRunFailsBatch(t *testing.T) {
	rules := config.DefaultRules()
	rules.HistoricalReturns = nil // every sampled run will fail

	runner := NewBatchRunner(NewSimulator(rules, nil), 8, nil)
	_, err := runner.Run(sampledProfile(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyHistoricalSeries)
}

// TestBatchRunnerDefaultRuns verifies the documented default ensemble size
func TestBatchRunnerDefaultRuns(t *testing.T) {
	runner := NewBatchRunner(NewSimulator(config.DefaultRules(), nil), 0, nil)
	assert.Equal(t, DefaultRuns, runner.Runs)
	assert.Equal(t, 1000, DefaultRuns)
}
