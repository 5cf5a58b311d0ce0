package calculation

import (
	"fmt"
	"math/rand"
	"runtime"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/wealthsim/retirement-simulator/internal/domain"
)

// DefaultRuns is the ensemble size used when the caller does not choose one.
const DefaultRuns = 1000

// BatchRunner drives many independently seeded single-path simulations and
// aggregates their outcomes into percentile bands.
type BatchRunner struct {
	Simulator *Simulator
	Runs      int
	// Parallelism caps concurrent runs; defaults to the CPU count.
	Parallelism int
	Logger      Logger
}

// NewBatchRunner creates a batch runner over the given simulator.
func NewBatchRunner(sim *Simulator, runs int, logger Logger) *BatchRunner {
	if runs <= 0 {
		runs = DefaultRuns
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &BatchRunner{
		Simulator:   sim,
		Runs:        runs,
		Parallelism: runtime.NumCPU(),
		Logger:      logger,
	}
}

// Run executes the full ensemble for the profile. Every run's seed is
// derived from baseSeed before any run is dispatched, so the same base seed
// reproduces the same summary bit for bit regardless of scheduling. A zero
// base seed draws a fresh one. Any failed run fails the whole batch.
func (br *BatchRunner) Run(profile *domain.HouseholdProfile, baseSeed int64) (*domain.BatchSummary, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid household profile: %w", err)
	}
	if baseSeed == 0 {
		baseSeed = seedFunc()
	}

	seedSource := rand.New(rand.NewSource(baseSeed))
	seeds := make([]int64, br.Runs)
	for i := range seeds {
		seeds[i] = seedSource.Int63()
	}

	br.Logger.Infof("starting batch: runs=%d base_seed=%d parallelism=%d", br.Runs, baseSeed, br.Parallelism)

	outcomes := make([]*domain.OutcomeRecord, br.Runs)
	var g errgroup.Group
	g.SetLimit(br.Parallelism)
	for i := range seeds {
		i := i
		g.Go(func() error {
			outcome, err := br.Simulator.RunSingle(profile, seeds[i])
			if err != nil {
				return fmt.Errorf("simulation run %d: %w", i, err)
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := br.aggregate(outcomes, baseSeed)
	br.Logger.Infof("batch complete: ruin_probability=%s median_end_wealth=%s",
		summary.RuinProbability, summary.EndOfLifeWealth.P50)
	return summary, nil
}

// aggregate collapses the ensemble into the batch summary: 10/50/90
// percentiles of each scalar outcome across runs, per-year percentile bands
// over the trajectory matrix (percentile of each year column, not of any one
// run), and the ruin probability.
func (br *BatchRunner) aggregate(outcomes []*domain.OutcomeRecord, baseSeed int64) *domain.BatchSummary {
	runs := len(outcomes)
	endWealth := make([]decimal.Decimal, runs)
	firstIncome := make([]decimal.Decimal, runs)
	ruined := 0
	for i, o := range outcomes {
		endWealth[i] = o.EndOfLifeWealth
		firstIncome[i] = o.FirstYearIncome
		if o.Ruined {
			ruined++
		}
	}

	horizon := len(outcomes[0].WealthPath)
	bands := domain.WealthBands{
		P10: make([]decimal.Decimal, horizon),
		P50: make([]decimal.Decimal, horizon),
		P90: make([]decimal.Decimal, horizon),
	}
	column := make([]decimal.Decimal, runs)
	for year := 0; year < horizon; year++ {
		for i, o := range outcomes {
			column[i] = o.WealthPath[year]
		}
		bands.P10[year] = Percentile(column, 10)
		bands.P50[year] = Percentile(column, 50)
		bands.P90[year] = Percentile(column, 90)
	}

	return &domain.BatchSummary{
		Runs:            runs,
		BaseSeed:        baseSeed,
		Wealth:          bands,
		EndOfLifeWealth: percentileTriple(endWealth),
		FirstYearIncome: percentileTriple(firstIncome),
		RuinProbability: decimal.NewFromInt(int64(ruined)).Div(decimal.NewFromInt(int64(runs))),
	}
}
