package calculation

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/wealthsim/retirement-simulator/internal/domain"
)

// ErrEmptyHistoricalSeries is returned when sampled return mode is requested
// without any historical data to draw from.
var ErrEmptyHistoricalSeries = errors.New("historical return series is empty")

var one = decimal.NewFromInt(1)

// ReturnGenerator yields per-year growth factors (1 + rate) for a simulated
// horizon. Generators are deterministic given their construction inputs.
type ReturnGenerator interface {
	GrowthFactors(horizon int) ([]decimal.Decimal, error)
}

// realRate converts a nominal rate to an inflation-adjusted one:
// (1+nominal)/(1+inflation) - 1.
func realRate(nominal, inflation decimal.Decimal) decimal.Decimal {
	return one.Add(nominal).Div(one.Add(inflation)).Sub(one)
}

// FixedReturns yields the same growth factor every year.
type FixedReturns struct {
	Rate decimal.Decimal
}

// GrowthFactors returns horizon copies of 1 + Rate. A zero horizon yields an
// empty, non-nil slice.
func (fr *FixedReturns) GrowthFactors(horizon int) ([]decimal.Decimal, error) {
	factor := one.Add(fr.Rate)
	factors := make([]decimal.Decimal, horizon)
	for i := range factors {
		factors[i] = factor
	}
	return factors, nil
}

// SampledReturns draws annual returns with replacement from a historical
// series using a privately owned generator, so two instances built with the
// same seed yield identical sequences regardless of scheduling.
type SampledReturns struct {
	Series    []decimal.Decimal
	Inflation decimal.Decimal
	// Real converts each sampled nominal return to an inflation-adjusted one
	// before it is yielded.
	Real bool

	// GlidePath, when set, blends each stock sample with the bond return
	// estimate by the allocation at StartAge plus the year index.
	GlidePath *domain.GlidePathRules
	StartAge  int

	rng *rand.Rand
}

// NewSampledReturns creates a sampled-mode generator seeded from seed. Fails
// if the series is empty.
func NewSampledReturns(series []decimal.Decimal, inflation decimal.Decimal, real bool, seed int64) (*SampledReturns, error) {
	if len(series) == 0 {
		return nil, ErrEmptyHistoricalSeries
	}
	return &SampledReturns{
		Series:    series,
		Inflation: inflation,
		Real:      real,
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

// GrowthFactors samples horizon annual returns and converts each to a growth
// factor.
func (sr *SampledReturns) GrowthFactors(horizon int) ([]decimal.Decimal, error) {
	if len(sr.Series) == 0 {
		return nil, ErrEmptyHistoricalSeries
	}
	factors := make([]decimal.Decimal, horizon)
	for i := range factors {
		rate := sr.Series[sr.rng.Intn(len(sr.Series))]
		if sr.GlidePath.Enabled() {
			alloc := sr.GlidePath.AllocationAt(sr.StartAge + i)
			rate = rate.Mul(alloc).Add(sr.GlidePath.BondReturnEstimate.Mul(one.Sub(alloc)))
		}
		if sr.Real {
			rate = realRate(rate, sr.Inflation)
		}
		factors[i] = one.Add(rate)
	}
	return factors, nil
}

// NewReturnGenerator builds the generator the profile's return mode calls
// for. Sampled mode draws from the rules' historical series with the given
// seed; fixed mode ignores the seed.
func NewReturnGenerator(profile *domain.HouseholdProfile, rules *domain.Rules, seed int64) (ReturnGenerator, error) {
	switch profile.ReturnMode {
	case domain.ReturnModeFixed:
		rate := profile.NominalReturn
		if profile.RealReturns {
			rate = realRate(rate, profile.InflationRate)
		}
		return &FixedReturns{Rate: rate}, nil
	case domain.ReturnModeSampled:
		sr, err := NewSampledReturns(rules.HistoricalReturns, profile.InflationRate, profile.RealReturns, seed)
		if err != nil {
			return nil, err
		}
		sr.GlidePath = rules.GlidePath
		sr.StartAge = profile.YoungestAge()
		return sr, nil
	default:
		return nil, fmt.Errorf("unknown return mode %q", profile.ReturnMode)
	}
}
