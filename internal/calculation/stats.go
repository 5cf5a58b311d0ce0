package calculation

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wealthsim/retirement-simulator/internal/domain"
)

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between order statistics. This is the single interpolation
// rule used everywhere percentiles are reported. Empty input yields zero.
func Percentile(values []decimal.Decimal, p float64) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := decimal.NewFromFloat(rank - float64(lo))
	return sorted[lo].Add(sorted[hi].Sub(sorted[lo]).Mul(frac))
}

// percentileTriple computes the standard 10/50/90 summary of one scalar
// outcome across a batch.
func percentileTriple(values []decimal.Decimal) domain.PercentileTriple {
	return domain.PercentileTriple{
		P10: Percentile(values, 10),
		P50: Percentile(values, 50),
		P90: Percentile(values, 90),
	}
}
