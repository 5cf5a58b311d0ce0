package config

import (
	"github.com/shopspring/decimal"
	"github.com/wealthsim/retirement-simulator/internal/domain"
)

// DEFAULT RULES ASSUMPTIONS:
//
// 1. Federal brackets, standard deductions, LTCG brackets, and the
//    net-investment-income thresholds are 2025 values, applied to all
//    simulated years with no inflation indexing.
// 2. Estate tax uses the 2025 federal exemption and a 40% flat rate.
// 3. RMD divisors follow the IRS Uniform Lifetime Table, start age 73.
// 4. Social Security bend points are the 2025 monthly values ($1,226 /
//    $7,391) with the statutory 90/32/15 replacement tiers and FRA 67.
// 5. The historical return series is S&P 500 annual total returns
//    1995-2024.

func bracket(min, max int64, rate float64) domain.Bracket {
	return domain.Bracket{
		Min:  decimal.NewFromInt(min),
		Max:  decimal.NewFromInt(max),
		Rate: decimal.NewFromFloat(rate),
	}
}

// Top bracket sentinel, effectively unbounded.
const bracketCeiling = 999999999

// DefaultRules returns the built-in 2025 tax and benefit tables. Callers may
// override any section via the rules block of the input file.
func DefaultRules() *domain.Rules {
	return &domain.Rules{
		OrdinaryBrackets: map[domain.FilingStatus][]domain.Bracket{
			domain.FilingSingle: {
				bracket(0, 11925, 0.10),
				bracket(11925, 48475, 0.12),
				bracket(48475, 103350, 0.22),
				bracket(103350, 197300, 0.24),
				bracket(197300, 250525, 0.32),
				bracket(250525, 626350, 0.35),
				bracket(626350, bracketCeiling, 0.37),
			},
			domain.FilingMarried: {
				bracket(0, 23850, 0.10),
				bracket(23850, 96950, 0.12),
				bracket(96950, 206700, 0.22),
				bracket(206700, 394600, 0.24),
				bracket(394600, 501050, 0.32),
				bracket(501050, 751600, 0.35),
				bracket(751600, bracketCeiling, 0.37),
			},
		},
		StandardDeductions: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingSingle:  decimal.NewFromInt(15000),
			domain.FilingMarried: decimal.NewFromInt(30000),
		},
		CapitalGainsBrackets: map[domain.FilingStatus][]domain.Bracket{
			domain.FilingSingle: {
				bracket(0, 48350, 0.00),
				bracket(48350, 533400, 0.15),
				bracket(533400, bracketCeiling, 0.20),
			},
			domain.FilingMarried: {
				bracket(0, 96700, 0.00),
				bracket(96700, 600050, 0.15),
				bracket(600050, bracketCeiling, 0.20),
			},
		},
		InvestmentSurcharge: domain.InvestmentSurchargeRules{
			Rate: decimal.NewFromFloat(0.038),
			Thresholds: map[domain.FilingStatus]decimal.Decimal{
				domain.FilingSingle:  decimal.NewFromInt(200000),
				domain.FilingMarried: decimal.NewFromInt(250000),
			},
		},
		EstateTax: domain.EstateTaxRules{
			Exemptions: map[domain.FilingStatus]decimal.Decimal{
				domain.FilingSingle:  decimal.NewFromInt(13990000),
				domain.FilingMarried: decimal.NewFromInt(27980000),
			},
			Rate: decimal.NewFromFloat(0.40),
		},
		RMD: domain.RMDRules{
			StartAge:        73,
			Divisors:        uniformLifetimeTable(),
			FallbackDivisor: decimal.NewFromFloat(6.0),
		},
		SocialSecurity: domain.SocialSecurityRules{
			BendPoint1:        decimal.NewFromInt(1226),
			BendPoint2:        decimal.NewFromInt(7391),
			Rate1:             decimal.NewFromFloat(0.90),
			Rate2:             decimal.NewFromFloat(0.32),
			Rate3:             decimal.NewFromFloat(0.15),
			FullRetirementAge: 67,
		},
		HistoricalReturns: defaultHistoricalReturns(),
		LifeExpectancy:    95,
	}
}

// uniformLifetimeTable returns the IRS Uniform Lifetime Table divisors for
// ages 73 through 100.
func uniformLifetimeTable() map[int]decimal.Decimal {
	raw := map[int]float64{
		73: 26.5, 74: 25.5, 75: 24.6, 76: 23.7, 77: 22.9,
		78: 22.0, 79: 21.1, 80: 20.2, 81: 19.4, 82: 18.5,
		83: 17.7, 84: 16.8, 85: 16.0, 86: 15.2, 87: 14.4,
		88: 13.7, 89: 12.9, 90: 12.2, 91: 11.5, 92: 10.8,
		93: 10.1, 94: 9.5, 95: 8.9, 96: 8.4, 97: 7.8,
		98: 7.3, 99: 6.8, 100: 6.4,
	}
	table := make(map[int]decimal.Decimal, len(raw))
	for age, div := range raw {
		table[age] = decimal.NewFromFloat(div)
	}
	return table
}

// defaultHistoricalReturns returns S&P 500 annual total returns, 1995-2024.
func defaultHistoricalReturns() []decimal.Decimal {
	raw := []float64{
		0.3758, 0.2296, 0.3336, 0.2858, 0.2104, // 1995-1999
		-0.0910, -0.1189, -0.2210, 0.2868, 0.1088, // 2000-2004
		0.0491, 0.1579, 0.0549, -0.3700, 0.2646, // 2005-2009
		0.1506, 0.0211, 0.1600, 0.3239, 0.1369, // 2010-2014
		0.0138, 0.1196, 0.2183, -0.0438, 0.3149, // 2015-2019
		0.1840, 0.2871, -0.1811, 0.2629, 0.2502, // 2020-2024
	}
	series := make([]decimal.Decimal, len(raw))
	for i, r := range raw {
		series[i] = decimal.NewFromFloat(r)
	}
	return series
}
