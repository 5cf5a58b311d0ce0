package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/wealthsim/retirement-simulator/internal/config"
	"github.com/wealthsim/retirement-simulator/internal/domain"
)

// TestOrdinaryTax tests progressive income tax against the default 2025 brackets
func TestOrdinaryTax(t *testing.T) {
	rules := config.DefaultRules()

	tests := []struct {
		name         string
		filingStatus domain.FilingStatus
		grossIncome  decimal.Decimal
		expectedTax  decimal.Decimal
		description  string
	}{
		{
			name:         "Zero income",
			filingStatus: domain.FilingSingle,
			grossIncome:  decimal.Zero,
			expectedTax:  decimal.Zero,
			description:  "No income means no tax",
		},
		{
			name:         "Below standard deduction",
			filingStatus: domain.FilingSingle,
			grossIncome:  decimal.NewFromInt(12000),
			expectedTax:  decimal.Zero,
			description:  "Income below the $15,000 single deduction",
		},
		{
			name:         "Exactly the standard deduction",
			filingStatus: domain.FilingSingle,
			grossIncome:  decimal.NewFromInt(15000),
			expectedTax:  decimal.Zero,
			description:  "Taxable income is exactly zero",
		},
		{
			name:         "Two brackets single",
			filingStatus: domain.FilingSingle,
			grossIncome:  decimal.NewFromInt(30000),
			expectedTax:  decimal.NewFromFloat(1561.50), // 11925*0.10 + 3075*0.12
			description:  "15,000 taxable spanning 10% and 12%",
		},
		{
			name:         "Three brackets single",
			filingStatus: domain.FilingSingle,
			grossIncome:  decimal.NewFromInt(100000),
			expectedTax:  decimal.NewFromFloat(13614), // 1192.50 + 36550*0.12 + 36525*0.22
			description:  "85,000 taxable reaching the 22% bracket",
		},
		{
			name:         "Married brackets are wider",
			filingStatus: domain.FilingMarried,
			grossIncome:  decimal.NewFromInt(100000),
			expectedTax:  decimal.NewFromFloat(7923), // 23850*0.10 + 46150*0.12
			description:  "70,000 taxable for married filers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calculator := NewTaxCalculator(tt.filingStatus, rules)
			tax := calculator.OrdinaryTax(tt.grossIncome)

			difference := tax.Sub(tt.expectedTax).Abs()
			assert.True(t, difference.LessThan(decimal.NewFromFloat(0.01)),
				"%s: Expected %s, got %s", tt.description,
				tt.expectedTax.StringFixed(2), tax.StringFixed(2))
		})
	}
}

// TestOrdinaryTaxMonotonic verifies tax never decreases as income rises
func TestOrdinaryTaxMonotonic(t *testing.T) {
	calculator := NewTaxCalculator(domain.FilingSingle, config.DefaultRules())

	prev := decimal.Zero
	for income := int64(0); income <= 800000; income += 5000 {
		tax := calculator.OrdinaryTax(decimal.NewFromInt(income))
		assert.True(t, tax.GreaterThanOrEqual(prev),
			"tax decreased at income %d: %s < %s", income, tax, prev)
		prev = tax
	}
}

// TestCapitalGainsTaxStacking verifies ordinary income consumes gains
// bracket room before the gain does
func TestCapitalGainsTaxStacking(t *testing.T) {
	calculator := NewTaxCalculator(domain.FilingSingle, config.DefaultRules())

	tests := []struct {
		name           string
		gain           decimal.Decimal
		ordinaryIncome decimal.Decimal
		expectedTax    decimal.Decimal
		description    string
	}{
		{
			name:           "Small gain alone is untaxed",
			gain:           decimal.NewFromInt(10000),
			ordinaryIncome: decimal.Zero,
			expectedTax:    decimal.Zero,
			description:    "Gain fits inside the 0% bracket",
		},
		{
			name:           "Same gain on top of wages is taxed",
			gain:           decimal.NewFromInt(10000),
			ordinaryIncome: decimal.NewFromInt(100000),
			expectedTax:    decimal.NewFromInt(1500), // fully in the 15% bracket
			description:    "Ordinary income pushed the gain past the 0% bracket",
		},
		{
			name:           "Large gain spans every bracket",
			gain:           decimal.NewFromInt(600000),
			ordinaryIncome: decimal.Zero,
			expectedTax:    decimal.NewFromFloat(86077.50), // 485050*0.15 + 66600*0.20
			description:    "Gain alone reaches the 20% bracket",
		},
		{
			name:           "Negative gain",
			gain:           decimal.NewFromInt(-5000),
			ordinaryIncome: decimal.NewFromInt(100000),
			expectedTax:    decimal.Zero,
			description:    "Losses produce no tax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := calculator.CapitalGainsTax(tt.gain, tt.ordinaryIncome)
			difference := tax.Sub(tt.expectedTax).Abs()
			assert.True(t, difference.LessThan(decimal.NewFromFloat(0.01)),
				"%s: Expected %s, got %s", tt.description,
				tt.expectedTax.StringFixed(2), tax.StringFixed(2))
		})
	}
}

// TestCapitalGainsTaxOrderDependence is the property the stacking exists
// for: the same gain must tax differently with and without ordinary income
func TestCapitalGainsTaxOrderDependence(t *testing.T) {
	calculator := NewTaxCalculator(domain.FilingSingle, config.DefaultRules())

	gain := decimal.NewFromInt(30000)
	withWages := calculator.CapitalGainsTax(gain, decimal.NewFromInt(150000))
	withoutWages := calculator.CapitalGainsTax(gain, decimal.Zero)

	assert.False(t, withWages.Equal(withoutWages),
		"stacking had no effect: both %s", withWages)
	assert.True(t, withWages.GreaterThan(withoutWages))
}

// TestInvestmentIncomeSurcharge tests the net-investment-income surcharge thresholds
func TestInvestmentIncomeSurcharge(t *testing.T) {
	calculator := NewTaxCalculator(domain.FilingSingle, config.DefaultRules())

	tests := []struct {
		name             string
		investmentIncome decimal.Decimal
		modifiedAGI      decimal.Decimal
		expectedTax      decimal.Decimal
	}{
		{
			name:             "Below threshold",
			investmentIncome: decimal.NewFromInt(50000),
			modifiedAGI:      decimal.NewFromInt(150000),
			expectedTax:      decimal.Zero,
		},
		{
			name:             "Excess smaller than the gain",
			investmentIncome: decimal.NewFromInt(50000),
			modifiedAGI:      decimal.NewFromInt(230000),
			expectedTax:      decimal.NewFromInt(1140), // 30000 * 0.038
		},
		{
			name:             "Gain smaller than the excess",
			investmentIncome: decimal.NewFromInt(50000),
			modifiedAGI:      decimal.NewFromInt(300000),
			expectedTax:      decimal.NewFromInt(1900), // 50000 * 0.038
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := calculator.InvestmentIncomeSurcharge(tt.investmentIncome, tt.modifiedAGI)
			assert.True(t, tax.Equal(tt.expectedTax),
				"Expected %s, got %s", tt.expectedTax, tax)
		})
	}
}

// TestEstateTax tests the flat estate tax above the exemption
func TestEstateTax(t *testing.T) {
	calculator := NewTaxCalculator(domain.FilingSingle, config.DefaultRules())

	belowExemption := calculator.EstateTax(decimal.NewFromInt(10000000))
	assert.True(t, belowExemption.IsZero(), "estate under the exemption owes nothing")

	aboveExemption := calculator.EstateTax(decimal.NewFromInt(15000000))
	expected := decimal.NewFromInt(404000) // (15,000,000 - 13,990,000) * 0.40
	assert.True(t, aboveExemption.Equal(expected),
		"Expected %s, got %s", expected, aboveExemption)
}

// TestStateTax tests the flat state tax
func TestStateTax(t *testing.T) {
	rate := decimal.NewFromFloat(0.0307)

	tax := StateTax(decimal.NewFromInt(100000), rate)
	assert.True(t, tax.Equal(decimal.NewFromInt(3070)))

	assert.True(t, StateTax(decimal.NewFromInt(-500), rate).IsZero())
	assert.True(t, StateTax(decimal.Zero, rate).IsZero())
}
