package output

import (
	"bytes"
	"fmt"

	"github.com/wealthsim/retirement-simulator/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(summary *domain.BatchSummary) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "LIFETIME WEALTH SIMULATION SUMMARY")
	fmt.Fprintln(&buf, "==================================")
	fmt.Fprintf(&buf, "Runs: %d  Base Seed: %d\n", summary.Runs, summary.BaseSeed)
	fmt.Fprintf(&buf, "Ruin Probability: %s\n", FormatProbability(summary.RuinProbability))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "                          P10            P50            P90")
	fmt.Fprintf(&buf, "End-of-Life Wealth  %14s %14s %14s\n",
		FormatCurrency(summary.EndOfLifeWealth.P10),
		FormatCurrency(summary.EndOfLifeWealth.P50),
		FormatCurrency(summary.EndOfLifeWealth.P90),
	)
	fmt.Fprintf(&buf, "First-Year Income   %14s %14s %14s\n",
		FormatCurrency(summary.FirstYearIncome.P10),
		FormatCurrency(summary.FirstYearIncome.P50),
		FormatCurrency(summary.FirstYearIncome.P90),
	)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "Wealth Bands (today's dollars)")
	step := 5
	for year := 0; year < len(summary.Wealth.P50); year += step {
		fmt.Fprintf(&buf, "  Year %3d: %14s %14s %14s\n",
			year,
			FormatCurrency(summary.Wealth.P10[year]),
			FormatCurrency(summary.Wealth.P50[year]),
			FormatCurrency(summary.Wealth.P90[year]),
		)
	}
	if last := len(summary.Wealth.P50) - 1; last >= 0 && last%step != 0 {
		fmt.Fprintf(&buf, "  Year %3d: %14s %14s %14s\n",
			last,
			FormatCurrency(summary.Wealth.P10[last]),
			FormatCurrency(summary.Wealth.P50[last]),
			FormatCurrency(summary.Wealth.P90[last]),
		)
	}
	return buf.Bytes(), nil
}
