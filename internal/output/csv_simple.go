package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/wealthsim/retirement-simulator/internal/domain"
)

// CSVFormatter emits the per-year wealth bands as CSV, one row per simulated
// year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(summary *domain.BatchSummary) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "WealthP10", "WealthP50", "WealthP90"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for year := range summary.Wealth.P50 {
		row := []string{
			strconv.Itoa(year),
			summary.Wealth.P10[year].StringFixed(2),
			summary.Wealth.P50[year].StringFixed(2),
			summary.Wealth.P90[year].StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
