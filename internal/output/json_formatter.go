package output

import (
	"encoding/json"

	"github.com/wealthsim/retirement-simulator/internal/domain"
)

// JSONFormatter serializes the batch summary as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(summary *domain.BatchSummary) ([]byte, error) {
	return json.MarshalIndent(summary, "", "  ")
}
