package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wealthsim/retirement-simulator/internal/domain"
)

// SimulationInput is the top-level document parsed from an input file: the
// household profile plus an optional rules override block.
type SimulationInput struct {
	Household domain.HouseholdProfile `yaml:"household"`
	Rules     *domain.Rules           `yaml:"rules,omitempty"`
}

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a simulation input from a YAML file. When the file has
// no rules block, the built-in defaults are used. Both the household and the
// rules are validated before the input is returned.
func (ip *InputParser) LoadFromFile(filename string) (*SimulationInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var input SimulationInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if input.Rules == nil {
		input.Rules = DefaultRules()
	}

	if err := ip.Validate(&input); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}

	return &input, nil
}

// Validate checks the household profile and the rules tables.
func (ip *InputParser) Validate(input *SimulationInput) error {
	if err := input.Household.Validate(); err != nil {
		return fmt.Errorf("household: %w", err)
	}
	if err := input.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if input.Household.ReturnMode == domain.ReturnModeSampled && len(input.Rules.HistoricalReturns) == 0 {
		return fmt.Errorf("sampled return mode requires a historical return series")
	}
	if input.Household.RetirementAge >= input.Rules.LifeExpectancy {
		return fmt.Errorf("retirement age (%d) must be below life expectancy (%d)",
			input.Household.RetirementAge, input.Rules.LifeExpectancy)
	}
	return nil
}
