package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wealthsim/retirement-simulator/internal/calculation"
	"github.com/wealthsim/retirement-simulator/internal/config"
	"github.com/wealthsim/retirement-simulator/internal/output"
)

var (
	inputFile   string // Path to the household/rules YAML file
	seed        int64  // Base seed; 0 draws one from the clock
	simulations int    // Monte Carlo ensemble size
	format      string // Output format name (console, json, csv)
	logLevel    string // Log verbosity level
	verbose     bool   // Shortcut for --log debug
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "wealthsim",
	Short: "Monte Carlo simulator for household retirement viability",
}

// logrusLogger adapts logrus to the calculation engine's logger interface.
type logrusLogger struct{}

func (logrusLogger) Debugf(format string, args ...any) { logrus.Debugf(format, args...) }
func (logrusLogger) Infof(format string, args ...any)  { logrus.Infof(format, args...) }
func (logrusLogger) Warnf(format string, args ...any)  { logrus.Warnf(format, args...) }
func (logrusLogger) Errorf(format string, args ...any) { logrus.Errorf(format, args...) }

func setupLogging() {
	if verbose {
		logLevel = "debug"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func loadInput() *config.SimulationInput {
	if inputFile == "" {
		logrus.Fatal("No input file provided (--input)")
	}
	parser := config.NewInputParser()
	input, err := parser.LoadFromFile(inputFile)
	if err != nil {
		logrus.Fatalf("Failed to load input: %v", err)
	}
	return input
}

// runCmd executes one single-path simulation and prints its outcome
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single lifetime wealth path",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		input := loadInput()

		sim := calculation.NewSimulator(input.Rules, logrusLogger{})
		outcome, err := sim.RunSingle(&input.Household, seed)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		data, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			logrus.Fatalf("Failed to encode outcome: %v", err)
		}
		fmt.Println(string(data))
	},
}

// montecarloCmd executes the full ensemble and prints the aggregate summary
var montecarloCmd = &cobra.Command{
	Use:   "montecarlo",
	Short: "Run the Monte Carlo ensemble and report percentile bands",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		input := loadInput()

		sim := calculation.NewSimulator(input.Rules, logrusLogger{})
		runner := calculation.NewBatchRunner(sim, simulations, logrusLogger{})
		summary, err := runner.Run(&input.Household, seed)
		if err != nil {
			logrus.Fatalf("Batch failed: %v", err)
		}

		formatter := output.GetFormatterByName(format)
		if formatter == nil {
			logrus.Fatalf("Unknown format %q (available: %v)", format, output.AvailableFormatterNames())
		}
		data, err := formatter.Format(summary)
		if err != nil {
			logrus.Fatalf("Failed to format summary: %v", err)
		}
		fmt.Print(string(data))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, montecarloCmd} {
		c.Flags().StringVar(&inputFile, "input", "", "Path to household YAML input file")
		c.Flags().Int64Var(&seed, "seed", 0, "Base seed for return sampling (0 = derive from clock)")
		c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	}
	montecarloCmd.Flags().IntVar(&simulations, "simulations", calculation.DefaultRuns, "Number of Monte Carlo runs")
	montecarloCmd.Flags().StringVar(&format, "format", "console", "Output format (console, json, csv)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(montecarloCmd)
}
