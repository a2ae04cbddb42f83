package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/diodeplot/internal/config"
	"github.com/banshee-data/diodeplot/internal/monitoring"
	"github.com/banshee-data/diodeplot/internal/version"
)

var (
	// Global flags
	verbose         bool
	configPath      string
	calibrationName string
	grammarName     string
	currentUnits    string
)

var rootCmd = &cobra.Command{
	Use:   "diodeplot",
	Short: "Fit exponential models to diode I-V captures",
	Long: `Reconstruct device voltage and current from raw converter captures,
fit an exponential conduction model by nonlinear least squares and plot
the result.

Examples:
  diodeplot fit capture.txt                        # Fit the default model, save capture.png
  diodeplot fit --model simple-exp -o fit.svg curve.csv
  diodeplot fit --listen localhost:8080 capture.txt # Interactive chart in the browser
  diodeplot plot v2 i capture.txt                  # Raw I-V scatter
  diodeplot convert capture.txt -o curve.csv       # Capture to tabular curve`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			monitoring.SetOutput(cmd.ErrOrStderr(), "diodeplot ")
		} else {
			monitoring.SetLogger(nil)
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"JSON fit configuration (defaults apply to omitted fields)")
	rootCmd.PersistentFlags().StringVar(&calibrationName, "calibration", "",
		"converter calibration: regression or slope-only")
	rootCmd.PersistentFlags().StringVar(&grammarName, "grammar", "extended",
		"raw capture grammar: extended or triplet")
	rootCmd.PersistentFlags().StringVar(&currentUnits, "units", "",
		"current display units: mA, uA or A")
}

// loadConfig layers the command-line flags over the --config file.
func loadConfig(model, solver string, maxEvaluations int) (*config.FitConfig, error) {
	cfg := config.EmptyFitConfig()
	if configPath != "" {
		loaded, err := config.LoadFitConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg = cfg.Override(calibrationName, model, solver, currentUnits, maxEvaluations)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
