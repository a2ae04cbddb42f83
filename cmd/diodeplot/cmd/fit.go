package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banshee-data/diodeplot/internal/diode"
	"github.com/banshee-data/diodeplot/internal/fit"
	"github.com/banshee-data/diodeplot/internal/report"
	"github.com/banshee-data/diodeplot/internal/sample"
)

var (
	fitModel          string
	fitGuess          string
	fitSolver         string
	fitMaxEvaluations int
	fitJSON           bool
	fitNoPlot         bool
)

var fitCmd = &cobra.Command{
	Use:   "fit <infile>",
	Short: "Fit a diode model to a capture or curve file",
	Long: `Fit one of the exponential diode models to the device voltage and
current in a raw capture (.txt) or tabular curve (.csv), print the fitted
parameters and plot the observations against the model.

Examples:
  diodeplot fit capture.txt
  diodeplot fit --model scaled-exp --guess 1e-6,20,-1 capture.txt
  diodeplot fit --json --no-plot curve.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runFit,
}

func init() {
	rootCmd.AddCommand(fitCmd)

	fitCmd.Flags().StringVarP(&fitModel, "model", "m", "",
		"model to fit: "+strings.Join(diode.Names(), ", "))
	fitCmd.Flags().StringVar(&fitGuess, "guess", "",
		"comma-separated initial parameters (default: estimated from the data)")
	fitCmd.Flags().StringVar(&fitSolver, "solver", "",
		"minimiser: nelder-mead, bfgs or lbfgs")
	fitCmd.Flags().IntVar(&fitMaxEvaluations, "max-evaluations", 0,
		"objective evaluation budget, finite-difference gradient calls included")
	fitCmd.Flags().BoolVar(&fitJSON, "json", false,
		"print the fit summary as JSON")
	fitCmd.Flags().BoolVar(&fitNoPlot, "no-plot", false,
		"skip the chart")
	addOutputFlags(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(fitModel, fitSolver, fitMaxEvaluations)
	if err != nil {
		return err
	}
	cal, err := cfg.GetCalibration()
	if err != nil {
		return err
	}
	grammar, err := sample.ParseGrammar(grammarName)
	if err != nil {
		return err
	}
	guess, err := parseGuess(fitGuess)
	if err != nil {
		return err
	}

	curve, err := sample.LoadCurve(args[0], grammar, cal)
	if err != nil {
		return err
	}
	m, err := diode.Lookup(cfg.GetModel())
	if err != nil {
		return err
	}

	res, err := fit.New(cfg).Fit(m, curve.Voltage, curve.Current, guess)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if fitJSON {
		err = report.WriteJSON(out, m, res)
	} else {
		err = report.WriteText(out, m, res)
	}
	if err != nil {
		return err
	}

	if fitNoPlot {
		return nil
	}
	overlay := report.NewFitOverlay(curve, m, res, cfg.GetCurrentUnits())
	return emitOverlay(cmd, cfg, overlay, curve.Title, curve.Source)
}

// parseGuess reads "a,b[,c]". An empty string means no guess.
func parseGuess(s string) (diode.Params, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	p := make(diode.Params, len(fields))
	for k, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", fit.ErrBadGuess, f)
		}
		p[k] = v
	}
	return p, nil
}
