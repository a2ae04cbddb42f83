package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banshee-data/diodeplot/internal/report"
	"github.com/banshee-data/diodeplot/internal/sample"
	"github.com/banshee-data/diodeplot/internal/units"
)

var plotCmd = &cobra.Command{
	Use:   "plot <x> <y> <infile>",
	Short: "Scatter two capture variables against each other",
	Long: `Plot one capture variable against another. Variables are
  n   digital output (signed by bias direction)
  v1  op-amp output voltage
  v2  device voltage
  i   device current

Tabular .csv curves carry only v2 and i.

Examples:
  diodeplot plot v2 i capture.txt
  diodeplot plot n v1 -o ladder.svg capture.txt`,
	Args: cobra.ExactArgs(3),
	RunE: runPlot,
}

func init() {
	rootCmd.AddCommand(plotCmd)
	addOutputFlags(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	xv, err := sample.ParseVariable(args[0])
	if err != nil {
		return err
	}
	yv, err := sample.ParseVariable(args[1])
	if err != nil {
		return err
	}
	cfg, err := loadConfig("", "", 0)
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

	path := args[2]
	var columns func(sample.Variable) ([]float64, error)
	var title string
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		curve, err := sample.ReadCurveFile(path)
		if err != nil {
			return err
		}
		title = curve.Title
		columns = func(v sample.Variable) ([]float64, error) {
			switch v {
			case sample.VarV2:
				return curve.Voltage, nil
			case sample.VarCurrent:
				return curve.Current, nil
			}
			return nil, fmt.Errorf("%w: %q is not stored in tabular files", sample.ErrUnknownVariable, v)
		}
	} else {
		ds, err := sample.ParseFile(path, grammar, cal)
		if err != nil {
			return err
		}
		title = ds.Title
		columns = func(v sample.Variable) ([]float64, error) { return ds.Column(v), nil }
	}

	unit := cfg.GetCurrentUnits()
	xs, err := columns(xv)
	if err != nil {
		return err
	}
	ys, err := columns(yv)
	if err != nil {
		return err
	}
	xs, ys = displayValues(xv, xs, unit), displayValues(yv, ys, unit)

	chartTitle := title
	if chartTitle == "" {
		chartTitle = filepath.Base(path)
	}
	o := report.NewScatterOverlay(chartTitle, axisLabel(xv, unit), axisLabel(yv, unit), xs, ys)
	return emitOverlay(cmd, cfg, o, title, path)
}

func displayValues(v sample.Variable, values []float64, unit string) []float64 {
	if v == sample.VarCurrent {
		return units.ConvertCurrents(values, unit)
	}
	return values
}

func axisLabel(v sample.Variable, unit string) string {
	switch v {
	case sample.VarCurrent:
		return units.Label("device current", unit)
	case sample.VarV1, sample.VarV2:
		return v.Description() + " [V]"
	}
	return v.Description()
}
