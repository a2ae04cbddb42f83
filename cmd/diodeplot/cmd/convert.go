package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/diodeplot/internal/sample"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <infile>",
	Short: "Convert a raw capture to a tabular voltage/current curve",
	Long: `Parse a raw capture and write its device voltage and current as CSV
with the header "device voltage,device current [mA]". The result can be
fed back to fit.

Examples:
  diodeplot convert capture.txt > curve.csv
  diodeplot convert --calibration slope-only -o curve.csv capture.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "",
		"output CSV file (default: stdout)")
}

func runConvert(cmd *cobra.Command, args []string) error {
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

	ds, err := sample.ParseFile(args[0], grammar, cal)
	if err != nil {
		return err
	}
	curve := ds.Curve()

	if convertOutput == "" {
		return sample.WriteCurve(cmd.OutOrStdout(), curve)
	}
	if err := sample.WriteCurveFile(convertOutput, curve); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d points to %s\n", curve.Len(), convertOutput)
	return nil
}
