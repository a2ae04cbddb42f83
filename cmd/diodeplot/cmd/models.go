package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banshee-data/diodeplot/internal/calibration"
	"github.com/banshee-data/diodeplot/internal/diode"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the fittable models and calibrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Models:")
		for _, name := range diode.Names() {
			m, err := diode.Lookup(name)
			if err != nil {
				return err
			}
			marker := " "
			if name == diode.Default().Name() {
				marker = "*"
			}
			fmt.Fprintf(out, " %s %-14s %-10s %s\n", marker, name, strings.Join(m.ParamNames(), ","), m.Formula())
		}
		fmt.Fprintln(out, "\nCalibrations:")
		for _, name := range calibration.Names() {
			cal, err := calibration.Lookup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "   %-14s V = %.6g*code + %.6g, R = %g kOhm\n", name, cal.Slope, cal.Intercept, cal.SeriesResistanceKOhm)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
