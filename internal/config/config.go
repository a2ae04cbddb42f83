package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/diodeplot/internal/calibration"
	"github.com/banshee-data/diodeplot/internal/diode"
	"github.com/banshee-data/diodeplot/internal/units"
)

// DefaultConfigPath is the path to the canonical defaults file. Its values
// must match the fallbacks returned by the Get* methods.
const DefaultConfigPath = "config/diodeplot.defaults.json"

// Solver names accepted by the "solver" field.
const (
	SolverNelderMead = "nelder-mead"
	SolverBFGS       = "bfgs"
	SolverLBFGS      = "lbfgs"
)

// ValidSolvers lists every accepted solver name.
var ValidSolvers = []string{SolverNelderMead, SolverBFGS, SolverLBFGS}

// FitConfig holds calibration, solver and plotting settings. Every field is
// optional; the Get* methods supply defaults for fields left unset.
type FitConfig struct {
	// Calibration
	Calibration          *string  `json:"calibration,omitempty"`
	SeriesResistanceKOhm *float64 `json:"series_resistance_kohm,omitempty"`

	// Fitting
	Model              *string  `json:"model,omitempty"`
	Solver             *string  `json:"solver,omitempty"`
	MaxEvaluations     *int     `json:"max_evaluations,omitempty"`
	ConvergeIterations *int     `json:"converge_iterations,omitempty"`
	AbsoluteTolerance  *float64 `json:"absolute_tolerance,omitempty"`
	RelativeTolerance  *float64 `json:"relative_tolerance,omitempty"`

	// Reporting
	PlotWidthInches  *float64 `json:"plot_width_inches,omitempty"`
	PlotHeightInches *float64 `json:"plot_height_inches,omitempty"`
	CurrentUnits     *string  `json:"current_units,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyFitConfig returns a FitConfig with all fields set to nil.
func EmptyFitConfig() *FitConfig {
	return &FitConfig{}
}

// LoadFitConfig loads a FitConfig from a JSON file. The file must have a
// .json extension and be at most 1 MiB. Fields omitted from the file keep
// their defaults.
func LoadFitConfig(path string) (*FitConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyFitConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded; intended
// for test setup.
func MustLoadDefaultConfig() *FitConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/diodeplot/cmd/
	}
	for _, path := range candidates {
		if cfg, err := LoadFitConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *FitConfig) Validate() error {
	if c.Calibration != nil {
		if _, err := calibration.Lookup(*c.Calibration); err != nil {
			return err
		}
	}
	if c.SeriesResistanceKOhm != nil && *c.SeriesResistanceKOhm <= 0 {
		return fmt.Errorf("series_resistance_kohm must be positive, got %f", *c.SeriesResistanceKOhm)
	}
	if c.Model != nil {
		if _, err := diode.Lookup(*c.Model); err != nil {
			return err
		}
	}
	if c.Solver != nil && !validSolver(*c.Solver) {
		return fmt.Errorf("solver must be one of %v, got %q", ValidSolvers, *c.Solver)
	}
	if c.MaxEvaluations != nil && *c.MaxEvaluations <= 0 {
		return fmt.Errorf("max_evaluations must be positive, got %d", *c.MaxEvaluations)
	}
	if c.ConvergeIterations != nil && *c.ConvergeIterations <= 0 {
		return fmt.Errorf("converge_iterations must be positive, got %d", *c.ConvergeIterations)
	}
	if c.AbsoluteTolerance != nil && *c.AbsoluteTolerance < 0 {
		return fmt.Errorf("absolute_tolerance must be non-negative, got %g", *c.AbsoluteTolerance)
	}
	if c.RelativeTolerance != nil && *c.RelativeTolerance < 0 {
		return fmt.Errorf("relative_tolerance must be non-negative, got %g", *c.RelativeTolerance)
	}
	if c.PlotWidthInches != nil && *c.PlotWidthInches <= 0 {
		return fmt.Errorf("plot_width_inches must be positive, got %f", *c.PlotWidthInches)
	}
	if c.PlotHeightInches != nil && *c.PlotHeightInches <= 0 {
		return fmt.Errorf("plot_height_inches must be positive, got %f", *c.PlotHeightInches)
	}
	if c.CurrentUnits != nil && !units.IsValid(*c.CurrentUnits) {
		return fmt.Errorf("current_units must be one of: %s", units.GetValidUnitsString())
	}
	return nil
}

func validSolver(name string) bool {
	for _, s := range ValidSolvers {
		if s == name {
			return true
		}
	}
	return false
}

// GetCalibrationName returns the calibration value or the default.
func (c *FitConfig) GetCalibrationName() string {
	if c.Calibration == nil {
		return calibration.Regression
	}
	return *c.Calibration
}

// GetSeriesResistanceKOhm returns the series_resistance_kohm value or the
// measured resistor value.
func (c *FitConfig) GetSeriesResistanceKOhm() float64 {
	if c.SeriesResistanceKOhm == nil {
		return calibration.SeriesResistanceKOhm
	}
	return *c.SeriesResistanceKOhm
}

// GetCalibration resolves the named calibration with the configured series
// resistance applied.
func (c *FitConfig) GetCalibration() (calibration.Calibration, error) {
	cal, err := calibration.Lookup(c.GetCalibrationName())
	if err != nil {
		return calibration.Calibration{}, err
	}
	return cal.WithResistance(c.GetSeriesResistanceKOhm()), nil
}

// GetModel returns the model value or the default.
func (c *FitConfig) GetModel() string {
	if c.Model == nil {
		return diode.NameQuadraticExp
	}
	return *c.Model
}

// GetSolver returns the solver value or the default.
func (c *FitConfig) GetSolver() string {
	if c.Solver == nil {
		return SolverNelderMead
	}
	return *c.Solver
}

// GetMaxEvaluations returns the max_evaluations value or the default.
func (c *FitConfig) GetMaxEvaluations() int {
	if c.MaxEvaluations == nil {
		return 50000
	}
	return *c.MaxEvaluations
}

// GetConvergeIterations returns the converge_iterations value or the default.
func (c *FitConfig) GetConvergeIterations() int {
	if c.ConvergeIterations == nil {
		return 200
	}
	return *c.ConvergeIterations
}

// GetAbsoluteTolerance returns the absolute_tolerance value or the default.
func (c *FitConfig) GetAbsoluteTolerance() float64 {
	if c.AbsoluteTolerance == nil {
		return 1e-14
	}
	return *c.AbsoluteTolerance
}

// GetRelativeTolerance returns the relative_tolerance value or the default.
func (c *FitConfig) GetRelativeTolerance() float64 {
	if c.RelativeTolerance == nil {
		return 1e-10
	}
	return *c.RelativeTolerance
}

// GetPlotWidthInches returns the plot_width_inches value or the default.
func (c *FitConfig) GetPlotWidthInches() float64 {
	if c.PlotWidthInches == nil {
		return 11
	}
	return *c.PlotWidthInches
}

// GetPlotHeightInches returns the plot_height_inches value or the default.
func (c *FitConfig) GetPlotHeightInches() float64 {
	if c.PlotHeightInches == nil {
		return 8.5
	}
	return *c.PlotHeightInches
}

// GetCurrentUnits returns the current_units value or the default.
func (c *FitConfig) GetCurrentUnits() string {
	if c.CurrentUnits == nil {
		return units.MilliAmp
	}
	return *c.CurrentUnits
}

// Override returns a copy of c with the non-empty values applied. It is
// used to layer command-line flags over a loaded file.
func (c *FitConfig) Override(calibrationName, model, solver, currentUnits string, maxEvaluations int) *FitConfig {
	out := *c
	if calibrationName != "" {
		out.Calibration = ptrString(calibrationName)
	}
	if model != "" {
		out.Model = ptrString(model)
	}
	if solver != "" {
		out.Solver = ptrString(solver)
	}
	if currentUnits != "" {
		out.CurrentUnits = ptrString(currentUnits)
	}
	if maxEvaluations > 0 {
		out.MaxEvaluations = ptrInt(maxEvaluations)
	}
	return &out
}
