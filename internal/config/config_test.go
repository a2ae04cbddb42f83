package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/diodeplot/internal/calibration"
	"github.com/banshee-data/diodeplot/internal/diode"
)

func TestEmptyFitConfigDefaults(t *testing.T) {
	cfg := EmptyFitConfig()

	if got := cfg.GetCalibrationName(); got != calibration.Regression {
		t.Errorf("GetCalibrationName() = %q, want %q", got, calibration.Regression)
	}
	if got := cfg.GetSeriesResistanceKOhm(); got != 0.3272 {
		t.Errorf("GetSeriesResistanceKOhm() = %f, want 0.3272", got)
	}
	if got := cfg.GetModel(); got != diode.NameQuadraticExp {
		t.Errorf("GetModel() = %q, want %q", got, diode.NameQuadraticExp)
	}
	if got := cfg.GetSolver(); got != SolverNelderMead {
		t.Errorf("GetSolver() = %q, want %q", got, SolverNelderMead)
	}
	if got := cfg.GetMaxEvaluations(); got != 50000 {
		t.Errorf("GetMaxEvaluations() = %d, want 50000", got)
	}
	if got := cfg.GetConvergeIterations(); got != 200 {
		t.Errorf("GetConvergeIterations() = %d, want 200", got)
	}
	if got := cfg.GetAbsoluteTolerance(); got != 1e-14 {
		t.Errorf("GetAbsoluteTolerance() = %g, want 1e-14", got)
	}
	if got := cfg.GetRelativeTolerance(); got != 1e-10 {
		t.Errorf("GetRelativeTolerance() = %g, want 1e-10", got)
	}
	if got := cfg.GetPlotWidthInches(); got != 11 {
		t.Errorf("GetPlotWidthInches() = %f, want 11", got)
	}
	if got := cfg.GetPlotHeightInches(); got != 8.5 {
		t.Errorf("GetPlotHeightInches() = %f, want 8.5", got)
	}
	if got := cfg.GetCurrentUnits(); got != "mA" {
		t.Errorf("GetCurrentUnits() = %q, want mA", got)
	}
}

// The defaults file must agree with the Get* fallbacks.
func TestDefaultsFileMatchesFallbacks(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	empty := EmptyFitConfig()

	if cfg.GetCalibrationName() != empty.GetCalibrationName() {
		t.Errorf("calibration: file %q, fallback %q", cfg.GetCalibrationName(), empty.GetCalibrationName())
	}
	if cfg.GetSeriesResistanceKOhm() != empty.GetSeriesResistanceKOhm() {
		t.Errorf("series_resistance_kohm: file %f, fallback %f", cfg.GetSeriesResistanceKOhm(), empty.GetSeriesResistanceKOhm())
	}
	if cfg.GetModel() != empty.GetModel() {
		t.Errorf("model: file %q, fallback %q", cfg.GetModel(), empty.GetModel())
	}
	if cfg.GetSolver() != empty.GetSolver() {
		t.Errorf("solver: file %q, fallback %q", cfg.GetSolver(), empty.GetSolver())
	}
	if cfg.GetMaxEvaluations() != empty.GetMaxEvaluations() {
		t.Errorf("max_evaluations: file %d, fallback %d", cfg.GetMaxEvaluations(), empty.GetMaxEvaluations())
	}
	if cfg.GetConvergeIterations() != empty.GetConvergeIterations() {
		t.Errorf("converge_iterations: file %d, fallback %d", cfg.GetConvergeIterations(), empty.GetConvergeIterations())
	}
	if cfg.GetAbsoluteTolerance() != empty.GetAbsoluteTolerance() {
		t.Errorf("absolute_tolerance: file %g, fallback %g", cfg.GetAbsoluteTolerance(), empty.GetAbsoluteTolerance())
	}
	if cfg.GetRelativeTolerance() != empty.GetRelativeTolerance() {
		t.Errorf("relative_tolerance: file %g, fallback %g", cfg.GetRelativeTolerance(), empty.GetRelativeTolerance())
	}
	if cfg.GetPlotWidthInches() != empty.GetPlotWidthInches() {
		t.Errorf("plot_width_inches: file %f, fallback %f", cfg.GetPlotWidthInches(), empty.GetPlotWidthInches())
	}
	if cfg.GetPlotHeightInches() != empty.GetPlotHeightInches() {
		t.Errorf("plot_height_inches: file %f, fallback %f", cfg.GetPlotHeightInches(), empty.GetPlotHeightInches())
	}
	if cfg.GetCurrentUnits() != empty.GetCurrentUnits() {
		t.Errorf("current_units: file %q, fallback %q", cfg.GetCurrentUnits(), empty.GetCurrentUnits())
	}
}

func TestLoadFitConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "fit.json")

	testJSON := `{
  "calibration": "slope-only",
  "series_resistance_kohm": 1.0,
  "model": "simple-exp",
  "solver": "bfgs",
  "max_evaluations": 1000,
  "current_units": "uA"
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadFitConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetCalibrationName() != calibration.SlopeOnly {
		t.Errorf("GetCalibrationName() = %q, want %q", cfg.GetCalibrationName(), calibration.SlopeOnly)
	}
	if cfg.GetModel() != diode.NameSimpleExp {
		t.Errorf("GetModel() = %q, want %q", cfg.GetModel(), diode.NameSimpleExp)
	}
	if cfg.GetSolver() != SolverBFGS {
		t.Errorf("GetSolver() = %q, want %q", cfg.GetSolver(), SolverBFGS)
	}
	if cfg.GetMaxEvaluations() != 1000 {
		t.Errorf("GetMaxEvaluations() = %d, want 1000", cfg.GetMaxEvaluations())
	}
	if cfg.GetCurrentUnits() != "uA" {
		t.Errorf("GetCurrentUnits() = %q, want uA", cfg.GetCurrentUnits())
	}
	// Omitted fields keep their defaults.
	if cfg.GetPlotWidthInches() != 11 {
		t.Errorf("GetPlotWidthInches() = %f, want 11", cfg.GetPlotWidthInches())
	}

	cal, err := cfg.GetCalibration()
	if err != nil {
		t.Fatalf("GetCalibration() error = %v", err)
	}
	if cal.Name != calibration.SlopeOnly || cal.SeriesResistanceKOhm != 1.0 {
		t.Errorf("GetCalibration() = %+v, want slope-only with 1.0 kOhm", cal)
	}
}

func TestLoadFitConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		return path
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("fit.yaml", "{}"), ".json extension"},
		{"missing file", filepath.Join(tmpDir, "missing.json"), "failed to stat"},
		{"invalid json", write("bad.json", "{not json"), "failed to parse"},
		{"unknown model", write("model.json", `{"model": "cubic"}`), "unknown model"},
		{"unknown calibration", write("cal.json", `{"calibration": "guess"}`), "unknown calibration"},
		{"unknown solver", write("solver.json", `{"solver": "newton"}`), "solver must be one of"},
		{"negative resistance", write("res.json", `{"series_resistance_kohm": -1}`), "series_resistance_kohm"},
		{"zero evaluations", write("evals.json", `{"max_evaluations": 0}`), "max_evaluations"},
		{"bad units", write("units.json", `{"current_units": "kA"}`), "current_units"},
		{"zero width", write("width.json", `{"plot_width_inches": 0}`), "plot_width_inches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFitConfig(tt.path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFitConfigTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.json")
	data := make([]byte, 1024*1024+1)
	for k := range data {
		data[k] = ' '
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadFitConfig(path); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected too large error, got %v", err)
	}
}

func TestValidateWrapsLookupErrors(t *testing.T) {
	cfg := EmptyFitConfig()
	cfg.Model = ptrString("cubic")
	if err := cfg.Validate(); !errors.Is(err, diode.ErrUnknownModel) {
		t.Errorf("Validate() = %v, want ErrUnknownModel", err)
	}

	cfg = EmptyFitConfig()
	cfg.Calibration = ptrString("guess")
	if err := cfg.Validate(); !errors.Is(err, calibration.ErrUnknownCalibration) {
		t.Errorf("Validate() = %v, want ErrUnknownCalibration", err)
	}

	cfg = EmptyFitConfig()
	cfg.AbsoluteTolerance = ptrFloat64(0)
	cfg.RelativeTolerance = ptrFloat64(0)
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero tolerances should be valid, got %v", err)
	}
}

func TestOverride(t *testing.T) {
	base := EmptyFitConfig()
	base.Model = ptrString(diode.NameScaledExp)

	got := base.Override("", "", SolverLBFGS, "", 0)
	if got.GetModel() != diode.NameScaledExp {
		t.Errorf("empty override changed model to %q", got.GetModel())
	}
	if got.GetSolver() != SolverLBFGS {
		t.Errorf("GetSolver() = %q, want %q", got.GetSolver(), SolverLBFGS)
	}
	if base.Solver != nil {
		t.Error("Override modified the receiver")
	}

	got = base.Override(calibration.SlopeOnly, diode.NameSimpleExp, "", "A", 10)
	if got.GetCalibrationName() != calibration.SlopeOnly {
		t.Errorf("GetCalibrationName() = %q", got.GetCalibrationName())
	}
	if got.GetModel() != diode.NameSimpleExp {
		t.Errorf("GetModel() = %q", got.GetModel())
	}
	if got.GetCurrentUnits() != "A" {
		t.Errorf("GetCurrentUnits() = %q", got.GetCurrentUnits())
	}
	if got.GetMaxEvaluations() != 10 {
		t.Errorf("GetMaxEvaluations() = %d", got.GetMaxEvaluations())
	}
}
