package report

import (
	"math"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/diodeplot/internal/diode"
	"github.com/banshee-data/diodeplot/internal/fit"
	"github.com/banshee-data/diodeplot/internal/sample"
	"github.com/banshee-data/diodeplot/internal/units"
)

// modelSamples is the number of points drawn along a fitted curve.
const modelSamples = 200

// Point is one (x, y) pair in display units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Overlay is a chart of observations with an optional fitted curve.
type Overlay struct {
	Title  string  `json:"title"`
	XLabel string  `json:"x_label"`
	YLabel string  `json:"y_label"`
	Points []Point `json:"points"`
	// Model is empty for a plain scatter chart.
	Model      []Point `json:"model,omitempty"`
	ModelLabel string  `json:"model_label,omitempty"`
	Params     string  `json:"params,omitempty"`
}

// NewScatterOverlay pairs xs with ys. Extra values in the longer slice
// are ignored.
func NewScatterOverlay(title, xLabel, yLabel string, xs, ys []float64) *Overlay {
	n := min(len(xs), len(ys))
	pts := make([]Point, n)
	for k := 0; k < n; k++ {
		pts[k] = Point{X: xs[k], Y: ys[k]}
	}
	return &Overlay{Title: title, XLabel: xLabel, YLabel: yLabel, Points: pts}
}

// NewFitOverlay charts the curve observations against the fitted model,
// with currents shown in unit.
func NewFitOverlay(c *sample.Curve, m diode.Model, res *fit.Result, unit string) *Overlay {
	title := c.Title
	if title == "" {
		title = filepath.Base(c.Source)
	}
	o := NewScatterOverlay(title,
		"device voltage [V]",
		units.Label("device current", unit),
		c.Voltage, units.ConvertCurrents(c.Current, unit))

	o.ModelLabel = m.Name()
	o.Params = FormatParams(m, res.Params)
	lo, hi := span(c.Voltage)
	if math.IsInf(lo, 0) {
		return o
	}
	vs := make([]float64, modelSamples)
	if hi > lo {
		floats.Span(vs, lo, hi)
	} else {
		vs = vs[:1]
		vs[0] = lo
	}
	is := units.ConvertCurrents(diode.Curve(m, res.Params, vs), unit)
	for k := range vs {
		if math.IsNaN(is[k]) || math.IsInf(is[k], 0) {
			continue
		}
		o.Model = append(o.Model, Point{X: vs[k], Y: is[k]})
	}
	return o
}

// span returns the finite extent of xs, or ±Inf when there is none.
func span(xs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}
