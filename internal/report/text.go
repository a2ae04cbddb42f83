// Package report renders fitted diode models as text, JSON, static images
// and an interactive chart.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/diodeplot/internal/diode"
	"github.com/banshee-data/diodeplot/internal/fit"
)

// FormatParams renders p as "A=…, B=…, C=…" using the model's parameter
// names.
func FormatParams(m diode.Model, p diode.Params) string {
	names := m.ParamNames()
	parts := make([]string, 0, len(p))
	for k, v := range p {
		name := fmt.Sprintf("p%d", k)
		if k < len(names) {
			name = names[k]
		}
		parts = append(parts, name+"="+formatFloat(v))
	}
	return strings.Join(parts, ", ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteText writes a human-readable fit summary.
func WriteText(w io.Writer, m diode.Model, res *fit.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "model: %s (%s)\n", m.Name(), m.Formula())
	fmt.Fprintf(&b, "%s\n", FormatParams(m, res.Params))

	stderr := res.StdErrors()
	for k, name := range m.ParamNames() {
		if k >= len(res.Params) {
			break
		}
		se := math.Inf(1)
		if k < len(stderr) {
			se = stderr[k]
		}
		fmt.Fprintf(&b, "  %-6s %14.6g ± %.3g\n", name, res.Params[k], se)
	}
	fmt.Fprintf(&b, "rss: %.6g over %d points\n", res.RSS, res.Points)
	fmt.Fprintf(&b, "solver: %s after %d evaluations\n", res.Status, res.Evaluations)
	if res.Singular {
		b.WriteString("warning: covariance is singular, parameter errors are undefined\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ParamSummary is one fitted parameter. StdError is nil when the error is
// not finite.
type ParamSummary struct {
	Name     string   `json:"name"`
	Value    float64  `json:"value"`
	StdError *float64 `json:"std_error"`
}

// Summary is the machine-readable form of a fit.
type Summary struct {
	Model       string         `json:"model"`
	Formula     string         `json:"formula"`
	Params      []ParamSummary `json:"params"`
	RSS         float64        `json:"rss"`
	Points      int            `json:"points"`
	Evaluations int            `json:"evaluations"`
	Status      string         `json:"status"`
	Singular    bool           `json:"singular"`
	Condition   *float64       `json:"condition,omitempty"`
}

// NewSummary collects the reportable fields of res.
func NewSummary(m diode.Model, res *fit.Result) Summary {
	s := Summary{
		Model:       m.Name(),
		Formula:     m.Formula(),
		RSS:         res.RSS,
		Points:      res.Points,
		Evaluations: res.Evaluations,
		Status:      res.Status,
		Singular:    res.Singular,
	}
	if !math.IsInf(res.Condition, 0) && !math.IsNaN(res.Condition) && res.Condition != 0 {
		cond := res.Condition
		s.Condition = &cond
	}
	stderr := res.StdErrors()
	for k, name := range m.ParamNames() {
		if k >= len(res.Params) {
			break
		}
		ps := ParamSummary{Name: name, Value: res.Params[k]}
		if k < len(stderr) && !math.IsInf(stderr[k], 0) && !math.IsNaN(stderr[k]) {
			se := stderr[k]
			ps.StdError = &se
		}
		s.Params = append(s.Params, ps)
	}
	return s
}

// WriteJSON writes the fit summary as indented JSON.
func WriteJSON(w io.Writer, m diode.Model, res *fit.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewSummary(m, res))
}
