// Package fit estimates diode model parameters by nonlinear least squares.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/diodeplot/internal/config"
	"github.com/banshee-data/diodeplot/internal/diode"
	"github.com/banshee-data/diodeplot/internal/monitoring"
)

var (
	// ErrInsufficientData is returned when there are fewer observations
	// than model parameters.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrFitDidNotConverge is returned when the solver exhausts its budget
	// or otherwise fails to reach a minimum.
	ErrFitDidNotConverge = errors.New("fit did not converge")
	// ErrLengthMismatch is returned when voltage and current differ in length.
	ErrLengthMismatch = errors.New("voltage and current lengths differ")
	// ErrBadGuess is returned for an initial guess of the wrong arity.
	ErrBadGuess = errors.New("initial guess does not match model arity")
)

// Result is a converged fit.
type Result struct {
	Model       string
	Params      diode.Params
	RSS         float64
	Points      int
	Evaluations int
	Status      string
	// Covariance is s²(JᵀJ)⁻¹ of the residuals at the optimum.
	Covariance *mat.SymDense
	// Condition is the condition number of JᵀJ.
	Condition float64
	// Singular is set when JᵀJ could not be inverted; Covariance is then
	// filled with +Inf.
	Singular bool
}

// StdErrors returns the square roots of the covariance diagonal.
func (r *Result) StdErrors() []float64 {
	if r.Covariance == nil {
		return nil
	}
	n := r.Covariance.SymmetricDim()
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		out[k] = math.Sqrt(r.Covariance.At(k, k))
	}
	return out
}

// Fitter fits diode models to observations.
type Fitter struct {
	Solver Solver
}

// New returns a Fitter using the gonum solver configured by cfg. A nil cfg
// uses the defaults.
func New(cfg *config.FitConfig) *Fitter {
	if cfg == nil {
		cfg = config.EmptyFitConfig()
	}
	return &Fitter{Solver: NewGonumSolver(cfg)}
}

// Fit minimises Σ (m(vₖ, p) - iₖ)² starting from guess. A nil guess asks
// the model for a data-driven starting point.
func (f *Fitter) Fit(m diode.Model, v, i []float64, guess diode.Params) (*Result, error) {
	if len(v) != len(i) {
		return nil, fmt.Errorf("%w: %d voltages, %d currents", ErrLengthMismatch, len(v), len(i))
	}
	arity := diode.Arity(m)
	if len(v) < arity {
		return nil, fmt.Errorf("%w: %d points for %d parameters of %s", ErrInsufficientData, len(v), arity, m.Name())
	}
	if guess == nil {
		guess = m.Guess(v, i)
	}
	if len(guess) != arity {
		return nil, fmt.Errorf("%w: %s takes %d parameters, got %d", ErrBadGuess, m.Name(), arity, len(guess))
	}

	objective := func(p []float64) float64 {
		return sumSquares(m, p, v, i)
	}

	sol, err := f.Solver.Minimize(objective, guess)
	if err != nil {
		if errors.Is(err, ErrFitDidNotConverge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrFitDidNotConverge, err)
	}
	monitoring.Logf("fit %s: status %s after %d evaluations, rss %g", m.Name(), sol.Status, sol.Evaluations, sol.F)
	if !sol.Converged {
		return nil, fmt.Errorf("%w: %s after %d evaluations", ErrFitDidNotConverge, sol.Status, sol.Evaluations)
	}

	cov, cond, singular := covariance(m, sol.X, v, i, sol.F)
	if singular {
		monitoring.Logf("fit %s: covariance is singular", m.Name())
	}

	return &Result{
		Model:       m.Name(),
		Params:      diode.Params(sol.X),
		RSS:         sol.F,
		Points:      len(v),
		Evaluations: sol.Evaluations,
		Status:      sol.Status,
		Covariance:  cov,
		Condition:   cond,
		Singular:    singular,
	}, nil
}

// sumSquares is the least-squares objective. Non-finite model values map
// to +Inf so the solver backs away from overflow.
func sumSquares(m diode.Model, p []float64, v, i []float64) float64 {
	var sum float64
	for k := range v {
		r := m.Eval(v[k], p) - i[k]
		sum += r * r
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return math.Inf(1)
	}
	return sum
}
