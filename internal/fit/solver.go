package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/banshee-data/diodeplot/internal/config"
)

// Solution is the outcome of one minimisation.
type Solution struct {
	X           []float64
	F           float64
	Evaluations int
	Status      string
	Converged   bool
}

// Solver minimises a scalar objective from a starting point.
type Solver interface {
	Minimize(objective func(x []float64) float64, initial []float64) (Solution, error)
}

// GonumSolver runs gonum/optimize with one of the configured methods.
type GonumSolver struct {
	Method             string
	MaxEvaluations     int
	ConvergeIterations int
	AbsoluteTolerance  float64
	RelativeTolerance  float64
}

// NewGonumSolver builds a solver from the fitting section of cfg.
func NewGonumSolver(cfg *config.FitConfig) *GonumSolver {
	return &GonumSolver{
		Method:             cfg.GetSolver(),
		MaxEvaluations:     cfg.GetMaxEvaluations(),
		ConvergeIterations: cfg.GetConvergeIterations(),
		AbsoluteTolerance:  cfg.GetAbsoluteTolerance(),
		RelativeTolerance:  cfg.GetRelativeTolerance(),
	}
}

func (s *GonumSolver) method() (optimize.Method, error) {
	switch s.Method {
	case "", config.SolverNelderMead:
		return &optimize.NelderMead{}, nil
	case config.SolverBFGS:
		return &optimize.BFGS{}, nil
	case config.SolverLBFGS:
		return &optimize.LBFGS{}, nil
	default:
		return nil, fmt.Errorf("unknown solver %q", s.Method)
	}
}

// StatusLineSearchStalled reports a quasi-Newton run whose line search
// could no longer make progress. It is accepted as converged.
const StatusLineSearchStalled = "LineSearchStalled"

// Minimize implements Solver. Gradients for the quasi-Newton methods come
// from central finite differences of the objective, and every objective
// call they make counts against MaxEvaluations.
func (s *GonumSolver) Minimize(objective func(x []float64) float64, initial []float64) (Solution, error) {
	method, err := s.method()
	if err != nil {
		return Solution{}, err
	}

	calls := 0
	counted := func(x []float64) float64 {
		calls++
		return objective(x)
	}
	problem := optimize.Problem{
		Func: counted,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, counted, x, &fd.Settings{Formula: fd.Central})
		},
	}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   s.AbsoluteTolerance,
			Relative:   s.RelativeTolerance,
			Iterations: s.ConvergeIterations,
		},
	}
	_, gradFree := method.(*optimize.NelderMead)
	settings.FuncEvaluations, settings.GradEvaluations = splitBudget(s.MaxEvaluations, len(initial), !gradFree)

	x0 := append([]float64(nil), initial...)
	result, err := optimize.Minimize(problem, x0, settings, method)
	if result == nil {
		return Solution{}, fmt.Errorf("%w: %v", ErrFitDidNotConverge, err)
	}

	sol := Solution{X: result.X, F: result.F, Evaluations: calls}
	sol.Status, sol.Converged = outcome(result.Status, err)
	if math.IsNaN(sol.F) || math.IsInf(sol.F, 0) {
		sol.Converged = false
	}
	return sol, nil
}

// splitBudget divides an objective call budget between function and
// gradient evaluations. A central-difference gradient in dim dimensions
// costs 2*dim calls. Gradient-free methods get the whole budget. Budgets
// too small for a single gradient still allow one.
func splitBudget(budget, dim int, usesGrad bool) (funcEvals, gradEvals int) {
	if budget <= 0 || !usesGrad {
		return budget, 0
	}
	perGrad := 2 * dim
	gradEvals = budget / (2 * perGrad)
	if gradEvals < 1 {
		gradEvals = 1
	}
	funcEvals = budget - gradEvals*perGrad
	if funcEvals < 1 {
		funcEvals = 1
	}
	return funcEvals, gradEvals
}

// outcome maps the gonum status and error of a run to the reported status
// and whether the fit should be accepted.
func outcome(status optimize.Status, err error) (string, bool) {
	if err == nil {
		return status.String(), converged(status)
	}
	if stalled(err) {
		return StatusLineSearchStalled, true
	}
	return status.String(), false
}

func stalled(err error) bool {
	return errors.Is(err, optimize.ErrLinesearcherFailure) || errors.Is(err, optimize.ErrNoProgress)
}

func converged(status optimize.Status) bool {
	switch status {
	case optimize.Success,
		optimize.FunctionThreshold,
		optimize.FunctionConvergence,
		optimize.GradientThreshold,
		optimize.StepConvergence,
		optimize.MethodConverge:
		return true
	default:
		return false
	}
}
