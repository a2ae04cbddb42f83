// Package diode defines the closed-form exponential models fitted to diode
// current/voltage curves.
//
// Each model is a pure function of device voltage (V) and a fixed-size
// parameter vector, returning current in mA. Models are selected by name at
// the call site and never share state.
package diode

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownModel is returned by Lookup for an unregistered name.
var ErrUnknownModel = errors.New("unknown model")

// Params holds model parameters in the order given by Model.ParamNames.
type Params []float64

// Model is one parametrisation of diode conduction.
type Model interface {
	Name() string
	Formula() string
	// ParamNames names the parameters; its length is the model arity.
	ParamNames() []string
	// Eval returns the current at voltage v. p must have the model arity.
	Eval(v float64, p Params) float64
	// Guess returns a starting point for fitting the observations.
	Guess(v, i []float64) Params
}

// Model names accepted by Lookup.
const (
	NameQuadraticExp = "quadratic-exp"
	NameScaledExp    = "scaled-exp"
	NameSimpleExp    = "simple-exp"
)

var models = []Model{QuadraticExp{}, ScaledExp{}, SimpleExp{}}

// Lookup returns the model registered under name.
func Lookup(name string) (Model, error) {
	for _, m := range models {
		if m.Name() == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownModel, name, strings.Join(Names(), ", "))
}

// Names lists the registered model names.
func Names() []string {
	names := make([]string, len(models))
	for k, m := range models {
		names[k] = m.Name()
	}
	return names
}

// Default returns the quadratic-exponential model.
func Default() Model { return QuadraticExp{} }

// Arity returns the number of parameters of m.
func Arity(m Model) int { return len(m.ParamNames()) }

// Curve evaluates m at every voltage in vs.
func Curve(m Model, p Params, vs []float64) []float64 {
	out := make([]float64, len(vs))
	for k, v := range vs {
		out[k] = m.Eval(v, p)
	}
	return out
}

// QuadraticExp is I = exp(A v² + B v + C) - exp(C). I(0) is always zero.
type QuadraticExp struct{}

func (QuadraticExp) Name() string         { return NameQuadraticExp }
func (QuadraticExp) Formula() string      { return "I = exp(A*v^2 + B*v + C) - exp(C)" }
func (QuadraticExp) ParamNames() []string { return []string{"A", "B", "C"} }

func (QuadraticExp) Eval(v float64, p Params) float64 {
	a, b, c := p[0], p[1], p[2]
	return math.Exp(a*v*v+b*v+c) - math.Exp(c)
}

// Guess fits ln(I) with a quadratic over the points carrying current.
func (QuadraticExp) Guess(v, i []float64) Params {
	c, ok := logQuadratic(v, i)
	if !ok {
		return ones(3)
	}
	return Params{c[2], c[1], c[0]}
}

// ScaledExp is I = k (exp(alpha v + beta v²) - 1). I(0) is always zero.
type ScaledExp struct{}

func (ScaledExp) Name() string         { return NameScaledExp }
func (ScaledExp) Formula() string      { return "I = k*(exp(alpha*v + beta*v^2) - 1)" }
func (ScaledExp) ParamNames() []string { return []string{"k", "alpha", "beta"} }

func (ScaledExp) Eval(v float64, p Params) float64 {
	k, alpha, beta := p[0], p[1], p[2]
	return k * (math.Exp(alpha*v+beta*v*v) - 1)
}

func (ScaledExp) Guess(v, i []float64) Params {
	c, ok := logQuadratic(v, i)
	if !ok {
		return ones(3)
	}
	return Params{math.Exp(c[0]), c[1], c[2]}
}

// SimpleExp is I = exp(alpha (v - v0)). It does not pass through the
// origin and is the least accurate near turn-on.
type SimpleExp struct{}

func (SimpleExp) Name() string         { return NameSimpleExp }
func (SimpleExp) Formula() string      { return "I = exp(alpha*(v - v0))" }
func (SimpleExp) ParamNames() []string { return []string{"alpha", "v0"} }

func (SimpleExp) Eval(v float64, p Params) float64 {
	alpha, v0 := p[0], p[1]
	return math.Exp(alpha * (v - v0))
}

// Guess regresses ln(I) on v: the slope is alpha and the zero crossing v0.
func (SimpleExp) Guess(v, i []float64) Params {
	alpha, v0, ok := logLinear(v, i)
	if !ok {
		return ones(2)
	}
	return Params{alpha, v0}
}
