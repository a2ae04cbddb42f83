package fit

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/diodeplot/internal/diode"
)

// Above this condition number JᵀJ is treated as singular.
const maxCondition = 1e15

// covariance estimates s²(JᵀJ)⁻¹ with s² = rss/(n-p), where J is the
// Jacobian of the residuals at p. It also returns the condition number of
// JᵀJ and whether JᵀJ was singular.
func covariance(m diode.Model, p []float64, v, i []float64, rss float64) (cov *mat.SymDense, cond float64, singular bool) {
	n, dim := len(v), len(p)

	residuals := func(y, x []float64) {
		for k := range v {
			y[k] = m.Eval(v[k], x) - i[k]
		}
	}
	jac := mat.NewDense(n, dim, nil)
	fd.Jacobian(jac, residuals, p, &fd.JacobianSettings{Formula: fd.Central})

	jtj := mat.NewSymDense(dim, nil)
	jtj.SymOuterK(1, jac.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(jtj); !ok {
		return filled(dim, math.Inf(1)), math.Inf(1), true
	}
	cond = chol.Cond()
	if cond > maxCondition {
		return filled(dim, math.Inf(1)), cond, true
	}
	inv := mat.NewSymDense(dim, nil)
	if err := chol.InverseTo(inv); err != nil {
		return filled(dim, math.Inf(1)), cond, true
	}

	dof := n - dim
	if dof <= 0 {
		return filled(dim, math.Inf(1)), cond, false
	}
	inv.ScaleSym(rss/float64(dof), inv)
	return inv, cond, false
}

func filled(dim int, value float64) *mat.SymDense {
	data := make([]float64, dim*dim)
	for k := range data {
		data[k] = value
	}
	return mat.NewSymDense(dim, data)
}
