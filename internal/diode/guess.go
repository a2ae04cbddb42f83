package diode

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// logPoints returns the observations with positive current and the log of
// that current. Points at or below zero carry no information in log space.
func logPoints(v, i []float64) (xs, ys []float64) {
	for k := range v {
		if k >= len(i) {
			break
		}
		if i[k] > 0 && !math.IsInf(i[k], 0) && !math.IsNaN(v[k]) {
			xs = append(xs, v[k])
			ys = append(ys, math.Log(i[k]))
		}
	}
	return xs, ys
}

// logLinear fits ln(i) = alpha*(v - v0).
func logLinear(v, i []float64) (alpha, v0 float64, ok bool) {
	xs, ys := logPoints(v, i)
	if len(xs) < 2 {
		return 0, 0, false
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	if slope <= 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0, 0, false
	}
	return slope, -intercept / slope, true
}

// logQuadratic fits ln(i) = c0 + c1 v + c2 v² by linear least squares and
// returns [c0, c1, c2].
func logQuadratic(v, i []float64) ([]float64, bool) {
	xs, ys := logPoints(v, i)
	n := len(xs)
	if n < 3 {
		return nil, false
	}

	design := mat.NewDense(n, 3, nil)
	for r, x := range xs {
		design.Set(r, 0, 1)
		design.Set(r, 1, x)
		design.Set(r, 2, x*x)
	}
	var c mat.VecDense
	if err := c.SolveVec(design, mat.NewVecDense(n, ys)); err != nil {
		return nil, false
	}
	out := []float64{c.AtVec(0), c.AtVec(1), c.AtVec(2)}
	for _, x := range out {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, false
		}
	}
	return out, true
}

func ones(n int) Params {
	p := make(Params, n)
	for k := range p {
		p[k] = 1
	}
	return p
}
