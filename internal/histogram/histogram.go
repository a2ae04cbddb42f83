// Package histogram reduces repeated-sampling count distributions to a
// single noise-reduced analog reading.
package histogram

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHistogram is returned when the bin count is zero or even,
	// so the window cannot be centred on the nominal reading.
	ErrMalformedHistogram = errors.New("malformed histogram")
	// ErrEmptyHistogram is returned when the counts do not sum to a
	// positive total.
	ErrEmptyHistogram = errors.New("empty histogram")
)

// Record is a symmetric window of counts around a nominal analog reading.
// Bin i holds the number of times the code Center+(i-middle) was observed.
type Record struct {
	Center int
	Counts []int
}

// Mean returns the count-weighted mean code of the record.
func (r Record) Mean() (float64, error) {
	return WeightedMean(r.Center, r.Counts)
}

// WeightedMean returns sum(counts[i]*code(i)) / sum(counts) where
// code(i) = center + (i - middle) and middle = (len(counts)-1)/2.
//
// Sums are taken in float64 so counts anywhere in the int range cannot
// wrap; they stay exact while below 2^53.
func WeightedMean(center int, counts []int) (float64, error) {
	n := len(counts)
	if n < 1 || n%2 != 1 {
		return 0, fmt.Errorf("%w: length %d must be odd", ErrMalformedHistogram, n)
	}
	middle := (n - 1) / 2

	var total, weight float64
	for i, c := range counts {
		total += float64(c)
		weight += float64(c) * float64(center+i-middle)
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: total count %g is not positive", ErrEmptyHistogram, total)
	}
	return weight / total, nil
}
