package histogram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedMeanSingleMiddleBin(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 3, 5, 7, 9, 21} {
		for _, center := range []int{0, 1, 104, 511, 1023} {
			counts := make([]int, n)
			counts[(n-1)/2] = 1000
			got, err := WeightedMean(center, counts)
			require.NoError(t, err)
			assert.Equal(t, float64(center), got, "n=%d center=%d", n, center)
		}
	}
}

func TestWeightedMean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		center   int
		counts   []int
		expected float64
	}{
		{"single bin", 77, []int{5}, 77},
		{"symmetric spread", 100, []int{1, 0, 1}, 100},
		{"skewed high", 100, []int{0, 1, 1}, 100.5},
		{"skewed low", 100, []int{3, 1, 0}, 99.25},
		{"capture row channel 1", 104, []int{0, 0, 33, 961, 6, 0, 0}, 104 + (-33.0+6.0)/1000.0},
		{"capture row channel 2", 77, []int{0, 0, 13, 782, 205, 0, 0}, 77 + (-13.0+205.0)/1000.0},
		{"huge middle count", 10, []int{0, 1 << 62, 0}, 10},
		{"huge counts sum past MaxInt", 10, []int{1 << 62, 1 << 62, 0}, 9.5},
		{"MaxInt counts", 512, []int{math.MaxInt, math.MaxInt, math.MaxInt}, 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WeightedMean(tt.center, tt.counts)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestWeightedMeanErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty and even lengths are malformed", func(t *testing.T) {
		for _, counts := range [][]int{nil, {}, {1, 1}, {0, 5, 0, 1}, make([]int, 10)} {
			_, err := WeightedMean(10, counts)
			assert.ErrorIs(t, err, ErrMalformedHistogram, "counts=%v", counts)
		}
	})

	t.Run("non-positive totals are empty", func(t *testing.T) {
		for _, counts := range [][]int{{0}, {0, 0, 0}, {1, -1, 0}, {-2, 0, 1}} {
			_, err := WeightedMean(10, counts)
			assert.ErrorIs(t, err, ErrEmptyHistogram, "counts=%v", counts)
		}
	})

	t.Run("length is checked before total", func(t *testing.T) {
		_, err := WeightedMean(10, []int{0, 0})
		assert.ErrorIs(t, err, ErrMalformedHistogram)
	})
}

func TestRecordMean(t *testing.T) {
	t.Parallel()

	r := Record{Center: 26, Counts: []int{0, 2, 0}}
	got, err := r.Mean()
	require.NoError(t, err)
	assert.Equal(t, 25.0, got)
}
