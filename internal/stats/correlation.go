package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PearsonCorrelation calculates the Pearson correlation coefficient between two variables.
// Pairs where either side is NaN are dropped. Returns NaN when fewer than two pairs
// remain or either side has zero variance.
func PearsonCorrelation(x, y []float64) float64 {
	if len(x) != len(y) {
		return math.NaN()
	}

	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}

	return stat.Correlation(xs, ys, nil)
}
