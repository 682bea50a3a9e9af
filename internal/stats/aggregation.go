package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/lastmile-backend-go/internal/models"
)

// Mean calculates the arithmetic mean of a slice of float64 values.
// NaN values are skipped; an empty (or all-NaN) slice yields NaN.
func Mean(values []float64) float64 {
	valid := dropNaN(values)
	if len(valid) == 0 {
		return math.NaN()
	}
	return stat.Mean(valid, nil)
}

// Median calculates the median value, averaging the two middle values for even counts.
// NaN values are skipped.
func Median(values []float64) float64 {
	sorted := sortedCopy(values)
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// quantileSorted interpolates linearly between the closest ranks of sorted
func quantileSorted(sorted []float64, q float64) float64 {
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Describe returns count, mean, std, min, quartiles and max of the non-NaN values.
// Returns nil when there is no value to describe.
func Describe(values []float64) *models.Summary {
	sorted := sortedCopy(values)
	if len(sorted) == 0 {
		return nil
	}

	std := 0.0
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}

	return &models.Summary{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Std:    std,
		Min:    sorted[0],
		Q1:     quantileSorted(sorted, 0.25),
		Median: quantileSorted(sorted, 0.5),
		Q3:     quantileSorted(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// dropNaN returns the values that are not NaN
func dropNaN(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	return valid
}

// Round2 rounds to two decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedCopy(values []float64) []float64 {
	sorted := dropNaN(values)
	sort.Float64s(sorted)
	return sorted
}
