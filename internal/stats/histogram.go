package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/lastmile-backend-go/internal/models"
)

// Histogram splits the non-NaN values into n equal-width bins between their min and max.
// Every bin is [Lower, Upper) except the last, which also holds the max.
// A single distinct value produces one bin of width 1 centered on it.
func Histogram(values []float64, n int) []models.Bucket {
	sorted := sortedCopy(values)
	if len(sorted) == 0 || n < 1 {
		return []models.Bucket{}
	}

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []models.Bucket{{Lower: lo - 0.5, Upper: hi + 0.5, Count: len(sorted)}}
	}

	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram requires the last divider to be strictly greater than the max
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	buckets := make([]models.Bucket, n)
	for i := range buckets {
		upper := dividers[i+1]
		if i == n-1 {
			upper = hi
		}
		buckets[i] = models.Bucket{
			Lower: dividers[i],
			Upper: upper,
			Count: int(counts[i]),
		}
	}
	return buckets
}
