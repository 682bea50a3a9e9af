package stats

import (
	"math"
	"sort"
)

// Group is one group of row indices sharing a key
type Group[K any] struct {
	Key  K
	Rows []int
}

// GroupBy groups the indices 0..n-1 by key. Groups come back in ascending key order,
// which is the order extremal selections use to break ties.
func GroupBy[K string | float64](n int, key func(i int) K) []Group[K] {
	index := make(map[K]int)
	var groups []Group[K]
	for i := 0; i < n; i++ {
		k := key(i)
		if f, ok := any(k).(float64); ok && math.IsNaN(f) {
			continue
		}
		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, Group[K]{Key: k})
		}
		groups[gi].Rows = append(groups[gi].Rows, i)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// ArgMax returns the index of the first maximum, skipping NaN. -1 when nothing qualifies.
func ArgMax(values []float64) int {
	best := -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if best == -1 || v > values[best] {
			best = i
		}
	}
	return best
}

// ArgMin returns the index of the first minimum, skipping NaN. -1 when nothing qualifies.
func ArgMin(values []float64) int {
	best := -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if best == -1 || v < values[best] {
			best = i
		}
	}
	return best
}
