package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-12)
	assert.InDelta(t, 2.0, Mean([]float64{1, math.NaN(), 3}), 1e-12)
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(Mean([]float64{math.NaN()})))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 4.0, Median([]float64{math.NaN(), 4}))
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestDescribe(t *testing.T) {
	assert.Nil(t, Describe(nil))

	s := Describe([]float64{30, 90, 150, math.NaN()})
	require.NotNil(t, s)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 90, s.Mean, 1e-12)
	assert.InDelta(t, 60, s.Std, 1e-12)
	assert.Equal(t, 30.0, s.Min)
	assert.Equal(t, 60.0, s.Q1)
	assert.Equal(t, 90.0, s.Median)
	assert.Equal(t, 120.0, s.Q3)
	assert.Equal(t, 150.0, s.Max)

	// quartiles interpolate between ranks
	even := Describe([]float64{4, 1, 3, 2})
	require.NotNil(t, even)
	assert.InDelta(t, 1.75, even.Q1, 1e-12)
	assert.InDelta(t, 2.5, even.Median, 1e-12)
	assert.InDelta(t, 3.25, even.Q3, 1e-12)

	single := Describe([]float64{5})
	require.NotNil(t, single)
	assert.Equal(t, 0.0, single.Std)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.14, Round2(3.14159))
	assert.Equal(t, 2.5, Round2(2.499999))
}
