package significance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaisecz/insight-engine/internal/domain"
)

func linearSamples(n int, noise func(i int) float64) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		x := float64(i) / float64(n)
		samples[i] = Sample{X: x, Y: 0.2 + 0.5*x + noise(i)}
	}
	return samples
}

func alternating(amplitude float64) func(int) float64 {
	return func(i int) float64 {
		if i%2 == 0 {
			return amplitude
		}
		return -amplitude
	}
}

func TestCorrelationStrength(t *testing.T) {
	t.Run("fewer than three samples", func(t *testing.T) {
		_, err := CorrelationStrength([]Sample{{1, 1}, {2, 2}})
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
	})

	t.Run("perfect positive", func(t *testing.T) {
		r, err := CorrelationStrength(linearSamples(5, func(int) float64 { return 0 }))
		require.NoError(t, err)
		assert.InDelta(t, 1.0, r, 1e-12)
	})

	t.Run("perfect negative", func(t *testing.T) {
		r, err := CorrelationStrength([]Sample{{0, 3}, {1, 2}, {2, 1}, {3, 0}})
		require.NoError(t, err)
		assert.InDelta(t, -1.0, r, 1e-12)
	})

	t.Run("constant series has no relationship", func(t *testing.T) {
		r, err := CorrelationStrength([]Sample{{1, 0.5}, {2, 0.5}, {3, 0.5}})
		require.NoError(t, err)
		assert.Equal(t, 0.0, r)
	})

	t.Run("bounded", func(t *testing.T) {
		r, err := CorrelationStrength(linearSamples(40, alternating(0.3)))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r, -1.0)
		assert.LessOrEqual(t, r, 1.0)
	})
}

func TestStudentTwoTailed(t *testing.T) {
	tests := []struct {
		t, df, want float64
	}{
		{0, 10, 1},
		{2.228, 10, 0.05},
		{2.086, 20, 0.05},
		{2.626, 100, 0.01},
		{12.706, 1, 0.05},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, StudentTwoTailed(tt.t, tt.df), 1e-3, "t=%v df=%v", tt.t, tt.df)
	}
	assert.Equal(t, 0.0, StudentTwoTailed(math.Inf(1), 5))
	assert.Equal(t, 1.0, StudentTwoTailed(1, 0))
	assert.InDelta(t, StudentTwoTailed(1.5, 8), StudentTwoTailed(-1.5, 8), 1e-12)
}

func TestEstimateSignificance(t *testing.T) {
	t.Run("tiny samples are never significant", func(t *testing.T) {
		assert.Equal(t, 1.0, EstimateSignificance([]Sample{{0, 0}, {1, 1}}))
	})

	t.Run("known value", func(t *testing.T) {
		// r = 0.5 on 12 samples gives t = 1.826 with 10 degrees of freedom.
		assert.InDelta(t, 0.098, correlationPValue(0.5, 12), 2e-3)
	})

	t.Run("more samples at the same correlation are more significant", func(t *testing.T) {
		prev := 1.0
		for _, n := range []int{5, 10, 20, 40, 80} {
			p := correlationPValue(0.4, n)
			assert.Less(t, p, prev, "n=%d", n)
			prev = p
		}
	})

	t.Run("strong relationship", func(t *testing.T) {
		p := EstimateSignificance(linearSamples(30, alternating(0.02)))
		assert.Less(t, p, 0.001)
	})
}

func TestIsStatisticallyValid(t *testing.T) {
	for n := 0; n < domain.MinimumDataPoints; n++ {
		assert.False(t, IsStatisticallyValid(n, 0), "n=%d must be rejected regardless of p", n)
	}
	assert.True(t, IsStatisticallyValid(domain.MinimumDataPoints, domain.SignificanceThreshold))
	assert.False(t, IsStatisticallyValid(100, 0.051))
}

func TestSampleAdequacy(t *testing.T) {
	prev := 0.0
	for n := 1; n <= 500; n++ {
		a := SampleAdequacy(n)
		require.Greater(t, a, prev)
		require.Less(t, a, 1.0)
		prev = a
	}
	assert.Equal(t, 0.0, SampleAdequacy(0))
}

func TestMeanShift(t *testing.T) {
	tight := []float64{0.80, 0.82, 0.79, 0.81, 0.83, 0.80, 0.78, 0.82, 0.81, 0.80, 0.79, 0.82}

	t.Run("one sample against baseline", func(t *testing.T) {
		shift, err := MeanShift(tight, nil, 0.5)
		require.NoError(t, err)
		assert.Equal(t, MethodOneSample, shift.Method)
		assert.Equal(t, len(tight), shift.SampleSize)
		assert.Less(t, shift.PValue, 0.001)
		assert.Greater(t, shift.Effect, 0.9)
		assert.Equal(t, 0.5, shift.Reference)
	})

	t.Run("welch against control", func(t *testing.T) {
		control := []float64{0.45, 0.5, 0.55, 0.48, 0.52}
		shift, err := MeanShift(tight, control, 0.5)
		require.NoError(t, err)
		assert.Equal(t, MethodWelch, shift.Method)
		assert.Less(t, shift.PValue, 0.01)
		assert.Greater(t, shift.Effect, 0.5)
	})

	t.Run("negative shift", func(t *testing.T) {
		low := []float64{0.2, 0.22, 0.18, 0.21, 0.19, 0.2, 0.23, 0.17, 0.2, 0.21}
		shift, err := MeanShift(low, nil, 0.5)
		require.NoError(t, err)
		assert.Less(t, shift.Effect, -0.9)
	})

	t.Run("no shift", func(t *testing.T) {
		flat := []float64{0.4, 0.6, 0.45, 0.55, 0.5, 0.42, 0.58, 0.5, 0.47, 0.53}
		shift, err := MeanShift(flat, nil, 0.5)
		require.NoError(t, err)
		assert.Greater(t, shift.PValue, 0.5)
	})

	t.Run("insufficient exposed", func(t *testing.T) {
		_, err := MeanShift([]float64{0.9}, nil, 0.5)
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
	})
}

func TestLagSamples(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	samples := LagSamples(series, 7)
	require.Len(t, samples, 3)
	assert.Equal(t, Sample{X: 1, Y: 8}, samples[0])

	series[1] = math.NaN()
	assert.Len(t, LagSamples(series, 7), 2)

	fractional := LagSamples(make([]float64, 40), 29.5)
	assert.Len(t, fractional, 11)

	assert.Nil(t, LagSamples(series, 0.5))
}
