// Package significance holds the pure statistical functions used to accept or
// reject candidate patterns. Nothing here touches storage or the clock.
package significance

import (
	"math"

	"github.com/blaisecz/insight-engine/internal/domain"
)

// Sample is one aligned observation: X is the predictor (event exposure or a
// lagged value) and Y the user's observed value.
type Sample struct {
	X float64
	Y float64
}

// minSamples is the smallest sample a correlation is defined on.
const minSamples = 3

// CorrelationStrength returns the Pearson coefficient of samples in [-1, 1].
// A constant X or Y has no measurable relationship and yields 0.
func CorrelationStrength(samples []Sample) (float64, error) {
	if len(samples) < minSamples {
		return 0, domain.ErrInsufficientData
	}

	n := float64(len(samples))
	var meanX, meanY float64
	for _, s := range samples {
		meanX += s.X
		meanY += s.Y
	}
	meanX /= n
	meanY /= n

	var cov, varX, varY float64
	for _, s := range samples {
		dx := s.X - meanX
		dy := s.Y - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, nil
	}

	return clamp(cov/math.Sqrt(varX*varY), -1, 1), nil
}

// EstimateSignificance returns the two-tailed p-value for the null hypothesis
// "no relationship" using Student's t with n-2 degrees of freedom. At a fixed
// correlation, fewer samples always give a larger p-value.
func EstimateSignificance(samples []Sample) float64 {
	r, err := CorrelationStrength(samples)
	if err != nil {
		return 1
	}
	return correlationPValue(r, len(samples))
}

func correlationPValue(r float64, n int) float64 {
	if n < minSamples {
		return 1
	}
	df := float64(n - 2)
	if math.Abs(r) >= 1 {
		return 0
	}
	t := r * math.Sqrt(df/(1-r*r))
	return StudentTwoTailed(t, df)
}

// IsStatisticallyValid reports whether a result on sampleSize observations with
// the given p-value may be accepted as a pattern.
func IsStatisticallyValid(sampleSize int, pValue float64) bool {
	return sampleSize >= domain.MinimumDataPoints && pValue <= domain.SignificanceThreshold
}

// SampleAdequacy maps a sample size onto (0, 1). It grows monotonically with n
// and approaches 1 asymptotically.
func SampleAdequacy(n int) float64 {
	if n <= 0 {
		return 0
	}
	k := float64(domain.MinimumDataPoints) / 2
	return math.Sqrt(float64(n) / (float64(n) + k))
}

// LagSamples pairs each value of a daily series with the value period days
// later. Fractional periods alternate between the floor and ceiling lag so the
// average lag equals period. NaN marks a missing day and is skipped.
func LagSamples(series []float64, period float64) []Sample {
	lo := int(math.Floor(period))
	hi := int(math.Ceil(period))
	if lo < 1 {
		return nil
	}

	var samples []Sample
	for i := range series {
		lag := lo
		if i%2 == 1 {
			lag = hi
		}
		j := i + lag
		if j >= len(series) {
			break
		}
		if math.IsNaN(series[i]) || math.IsNaN(series[j]) {
			continue
		}
		samples = append(samples, Sample{X: series[i], Y: series[j]})
	}
	return samples
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
