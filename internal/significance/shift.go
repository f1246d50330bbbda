package significance

import (
	"math"

	"github.com/blaisecz/insight-engine/internal/domain"
)

// resolution is the smallest standard deviation assumed for a normalized
// signal, so identical readings do not produce an infinite t statistic.
const resolution = 0.01

// Method names the test MeanShift used.
type Method string

const (
	MethodWelch     Method = "welch"
	MethodOneSample Method = "one_sample"
)

// Shift describes how far exposed observations moved away from their reference.
type Shift struct {
	// Effect is the shift expressed as a correlation, t/sqrt(t^2+df), in [-1, 1].
	Effect     float64
	PValue     float64
	SampleSize int
	Mean       float64
	Reference  float64
	Method     Method
}

// MeanShift tests whether exposed observations differ from control ones. With at
// least two control observations it runs Welch's two-sample t-test; otherwise it
// runs a one-sample t-test against baseline. SampleSize is the exposed count.
func MeanShift(exposed, control []float64, baseline float64) (Shift, error) {
	n1 := len(exposed)
	if n1 < 2 {
		return Shift{}, domain.ErrInsufficientData
	}

	m1, v1 := meanVar(exposed)
	v1 = math.Max(v1, resolution*resolution)

	var t, df, ref float64
	method := MethodOneSample

	if n2 := len(control); n2 >= 2 {
		method = MethodWelch
		m2, v2 := meanVar(control)
		v2 = math.Max(v2, resolution*resolution)
		a := v1 / float64(n1)
		b := v2 / float64(n2)
		ref = m2
		t = (m1 - m2) / math.Sqrt(a+b)
		df = (a + b) * (a + b) / (a*a/float64(n1-1) + b*b/float64(n2-1))
	} else {
		ref = baseline
		t = (m1 - baseline) / math.Sqrt(v1/float64(n1))
		df = float64(n1 - 1)
	}

	return Shift{
		Effect:     clamp(t/math.Sqrt(t*t+df), -1, 1),
		PValue:     StudentTwoTailed(t, df),
		SampleSize: n1,
		Mean:       m1,
		Reference:  ref,
		Method:     method,
	}, nil
}

func meanVar(values []float64) (mean, variance float64) {
	n := float64(len(values))
	for _, v := range values {
		mean += v
	}
	mean /= n
	if len(values) < 2 {
		return mean, 0
	}
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return mean, variance / (n - 1)
}
