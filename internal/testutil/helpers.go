// Package testutil provides test signals and assertions shared by the
// resampler packages.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-arb-resampler/internal/simdops"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	Float32Tolerance = 1e-5
	WindowTolerance  = 1e-12
	DBTolerance      = 0.01
)

// halfDivisor is used for finding center indices in symmetric arrays.
const halfDivisor = 2

// Sine returns n samples of a unit sine at freq Hz sampled at rate Hz.
func Sine[F simdops.Float](n int, freq, rate float64) []F {
	out := make([]F, n)
	w := 2 * math.Pi * freq / rate
	for i := range out {
		out[i] = F(math.Sin(w * float64(i)))
	}
	return out
}

// Impulse returns n samples with a single one at index at.
func Impulse[F simdops.Float](n, at int) []F {
	out := make([]F, n)
	out[at] = 1
	return out
}

// Noise returns n deterministic pseudo-random samples in [-1, 1).
func Noise[F simdops.Float](n int, seed uint32) []F {
	out := make([]F, n)
	s := seed | 1
	for i := range out {
		// xorshift32
		s ^= s << 13
		s ^= s >> 17
		s ^= s << 5
		out[i] = F(float64(s)/float64(math.MaxUint32)*2 - 1)
	}
	return out
}

// AssertSymmetric verifies that s[i] == s[n-1-i] within tolerance.
func AssertSymmetric(t *testing.T, s []float64, tolerance float64) bool {
	t.Helper()
	n := len(s)
	for i := range n / halfDivisor {
		j := n - 1 - i
		if !assert.InDelta(t, s[i], s[j], tolerance,
			"slice not symmetric at i=%d: s[%d]=%f != s[%d]=%f", i, i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertFinite verifies that no element is NaN or Inf.
func AssertFinite[F simdops.Float](t *testing.T, s []F) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(f, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertDCGain verifies that the sum of coefficients equals the expected DC gain.
func AssertDCGain(t *testing.T, coeffs []float64, expectedGain, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	var sum float64
	for _, c := range coeffs {
		sum += c
	}
	if len(msgAndArgs) > 0 {
		return assert.InDelta(t, expectedGain, sum, tolerance, msgAndArgs...)
	}
	return assert.InDelta(t, expectedGain, sum, tolerance,
		"DC gain = %f, want %f", sum, expectedGain)
}

// AssertCenterIsMax verifies that the center element is the maximum value.
func AssertCenterIsMax(t *testing.T, s []float64) bool {
	t.Helper()
	if len(s) == 0 {
		return assert.Fail(t, "empty slice")
	}
	centerIdx := len(s) / halfDivisor
	centerValue := s[centerIdx]
	for i, v := range s {
		if v > centerValue {
			return assert.Fail(t, "center is not max",
				"s[%d]=%f > center s[%d]=%f", i, v, centerIdx, centerValue)
		}
	}
	return true
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}
