package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-arb-resampler/internal/testutil"
)

// TestBesselI0 tests BesselI0 against tabulated values.
func TestBesselI0(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{"Zero", 0.0, 1.0},
		{"Half", 0.5, 1.0634833707413236},
		{"One", 1.0, 1.2660658777520082},
		{"Two", 2.0, 2.2795853023360673},
		{"Three", 3.0, 4.880792585865024},
		{"Five", 5.0, 27.239871823604442},
		{"Ten", 10.0, 2815.716628466254},
		{"Negative one", -1.0, 1.2660658777520082},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BesselI0(tt.x)
			assert.InEpsilon(t, tt.expected, got, 1e-9)
		})
	}
}

// TestBesselI0_LargeArgument compares against the leading asymptotic term
// e^x / sqrt(2πx) · (1 + 1/(8x)).
func TestBesselI0_LargeArgument(t *testing.T) {
	for _, x := range []float64{30, 40} {
		approx := math.Exp(x) / math.Sqrt(2*math.Pi*x) * (1 + 1/(8*x))
		assert.InEpsilon(t, approx, BesselI0(x), 1e-3, "x=%v", x)
	}
}

func TestBesselI0_Symmetry(t *testing.T) {
	for _, x := range []float64{0.1, 1.0, 2.5, 5.0, 10.0} {
		assert.Equal(t, BesselI0(x), BesselI0(-x), "x=%v", x)
	}
}

func TestBesselI0_Monotonic(t *testing.T) {
	prev := BesselI0(0)
	for x := 0.1; x < 20.0; x += 0.1 {
		curr := BesselI0(x)
		assert.Greater(t, curr, prev, "x=%v", x)
		prev = curr
	}
}

func BenchmarkBesselI0(b *testing.B) {
	for b.Loop() {
		_ = BesselI0(10.0)
	}
}

func TestKaiserBeta(t *testing.T) {
	tests := []struct {
		name        string
		attenuation float64
		expectedMin float64
		expectedMax float64
	}{
		{"20dB", 20.0, 0.0, 0.0},
		{"40dB", 40.0, 3.3, 3.4},
		{"50dB", 50.0, 4.5, 4.6},
		{"60dB", 60.0, 5.6, 5.7},
		{"100dB", 100.0, 10.0, 10.1},
		{"140dB", 140.0, 14.4, 14.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertInRange(t, KaiserBeta(tt.attenuation), tt.expectedMin, tt.expectedMax)
		})
	}
}

func TestKaiserBeta_Monotonic(t *testing.T) {
	prevBeta := KaiserBeta(20.0)
	for att := 25.0; att <= 180.0; att += 5.0 {
		beta := KaiserBeta(att)
		assert.GreaterOrEqual(t, beta, prevBeta, "att=%v", att)
		prevBeta = beta
	}
}

func TestKaiserAttenuation_Inverse(t *testing.T) {
	for _, att := range []float64{60.0, 80.0, 100.0, 120.0} {
		assert.InDelta(t, att, KaiserAttenuation(KaiserBeta(att)), 1e-9)
	}
	assert.Zero(t, KaiserAttenuation(0))
}

func TestEstimateFilterLength(t *testing.T) {
	tests := []struct {
		name         string
		attenuation  float64
		transitionBW float64
		minTaps      int
		maxTaps      int
	}{
		{"CD quality", 96.0, 0.1, 60, 80},
		{"High quality", 120.0, 0.05, 150, 200},
		{"Very high", 150.0, 0.02, 450, 550},
		{"Oversampled prototype", 100.0, 0.002, 3100, 3300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taps := EstimateFilterLength(tt.attenuation, tt.transitionBW)
			assert.Equal(t, 1, taps%2, "length should be odd: %d", taps)
			assert.GreaterOrEqual(t, taps, tt.minTaps)
			assert.LessOrEqual(t, taps, tt.maxTaps)
		})
	}
}

func TestEstimateFilterLength_Clamped(t *testing.T) {
	assert.Equal(t, minFilterLength, EstimateFilterLength(10.0, 0.1))
	assert.Equal(t, maxFilterLength, EstimateFilterLength(200.0, 1e-7))

	// Zero bandwidth falls back to the default.
	assert.Equal(t, EstimateFilterLength(100.0, defaultTransitionBW), EstimateFilterLength(100.0, 0))
}
