package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-arb-resampler/internal/testutil"
)

// TestWindow_Hamming9 checks the 9-point Hamming window against DSP.jl
// reference values.
func TestWindow_Hamming9(t *testing.T) {
	expected := []float64{
		0.08000000000000002,
		0.21473088065418822,
		0.54,
		0.865269119345812,
		1.0,
		0.865269119345812,
		0.54,
		0.21473088065418822,
		0.08000000000000002,
	}
	w, err := Window(WindowHamming, 9, 0)
	require.NoError(t, err)
	require.Len(t, w, len(expected))
	for i := range expected {
		assert.InDelta(t, expected[i], w[i], testutil.WindowTolerance, "tap %d", i)
	}
}

func TestWindow_Hann(t *testing.T) {
	w, err := Window(WindowHann, 5, 0)
	require.NoError(t, err)
	want := []float64{0, 0.5, 1, 0.5, 0}
	for i := range want {
		assert.InDelta(t, want[i], w[i], testutil.WindowTolerance)
	}
}

func TestWindow_AllKindsSymmetric(t *testing.T) {
	for kind := range windowNames {
		t.Run(kind.String(), func(t *testing.T) {
			for _, length := range []int{2, 11, 64, 257} {
				w, err := Window(kind, length, 8)
				require.NoError(t, err)
				require.Len(t, w, length)
				testutil.AssertSymmetric(t, w, testutil.WindowTolerance)
				for _, v := range w {
					testutil.AssertInRange(t, v, -1e-12, 1+1e-12)
				}
			}
		})
	}
}

func TestWindow_EdgeCases(t *testing.T) {
	w, err := Window(WindowBlackman, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, w)

	w, err = Window(WindowHann, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, w)

	_, err = Window(WindowKind(42), 8, 0)
	assert.Error(t, err)
}

func TestKaiserWindow(t *testing.T) {
	w := KaiserWindow(21, 8.6)
	testutil.AssertSymmetric(t, w, testutil.WindowTolerance)
	testutil.AssertCenterIsMax(t, w)
	assert.InDelta(t, 1.0, w[10], testutil.WindowTolerance)

	// β = 0 is rectangular.
	for _, v := range KaiserWindow(8, 0) {
		assert.InDelta(t, 1.0, v, testutil.WindowTolerance)
	}

	assert.Empty(t, KaiserWindow(0, 5))
	assert.Equal(t, []float64{1}, KaiserWindow(1, 5))
}

func TestParseWindow(t *testing.T) {
	for kind, name := range windowNames {
		got, err := ParseWindow(name)
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	got, err := ParseWindow("  Hann ")
	require.NoError(t, err)
	assert.Equal(t, WindowHann, got)

	_, err = ParseWindow("triangle")
	assert.Error(t, err)
	assert.Equal(t, "WindowKind(99)", WindowKind(99).String())
}

func BenchmarkKaiserWindow(b *testing.B) {
	for b.Loop() {
		_ = KaiserWindow(4095, 10)
	}
}
