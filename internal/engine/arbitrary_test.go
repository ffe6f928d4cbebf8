package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-arb-resampler/internal/errs"
	"github.com/tphakala/go-arb-resampler/internal/filter"
	"github.com/tphakala/go-arb-resampler/internal/polyphase"
	"github.com/tphakala/go-arb-resampler/internal/testutil"
	"gonum.org/v1/gonum/floats"
)

const (
	testPhases    = 8
	testTapsTotal = 61
	tolerance     = 1e-12
)

func newTestArbitrary(t *testing.T, rate float64, opts ...Option) *Arbitrary[float64] {
	t.Helper()
	a, err := NewArbitrary(testutil.Noise[float64](testTapsTotal, 1), testPhases, rate, opts...)
	require.NoError(t, err)
	return a
}

func TestNewArbitrary_Validation(t *testing.T) {
	taps := []float64{1, 2, 3, 4}
	tests := []struct {
		name string
		taps []float64
		n    int
		rate float64
		opts []Option
	}{
		{name: "one_phase", taps: taps, n: 1, rate: 1},
		{name: "zero_phases", taps: taps, n: 0, rate: 1},
		{name: "zero_rate", taps: taps, n: 2, rate: 0},
		{name: "negative_rate", taps: taps, n: 2, rate: -1.5},
		{name: "nan_rate", taps: taps, n: 2, rate: math.NaN()},
		{name: "inf_rate", taps: taps, n: 2, rate: math.Inf(1)},
		{name: "empty_taps", taps: nil, n: 2, rate: 1},
		{name: "unknown_mode", taps: taps, n: 2, rate: 1, opts: []Option{WithDerivative(DerivativeMode(7))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewArbitrary(tt.taps, tt.n, tt.rate, tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrInvalidConfig), "got %v", err)
			assert.Nil(t, a)
		})
	}
}

func TestNewArbitrary_StoresReversedRows(t *testing.T) {
	taps := make([]float64, 11)
	for i := range taps {
		taps[i] = float64(i)
	}
	a, err := NewArbitrary(taps, 4, 1)
	require.NoError(t, err)

	phases, rowLen := a.Dims()
	assert.Equal(t, 4, phases)
	assert.Equal(t, 3, rowLen)

	bank, dbank, owed := a.GetArbitraryInternals()
	assert.Equal(t, []float64{8, 4, 0}, bank.Row(0))
	assert.Equal(t, []float64{0, 7, 3}, bank.Row(3))
	// Row 3 of the tap difference: d[3]=1, d[7]=1, d[11]=0-0.
	assert.Equal(t, []float64{0, 1, 1}, dbank.Row(3))
	assert.Equal(t, primingInputs, owed)
}

// TestUnityRate_MatchesFIR checks that at rate 1 every output is branch 0
// with mu 0, which is a plain FIR over phase row 0.
func TestUnityRate_MatchesFIR(t *testing.T) {
	taps := testutil.Noise[float64](testTapsTotal, 5)
	input := testutil.Noise[float64](500, 11)

	a, err := NewArbitrary(taps, testPhases, 1.0)
	require.NoError(t, err)

	bank, err := polyphase.Decompose(taps, testPhases)
	require.NoError(t, err)
	fir, err := NewFIR(bank.Row(0))
	require.NoError(t, err)

	got := a.Process(input)
	want := fir.Process(input)

	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "sample %d", i)
	}
	assert.Zero(t, a.Phase())
}

// TestUnityRate_SinglePhaseRowIsPrototype covers a prototype whose only
// non-zero taps sit on row 0, so the FIR uses the prototype itself.
func TestUnityRate_SinglePhaseRowIsPrototype(t *testing.T) {
	fir := []float64{0.25, -0.5, 1, 0.75}
	taps := make([]float64, len(fir)*testPhases)
	for k, h := range fir {
		taps[k*testPhases] = h
	}

	a, err := NewArbitrary(taps, testPhases, 1.0)
	require.NoError(t, err)
	f, err := NewFIR(fir)
	require.NoError(t, err)

	input := testutil.Noise[float64](64, 2)
	assert.True(t, floats.EqualApprox(f.Process(input), a.Process(input), 1e-12))
}

func TestInterpolate_LinearInMu(t *testing.T) {
	for _, mode := range []DerivativeMode{DerivativeTaps, DerivativePhaseDiff} {
		t.Run(mode.String(), func(t *testing.T) {
			a := newTestArbitrary(t, 1, WithDerivative(mode))
			a.Process(testutil.Noise[float64](40, 7))

			for branch := range testPhases {
				y0 := a.Interpolate(branch, 0)
				y1 := a.Interpolate(branch, 1)
				for _, mu := range []float64{0.1, 0.25, 0.5, 0.8, 0.95} {
					want := y0 + mu*(y1-y0)
					assert.InDelta(t, want, a.Interpolate(branch, mu), 1e-9,
						"branch %d mu %v", branch, mu)
				}

				// Equal mu steps give equal output steps.
				d1 := a.Interpolate(branch, 0.5) - a.Interpolate(branch, 0.25)
				d2 := a.Interpolate(branch, 0.75) - a.Interpolate(branch, 0.5)
				assert.InDelta(t, d1, d2, 1e-9)
			}
		})
	}
}

// TestInterpolate_MuOneReachesNextBranch checks both derivative modes step
// exactly from one branch to the next, including the wrap from the last
// branch to branch 0 of the next input.
func TestInterpolate_MuOneReachesNextBranch(t *testing.T) {
	for _, mode := range []DerivativeMode{DerivativeTaps, DerivativePhaseDiff} {
		t.Run(mode.String(), func(t *testing.T) {
			a := newTestArbitrary(t, 1, WithDerivative(mode))
			a.Process(testutil.Noise[float64](40, 3))

			for branch := range testPhases - 1 {
				assert.InDelta(t, a.Interpolate(branch+1, 0), a.Interpolate(branch, 1), 1e-9,
					"branch %d", branch)
			}

			// Past the last branch the filter has moved on by one input. A
			// zero input isolates the part the current history contributes.
			next := a.Clone()
			next.hist.Push(0)
			assert.InDelta(t, next.Interpolate(0, 0), a.Interpolate(testPhases-1, 1), 1e-9, "wrap")
		})
	}
}

func TestInterpolate_BranchIsCyclic(t *testing.T) {
	a := newTestArbitrary(t, 1)
	a.Process(testutil.Noise[float64](40, 4))

	assert.InDelta(t, a.Interpolate(3, 0.5), a.Interpolate(3+testPhases, 0.5), tolerance)
	assert.InDelta(t, a.Interpolate(testPhases-1, 0.5), a.Interpolate(-1, 0.5), tolerance)
}

func TestNext_ExhaustionAndResume(t *testing.T) {
	a := newTestArbitrary(t, 0.5)

	_, err := a.Next()
	require.True(t, errors.Is(err, errs.ErrInputExhausted))

	a.Feed(1)
	_, err = a.Next()
	require.NoError(t, err)

	// Rate 0.5 consumes two inputs per output.
	a.Feed(2)
	_, err = a.Next()
	require.True(t, errors.Is(err, errs.ErrInputExhausted))
	assert.Zero(t, a.Pending())

	a.Feed(3)
	_, err = a.Next()
	require.NoError(t, err)

	stats := a.GetStatistics()
	assert.Equal(t, int64(3), stats["samplesIn"])
	assert.Equal(t, int64(2), stats["samplesOut"])
}

func TestNext_NoZeroSubstitution(t *testing.T) {
	a := newTestArbitrary(t, 4)
	a.Feed(1)

	var outputs int
	for {
		_, err := a.Next()
		if err != nil {
			require.True(t, errors.Is(err, errs.ErrInputExhausted))
			break
		}
		outputs++
	}
	assert.Equal(t, 4, outputs)

	// Repeated calls keep reporting exhaustion without advancing.
	phase := a.Phase()
	for range 3 {
		_, err := a.Next()
		assert.True(t, errors.Is(err, errs.ErrInputExhausted))
	}
	assert.Equal(t, phase, a.Phase())
}

func TestProcess_ChunkingIsTransparent(t *testing.T) {
	for _, rate := range []float64{0.37, 0.5, 1, 1.6, 3} {
		input := testutil.Noise[float64](1000, 21)

		whole := newTestArbitrary(t, rate)
		want := whole.Process(input)

		chunked := newTestArbitrary(t, rate)
		var got []float64
		for start, size := 0, 1; start < len(input); size = size%13 + 1 {
			end := min(start+size, len(input))
			got = append(got, chunked.Process(input[start:end])...)
			start = end
		}

		var single []float64
		oneAtATime := newTestArbitrary(t, rate)
		for _, x := range input {
			single = oneAtATime.Exec(x, single)
		}

		assert.Equal(t, want, got, "rate %v chunked", rate)
		assert.Equal(t, want, single, "rate %v exec", rate)
	}
}

func TestProcess_OutputCount(t *testing.T) {
	const inputs = 1000
	tests := []struct {
		rate float64
		want int
	}{
		{rate: 1, want: 1000},
		{rate: 2, want: 2000},
		{rate: 0.5, want: 500},
		{rate: 4, want: 4000},
		{rate: 0.25, want: 250},
		{rate: 44100.0 / 48000.0, want: 919},
		{rate: 48000.0 / 44100.0, want: 1089},
	}
	for _, tt := range tests {
		a := newTestArbitrary(t, tt.rate)
		out := a.Process(make([]float64, inputs))
		assert.InDelta(t, tt.want, len(out), 1, "rate %v", tt.rate)
		assert.GreaterOrEqual(t, a.Phase(), 0.0)
		assert.Less(t, a.Phase(), 1.0)
	}
}

func TestProcess_DCGain(t *testing.T) {
	const phases = 32
	taps, err := filter.DesignPrototype(phases, 24, 0.45, 100, filter.WindowKaiser)
	require.NoError(t, err)

	for _, rate := range []float64{0.6, 1, 1.37, 2.5} {
		a, err := NewArbitrary(taps, phases, rate)
		require.NoError(t, err)

		out := a.Process(ones(2000))
		_, rowLen := a.Dims()
		settle := int(float64(rowLen)*rate) + 1
		for i, y := range out[settle:] {
			if !assert.InDelta(t, 1.0, y, 1e-3, "rate %v sample %d", rate, i+settle) {
				break
			}
		}
	}
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func TestFlush_CoversLatency(t *testing.T) {
	for _, rate := range []float64{2, 0.5, 48000.0 / 44100.0} {
		a := newTestArbitrary(t, rate)
		a.Process(testutil.Noise[float64](1000, 2))
		tail := a.Flush()

		// Latency 3.75 inputs: five zeros are fed.
		assert.Equal(t, 5, a.FlushLen())
		delay := a.Latency() * rate
		assert.GreaterOrEqual(t, float64(len(tail)), math.Floor(delay), "rate %v", rate)
		assert.LessOrEqual(t, float64(len(tail)), math.Ceil((a.Latency()+2)*rate), "rate %v", rate)

		// Total output matches the count for the input plus the zeros.
		total := 1000 + a.FlushLen()
		assert.Equal(t, int64(math.Ceil(float64(total)*rate)), a.GetStatistics()["samplesOut"], "rate %v", rate)
	}
}

func TestPendingQueueIsCompacted(t *testing.T) {
	input := testutil.Noise[float64](3000, 21)

	a := newTestArbitrary(t, 1)
	var got []float64
	for i := 0; i < len(input); i += 3 {
		a.Write(input[i : i+3])
		for range 2 {
			y, err := a.Next()
			require.NoError(t, err)
			got = append(got, y)
		}
		require.LessOrEqual(t, len(a.pending), 2*a.Pending()+3, "iteration %d", i/3)
	}
	assert.Equal(t, 1000, a.Pending())
	got = a.drain(got)

	ref := newTestArbitrary(t, 1)
	assert.Equal(t, ref.Process(input), got)
}

func TestClone_Independent(t *testing.T) {
	a := newTestArbitrary(t, 1.3)
	a.Process(testutil.Noise[float64](100, 5))
	a.Feed(0.5)

	c := a.Clone()
	input := testutil.Noise[float64](200, 6)
	assert.Equal(t, a.Process(input), c.Process(input))

	// Banks are not shared.
	ab, _, _ := a.GetArbitraryInternals()
	cb, _, _ := c.GetArbitraryInternals()
	assert.NotSame(t, &ab.Row(0)[0], &cb.Row(0)[0])

	// Diverging one leaves the other alone.
	ref := c.Clone()
	a.Process(testutil.Noise[float64](50, 8))
	more := testutil.Noise[float64](30, 9)
	assert.Equal(t, ref.Process(more), c.Process(more))
}

func TestStateRestore(t *testing.T) {
	input := testutil.Noise[float64](600, 12)

	a := newTestArbitrary(t, 0.73)
	a.Process(input[:257])
	a.Feed(input[257])
	state := a.State()
	want := a.Process(input[258:])

	// 257 consumed inputs leave the write cursor off slot 0.
	assert.Equal(t, 1, state.Cursor)

	b := newTestArbitrary(t, 0.73)
	require.NoError(t, b.Restore(state))
	assert.Equal(t, state.Cursor, b.hist.Cursor())
	assert.Equal(t, 1, b.Pending())
	assert.Equal(t, want, b.Process(input[258:]))
}

func TestRestore_Rejects(t *testing.T) {
	a := newTestArbitrary(t, 2)
	good := a.State()

	tests := []struct {
		name  string
		state func() State[float64]
	}{
		{"rate_mismatch", func() State[float64] { s := good; s.Rate = 3; return s }},
		{"phase_one", func() State[float64] { s := good; s.Phase = 1; return s }},
		{"phase_negative", func() State[float64] { s := good; s.Phase = -0.1; return s }},
		{"negative_owed", func() State[float64] { s := good; s.Owed = -1; return s }},
		{"short_history", func() State[float64] { s := good; s.History = s.History[:1]; return s }},
		{"cursor_out_of_range", func() State[float64] { s := good; s.Cursor = len(s.History); return s }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Restore(tt.state())
			assert.True(t, errors.Is(err, errs.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestReset_MatchesFresh(t *testing.T) {
	input := testutil.Noise[float64](300, 13)

	a := newTestArbitrary(t, 1.7)
	first := a.Process(input)
	a.Feed(1)
	a.Reset()

	assert.Zero(t, a.Pending())
	assert.Zero(t, a.Phase())
	assert.Equal(t, first, a.Process(input))
}

func TestSIMDAndPortableAgree(t *testing.T) {
	input := testutil.Noise[float32](400, 14)
	taps := testutil.Noise[float32](testTapsTotal, 15)

	fast, err := NewArbitrary(taps, testPhases, 1.41)
	require.NoError(t, err)
	ref, err := NewArbitrary(taps, testPhases, 1.41, WithSIMD(false))
	require.NoError(t, err)
	assert.Equal(t, "portable", ref.OpsName())

	got := fast.Process(input)
	want := ref.Process(input)
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "sample %d", i)
	}
}

func TestAccessors(t *testing.T) {
	a := newTestArbitrary(t, 2.5, WithDerivative(DerivativePhaseDiff))
	assert.Equal(t, 2.5, a.Rate())
	assert.Equal(t, DerivativePhaseDiff, a.Mode())
	assert.Equal(t, testTapsTotal, a.TotalTaps())
	assert.InDelta(t, float64(testTapsTotal-1)/2/testPhases, a.Latency(), tolerance)
	assert.Positive(t, a.GetMemoryUsage())
	assert.Equal(t, "DerivativeMode(9)", DerivativeMode(9).String())
}

func BenchmarkArbitrary_Process(b *testing.B) {
	taps, err := filter.DesignPrototype(64, 32, 0.45, 100, filter.WindowKaiser)
	require.NoError(b, err)
	a, err := NewArbitrary(taps, 64, 44100.0/48000.0)
	require.NoError(b, err)
	input := testutil.Noise[float64](4096, 1)

	b.ReportAllocs()
	for b.Loop() {
		a.Process(input)
	}
}
