package resampler

import (
	"slices"

	"github.com/tphakala/go-arb-resampler/internal/engine"
	"github.com/tphakala/go-arb-resampler/internal/filter"
)

// ArbitraryOption configures an ArbitraryResampler.
type ArbitraryOption = engine.Option

// WithDerivative selects the derivative bank construction.
func WithDerivative(mode DerivativeMode) ArbitraryOption {
	return engine.WithDerivative(mode)
}

// WithSIMD enables or disables the accelerated inner product. It is
// enabled by default.
func WithSIMD(enabled bool) ArbitraryOption {
	return engine.WithSIMD(enabled)
}

// ArbitraryState is a checkpoint of an ArbitraryResampler's streaming
// state, as plain values.
type ArbitraryState = engine.State[float64]

// ArbitraryResampler converts a sample stream by any positive rate with a
// polyphase filter bank and linear interpolation between branches.
//
// It is pull-based: queue input with Feed or Write, then call Next until it
// returns ErrInputExhausted. An instance must not be used from more than
// one goroutine at a time; use Clone to get an independent copy.
type ArbitraryResampler struct {
	a *engine.Arbitrary[float64]
}

// NewArbitrary creates a resampler from a prototype filter at phases times
// the input rate. rate is output rate / input rate. phases must be at least
// 2. Use NewPrototype to design suitable taps.
func NewArbitrary(taps []float64, phases int, rate float64, opts ...ArbitraryOption) (*ArbitraryResampler, error) {
	a, err := engine.NewArbitrary(taps, phases, rate, opts...)
	if err != nil {
		return nil, err
	}
	return &ArbitraryResampler{a: a}, nil
}

// NewPrototype designs a lowpass prototype for NewArbitrary with phases
// branches of tapsPerPhase taps each. cutoff is in cycles per input sample
// (below 0.5); attenuation is the stopband attenuation in dB, 0 for the
// default. Every branch has unity DC gain.
func NewPrototype(phases, tapsPerPhase int, cutoff, attenuation float64, window Window) ([]float64, error) {
	if attenuation == 0 {
		attenuation = defaultArbitraryAttenuation
	}
	return filter.DesignPrototype(phases, tapsPerPhase, cutoff, attenuation, window)
}

// Feed queues one input sample.
func (r *ArbitraryResampler) Feed(x float64) {
	r.a.Feed(x)
}

// Write queues a block of input samples.
func (r *ArbitraryResampler) Write(xs []float64) {
	r.a.Write(xs)
}

// Next returns the next output sample, or ErrInputExhausted when more
// input is needed. After ErrInputExhausted the call can be repeated once
// more input is queued; nothing is lost or substituted.
func (r *ArbitraryResampler) Next() (float64, error) {
	return r.a.Next()
}

// Process queues input and returns every output that became available.
func (r *ArbitraryResampler) Process(input []float64) []float64 {
	return r.a.Process(input)
}

// Flush pushes zeros through the filter and returns the signal tail.
func (r *ArbitraryResampler) Flush() []float64 {
	return r.a.Flush()
}

// Reset returns the resampler to its initial state.
func (r *ArbitraryResampler) Reset() {
	r.a.Reset()
}

// Clone returns an independent copy with the same filter and state.
func (r *ArbitraryResampler) Clone() *ArbitraryResampler {
	return &ArbitraryResampler{a: r.a.Clone()}
}

// State captures the streaming state.
func (r *ArbitraryResampler) State() ArbitraryState {
	return r.a.State()
}

// Restore replaces the streaming state. The resampler must use the same
// filter dimensions and rate as the one the state was taken from.
func (r *ArbitraryResampler) Restore(s ArbitraryState) error {
	return r.a.Restore(s)
}

// Rate returns output rate / input rate.
func (r *ArbitraryResampler) Rate() float64 {
	return r.a.Rate()
}

// Phase returns the fractional read position in [0, 1).
func (r *ArbitraryResampler) Phase() float64 {
	return r.a.Phase()
}

// Pending returns the number of queued inputs not yet consumed.
func (r *ArbitraryResampler) Pending() int {
	return r.a.Pending()
}

// Latency returns the filter delay in input samples.
func (r *ArbitraryResampler) Latency() float64 {
	return r.a.Latency()
}

// Dims returns the number of phases and the taps per phase.
func (r *ArbitraryResampler) Dims() (phases, tapsPerPhase int) {
	return r.a.Dims()
}

// FIRFilter is a streaming FIR filter.
type FIRFilter struct {
	f *engine.FIR[float64]
}

// NewFIRFilter creates a filter with the given taps. taps[0] weights the
// newest sample.
func NewFIRFilter(taps []float64) (*FIRFilter, error) {
	f, err := engine.NewFIR(taps)
	if err != nil {
		return nil, err
	}
	return &FIRFilter{f: f}, nil
}

// ProcessSample pushes one sample and returns one output.
func (f *FIRFilter) ProcessSample(x float64) float64 {
	return f.f.Exec(x)
}

// Process filters a block of samples.
func (f *FIRFilter) Process(input []float64) []float64 {
	return f.f.Process(input)
}

// Taps returns a copy of the filter taps in their original order.
func (f *FIRFilter) Taps() []float64 {
	taps := slices.Clone(f.f.Taps())
	slices.Reverse(taps)
	return taps
}

// Reset clears the filter history.
func (f *FIRFilter) Reset() {
	f.f.Reset()
}
