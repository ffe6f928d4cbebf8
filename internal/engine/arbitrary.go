package engine

import (
	"fmt"
	"math"

	"github.com/tphakala/go-arb-resampler/internal/errs"
	"github.com/tphakala/go-arb-resampler/internal/history"
	"github.com/tphakala/go-arb-resampler/internal/polyphase"
	"github.com/tphakala/go-arb-resampler/internal/simdops"
)

// DerivativeMode selects how the derivative bank is built.
type DerivativeMode int

const (
	// DerivativeTaps decomposes the first difference of the prototype taps.
	DerivativeTaps DerivativeMode = iota

	// DerivativePhaseDiff differences neighbouring phase rows of the bank.
	// Branch i reads step row i+1, which is row(i+1) - row(i); the last
	// branch steps into row 0 advanced by one tap.
	DerivativePhaseDiff
)

// String returns the mode name.
func (m DerivativeMode) String() string {
	switch m {
	case DerivativeTaps:
		return "taps"
	case DerivativePhaseDiff:
		return "phase-diff"
	default:
		return fmt.Sprintf("DerivativeMode(%d)", int(m))
	}
}

type arbitraryOptions struct {
	derivative DerivativeMode
	enableSIMD bool
}

// Option configures an Arbitrary resampler.
type Option func(*arbitraryOptions)

// WithDerivative selects the derivative bank construction.
func WithDerivative(mode DerivativeMode) Option {
	return func(o *arbitraryOptions) {
		o.derivative = mode
	}
}

// WithSIMD enables or disables the accelerated inner product. When
// disabled the portable reference implementation is used.
func WithSIMD(enabled bool) Option {
	return func(o *arbitraryOptions) {
		o.enableSIMD = enabled
	}
}

// Arbitrary is a streaming resampler for any positive rate.
//
// Each output sample is evaluated at a fractional position between two
// polyphase branches:
//
//	idx    = phase * N
//	branch = floor(idx) mod N
//	mu     = idx - floor(idx)
//	y      = <row(branch), x> + mu * <drow(branch), x>
//
// where x is the history of the last L inputs. After each output phase is
// advanced by 1/rate and one input is consumed for every whole unit it
// crosses. Up, down and unity rates all run through the same loop.
//
// Input is pulled: Next returns ErrInputExhausted when it needs a sample
// that has not been fed yet, and can be called again after Feed or Write.
//
// Type parameter F must be float32 or float64.
type Arbitrary[F simdops.Float] struct {
	// Banks store each row time-reversed so row[0] multiplies the oldest
	// history sample and row[L-1] the newest.
	bank  *polyphase.Bank[F]
	dbank *polyphase.Bank[F]
	// drowOffset is 0 for DerivativeTaps and 1 for DerivativePhaseDiff.
	drowOffset int
	mode       DerivativeMode

	hist *history.History[F]
	ops  *simdops.Ops[F]

	numPhases int
	rowLen    int
	totalTaps int

	rate  float64
	step  float64
	phase float64
	// owed counts inputs that must be consumed before the next output.
	owed int

	// pending queues fed inputs; pending[head:] are not yet consumed. The
	// queue is rewound whenever Next drains it.
	pending []F
	head    int

	samplesIn  int64
	samplesOut int64
}

// NewArbitrary creates a resampler from prototype taps split into n phases.
// rate is output rate / input rate.
//
// The prototype is expected at the n-times oversampled rate. For unity gain
// its DC sum should be n, so that every phase row sums to about one.
func NewArbitrary[F simdops.Float](taps []F, n int, rate float64, opts ...Option) (*Arbitrary[F], error) {
	if n < minArbitraryPhases {
		return nil, fmt.Errorf("%w: arbitrary resampler needs at least %d phases, got %d",
			errs.ErrInvalidConfig, minArbitraryPhases, n)
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("%w: resample rate must be positive and finite, got %v", errs.ErrInvalidConfig, rate)
	}
	if len(taps) == 0 {
		return nil, fmt.Errorf("%w: prototype taps are empty", errs.ErrInvalidConfig)
	}

	o := arbitraryOptions{derivative: DerivativeTaps, enableSIMD: true}
	for _, opt := range opts {
		opt(&o)
	}

	bank, err := polyphase.Decompose(taps, n)
	if err != nil {
		return nil, fmt.Errorf("failed to decompose prototype: %w", err)
	}

	var dbank *polyphase.Bank[F]
	drowOffset := 0
	switch o.derivative {
	case DerivativeTaps:
		dbank, err = polyphase.Derivative(taps, n)
	case DerivativePhaseDiff:
		dbank, err = bank.PhaseStep()
		drowOffset = 1
	default:
		err = fmt.Errorf("%w: unknown derivative mode %d", errs.ErrInvalidConfig, int(o.derivative))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build derivative bank: %w", err)
	}

	_, rowLen := bank.Dims()
	hist, err := history.New[F](rowLen)
	if err != nil {
		return nil, err
	}

	return &Arbitrary[F]{
		bank:       bank.Reversed(),
		dbank:      dbank.Reversed(),
		drowOffset: drowOffset,
		mode:       o.derivative,
		hist:       hist,
		ops:        simdops.Select[F](o.enableSIMD),
		numPhases:  n,
		rowLen:     rowLen,
		totalTaps:  len(taps),
		rate:       rate,
		step:       1 / rate,
		owed:       primingInputs,
	}, nil
}

// Feed queues one input sample.
func (a *Arbitrary[F]) Feed(x F) {
	a.compact()
	a.pending = append(a.pending, x)
}

// Write queues a block of input samples.
func (a *Arbitrary[F]) Write(xs []F) {
	a.compact()
	a.pending = append(a.pending, xs...)
}

// compact drops the consumed prefix of the queue once it is the larger part.
func (a *Arbitrary[F]) compact() {
	if a.head == 0 || a.head <= len(a.pending)/2 {
		return
	}
	n := copy(a.pending, a.pending[a.head:])
	a.pending = a.pending[:n]
	a.head = 0
}

// Next produces one output sample. It returns errs.ErrInputExhausted when
// an input must be consumed and none is queued; the resampler keeps its
// position and Next can be retried once more input is fed.
func (a *Arbitrary[F]) Next() (F, error) {
	for a.owed > 0 {
		if a.head == len(a.pending) {
			a.pending = a.pending[:0]
			a.head = 0
			return 0, errs.ErrInputExhausted
		}
		a.hist.Push(a.pending[a.head])
		a.head++
		a.owed--
		a.samplesIn++
	}

	y := a.evaluate()
	a.samplesOut++

	a.phase += a.step
	for a.phase >= 1 {
		a.owed++
		a.phase--
	}
	return y, nil
}

// Exec feeds x and appends every output it makes available to dst.
func (a *Arbitrary[F]) Exec(x F, dst []F) []F {
	a.Feed(x)
	return a.drain(dst)
}

// Process feeds input and returns all outputs that become available.
func (a *Arbitrary[F]) Process(input []F) []F {
	a.Write(input)
	return a.drain(make([]F, 0, a.expectedOutputs(len(input))))
}

// Flush pushes enough zeros through the filter to cover its group delay,
// so the tail of the signal reaches the output, and returns the resulting
// samples. The stream can continue afterwards; the zeros become part of
// its history.
func (a *Arbitrary[F]) Flush() []F {
	return a.Process(make([]F, a.FlushLen()))
}

// FlushLen returns the number of zero inputs Flush feeds.
func (a *Arbitrary[F]) FlushLen() int {
	return int(math.Ceil(a.Latency())) + flushMarginInputs
}

func (a *Arbitrary[F]) drain(dst []F) []F {
	for {
		y, err := a.Next()
		if err != nil {
			return dst
		}
		dst = append(dst, y)
	}
}

func (a *Arbitrary[F]) expectedOutputs(inputs int) int {
	return int(math.Ceil(float64(inputs)*a.rate)) + 1
}

// evaluate computes the output at the current phase without advancing.
func (a *Arbitrary[F]) evaluate() F {
	idx := a.phase * float64(a.numPhases)
	fl := math.Floor(idx)
	branch := int(fl)
	mu := F(idx - fl)
	// phase*N can round up to N when phase is just below one.
	if branch >= a.numPhases {
		branch = a.numPhases - 1
		mu = 1
	}
	return a.Interpolate(branch, mu)
}

// Interpolate evaluates branch at fraction mu against the current history.
// branch is taken modulo N. It does not advance the resampler.
func (a *Arbitrary[F]) Interpolate(branch int, mu F) F {
	older, newer := a.hist.Views()
	y := a.rowDot(a.bank.Row(branch), older, newer)
	if mu == 0 {
		return y
	}
	return y + mu*a.rowDot(a.dbank.Row(branch+a.drowOffset), older, newer)
}

// rowDot is the inner product of a reversed row with the history views,
// split at the wrap boundary so no copy is needed.
func (a *Arbitrary[F]) rowDot(row, older, newer []F) F {
	var sum F
	if len(older) > 0 {
		sum = a.ops.DotProduct(row[:len(older)], older)
	}
	if len(newer) > 0 {
		sum += a.ops.DotProduct(row[len(older):], newer)
	}
	return sum
}

// Reset returns the resampler to its freshly constructed state.
func (a *Arbitrary[F]) Reset() {
	a.hist.Reset()
	a.phase = 0
	a.owed = primingInputs
	a.pending = a.pending[:0]
	a.head = 0
	a.samplesIn = 0
	a.samplesOut = 0
}

// Clone returns an independent copy, banks included.
func (a *Arbitrary[F]) Clone() *Arbitrary[F] {
	c := *a
	c.bank = a.bank.Clone()
	c.dbank = a.dbank.Clone()
	c.hist = a.hist.Clone()
	c.pending = append([]F(nil), a.pending[a.head:]...)
	c.head = 0
	return &c
}

// Dims returns the number of phases and the row length.
func (a *Arbitrary[F]) Dims() (phases, rowLen int) {
	return a.numPhases, a.rowLen
}

// Rate returns output rate / input rate.
func (a *Arbitrary[F]) Rate() float64 {
	return a.rate
}

// Phase returns the fractional position in [0, 1), in input samples.
func (a *Arbitrary[F]) Phase() float64 {
	return a.phase
}

// Pending returns the number of fed inputs not yet consumed.
func (a *Arbitrary[F]) Pending() int {
	return len(a.pending) - a.head
}

// Mode returns the derivative bank construction in use.
func (a *Arbitrary[F]) Mode() DerivativeMode {
	return a.mode
}

// Latency returns the group delay of a linear-phase prototype, in input
// samples.
func (a *Arbitrary[F]) Latency() float64 {
	return float64(a.totalTaps-1) / latencyDivisor / float64(a.numPhases)
}

// TotalTaps returns the prototype length.
func (a *Arbitrary[F]) TotalTaps() int {
	return a.totalTaps
}

// OpsName returns the inner-product variant in use.
func (a *Arbitrary[F]) OpsName() string {
	return a.ops.Name
}

// GetStatistics returns processing statistics.
func (a *Arbitrary[F]) GetStatistics() map[string]int64 {
	return map[string]int64{
		"samplesIn":  a.samplesIn,
		"samplesOut": a.samplesOut,
	}
}

// GetMemoryUsage returns approximate memory usage in bytes.
func (a *Arbitrary[F]) GetMemoryUsage() int64 {
	var zero F
	elem := int64(sizeOf(zero))
	return a.bank.GetMemoryUsage() + a.dbank.GetMemoryUsage() +
		int64(a.rowLen)*elem + int64(cap(a.pending))*elem
}

// State is a checkpoint of the streaming state. Together with the taps,
// phase count and options it fully describes a resampler.
type State[F simdops.Float] struct {
	// History holds the last L inputs in storage order; Cursor is the
	// slot the next input overwrites, so History[Cursor] is the oldest.
	History []F
	Cursor  int
	// Pending holds fed inputs that were not yet consumed.
	Pending []F
	Rate    float64
	Phase   float64
	// Owed is the number of inputs to consume before the next output.
	Owed int
}

// State captures the streaming state.
func (a *Arbitrary[F]) State() State[F] {
	return State[F]{
		History: a.hist.Slots(),
		Cursor:  a.hist.Cursor(),
		Pending: append([]F(nil), a.pending[a.head:]...),
		Rate:    a.rate,
		Phase:   a.phase,
		Owed:    a.owed,
	}
}

// Restore replaces the streaming state with s. The resampler must have been
// built with the same row length and rate.
func (a *Arbitrary[F]) Restore(s State[F]) error {
	if s.Rate != a.rate {
		return fmt.Errorf("%w: state rate %v does not match resampler rate %v", errs.ErrInvalidConfig, s.Rate, a.rate)
	}
	if s.Phase < 0 || s.Phase >= 1 || math.IsNaN(s.Phase) {
		return fmt.Errorf("%w: state phase %v out of range [0, 1)", errs.ErrInvalidConfig, s.Phase)
	}
	if s.Owed < 0 {
		return fmt.Errorf("%w: negative owed input count %d", errs.ErrInvalidConfig, s.Owed)
	}
	if err := a.hist.RestoreSlots(s.History, s.Cursor); err != nil {
		return err
	}
	a.phase = s.Phase
	a.owed = s.Owed
	a.pending = append(a.pending[:0], s.Pending...)
	a.head = 0
	return nil
}

func sizeOf[F simdops.Float](F) int {
	var zero F
	if _, ok := any(zero).(float32); ok {
		return bytesPerFloat32
	}
	return bytesPerFloat64
}
