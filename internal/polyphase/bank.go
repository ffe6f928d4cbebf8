// Package polyphase decomposes a prototype FIR filter into a bank of
// interleaved phase sub-filters.
package polyphase

import (
	"fmt"
	"unsafe"

	"github.com/tphakala/go-arb-resampler/internal/errs"
	"github.com/tphakala/go-arb-resampler/internal/simdops"
)

// minDiffPhases is the smallest bank for which a phase-to-phase difference
// is meaningful.
const minDiffPhases = 2

// Bank is a polyphase decomposition of a prototype filter.
//
// Row i holds the prototype taps h[i], h[i+N], h[i+2N], ... where N is the
// number of phases. The prototype is zero-padded at its tail to a multiple
// of N, so all rows have the same length.
//
// Storage is one flat slice, row-major:
//
//	[row0_tap0 row0_tap1 ... row0_tapL-1][row1_tap0 ...]...[rowN-1_tapL-1]
//
// A Bank is immutable after construction and safe for concurrent reads.
type Bank[T simdops.Number] struct {
	coeffs       []T
	numPhases    int
	tapsPerPhase int
	// totalTaps is the prototype length before padding.
	totalTaps int
}

// Decompose splits taps into n phase rows.
//
// padding = (n - len(taps) mod n) mod n zeros are appended before the split,
// so every row has ceil(len(taps)/n) taps.
func Decompose[T simdops.Number](taps []T, n int) (*Bank[T], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: phase count must be positive, got %d", errs.ErrInvalidConfig, n)
	}
	if len(taps) == 0 {
		return nil, fmt.Errorf("%w: prototype taps are empty", errs.ErrInvalidConfig)
	}

	tapsPerPhase := (len(taps) + n - 1) / n
	b := &Bank[T]{
		coeffs:       make([]T, n*tapsPerPhase),
		numPhases:    n,
		tapsPerPhase: tapsPerPhase,
		totalTaps:    len(taps),
	}

	// Source index tap*n + phase; anything past the prototype stays zero.
	for i, h := range taps {
		phase, tap := i%n, i/n
		b.coeffs[phase*tapsPerPhase+tap] = h
	}

	return b, nil
}

// Dims returns the number of phases and the taps per phase.
func (b *Bank[T]) Dims() (phases, tapsPerPhase int) {
	return b.numPhases, b.tapsPerPhase
}

// TotalTaps returns the prototype length before zero padding.
func (b *Bank[T]) TotalTaps() int {
	return b.totalTaps
}

// Row returns phase row i mod N. Any integer is accepted, negative values
// wrap into [0, N). The returned slice aliases the bank and must not be
// modified.
func (b *Bank[T]) Row(i int) []T {
	i %= b.numPhases
	if i < 0 {
		i += b.numPhases
	}
	start := i * b.tapsPerPhase
	return b.coeffs[start : start+b.tapsPerPhase : start+b.tapsPerPhase]
}

// Diff returns the phase-to-phase difference bank:
//
//	out[i][j] = b[i][j] - b[(i-1) mod N][j]
//
// Row 0 is differenced against the last row with the same tap index. Note
// this is not the same as decomposing the first difference of the prototype
// (see Derivative); the two disagree on row 0 and near the zero padding.
func (b *Bank[T]) Diff() (*Bank[T], error) {
	if b.numPhases < minDiffPhases {
		return nil, fmt.Errorf("%w: phase difference needs at least %d phases, got %d",
			errs.ErrInvalidConfig, minDiffPhases, b.numPhases)
	}

	out := b.Clone()
	for i := range b.numPhases {
		cur := b.Row(i)
		prev := b.Row(i - 1)
		dst := out.Row(i)
		for j := range cur {
			dst[j] = cur[j] - prev[j]
		}
	}
	return out, nil
}

// PhaseStep returns the step into each phase, for interpolating from
// branch i toward branch i+1 with row(i+1) of the result.
//
// Rows 1..N-1 equal Diff. Row 0 is the step across the wrap: branch N-1
// moves on to phase 0 of the next input, which against the current history
// is row 0 advanced by one tap, so
//
//	out[0][j] = b[0][j+1] - b[N-1][j]
//
// with b[0][L] taken as zero.
func (b *Bank[T]) PhaseStep() (*Bank[T], error) {
	out, err := b.Diff()
	if err != nil {
		return nil, err
	}

	first := b.Row(0)
	last := b.Row(b.numPhases - 1)
	dst := out.Row(0)
	for j := range dst {
		var next T
		if j+1 < len(first) {
			next = first[j+1]
		}
		dst[j] = next - last[j]
	}
	return out, nil
}

// Interleave reassembles the zero-padded prototype:
// row0[0], row1[0], ..., rowN-1[0], row0[1], ...
func (b *Bank[T]) Interleave() []T {
	out := make([]T, len(b.coeffs))
	for phase := range b.numPhases {
		for tap, h := range b.Row(phase) {
			out[tap*b.numPhases+phase] = h
		}
	}
	return out
}

// Reversed returns a bank whose rows are time-reversed. Filters pair the
// reversed rows with a history ordered oldest to newest.
func (b *Bank[T]) Reversed() *Bank[T] {
	out := b.Clone()
	for i := range b.numPhases {
		src := b.Row(i)
		dst := out.Row(i)
		last := len(src) - 1
		for j := range src {
			dst[j] = src[last-j]
		}
	}
	return out
}

// Clone returns a deep copy.
func (b *Bank[T]) Clone() *Bank[T] {
	coeffs := make([]T, len(b.coeffs))
	copy(coeffs, b.coeffs)
	return &Bank[T]{
		coeffs:       coeffs,
		numPhases:    b.numPhases,
		tapsPerPhase: b.tapsPerPhase,
		totalTaps:    b.totalTaps,
	}
}

// GetMemoryUsage returns the approximate coefficient storage in bytes.
func (b *Bank[T]) GetMemoryUsage() int64 {
	var zero T
	return int64(len(b.coeffs)) * int64(unsafe.Sizeof(zero))
}
