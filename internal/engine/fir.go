package engine

import (
	"fmt"
	"slices"

	"github.com/tphakala/go-arb-resampler/internal/errs"
	"github.com/tphakala/go-arb-resampler/internal/history"
	"github.com/tphakala/go-arb-resampler/internal/simdops"
)

// FIR is a streaming direct-form FIR filter. Taps are stored reversed and
// paired with a history ordered oldest to newest, so each sample costs two
// inner products split at the history wrap point.
type FIR[T simdops.Number] struct {
	h    []T
	hist *history.History[T]
}

// NewFIR creates a filter with the given taps.
func NewFIR[T simdops.Number](taps []T) (*FIR[T], error) {
	if len(taps) == 0 {
		return nil, fmt.Errorf("%w: FIR taps are empty", errs.ErrInvalidConfig)
	}
	hist, err := history.New[T](len(taps))
	if err != nil {
		return nil, err
	}
	h := slices.Clone(taps)
	slices.Reverse(h)
	return &FIR[T]{h: h, hist: hist}, nil
}

// Exec pushes x and returns the filter output for it.
func (f *FIR[T]) Exec(x T) T {
	f.hist.Push(x)
	older, newer := f.hist.Views()
	return simdops.Dot(f.h[:len(older)], older) + simdops.Dot(f.h[len(older):], newer)
}

// Process filters a block, writing one output per input.
func (f *FIR[T]) Process(input []T) []T {
	out := make([]T, len(input))
	for i, x := range input {
		out[i] = f.Exec(x)
	}
	return out
}

// Taps returns the stored (reversed) taps.
func (f *FIR[T]) Taps() []T {
	return f.h
}

// Reset clears the history.
func (f *FIR[T]) Reset() {
	f.hist.Reset()
}

// Clone returns an independent copy.
func (f *FIR[T]) Clone() *FIR[T] {
	return &FIR[T]{h: slices.Clone(f.h), hist: f.hist.Clone()}
}
