// Package errs holds the sentinel errors shared by the filter, history and
// engine packages. The root package re-exports them.
package errs

import "errors"

var (
	// ErrInvalidConfig indicates invalid construction parameters: a zero or
	// too small phase count, a zero-capacity history, empty taps or a
	// non-positive resample rate.
	ErrInvalidConfig = errors.New("invalid resampler configuration")

	// ErrInputExhausted signals that an output sample needs an input sample
	// that has not been fed yet. It is not a fault: feed more input and retry.
	ErrInputExhausted = errors.New("input exhausted")
)
