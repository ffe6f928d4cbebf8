package polyphase

import (
	"fmt"

	"github.com/tphakala/go-arb-resampler/internal/errs"
	"github.com/tphakala/go-arb-resampler/internal/simdops"
)

// Derivative decomposes the first difference of the prototype into n rows.
//
// The prototype is zero-padded to n*L taps (L = ceil(len(taps)/n)) plus one
// trailing zero, and d[k] = hp[k+1] - hp[k] is taken for k in [0, n*L). The
// first len(taps)-1 entries are the plain first difference of taps; the rest
// describe the step down into the padding. Rows always have length L, the
// same as the rows of Decompose(taps, n).
//
// Derivative row i approximates the change from phase i to phase i+1, so a
// resampler evaluating branch i at fraction mu uses row(i) + mu*drow(i).
func Derivative[T simdops.Number](taps []T, n int) (*Bank[T], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: phase count must be positive, got %d", errs.ErrInvalidConfig, n)
	}
	if len(taps) == 0 {
		return nil, fmt.Errorf("%w: prototype taps are empty", errs.ErrInvalidConfig)
	}

	rowLen := (len(taps) + n - 1) / n
	padded := make([]T, n*rowLen+1)
	copy(padded, taps)

	diff := make([]T, n*rowLen)
	for k := range diff {
		diff[k] = padded[k+1] - padded[k]
	}

	b, err := Decompose(diff, n)
	if err != nil {
		return nil, err
	}
	// Report the prototype length, not the padded difference length.
	b.totalTaps = len(taps)
	return b, nil
}
