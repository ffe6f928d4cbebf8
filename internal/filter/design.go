// Package filter designs the windowed-sinc prototypes that feed the
// polyphase resampler.
package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-arb-resampler/internal/errs"
	"github.com/tphakala/go-arb-resampler/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

const (
	// Filter design constants
	minFilterTaps = 3
	maxFilterTaps = 1<<20 - 1

	// Window normalization
	windowNormalizationFactor = 2.0

	// Sinc function constants
	sincZeroThreshold = 1e-10

	// maxCutoff is the Nyquist limit in cycles per sample.
	maxCutoff = 0.5
)

// FilterParams holds parameters for low-pass design.
type FilterParams struct {
	// NumTaps is the filter length (number of coefficients).
	// Odd lengths give an integer group delay.
	NumTaps int

	// CutoffFreq is the normalized cutoff frequency (0 to 0.5)
	// 0.5 represents Nyquist frequency (half the sample rate)
	CutoffFreq float64

	// Attenuation is the desired stopband attenuation in dB. It sets the
	// Kaiser β and is ignored by the fixed windows.
	Attenuation float64

	// Gain is the DC gain of the result.
	Gain float64

	// Window selects the taper. The zero value is WindowKaiser.
	Window WindowKind
}

// Validate checks if filter parameters are valid.
func (fp *FilterParams) Validate() error {
	if fp.NumTaps < minFilterTaps {
		return fmt.Errorf("%w: filter too short: %d taps (minimum %d)", errs.ErrInvalidConfig, fp.NumTaps, minFilterTaps)
	}

	if fp.NumTaps > maxFilterTaps {
		return fmt.Errorf("%w: filter too long: %d taps (maximum %d)", errs.ErrInvalidConfig, fp.NumTaps, maxFilterTaps)
	}

	if fp.CutoffFreq <= 0 || fp.CutoffFreq >= maxCutoff {
		return fmt.Errorf("%w: invalid cutoff frequency: %f (must be in (0, 0.5))", errs.ErrInvalidConfig, fp.CutoffFreq)
	}

	if fp.Attenuation < 0 {
		return fmt.Errorf("%w: invalid attenuation: %f dB (must be positive)", errs.ErrInvalidConfig, fp.Attenuation)
	}

	if fp.Gain <= 0 {
		return fmt.Errorf("%w: invalid gain: %f (must be positive)", errs.ErrInvalidConfig, fp.Gain)
	}

	if !fp.Window.Valid() {
		return fmt.Errorf("%w: unknown window kind %d", errs.ErrInvalidConfig, int(fp.Window))
	}

	return nil
}

// DesignLowPassFilter designs a windowed-sinc lowpass FIR filter:
//
//	h[n] = 2fc · sinc(2fc · (n − c)) · w[n],  c = (N−1)/2
//
// normalised so the coefficients sum to params.Gain. The result is
// symmetric, so the filter has linear phase.
func DesignLowPassFilter(params FilterParams) ([]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	window, err := Window(params.Window, params.NumTaps, mathutil.KaiserBeta(params.Attenuation))
	if err != nil {
		return nil, err
	}

	filter := make([]float64, params.NumTaps)
	center := float64(params.NumTaps-1) / windowNormalizationFactor

	for n := range params.NumTaps {
		x := float64(n) - center

		// At x=0 the limit is 2*fc.
		var sincValue float64
		if math.Abs(x) < sincZeroThreshold {
			sincValue = windowNormalizationFactor * params.CutoffFreq
		} else {
			arg := windowNormalizationFactor * math.Pi * params.CutoffFreq * x
			sincValue = math.Sin(arg) / (math.Pi * x)
		}

		filter[n] = sincValue * window[n]
	}

	sum := f64.Sum(filter)
	if math.Abs(sum) > sincZeroThreshold {
		f64.Scale(filter, filter, params.Gain/sum)
	}

	return filter, nil
}

// DesignLowPassFilterAuto designs a Kaiser lowpass whose length is
// estimated from the attenuation and transition bandwidth.
func DesignLowPassFilterAuto(cutoffFreq, transitionBW, attenuation, gain float64) ([]float64, error) {
	return DesignLowPassFilter(FilterParams{
		NumTaps:     mathutil.EstimateFilterLength(attenuation, transitionBW),
		CutoffFreq:  cutoffFreq,
		Attenuation: attenuation,
		Gain:        gain,
	})
}

// DesignPrototype designs a polyphase prototype for phases branches with
// tapsPerPhase taps each.
//
// cutoff is relative to the input sample rate (0.5 is the input Nyquist).
// The prototype runs at phases times the input rate, so its own cutoff is
// cutoff/phases. It has phases*tapsPerPhase − 1 taps, which keeps the
// length odd for an even product and leaves one zero of padding for the
// decomposition. The DC gain is phases, so every phase row sums to about
// one.
func DesignPrototype(phases, tapsPerPhase int, cutoff, attenuation float64, window WindowKind) ([]float64, error) {
	if phases < 1 {
		return nil, fmt.Errorf("%w: phase count must be positive, got %d", errs.ErrInvalidConfig, phases)
	}
	if tapsPerPhase < 1 {
		return nil, fmt.Errorf("%w: taps per phase must be positive, got %d", errs.ErrInvalidConfig, tapsPerPhase)
	}
	if cutoff <= 0 || cutoff >= maxCutoff {
		return nil, fmt.Errorf("%w: cutoff %f out of range (0, 0.5)", errs.ErrInvalidConfig, cutoff)
	}

	return DesignLowPassFilter(FilterParams{
		NumTaps:     phases*tapsPerPhase - 1,
		CutoffFreq:  cutoff / float64(phases),
		Attenuation: attenuation,
		Gain:        float64(phases),
		Window:      window,
	})
}
