// Package pipeline plans the resampling stage for a ratio and quality
// setting and defines the Stage interface the public package drives.
//
// A plan fixes the polyphase prototype: its phase count, taps per phase,
// cutoff and stopband attenuation. The cutoff tracks the lower of the two
// Nyquist frequencies, so the same planning serves up- and downsampling.
package pipeline

import (
	"fmt"
	"math"

	"github.com/tphakala/go-arb-resampler/internal/errs"
	"github.com/tphakala/go-arb-resampler/internal/filter"
	"github.com/tphakala/go-arb-resampler/internal/mathutil"
)

// Stage represents a single processing stage in the resampling pipeline.
type Stage interface {
	// Process transforms input samples to output samples.
	Process(input []float64) ([]float64, error)

	// Flush returns any remaining buffered samples.
	Flush() ([]float64, error)

	// Reset clears internal state.
	Reset()

	// GetRatio returns the stage's resampling ratio (output/input).
	GetRatio() float64

	// GetLatency returns the stage latency in input samples.
	GetLatency() int

	// GetMemoryUsage returns approximate memory usage in bytes.
	GetMemoryUsage() int64

	// GetFilterLength returns the prototype length.
	GetFilterLength() int

	// GetPhases returns the number of polyphase branches.
	GetPhases() int

	// GetSIMDInfo returns SIMD optimization info (empty if none).
	GetSIMDInfo() string
}

// QualityParams holds quality-related parameters for stage planning.
type QualityParams struct {
	Precision     int     // Bits of precision (8-33)
	PassbandEnd   float64 // Fraction of the lower Nyquist kept flat (0-1)
	StopbandBegin float64 // Fraction of the lower Nyquist where attenuation starts

	// Phases overrides the phase count derived from Precision when positive.
	Phases int
	// TapsPerPhase overrides the estimated row length when positive.
	TapsPerPhase int
	// Window selects the prototype taper.
	Window filter.WindowKind
}

// StageSpec specifies the prototype of an arbitrary-rate stage.
type StageSpec struct {
	Ratio        float64 // Output rate / input rate
	Phases       int     // Number of polyphase branches
	TapsPerPhase int     // Row length
	Cutoff       float64 // Cutoff in cycles per input sample
	Attenuation  float64 // Stopband attenuation in dB
	Window       filter.WindowKind
}

// Plan derives the stage prototype for ratio and quality.
func Plan(ratio float64, quality QualityParams) (StageSpec, error) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return StageSpec{}, fmt.Errorf("%w: invalid ratio: %f", errs.ErrInvalidConfig, ratio)
	}
	if quality.Precision < minPrecision || quality.Precision > maxPrecision {
		return StageSpec{}, fmt.Errorf("%w: precision must be %d-%d bits, got %d",
			errs.ErrInvalidConfig, minPrecision, maxPrecision, quality.Precision)
	}
	if quality.PassbandEnd <= 0 || quality.StopbandBegin <= quality.PassbandEnd || quality.StopbandBegin > 1 {
		return StageSpec{}, fmt.Errorf("%w: need 0 < passband end (%f) < stopband begin (%f) <= 1",
			errs.ErrInvalidConfig, quality.PassbandEnd, quality.StopbandBegin)
	}
	if quality.Phases < 0 || quality.TapsPerPhase < 0 {
		return StageSpec{}, fmt.Errorf("%w: phase and tap overrides must not be negative", errs.ErrInvalidConfig)
	}

	// Band edges in cycles per input sample.
	nyquist := maxCutoff * min(1, ratio)
	passEdge := nyquist * quality.PassbandEnd
	stopEdge := nyquist * quality.StopbandBegin

	spec := StageSpec{
		Ratio:        ratio,
		Phases:       quality.Phases,
		TapsPerPhase: quality.TapsPerPhase,
		Cutoff:       (passEdge + stopEdge) / edgeMidpointDivisor,
		Attenuation:  attenuationFor(quality.Precision),
		Window:       quality.Window,
	}
	if spec.TapsPerPhase == 0 {
		spec.TapsPerPhase = calculateTapsPerPhase(spec.Attenuation, stopEdge-passEdge)
	}
	if spec.Phases == 0 {
		spec.Phases = calculatePhases(quality.Precision, spec.TapsPerPhase)
	}
	if spec.Phases < minPhases {
		return StageSpec{}, fmt.Errorf("%w: at least %d phases required, got %d", errs.ErrInvalidConfig, minPhases, spec.Phases)
	}
	if spec.Phases*spec.TapsPerPhase > maxPrototypeTaps {
		return StageSpec{}, fmt.Errorf("%w: prototype of %d x %d taps exceeds %d",
			errs.ErrInvalidConfig, spec.Phases, spec.TapsPerPhase, maxPrototypeTaps)
	}

	return spec, nil
}

// Prototype designs the windowed-sinc prototype for the stage.
func (s StageSpec) Prototype() ([]float64, error) {
	return filter.DesignPrototype(s.Phases, s.TapsPerPhase, s.Cutoff, s.Attenuation, s.Window)
}

// FilterLength returns the prototype length.
func (s StageSpec) FilterLength() int {
	return s.Phases*s.TapsPerPhase - 1
}

// Latency returns the group delay of the prototype in input samples.
func (s StageSpec) Latency() float64 {
	return float64(s.FilterLength()-1) / latencyDivisor / float64(s.Phases)
}

// Helper functions for stage planning

func attenuationFor(precision int) float64 {
	return float64(precision+1) * dbPerBit
}

func calculateTapsPerPhase(attenuation, transition float64) int {
	// Row length equals the filter length needed at the input rate.
	taps := mathutil.EstimateFilterLength(attenuation, transition)

	// Round to multiple of 4 for SIMD efficiency
	taps = (taps + simdAlignmentMask) &^ simdAlignmentMask

	return min(max(taps, minTapsPerPhase), maxTapsPerPhase)
}

func calculatePhases(precision, tapsPerPhase int) int {
	// Coefficient interpolation error falls 12 dB per doubling.
	phases := phasesBase
	switch {
	case precision >= precision28Bit:
		phases = phases28Bit
	case precision >= precision24Bit:
		phases = phases24Bit
	case precision >= precision16Bit:
		phases = phases16Bit
	}

	for phases > minPhases && phases*tapsPerPhase > maxPrototypeTaps {
		phases /= 2
	}
	return phases
}
