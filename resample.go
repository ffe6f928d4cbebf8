package resampler

import (
	"fmt"
	"math"

	"github.com/tphakala/go-arb-resampler/internal/engine"
	"github.com/tphakala/go-arb-resampler/internal/errs"
	"github.com/tphakala/go-arb-resampler/internal/filter"
)

// Resampler is the main interface for audio resampling.
// Every channel runs its own arbitrary-rate polyphase filter; the filter
// prototype is designed once and shared by copy.
type Resampler interface {
	// Process resamples a mono audio channel.
	// The input slice contains audio samples at the input rate.
	// Returns resampled audio at the output rate.
	Process(input []float64) ([]float64, error)

	// ProcessFloat32 is like Process but for float32 samples.
	ProcessFloat32(input []float32) ([]float32, error)

	// ProcessMulti processes multiple audio channels simultaneously.
	// Each slice in the input represents one channel.
	ProcessMulti(input [][]float64) ([][]float64, error)

	// Flush returns any remaining samples in internal buffers.
	// Should be called when no more input will be provided.
	Flush() ([]float64, error)

	// FlushMulti flushes every channel.
	FlushMulti() ([][]float64, error)

	// GetLatency returns the resampler latency in output samples.
	// This is the delay between input and output due to filtering.
	GetLatency() int

	// Reset clears all internal state and buffers.
	Reset()

	// GetRatio returns the resampling ratio (output_rate / input_rate).
	GetRatio() float64
}

// Window selects the taper of the prototype filter.
type Window = filter.WindowKind

// Prototype windows.
const (
	WindowKaiser      = filter.WindowKaiser
	WindowHamming     = filter.WindowHamming
	WindowHann        = filter.WindowHann
	WindowBlackman    = filter.WindowBlackman
	WindowRectangular = filter.WindowRectangular
)

// ParseWindow maps a window name ("kaiser", "hann", ...) to a Window.
func ParseWindow(name string) (Window, error) {
	return filter.ParseWindow(name)
}

// DerivativeMode selects how the coefficient derivative bank is built.
type DerivativeMode = engine.DerivativeMode

// Derivative bank constructions.
const (
	// DerivativeTaps differences the prototype taps, then decomposes them.
	DerivativeTaps = engine.DerivativeTaps
	// DerivativePhaseDiff differences neighbouring phase rows.
	DerivativePhaseDiff = engine.DerivativePhaseDiff
)

// Config holds resampling configuration.
type Config struct {
	// InputRate is the sample rate of input audio in Hz.
	InputRate float64

	// OutputRate is the desired output sample rate in Hz.
	// Any positive ratio to InputRate within the supported range works;
	// the rates need not be related by a small fraction.
	OutputRate float64

	// Channels is the number of audio channels to process.
	Channels int

	// Quality determines the filter parameters.
	Quality QualitySpec

	// Phases overrides the number of polyphase branches derived from the
	// quality precision. Zero keeps the derived value.
	Phases int

	// Taps overrides the taps per branch estimated from the quality
	// attenuation and transition band. Zero keeps the estimate.
	Taps int

	// Window selects the prototype taper. The zero value is Kaiser.
	Window Window

	// Derivative selects the derivative bank construction.
	// The zero value is DerivativeTaps.
	Derivative DerivativeMode

	// EnableSIMD allows the use of SIMD optimizations when available.
	// Set to false to force pure Go implementation.
	EnableSIMD bool

	// EnableParallel enables parallel channel processing.
	// When true, ProcessMulti runs each channel on its own goroutine.
	// Has no effect on mono audio.
	EnableParallel bool
}

// QualitySpec defines resampling quality parameters.
// Users can either use a preset or customize individual parameters.
type QualitySpec struct {
	// Preset is a convenience setting for common quality levels.
	// Any preset other than QualityCustom replaces the fields below.
	Preset QualityPreset

	// Precision in bits (8-33). It sets the stopband attenuation at
	// about 6 dB per bit and the number of phases. 16 = CD quality,
	// 24 = studio.
	Precision int

	// PassbandEnd is the fraction (0-1) of the lower Nyquist frequency
	// below which the signal is preserved. Typically 0.8-0.99.
	PassbandEnd float64

	// StopbandBegin is the fraction (0-1] of the lower Nyquist frequency
	// above which the signal is attenuated. Must be > PassbandEnd.
	StopbandBegin float64
}

// QualityPreset enumerates predefined quality levels.
// Each preset configures multiple parameters for typical use cases.
type QualityPreset int

const (
	// QualityQuick uses short filters and few phases. Fastest but lowest
	// quality. Suitable for preview or non-critical audio.
	QualityQuick QualityPreset = iota

	// QualityLow provides basic resampling with ~16-bit quality.
	// Good for speech, low-bandwidth audio, or when CPU is limited.
	QualityLow

	// QualityMedium provides good quality suitable for most music.
	QualityMedium

	// QualityHigh provides professional quality with 24-bit precision.
	QualityHigh

	// QualityVeryHigh provides maximum quality with 32-bit precision.
	// Filters are long; expect several megabytes of coefficients.
	QualityVeryHigh

	// QualityCustom indicates manual configuration of parameters.
	QualityCustom
)

var presetNames = map[QualityPreset]string{
	QualityQuick:    "quick",
	QualityLow:      "low",
	QualityMedium:   "medium",
	QualityHigh:     "high",
	QualityVeryHigh: "veryhigh",
	QualityCustom:   "custom",
}

// String returns the preset name.
func (p QualityPreset) String() string {
	if name, ok := presetNames[p]; ok {
		return name
	}
	return fmt.Sprintf("QualityPreset(%d)", int(p))
}

// Common errors returned by the resampler.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errs.ErrInvalidConfig

	// ErrInputExhausted is returned by ArbitraryResampler.Next when an
	// output needs an input sample that has not been fed yet.
	ErrInputExhausted = errs.ErrInputExhausted
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !(c.InputRate > 0) || !(c.OutputRate > 0) || math.IsInf(c.InputRate, 0) || math.IsInf(c.OutputRate, 0) {
		return fmt.Errorf("%w: sample rates must be positive and finite", ErrInvalidConfig)
	}

	if c.Channels < 1 {
		return fmt.Errorf("%w: channels must be at least 1", ErrInvalidConfig)
	}

	if c.Channels > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}

	ratio := c.OutputRate / c.InputRate
	if ratio < minRatioFactor || ratio > maxRatioFactor {
		return fmt.Errorf("%w: resampling ratio out of range (%v to %v)", ErrInvalidConfig, minRatioFactor, maxRatioFactor)
	}

	if c.Phases < 0 || c.Phases == 1 {
		return fmt.Errorf("%w: phases must be 0 (auto) or at least 2, got %d", ErrInvalidConfig, c.Phases)
	}

	if c.Taps < 0 {
		return fmt.Errorf("%w: taps must not be negative, got %d", ErrInvalidConfig, c.Taps)
	}

	if !c.Window.Valid() {
		return fmt.Errorf("%w: unknown window %d", ErrInvalidConfig, int(c.Window))
	}

	if c.Derivative != DerivativeTaps && c.Derivative != DerivativePhaseDiff {
		return fmt.Errorf("%w: unknown derivative mode %d", ErrInvalidConfig, int(c.Derivative))
	}

	if err := c.Quality.Validate(); err != nil {
		return err
	}

	return nil
}

// Validate checks if the quality specification is valid.
func (q *QualitySpec) Validate() error {
	if q.Preset < QualityQuick || q.Preset > QualityCustom {
		return fmt.Errorf("%w: unknown quality preset %d", ErrInvalidConfig, int(q.Preset))
	}

	if q.Preset == QualityCustom {
		if q.Precision < precision8Bit || q.Precision > precision33Bit {
			return fmt.Errorf("%w: precision must be %d-%d bits", ErrInvalidConfig, precision8Bit, precision33Bit)
		}

		if q.PassbandEnd <= 0 || q.PassbandEnd >= 1 {
			return fmt.Errorf("%w: passband end must be in (0, 1)", ErrInvalidConfig)
		}

		if q.StopbandBegin <= q.PassbandEnd || q.StopbandBegin > 1 {
			return fmt.Errorf("%w: stopband begin must be in (passband_end, 1]", ErrInvalidConfig)
		}
	}

	return nil
}

// GetPresetSpec returns the quality specification for a preset.
func GetPresetSpec(preset QualityPreset) QualitySpec {
	switch preset {
	case QualityQuick:
		return QualitySpec{
			Preset:        QualityQuick,
			Precision:     precision8Bit,
			PassbandEnd:   quickPassbandEnd,
			StopbandBegin: quickStopbandBegin,
		}

	case QualityLow:
		return QualitySpec{
			Preset:        QualityLow,
			Precision:     precision16Bit,
			PassbandEnd:   lowPassbandEnd,
			StopbandBegin: lowStopbandBegin,
		}

	case QualityMedium:
		return QualitySpec{
			Preset:        QualityMedium,
			Precision:     precision16Bit,
			PassbandEnd:   mediumPassbandEnd,
			StopbandBegin: mediumStopbandBegin,
		}

	case QualityHigh:
		return QualitySpec{
			Preset:        QualityHigh,
			Precision:     precision24Bit,
			PassbandEnd:   highPassbandEnd,
			StopbandBegin: highStopbandBegin,
		}

	case QualityVeryHigh:
		return QualitySpec{
			Preset:        QualityVeryHigh,
			Precision:     precision32Bit,
			PassbandEnd:   veryHighPassbandEnd,
			StopbandBegin: veryHighStopbandBegin,
		}

	default:
		return GetPresetSpec(QualityMedium)
	}
}

// New creates a new resampler with the specified configuration.
// The config is copied; a preset is expanded in the copy.
func New(config *Config) (Resampler, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	cfg := *config
	if cfg.Quality.Preset != QualityCustom {
		cfg.Quality = GetPresetSpec(cfg.Quality.Preset)
	}

	ratio := cfg.OutputRate / cfg.InputRate
	return newConstantRateResampler(&cfg, ratio)
}

// Info returns information about the resampler implementation.
type Info struct {
	// Algorithm describes the resampling algorithm in use.
	Algorithm string

	// FilterLength is the number of prototype taps.
	FilterLength int

	// Phases is the number of polyphase filter phases.
	Phases int

	// Latency is the processing latency in output samples.
	Latency int

	// MemoryUsage is the approximate memory usage in bytes.
	MemoryUsage int64

	// SIMDEnabled indicates if SIMD optimizations are active.
	SIMDEnabled bool

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

// infoProvider is an optional interface for resamplers that can provide detailed info.
type infoProvider interface {
	GetInfo() Info
}

// GetInfo returns information about a resampler.
// If the resampler implements the infoProvider interface, it returns actual values.
// Otherwise, it returns basic info based on the resampler's public methods.
func GetInfo(r Resampler) Info {
	if provider, ok := r.(infoProvider); ok {
		return provider.GetInfo()
	}

	return Info{
		Algorithm: "unknown",
		Latency:   r.GetLatency(),
		SIMDType:  "none",
	}
}
