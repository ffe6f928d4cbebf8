package resampler

import (
	"github.com/tphakala/go-arb-resampler/internal/engine"
	"github.com/tphakala/go-arb-resampler/internal/simdops"
)

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes88 is the high-resolution 2x CD sample rate.
	RateHiRes88 = 88200

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes176 is the very high resolution 4x CD sample rate.
	RateHiRes176 = 176400

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateSpeech is the speech recognition common sample rate.
	RateSpeech = 22050

	// RateVideo is the video production sample rate (matches many video formats).
	RateVideo = 48000
)

// NewCDtoDAT creates a resampler for CD (44.1kHz) to DAT (48kHz) conversion.
// This is one of the most common professional audio conversions.
func NewCDtoDAT(quality QualityPreset) (Resampler, error) {
	return New(presetConfig(RateCD, RateDAT, 1, quality))
}

// NewDATtoCD creates a resampler for DAT (48kHz) to CD (44.1kHz) conversion.
func NewDATtoCD(quality QualityPreset) (Resampler, error) {
	return New(presetConfig(RateDAT, RateCD, 1, quality))
}

// NewCDtoHiRes creates a resampler for CD (44.1kHz) to high-res (88.2kHz) conversion.
func NewCDtoHiRes(quality QualityPreset) (Resampler, error) {
	return New(presetConfig(RateCD, RateHiRes88, 1, quality))
}

// NewHiRestoCD creates a resampler for high-res (88.2kHz) to CD (44.1kHz) conversion.
func NewHiRestoCD(quality QualityPreset) (Resampler, error) {
	return New(presetConfig(RateHiRes88, RateCD, 1, quality))
}

// NewSimple creates a simple mono resampler with sensible defaults.
// Uses QualityHigh for professional-grade audio quality.
func NewSimple(inputRate, outputRate float64) (Resampler, error) {
	return New(presetConfig(inputRate, outputRate, 1, QualityHigh))
}

// NewStereo creates a stereo resampler with the specified quality.
func NewStereo(inputRate, outputRate float64, quality QualityPreset) (Resampler, error) {
	return New(presetConfig(inputRate, outputRate, stereoChannels, quality))
}

// NewMultiChannel creates a multi-channel resampler.
func NewMultiChannel(inputRate, outputRate float64, channels int, quality QualityPreset) (Resampler, error) {
	return New(presetConfig(inputRate, outputRate, channels, quality))
}

// presetConfig returns a config for a preset with SIMD enabled.
func presetConfig(inputRate, outputRate float64, channels int, quality QualityPreset) *Config {
	return &Config{
		InputRate:  inputRate,
		OutputRate: outputRate,
		Channels:   channels,
		Quality:    QualitySpec{Preset: quality},
		EnableSIMD: true,
	}
}

// newPresetEngine validates a mono preset config and builds its engine.
func newPresetEngine[F simdops.Float](inputRate, outputRate float64, quality QualityPreset) (*engine.Arbitrary[F], error) {
	cfg := presetConfig(inputRate, outputRate, 1, quality)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Quality.Preset != QualityCustom {
		cfg.Quality = GetPresetSpec(cfg.Quality.Preset)
	}

	spec, err := planStage(cfg, outputRate/inputRate)
	if err != nil {
		return nil, err
	}
	return newEngine[F](spec, cfg)
}

// SimpleResampler provides a simplified interface for basic resampling tasks.
// It drives a single arbitrary-rate engine directly.
// Uses float64 precision for maximum quality.
type SimpleResampler struct {
	engine *engine.Arbitrary[float64]
}

// NewEngine creates a SimpleResampler using the engine directly.
// This bypasses the per-channel infrastructure for simpler use cases.
func NewEngine(inputRate, outputRate float64, quality QualityPreset) (*SimpleResampler, error) {
	a, err := newPresetEngine[float64](inputRate, outputRate, quality)
	if err != nil {
		return nil, err
	}
	return &SimpleResampler{engine: a}, nil
}

// Process resamples the input samples.
func (r *SimpleResampler) Process(input []float64) ([]float64, error) {
	return r.engine.Process(input), nil
}

// Flush returns any remaining buffered samples.
func (r *SimpleResampler) Flush() ([]float64, error) {
	return r.engine.Flush(), nil
}

// Write queues input for Next.
func (r *SimpleResampler) Write(input []float64) {
	r.engine.Write(input)
}

// Next returns the next output sample, or ErrInputExhausted when more input
// must be written first.
func (r *SimpleResampler) Next() (float64, error) {
	return r.engine.Next()
}

// Latency returns the filter delay in input samples.
func (r *SimpleResampler) Latency() float64 {
	return r.engine.Latency()
}

// Reset clears internal state.
func (r *SimpleResampler) Reset() {
	r.engine.Reset()
}

// GetRatio returns the resampling ratio.
func (r *SimpleResampler) GetRatio() float64 {
	return r.engine.Rate()
}

// GetStatistics returns processing statistics.
func (r *SimpleResampler) GetStatistics() map[string]int64 {
	return r.engine.GetStatistics()
}

// ResampleMono is a convenience function for one-shot mono resampling.
// It creates a resampler, processes the input, flushes, and returns the result.
func ResampleMono(input []float64, inputRate, outputRate float64, quality QualityPreset) ([]float64, error) {
	r, err := NewEngine(inputRate, outputRate, quality)
	if err != nil {
		return nil, err
	}

	output, err := r.Process(input)
	if err != nil {
		return nil, err
	}

	flushed, err := r.Flush()
	if err != nil {
		return nil, err
	}

	return append(output, flushed...), nil
}

// ResampleStereo is a convenience function for one-shot stereo resampling.
// Input is expected as [left, right] channels.
func ResampleStereo(left, right []float64, inputRate, outputRate float64, quality QualityPreset) (leftOut, rightOut []float64, err error) {
	leftOut, err = ResampleMono(left, inputRate, outputRate, quality)
	if err != nil {
		return nil, nil, err
	}

	rightOut, err = ResampleMono(right, inputRate, outputRate, quality)
	if err != nil {
		return nil, nil, err
	}

	return leftOut, rightOut, nil
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
func InterleaveToStereo(left, right []float64) []float64 {
	return interleave(left, right)
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
// Input format: [L0, R0, L1, R1, L2, R2, ...]
func DeinterleaveFromStereo(interleaved []float64) (left, right []float64) {
	return deinterleave(interleaved)
}

func interleave[F simdops.Float](left, right []F) []F {
	minLen := min(len(left), len(right))
	result := make([]F, minLen*stereoChannels)
	if minLen > 0 {
		simdops.For[F]().Interleave2(result, left[:minLen], right[:minLen])
	}
	return result
}

func deinterleave[F simdops.Float](interleaved []F) (left, right []F) {
	numSamples := len(interleaved) / stereoChannels
	left = make([]F, numSamples)
	right = make([]F, numSamples)
	for i := range numSamples {
		left[i] = interleaved[i*stereoChannels]
		right[i] = interleaved[i*stereoChannels+1]
	}
	return left, right
}

// =============================================================================
// Float32 Native API
// =============================================================================
//
// The following types and functions provide a float32-native resampling path.
// Use these when working with float32 audio data for:
//   - ~2x SIMD throughput (256-bit SIMD processes 8×float32 vs 4×float64)
//   - Reduced memory bandwidth
//   - Consistent float32 throughout the pipeline (no type conversions)
//
// For maximum precision (mastering, archival), use the float64 API instead.

// SimpleResamplerFloat32 provides a simplified float32-native interface for
// basic resampling tasks. The prototype is designed in float64 and rounded
// once; the engine state and arithmetic stay in float32.
//
// Example:
//
//	r, err := resampler.NewEngineFloat32(44100, 48000, resampler.QualityHigh)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for chunk := range audioChunks {
//	    output, _ := r.Process(chunk)  // []float32 in, []float32 out
//	    writeOutput(output)
//	}
//	final, _ := r.Flush()  // Returns []float32!
type SimpleResamplerFloat32 struct {
	engine *engine.Arbitrary[float32]
}

// NewEngineFloat32 creates a SimpleResamplerFloat32 using the engine directly.
// For maximum precision, use NewEngine (float64) instead.
func NewEngineFloat32(inputRate, outputRate float64, quality QualityPreset) (*SimpleResamplerFloat32, error) {
	a, err := newPresetEngine[float32](inputRate, outputRate, quality)
	if err != nil {
		return nil, err
	}
	return &SimpleResamplerFloat32{engine: a}, nil
}

// Process resamples the input samples.
// Input and output are both float32, with no type conversion overhead.
func (r *SimpleResamplerFloat32) Process(input []float32) ([]float32, error) {
	return r.engine.Process(input), nil
}

// Flush returns any remaining buffered samples as float32.
func (r *SimpleResamplerFloat32) Flush() ([]float32, error) {
	return r.engine.Flush(), nil
}

// Write queues input for Next.
func (r *SimpleResamplerFloat32) Write(input []float32) {
	r.engine.Write(input)
}

// Next returns the next output sample, or ErrInputExhausted when more input
// must be written first.
func (r *SimpleResamplerFloat32) Next() (float32, error) {
	return r.engine.Next()
}

// Latency returns the filter delay in input samples.
func (r *SimpleResamplerFloat32) Latency() float64 {
	return r.engine.Latency()
}

// Reset clears internal state, allowing the resampler to be reused.
func (r *SimpleResamplerFloat32) Reset() {
	r.engine.Reset()
}

// GetRatio returns the resampling ratio (outputRate / inputRate).
func (r *SimpleResamplerFloat32) GetRatio() float64 {
	return r.engine.Rate()
}

// GetStatistics returns processing statistics including samples processed.
func (r *SimpleResamplerFloat32) GetStatistics() map[string]int64 {
	return r.engine.GetStatistics()
}

// ResampleMonoFloat32 is a convenience function for one-shot mono resampling
// with float32 samples. It creates a resampler, processes the input, flushes,
// and returns the result.
func ResampleMonoFloat32(input []float32, inputRate, outputRate float64, quality QualityPreset) ([]float32, error) {
	r, err := NewEngineFloat32(inputRate, outputRate, quality)
	if err != nil {
		return nil, err
	}

	output, err := r.Process(input)
	if err != nil {
		return nil, err
	}

	flushed, err := r.Flush()
	if err != nil {
		return nil, err
	}

	return append(output, flushed...), nil
}

// ResampleStereoFloat32 is the float32 equivalent of ResampleStereo.
func ResampleStereoFloat32(left, right []float32, inputRate, outputRate float64, quality QualityPreset) (leftOut, rightOut []float32, err error) {
	leftOut, err = ResampleMonoFloat32(left, inputRate, outputRate, quality)
	if err != nil {
		return nil, nil, err
	}

	rightOut, err = ResampleMonoFloat32(right, inputRate, outputRate, quality)
	if err != nil {
		return nil, nil, err
	}

	return leftOut, rightOut, nil
}

// InterleaveToStereoFloat32 is the float32 equivalent of InterleaveToStereo.
func InterleaveToStereoFloat32(left, right []float32) []float32 {
	return interleave(left, right)
}

// DeinterleaveFromStereoFloat32 is the float32 equivalent of DeinterleaveFromStereo.
func DeinterleaveFromStereoFloat32(interleaved []float32) (left, right []float32) {
	return deinterleave(interleaved)
}
