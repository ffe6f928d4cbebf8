package resampler

import (
	"fmt"
	"math"
	"sync"

	"github.com/tphakala/go-arb-resampler/internal/pipeline"
	"github.com/tphakala/go-arb-resampler/internal/simdops"
	"golang.org/x/sync/errgroup"
)

// constantRateResampler implements fixed-ratio resampling with one
// arbitrary-rate polyphase stage per channel.
type constantRateResampler struct {
	config Config
	ratio  float64
	spec   pipeline.StageSpec

	// Per-channel state
	channels []pipeline.Stage

	mu sync.RWMutex
}

// newConstantRateResampler creates a new constant-rate resampler.
func newConstantRateResampler(config *Config, ratio float64) (*constantRateResampler, error) {
	spec, err := planStage(config, ratio)
	if err != nil {
		return nil, err
	}

	channels, err := newChannelStages(spec, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create channel stages: %w", err)
	}

	return &constantRateResampler{
		config:   *config,
		ratio:    ratio,
		spec:     spec,
		channels: channels,
	}, nil
}

// Process resamples a mono audio channel.
func (r *constantRateResampler) Process(input []float64) ([]float64, error) {
	// Use first channel for mono processing
	return r.processChannel(0, input)
}

// ProcessFloat32 resamples float32 audio data.
// Internally converts to float64 for processing, then converts back.
func (r *constantRateResampler) ProcessFloat32(input []float32) ([]float32, error) {
	input64 := make([]float64, len(input))
	for i, v := range input {
		input64[i] = float64(v)
	}

	output64, err := r.Process(input64)
	if err != nil {
		return nil, err
	}

	output32 := make([]float32, len(output64))
	for i, v := range output64 {
		output32[i] = float32(v)
	}

	return output32, nil
}

// ProcessMulti processes multiple audio channels.
// When EnableParallel is true in config, channels are processed concurrently.
// Otherwise, channels are processed sequentially.
func (r *constantRateResampler) ProcessMulti(input [][]float64) ([][]float64, error) {
	if len(input) != r.config.Channels {
		return nil, fmt.Errorf("expected %d channels, got %d", r.config.Channels, len(input))
	}

	return r.eachChannel(func(ch int) ([]float64, error) {
		return r.processChannel(ch, input[ch])
	})
}

// FlushMulti drains the filter tail of every channel.
func (r *constantRateResampler) FlushMulti() ([][]float64, error) {
	return r.eachChannel(func(ch int) ([]float64, error) {
		out, err := r.channels[ch].Flush()
		if err != nil {
			return nil, fmt.Errorf("flush: %w", err)
		}
		return out, nil
	})
}

// eachChannel runs fn for every channel and collects the results, on one
// goroutine per channel when parallel processing is enabled.
func (r *constantRateResampler) eachChannel(fn func(ch int) ([]float64, error)) ([][]float64, error) {
	output := make([][]float64, len(r.channels))

	// Sequential processing (default or when parallel disabled)
	if !r.config.EnableParallel || len(r.channels) <= 1 {
		for ch := range r.channels {
			result, err := fn(ch)
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", ch, err)
			}
			output[ch] = result
		}
		return output, nil
	}

	// Each goroutine owns one channel's stage and output slot.
	var g errgroup.Group
	for ch := range r.channels {
		g.Go(func() error {
			result, err := fn(ch)
			if err != nil {
				return fmt.Errorf("channel %d: %w", ch, err)
			}
			output[ch] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return output, nil
}

// processChannel processes a single channel through its stage.
func (r *constantRateResampler) processChannel(channel int, input []float64) ([]float64, error) {
	if channel < 0 || channel >= len(r.channels) {
		return nil, fmt.Errorf("channel %d out of range", channel)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	output, err := r.channels[channel].Process(input)
	if err != nil {
		return nil, fmt.Errorf("stage processing error: %w", err)
	}
	return output, nil
}

// Flush returns any remaining samples of the first channel.
func (r *constantRateResampler) Flush() ([]float64, error) {
	return r.channels[0].Flush()
}

// GetLatency returns the filter delay in output samples.
func (r *constantRateResampler) GetLatency() int {
	return int(math.Round(r.spec.Latency() * r.ratio))
}

// Reset clears all internal state.
func (r *constantRateResampler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stage := range r.channels {
		stage.Reset()
	}
}

// GetRatio returns the resampling ratio.
func (r *constantRateResampler) GetRatio() float64 {
	return r.ratio
}

// GetInfo returns information about the resampler.
func (r *constantRateResampler) GetInfo() Info {
	info := Info{
		Algorithm: "arbitrary-polyphase",
		Latency:   r.GetLatency(),
		SIMDType:  "none",
	}

	var memUsage int64
	for _, stage := range r.channels {
		memUsage += stage.GetMemoryUsage()
	}
	info.MemoryUsage = memUsage

	primary := r.channels[0]
	info.FilterLength = primary.GetFilterLength()
	info.Phases = primary.GetPhases()
	if simd := primary.GetSIMDInfo(); simd != "" {
		info.SIMDEnabled = true
		info.SIMDType = simd
	}

	return info
}

// SIMDAvailable reports whether the accelerated inner product was selected
// for this process. Config.EnableSIMD only has an effect when it is.
func SIMDAvailable() bool {
	return simdops.Accelerated()
}

// SIMDInfo describes the inner-product implementation and the host CPU.
func SIMDInfo() string {
	return simdops.Info()
}
