package resampler

import (
	"fmt"

	"github.com/tphakala/go-arb-resampler/internal/engine"
	"github.com/tphakala/go-arb-resampler/internal/pipeline"
	"github.com/tphakala/go-arb-resampler/internal/simdops"
)

// planStage converts the resolved quality settings into a stage plan.
func planStage(cfg *Config, ratio float64) (pipeline.StageSpec, error) {
	spec, err := pipeline.Plan(ratio, pipeline.QualityParams{
		Precision:     cfg.Quality.Precision,
		PassbandEnd:   cfg.Quality.PassbandEnd,
		StopbandBegin: cfg.Quality.StopbandBegin,
		Phases:        cfg.Phases,
		TapsPerPhase:  cfg.Taps,
		Window:        cfg.Window,
	})
	if err != nil {
		return pipeline.StageSpec{}, fmt.Errorf("failed to plan stage: %w", err)
	}
	return spec, nil
}

// newEngine designs the prototype for spec and builds an arbitrary-rate
// engine of precision F around it.
func newEngine[F simdops.Float](spec pipeline.StageSpec, cfg *Config) (*engine.Arbitrary[F], error) {
	proto, err := spec.Prototype()
	if err != nil {
		return nil, fmt.Errorf("failed to design prototype: %w", err)
	}

	taps := make([]F, len(proto))
	for i, v := range proto {
		taps[i] = F(v)
	}

	return engine.NewArbitrary(taps, spec.Phases, spec.Ratio,
		engine.WithDerivative(cfg.Derivative),
		engine.WithSIMD(cfg.EnableSIMD),
	)
}

// newChannelStages creates one stage per channel. The prototype is
// designed once and the engine cloned for the remaining channels.
func newChannelStages(spec pipeline.StageSpec, cfg *Config) ([]pipeline.Stage, error) {
	first, err := newEngine[float64](spec, cfg)
	if err != nil {
		return nil, err
	}

	primary := engine.NewStageAdapter(first)
	stages := make([]pipeline.Stage, cfg.Channels)
	stages[0] = primary
	for ch := 1; ch < cfg.Channels; ch++ {
		stages[ch] = primary.Clone()
	}
	return stages, nil
}

// Ensure implementations satisfy the interface
var _ pipeline.Stage = (*engine.StageAdapter[float64])(nil)
