package engine

import (
	"math"

	"github.com/tphakala/go-arb-resampler/internal/simdops"
	"github.com/tphakala/simd/cpu"
)

// StageAdapter wraps an Arbitrary resampler to implement the pipeline.Stage
// interface used by the public resampler package.
//
// Type parameter F controls the precision of sample processing.
type StageAdapter[F simdops.Float] struct {
	*Arbitrary[F]
}

// NewStageAdapter creates a StageAdapter wrapping the given resampler.
func NewStageAdapter[F simdops.Float](a *Arbitrary[F]) *StageAdapter[F] {
	return &StageAdapter[F]{Arbitrary: a}
}

// Process resamples input and returns every output that became available.
func (s *StageAdapter[F]) Process(input []F) ([]F, error) {
	return s.Arbitrary.Process(input), nil
}

// Flush drains the filter tail.
func (s *StageAdapter[F]) Flush() ([]F, error) {
	return s.Arbitrary.Flush(), nil
}

// GetRatio returns the resampling ratio.
func (s *StageAdapter[F]) GetRatio() float64 {
	return s.Rate()
}

// GetLatency returns the stage latency in input samples, rounded.
func (s *StageAdapter[F]) GetLatency() int {
	return int(math.Round(s.Latency()))
}

// GetFilterLength returns the prototype length.
func (s *StageAdapter[F]) GetFilterLength() int {
	return s.TotalTaps()
}

// GetPhases returns the number of polyphase branches.
func (s *StageAdapter[F]) GetPhases() int {
	phases, _ := s.Dims()
	return phases
}

// GetSIMDInfo describes the vector unit when the accelerated inner product
// is in use, and is empty otherwise.
func (s *StageAdapter[F]) GetSIMDInfo() string {
	if s.OpsName() != simdops.NameSIMD {
		return ""
	}
	return cpu.Info()
}

// Clone returns an independent copy of the stage.
func (s *StageAdapter[F]) Clone() *StageAdapter[F] {
	return &StageAdapter[F]{Arbitrary: s.Arbitrary.Clone()}
}
