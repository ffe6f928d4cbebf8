package engine

// Arbitrary-rate resampler constants
const (
	// minArbitraryPhases is the smallest phase count that can interpolate
	// between neighbouring branches.
	minArbitraryPhases = 2

	// primingInputs is the number of inputs owed before the first output,
	// so output 0 sees input 0 as its newest sample.
	primingInputs = 1

	// latencyDivisor gives the group delay of a linear-phase prototype:
	// (taps - 1) / 2 samples at the oversampled rate.
	latencyDivisor = 2

	// flushMarginInputs is added to the rounded-up latency so the last
	// input is fully past the filter centre when Flush returns.
	flushMarginInputs = 1

	// Byte sizes for float types.
	bytesPerFloat32 = 4
	bytesPerFloat64 = 8
)
