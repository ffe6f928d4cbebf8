package pipeline

// DSP algorithm constants
const (
	// dB per bit of precision (20 * log10(2) ≈ 6.02)
	dbPerBit = 6.02

	// maxCutoff is the Nyquist limit in cycles per sample.
	maxCutoff = 0.5

	// The cutoff sits halfway between the passband and stopband edges.
	edgeMidpointDivisor = 2.0

	// Group delay of a linear-phase prototype is (taps - 1) / 2.
	latencyDivisor = 2.0
)

// Prototype size limits
const (
	minTapsPerPhase = 8
	maxTapsPerPhase = 1024

	// maxPrototypeTaps bounds phases * tapsPerPhase, and with it the size
	// of each coefficient bank.
	maxPrototypeTaps = 1 << 19

	// SIMD alignment - round to multiple of 4
	simdAlignmentMask = 3 // Used with &^ for rounding
)

// Polyphase branch counts
const (
	minPhases   = 2
	phasesBase  = 32   // Below 16-bit precision
	phases16Bit = 256  // 16 to 23 bits
	phases24Bit = 1024 // 24 to 27 bits
	phases28Bit = 2048 // 28 bits and up
)

// Quality precision levels in bits.
// NOTE: These are duplicated from the main resampler package because internal
// packages cannot import the main package (would create import cycle).
const (
	minPrecision   = 8
	maxPrecision   = 33
	precision16Bit = 16
	precision24Bit = 24
	precision28Bit = 28
)
