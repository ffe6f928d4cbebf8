package resampler

// Channel constants
const (
	stereoChannels = 2   // Stereo channel count (used by interleave functions)
	maxChannels    = 256 // Maximum supported channel count
)

// Quality precision levels in bits
const (
	precision8Bit  = 8
	precision16Bit = 16
	precision24Bit = 24
	precision32Bit = 32
	precision33Bit = 33
)

// Quality preset band edges, as fractions of the lower Nyquist frequency
const (
	// Quick quality (8-bit)
	quickPassbandEnd   = 0.7
	quickStopbandBegin = 1.0

	// Low quality (16-bit)
	lowPassbandEnd   = 0.80
	lowStopbandBegin = 0.95

	// Medium quality (16-bit)
	mediumPassbandEnd   = 0.90
	mediumStopbandBegin = 0.98

	// High quality (24-bit)
	highPassbandEnd   = 0.95
	highStopbandBegin = 0.99

	// Very high quality (32-bit)
	veryHighPassbandEnd   = 0.99
	veryHighStopbandBegin = 0.995
)

// Resampling ratio limits
const (
	minRatioFactor = 1.0 / 256.0 // Minimum resampling ratio (1/256)
	maxRatioFactor = 256.0       // Maximum resampling ratio (256x)
)

// Arbitrary resampler defaults
const (
	// defaultArbitraryAttenuation is the stopband attenuation of
	// NewPrototype when none is given.
	defaultArbitraryAttenuation = 100.0
)
