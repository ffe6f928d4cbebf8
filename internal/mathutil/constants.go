package mathutil

// Bessel series constants
const (
	// besselMaxTerms bounds the series; β = 40 converges in about 60 terms.
	besselMaxTerms = 300

	// besselRelativeEpsilon stops the series once a term is below this
	// fraction of the running sum.
	besselRelativeEpsilon = 1e-17

	kaiserBetaMinThreshold = 0.1 // Minimum β for attenuation calculation
)

// Kaiser window formula constants
// From Kaiser & Schafer's empirical formulas
const (
	// Attenuation thresholds for β calculation
	kaiserAttHigh   = 50.0 // High attenuation threshold (dB)
	kaiserAttMedium = 21.0 // Medium attenuation threshold (dB)

	// Kaiser β formula coefficients
	kaiserBetaHighCoeff1 = 0.1102 // Coefficient for high attenuation
	kaiserBetaHighOffset = 8.7    // Offset for high attenuation

	kaiserBetaMediumCoeff1 = 0.5842  // Primary coefficient for medium attenuation
	kaiserBetaMediumPower  = 0.4     // Power for medium attenuation formula
	kaiserBetaMediumCoeff2 = 0.07886 // Secondary coefficient for medium attenuation
)

// Filter length estimation constants
const (
	kaiserFilterLengthOffset     = 8.0   // Attenuation offset in Kaiser formula
	kaiserFilterLengthMultiplier = 2.285 // Multiplier in Kaiser formula
	kaiserFilterLengthPiFactor   = 2.0   // Factor for 2π in formula

	// Prototypes are designed at the oversampled rate, so they are long.
	minFilterLength = 3
	maxFilterLength = 1<<17 - 1

	// Default transition bandwidth for safety
	defaultTransitionBW = 0.01 // Prevent division by zero
)

const halfDivisor = 2.0
