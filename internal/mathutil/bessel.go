// Package mathutil provides the special functions and estimates used in
// prototype filter design.
package mathutil

import (
	"math"
)

// BesselI0 computes the modified Bessel function of the first kind, order
// zero: I₀(x).
//
// It sums the power series
//
//	I₀(x) = Σ ((x/2)^k / k!)²
//
// until a term no longer changes the sum. All terms are positive, so the
// series is stable; for the Kaiser β range (0 to ~40) it needs well under
// a hundred terms.
func BesselI0(x float64) float64 {
	half := x / halfDivisor
	sum := 1.0
	term := 1.0
	for k := 1; k <= besselMaxTerms; k++ {
		f := half / float64(k)
		term *= f * f
		sum += term
		if term < sum*besselRelativeEpsilon {
			break
		}
	}
	return sum
}

// KaiserBeta computes the Kaiser window β parameter from the desired
// stopband attenuation in decibels (Kaiser & Schafer):
//
//   - att > 50 dB:        β = 0.1102 · (att − 8.7)
//   - 21 dB ≤ att ≤ 50 dB: β = 0.5842 · (att − 21)^0.4 + 0.07886 · (att − 21)
//   - att < 21 dB:        β = 0
func KaiserBeta(attenuation float64) float64 {
	if attenuation > kaiserAttHigh {
		return kaiserBetaHighCoeff1 * (attenuation - kaiserBetaHighOffset)
	} else if attenuation >= kaiserAttMedium {
		delta := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(delta, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*delta
	}
	return 0.0
}

// KaiserAttenuation estimates the stopband attenuation a Kaiser window with
// the given β achieves. It inverts the high-attenuation branch of KaiserBeta.
func KaiserAttenuation(beta float64) float64 {
	if beta < kaiserBetaMinThreshold {
		return 0.0
	}
	return kaiserBetaHighOffset + beta/kaiserBetaHighCoeff1
}

// EstimateFilterLength estimates the FIR length needed for the given
// attenuation (dB) and transition bandwidth (fraction of the sample rate):
//
//	N ≈ (att − 8) / (2.285 · 2π · Δf)
//
// The result is rounded up to an odd number and clamped to
// [minFilterLength, maxFilterLength].
func EstimateFilterLength(attenuation, transitionBW float64) int {
	if transitionBW <= 0 {
		transitionBW = defaultTransitionBW
	}

	numTaps := (attenuation - kaiserFilterLengthOffset) /
		(kaiserFilterLengthMultiplier * kaiserFilterLengthPiFactor * math.Pi * transitionBW)

	taps := int(math.Ceil(numTaps))
	if taps%2 == 0 {
		taps++
	}
	return min(max(taps, minFilterLength), maxFilterLength)
}
