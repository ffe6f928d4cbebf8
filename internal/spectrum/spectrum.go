// Package spectrum measures filter responses and signal quality with the
// gonum FFT.
package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

const (
	// minMagnitude floors magnitudes before the log to avoid -Inf.
	minMagnitude = 1e-20

	// dbMultiplier converts an amplitude ratio to decibels.
	dbMultiplier = 20.0

	// toneHalfWidth is the number of bins either side of the tone peak
	// counted as signal. Blackman-Harris has a main lobe of ±4 bins.
	toneHalfWidth = 5
)

// Response is a magnitude response sampled on an FFT grid.
type Response struct {
	// Frequencies in cycles per sample, 0 to 0.5.
	Frequencies []float64
	// Magnitude is the linear amplitude at each frequency.
	Magnitude []float64
}

// MagnitudeResponse evaluates |H(f)| of coeffs on an fftSize-point grid,
// returning fftSize/2 + 1 points from DC to Nyquist. fftSize must be at
// least len(coeffs); coeffs are zero-padded.
func MagnitudeResponse(coeffs []float64, fftSize int) (Response, error) {
	if len(coeffs) == 0 {
		return Response{}, fmt.Errorf("no coefficients")
	}
	if fftSize < len(coeffs) {
		return Response{}, fmt.Errorf("fft size %d shorter than %d coefficients", fftSize, len(coeffs))
	}

	padded := make([]float64, fftSize)
	copy(padded, coeffs)

	fft := fourier.NewFFT(fftSize)
	bins := fft.Coefficients(nil, padded)

	resp := Response{
		Frequencies: make([]float64, len(bins)),
		Magnitude:   make([]float64, len(bins)),
	}
	for i, c := range bins {
		resp.Frequencies[i] = fft.Freq(i)
		resp.Magnitude[i] = cmplx.Abs(c)
	}
	return resp, nil
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	return dbMultiplier * math.Log10(max(magnitude, minMagnitude))
}

// At returns the magnitude at the grid point nearest to freq.
func (r Response) At(freq float64) float64 {
	if len(r.Frequencies) < 2 {
		return 0
	}
	step := r.Frequencies[1]
	i := int(math.Round(freq / step))
	i = min(max(i, 0), len(r.Magnitude)-1)
	return r.Magnitude[i]
}

// PeakDB returns the largest magnitude at or above edge, in dB relative to
// the DC magnitude.
func (r Response) PeakDB(edge float64) float64 {
	peak := 0.0
	for i, f := range r.Frequencies {
		if f >= edge {
			peak = max(peak, r.Magnitude[i])
		}
	}
	return MagnitudeDB(peak) - MagnitudeDB(r.Magnitude[0])
}

// StopbandPeakDB returns the worst leakage of coeffs at or above edge
// (cycles per sample), in dB relative to the DC gain.
func StopbandPeakDB(coeffs []float64, edge float64, fftSize int) (float64, error) {
	resp, err := MagnitudeResponse(coeffs, fftSize)
	if err != nil {
		return 0, err
	}
	return resp.PeakDB(edge), nil
}

// ToneSNR estimates the signal-to-noise-and-distortion ratio, in dB, of a
// signal that should contain a single tone at freq (cycles per sample).
//
// The signal is Blackman-Harris windowed and transformed; power within a
// few bins of the strongest bin near freq counts as signal, everything else
// except DC counts as noise.
func ToneSNR(signal []float64, freq float64) (float64, error) {
	n := len(signal)
	if n < 2*toneHalfWidth+2 {
		return 0, fmt.Errorf("signal too short: %d samples", n)
	}
	if freq <= 0 || freq >= 0.5 {
		return 0, fmt.Errorf("tone frequency %f out of range (0, 0.5)", freq)
	}

	seq := make([]float64, n)
	copy(seq, signal)
	window.BlackmanHarris(seq)

	bins := fourier.NewFFT(n).Coefficients(nil, seq)
	power := make([]float64, len(bins))
	for i, c := range bins {
		power[i] = real(c)*real(c) + imag(c)*imag(c)
	}

	// Search for the peak near the nominal bin.
	nominal := int(math.Round(freq * float64(n)))
	lo := max(nominal-toneHalfWidth, 1)
	hi := min(nominal+toneHalfWidth, len(power)-1)
	peak := lo + floats.MaxIdx(power[lo:hi+1])

	sigLo := max(peak-toneHalfWidth, 1)
	sigHi := min(peak+toneHalfWidth, len(power)-1)
	signalPower := floats.Sum(power[sigLo : sigHi+1])

	// Bins below toneHalfWidth hold the DC lobe and are ignored.
	var noisePower float64
	for k := toneHalfWidth; k < len(power); k++ {
		if k < sigLo || k > sigHi {
			noisePower += power[k]
		}
	}
	if noisePower <= 0 {
		return math.Inf(1), nil
	}

	return 10 * math.Log10(signalPower/noisePower), nil
}
