package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-arb-resampler/internal/mathutil"
	"gonum.org/v1/gonum/dsp/window"
)

// WindowKind selects the taper applied to the ideal sinc.
type WindowKind int

const (
	// WindowKaiser tapers with a Kaiser window whose β follows the
	// requested stopband attenuation.
	WindowKaiser WindowKind = iota
	// WindowHamming is 0.54 − 0.46·cos(2πn/(N−1)).
	WindowHamming
	// WindowHann is 0.5 − 0.5·cos(2πn/(N−1)).
	WindowHann
	// WindowBlackman is the classic three-term Blackman window.
	WindowBlackman
	// WindowRectangular applies no taper.
	WindowRectangular
)

var windowNames = map[WindowKind]string{
	WindowKaiser:      "kaiser",
	WindowHamming:     "hamming",
	WindowHann:        "hann",
	WindowBlackman:    "blackman",
	WindowRectangular: "rectangular",
}

// String returns the lower-case window name.
func (k WindowKind) String() string {
	if name, ok := windowNames[k]; ok {
		return name
	}
	return fmt.Sprintf("WindowKind(%d)", int(k))
}

// Valid reports whether k names a known window.
func (k WindowKind) Valid() bool {
	_, ok := windowNames[k]
	return ok
}

// ParseWindow maps a window name to its kind.
func ParseWindow(name string) (WindowKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, n := range windowNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown window %q", name)
}

// Window returns length samples of the given window. beta is only used by
// WindowKaiser. All windows are symmetric with an N−1 denominator, so both
// end points are included.
func Window(kind WindowKind, length int, beta float64) ([]float64, error) {
	if length < 1 {
		return []float64{}, nil
	}

	var taper func([]float64) []float64
	switch kind {
	case WindowKaiser:
		return KaiserWindow(length, beta), nil
	case WindowHamming:
		taper = window.Hamming
	case WindowHann:
		taper = window.Hann
	case WindowBlackman:
		taper = window.Blackman
	case WindowRectangular:
		taper = window.Rectangular
	default:
		return nil, fmt.Errorf("unknown window kind %d", int(kind))
	}

	if length == 1 {
		return []float64{1}, nil
	}
	return window.NewValues(taper, length), nil
}

// KaiserWindow generates a Kaiser window of the specified length and β:
//
//	w[n] = I₀(β·sqrt(1 − ((n − α)/α)²)) / I₀(β),  α = (N−1)/2
//
// β = 0 gives a rectangular window; larger β trades main lobe width for
// lower sidelobes. The window is symmetric and peaks at 1.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	w := make([]float64, length)
	if length == 1 {
		w[0] = 1
		return w
	}

	alpha := float64(length-1) / windowNormalizationFactor
	i0Beta := mathutil.BesselI0(beta)

	for n := range length {
		x := (float64(n) - alpha) / alpha
		// Guard the end points against 1 − x² rounding below zero.
		arg := beta * math.Sqrt(max(0, 1.0-x*x))
		w[n] = mathutil.BesselI0(arg) / i0Beta
	}

	return w
}
