// Package simdops provides the inner-product primitive used by the filters.
//
// Two implementations exist for each float type: a portable pure-Go
// reference and an accelerated one backed by github.com/tphakala/simd.
// The accelerated variant is chosen once, at package initialisation, from
// the CPU features reported by cpuid. Hot paths hold a *Ops[F] and call
// through its function fields, so there is no per-call branching.
//
// The two variants may sum in a different order; for floating point that
// can produce small differences in the last bits.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
	"golang.org/x/exp/constraints"
)

// Float is the type constraint for the accelerated float types.
type Float interface {
	float32 | float64
}

// Number is any type that supports addition, subtraction, multiplication
// and has a zero value. Filter banks, histories and the plain FIR accept it.
type Number interface {
	constraints.Integer | constraints.Float | constraints.Complex
}

// Ops is one implementation variant of the vector primitives for type F.
type Ops[F Float] struct {
	// Name identifies the variant ("portable" or "simd").
	Name string

	// DotProduct returns sum(a[i]*b[i]). a and b must have equal length.
	DotProduct func(a, b []F) F

	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// Scale multiplies each element by s: dst[i] = a[i] * s
	Scale func(dst, a []F, s F)

	// Interleave2 interleaves two slices: dst[0]=a[0], dst[1]=b[0], dst[2]=a[1], ...
	// dst must hold 2*len(a) elements and b must be as long as a.
	Interleave2 func(dst, a, b []F)
}

// Variant names reported by Ops.Name.
const (
	NamePortable = "portable"
	NameSIMD     = "simd"
)

var (
	portable32 = Ops[float32]{
		Name:        NamePortable,
		DotProduct:  dotPortable[float32],
		Sum:         sumPortable[float32],
		Scale:       scalePortable[float32],
		Interleave2: interleavePortable[float32],
	}
	portable64 = Ops[float64]{
		Name:        NamePortable,
		DotProduct:  dotPortable[float64],
		Sum:         sumPortable[float64],
		Scale:       scalePortable[float64],
		Interleave2: interleavePortable[float64],
	}
	simd32 = Ops[float32]{
		Name:        NameSIMD,
		DotProduct:  f32.DotProductUnsafe,
		Sum:         f32.Sum,
		Scale:       f32.Scale,
		Interleave2: f32.Interleave2,
	}
	simd64 = Ops[float64]{
		Name:        NameSIMD,
		DotProduct:  f64.DotProductUnsafe,
		Sum:         f64.Sum,
		Scale:       f64.Scale,
		Interleave2: f64.Interleave2,
	}

	// selected32/selected64 are fixed by init() in detect.go.
	selected32 = &portable32
	selected64 = &portable64
)

// For returns the variant selected for this process for type F.
// The type switch happens at construction time, not in hot paths.
func For[F Float]() *Ops[F] {
	return pick[F](selected32, selected64)
}

// Portable returns the pure-Go reference variant for type F.
func Portable[F Float]() *Ops[F] {
	return pick[F](&portable32, &portable64)
}

// Select returns the selected variant, or the portable one when
// enableSIMD is false.
func Select[F Float](enableSIMD bool) *Ops[F] {
	if !enableSIMD {
		return Portable[F]()
	}
	return For[F]()
}

func pick[F Float](o32 *Ops[float32], o64 *Ops[float64]) *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(o32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(o64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}

// Dot returns the inner product of a and b for any Number type.
// []float32 and []float64 go through the selected variant; every other
// element type uses the portable loop. Extra elements of the longer
// slice are ignored.
func Dot[T Number](a, b []T) T {
	n := min(len(a), len(b))
	if n == 0 {
		var zero T
		return zero
	}
	a, b = a[:n], b[:n]

	switch av := any(a).(type) {
	case []float64:
		bv, _ := any(b).([]float64)
		r, _ := any(selected64.DotProduct(av, bv)).(T)
		return r
	case []float32:
		bv, _ := any(b).([]float32)
		r, _ := any(selected32.DotProduct(av, bv)).(T)
		return r
	}
	return dotPortable(a, b)
}

func dotPortable[T Number](a, b []T) T {
	var sum T
	b = b[:len(a)]
	for i, v := range a {
		sum += v * b[i]
	}
	return sum
}

func sumPortable[T Number](a []T) T {
	var sum T
	for _, v := range a {
		sum += v
	}
	return sum
}

func scalePortable[T Number](dst, a []T, s T) {
	dst = dst[:len(a)]
	for i, v := range a {
		dst[i] = v * s
	}
}

func interleavePortable[F Float](dst, a, b []F) {
	b = b[:len(a)]
	for i, v := range a {
		dst[2*i] = v
		dst[2*i+1] = b[i]
	}
}
