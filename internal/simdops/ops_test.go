package simdops

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampPair(n int) (a, b []float64) {
	a = make([]float64, n)
	b = make([]float64, n)
	for i := range n {
		a[i] = float64(i) * 0.01
		b[i] = 1.0 - float64(i)*0.02
	}
	return a, b
}

func TestDot_Integers(t *testing.T) {
	assert.Equal(t, 32, Dot([]int{1, 2, 3}, []int{4, 5, 6}))
	assert.Equal(t, int16(0), Dot([]int16{}, []int16{}))
}

func TestDot_Complex(t *testing.T) {
	a := []complex128{complex(1, 1), complex(0, 2)}
	b := []complex128{complex(2, 0), complex(0, 1)}
	assert.Equal(t, complex(0, 2), Dot(a, b))
}

func TestDot_IgnoresTail(t *testing.T) {
	assert.Equal(t, 5, Dot([]int{1, 2, 99}, []int{1, 2}))
}

func TestDot_FloatMatchesPortable(t *testing.T) {
	for _, n := range []int{1, 3, 4, 7, 16, 33, 64, 257} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			a, b := rampPair(n)
			want := Portable[float64]().DotProduct(a, b)
			assert.InDelta(t, want, Dot(a, b), 1e-12)

			a32 := make([]float32, n)
			b32 := make([]float32, n)
			for i := range n {
				a32[i], b32[i] = float32(a[i]), float32(b[i])
			}
			want32 := Portable[float32]().DotProduct(a32, b32)
			assert.InDelta(t, float64(want32), float64(Dot(a32, b32)), 1e-4)
		})
	}
}

func TestVariantsAgree(t *testing.T) {
	a, b := rampPair(100)
	p := Portable[float64]()
	s := &simd64

	assert.InDelta(t, p.DotProduct(a, b), s.DotProduct(a, b), 1e-12)
	assert.InDelta(t, p.Sum(a), s.Sum(a), 1e-12)

	dp := make([]float64, len(a))
	ds := make([]float64, len(a))
	p.Scale(dp, a, 2.5)
	s.Scale(ds, a, 2.5)
	assert.InDeltaSlice(t, dp, ds, 1e-12)

	ip := make([]float64, 2*len(a))
	is := make([]float64, 2*len(a))
	p.Interleave2(ip, a, b)
	s.Interleave2(is, a, b)
	assert.Equal(t, ip, is)
	assert.Equal(t, []float64{a[0], b[0], a[1], b[1]}, ip[:4])
}

func TestSelect(t *testing.T) {
	require.Equal(t, NamePortable, Select[float64](false).Name)
	require.Equal(t, NamePortable, Select[float32](false).Name)

	want := NamePortable
	if Accelerated() {
		want = NameSIMD
	}
	assert.Equal(t, want, Select[float64](true).Name)
	assert.Equal(t, want, For[float32]().Name)
	assert.NotEmpty(t, Info())
}

func BenchmarkDotProduct(b *testing.B) {
	a, c := rampPair(64)
	for _, ops := range []*Ops[float64]{Portable[float64](), &simd64} {
		b.Run(ops.Name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = ops.DotProduct(a, c)
			}
		})
	}
}
