package simdops

import (
	"github.com/klauspost/cpuid/v2"
	"github.com/tphakala/simd/cpu"
)

// accelerated reports whether init() chose the simd variants.
var accelerated bool

func init() {
	accelerated = hasVectorUnit(&cpuid.CPU)
	if accelerated {
		selected32 = &simd32
		selected64 = &simd64
	}
}

// hasVectorUnit reports whether the CPU has a vector unit the simd package
// can exploit: AVX on x86-64 or Advanced SIMD on arm64.
func hasVectorUnit(c *cpuid.CPUInfo) bool {
	return c.Supports(cpuid.AVX) || c.Has(cpuid.ASIMD)
}

// Accelerated reports whether the accelerated variant was selected.
func Accelerated() bool {
	return accelerated
}

// Info describes the selected implementation and the host CPU.
func Info() string {
	if !accelerated {
		return NamePortable + " (" + cpuid.CPU.BrandName + ")"
	}
	return NameSIMD + " (" + cpu.Info() + ")"
}
