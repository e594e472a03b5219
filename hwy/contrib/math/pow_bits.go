package math

import stdmath "math"

// Bit-level helpers shared by the pow kernels. All reinterpretation goes
// through math.Float64bits/Float64frombits, which move the bit pattern
// unchanged; a numeric conversion would round.

// Result of checkint.
const (
	notInt  = 0
	oddInt  = 1
	evenInt = 2
)

var (
	bitsOne = asBits(1.0)
	bitsInf = asBits(stdmath.Inf(1))
)

func asBits(x float64) uint64 {
	return stdmath.Float64bits(x)
}

func asFloat(u uint64) float64 {
	return stdmath.Float64frombits(u)
}

// top12 returns the sign and exponent bits of x.
func top12(x float64) uint32 {
	return uint32(asBits(x) >> 52)
}

// checkint classifies the bit pattern of a non-zero finite y as notInt,
// oddInt or evenInt.
func checkint(iy uint64) int {
	e := int(iy >> 52 & 0x7ff)
	if e < 0x3ff {
		return notInt
	}
	if e > 0x3ff+52 {
		return evenInt
	}
	m := uint(0x3ff + 52 - e)
	if iy&(1<<m-1) != 0 {
		return notInt
	}
	if iy&(1<<m) != 0 {
		return oddInt
	}
	return evenInt
}

// zeroinfnan reports whether i is the bit pattern of ±0, ±Inf or a NaN.
func zeroinfnan(i uint64) bool {
	return 2*i-1 >= 2*bitsInf-1
}

// optBarrier returns x unchanged. It is kept out of line so the compiler
// cannot move the arithmetic it guards ahead of the branch that makes
// that arithmetic safe.
//
//go:noinline
func optBarrier(x float64) float64 {
	return x
}

// checkOflow and checkUflow mark where an overflowing or underflowing
// result leaves the exp kernel. The arithmetic has already produced ±Inf or
// a correctly signed zero or subnormal there, so both are identity clamp
// points. PowFlags classifies such results on its own.
func checkOflow(x float64) float64 { return x }

func checkUflow(x float64) float64 { return x }
