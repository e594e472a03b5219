package math

// Exp kernel data for Pow64Scalar.
//
// exp(x) = 2^(k/N) * exp(r) with x = k*ln2/N + r and |r| <= ln2/(2N).
const (
	powExpTableBits = 8
	powExpN         = 1 << powExpTableBits

	// powExpPolyOrder is the degree of the exp(r) - 1 approximation:
	// r + C2*r^2 + C3*r^3 + C4*r^4.
	powExpPolyOrder = 4

	// powSignBias is added to the reduction integer so that, once shifted
	// into place, it flips the sign bit of the scale.
	powSignBias = 0x800 << powExpTableBits
)

const (
	powInvLn2N = 0x1.71547652b82fep0 * powExpN

	// -ln2/N split in two. The high part has a 35-bit odd significand
	// below 2^53/378194, so kd*powNegLn2HiN is exact for |kd| <= 378194,
	// which is every kd that |x| < 1024 rounds to.
	powNegLn2HiN = -0x1.62e42fefc0000p-9
	powNegLn2LoN = 0x1.c610ca86c3899p-45

	// powShift rounds to the nearest integer when added to a value of
	// magnitude below 2^51 and leaves that integer in the low mantissa bits.
	powShift = 0x1.8p52
)

// exp(r) - 1 on |r| < ln2/512: abs error 1.43*2^-58, ulp error 0.549.
var powExpPoly = [powExpPolyOrder - 1]float64{
	0x1.fffffffffffd4p-2,
	0x1.5555571d6ef9p-3,
	0x1.5555576a5adcep-5,
}

// powExpSBits[j] is the bit pattern of 2^(j/N) minus j<<(52-powExpTableBits).
// Adding (k+bias)<<(52-powExpTableBits) for k = e*N + j restores the index
// bits and lands e in the exponent field and bias in the sign bit.
var powExpSBits = newPowExpSBits()
