package math

import stdmath "math"

// Pow64Scalar computes x^y for a single float64.
//
// It is the scalar fallback behind the vector Pow: exp(y*log(x)) evaluated
// in extended precision with table-driven reduction for both log and exp.
// Results are within about 1 ULP across the finite domain. Only round to
// nearest is supported; no floating-point exception state is touched (see
// PowFlags for a reporting layer).
//
// Special cases:
//
//	Pow64Scalar(x, ±0) = 1 for any x, including NaN
//	Pow64Scalar(1, y) = 1 for any y, including NaN
//	Pow64Scalar(x, y) = NaN if x or y is NaN (other than the above)
//	Pow64Scalar(-1, ±Inf) = 1
//	Pow64Scalar(x, +Inf) = +Inf for |x| > 1, +0 for |x| < 1
//	Pow64Scalar(x, -Inf) = +0 for |x| > 1, +Inf for |x| < 1
//	Pow64Scalar(±0, y) = ±Inf for y an odd integer < 0, +Inf for other y < 0
//	Pow64Scalar(±0, y) = ±0 for y an odd integer > 0, +0 for other y > 0
//	Pow64Scalar(±Inf, y) = Pow64Scalar(±0, -y)
//	Pow64Scalar(x, y) = NaN for finite x < 0 and finite non-integer y
//	Pow64Scalar(x, y) = ±Inf on overflow, ±0 on underflow
func Pow64Scalar(x, y float64) float64 {
	var signBias uint64
	ix := asBits(x)
	iy := asBits(y)
	topx := top12(x)
	topy := top12(y)

	// x is subnormal, zero, Inf, NaN or negative; or |y| < 2^-65,
	// |y| >= 2^63 or y is NaN.
	if topx-0x001 >= 0x7ff-0x001 || (topy&0x7ff)-0x3be >= 0x43e-0x3be {
		// If |y| > 1075*ln2*2^53 ~= 0x1.749p62 then x^y is Inf or 0, and
		// if |y| < 2^-54/1075 ~= 0x1.e7b6p-65 then x^y rounds to ±1.
		if zeroinfnan(iy) {
			if 2*iy == 0 {
				return 1.0
			}
			if ix == bitsOne {
				return 1.0
			}
			if 2*ix > 2*bitsInf || 2*iy > 2*bitsInf {
				return x + y
			}
			if 2*ix == 2*bitsOne {
				return 1.0
			}
			if (2*ix < 2*bitsOne) == (iy>>63 == 0) {
				return 0.0 // |x|<1 && y==+Inf or |x|>1 && y==-Inf.
			}
			return y * y
		}
		if zeroinfnan(ix) {
			x2 := x * x
			if ix>>63 != 0 && checkint(iy) == oddInt {
				x2 = -x2
			}
			if iy>>63 != 0 {
				return optBarrier(1 / x2)
			}
			return x2
		}
		// Here x and y are non-zero finite.
		if ix>>63 != 0 {
			switch checkint(iy) {
			case notInt:
				return stdmath.NaN()
			case oddInt:
				signBias = powSignBias
			}
			ix &= 0x7fffffffffffffff
			topx &= 0x7ff
		}
		if (topy&0x7ff)-0x3be >= 0x43e-0x3be {
			// signBias == 0 here because y is not odd.
			if ix == bitsOne {
				return 1.0
			}
			// |y| < 2^-65, x^y ~= 1 + y*log(x).
			if topy&0x7ff < 0x3be {
				return 1.0
			}
			if (ix > bitsOne) == (topy < 0x800) {
				return stdmath.Inf(1)
			}
			return 0
		}
		if topx == 0 {
			// Normalize subnormal x so the exponent becomes negative.
			ix = asBits(optBarrier(x) * 0x1p52)
			ix &= 0x7fffffffffffffff
			ix -= 52 << 52
		}
	}

	hi, lo := logInline(ix)
	ehi := float64(y * hi)
	elo := y*lo + stdmath.FMA(y, hi, -ehi)
	return expInline(ehi, elo, signBias)
}

// logInline returns hi+lo = log(x) where hi is log(x) rounded and lo carries
// about 15 more bits. ix is the bit pattern of a positive normal x; callers
// normalise subnormals by letting the exponent go negative, with the borrow
// running into the sign bit.
func logInline(ix uint64) (hi, lo float64) {
	// x = 2^k z; where z is in range [powLogOff, 2*powLogOff) and exact.
	tmp := ix - powLogOff
	i := int(tmp>>(52-powLogTableBits)) & (powLogN - 1)
	k := int64(tmp) >> 52 // arithmetic shift
	iz := ix - tmp&(0xfff<<52)
	z := asFloat(iz)
	kd := float64(k)

	// log(x) = k*Ln2 + log(c) + log1p(z/c-1).
	invc := powLogData.invc[i]
	logc := powLogData.logc[i]
	logctail := powLogData.logctail[i]

	// 1/c is j/N or j/N/2 where j is an integer in [N,2N) and |z/c - 1| < 1/N,
	// so r = z/c - 1 is exactly representable.
	r := stdmath.FMA(z, invc, -1.0)

	// k*Ln2 + log(c) + r.
	t1 := kd*powLn2Hi + logc
	t2 := t1 + r
	lo1 := kd*powLn2Lo + logctail
	lo2 := t1 - t2 + r

	// Evaluation is optimized assuming superscalar pipelined execution.
	// The explicit conversions keep ar*r rounded on its own: hi, lo3 and
	// lo4 must all see the same ar2.
	ar := powLogPoly[0] * r // powLogPoly[0] = -0.5
	ar2 := float64(r * ar)
	ar3 := float64(r * ar2)
	// k*Ln2 + log(c) + r + A[0]*r*r.
	h := t2 + ar2
	lo3 := stdmath.FMA(ar, r, -ar2)
	lo4 := t2 - h + ar2
	// p = log1p(r) - r - A[0]*r*r.
	p := ar3 * (powLogPoly[1] + r*powLogPoly[2] +
		ar2*(powLogPoly[3]+r*powLogPoly[4]+ar2*(powLogPoly[5]+r*powLogPoly[6])))
	l := lo1 + lo2 + lo3 + lo4 + p
	hi = h + l
	lo = h - hi + l
	return hi, lo
}

// expInline computes sign*exp(x+xtail) where |xtail| < 2^-8/N and
// |xtail| <= |x|. signBias is powSignBias or 0 and sets the sign to -1 or 1.
func expInline(x, xtail float64, signBias uint64) float64 {
	abstop := top12(x) & 0x7ff
	if abstop-top12(0x1p-54) >= top12(512)-top12(0x1p-54) {
		if abstop-top12(0x1p-54) >= 0x80000000 {
			// Avoid spurious underflow for tiny x.
			// Note: 0 is common input.
			if signBias != 0 {
				return -1.0
			}
			return 1.0
		}
		if abstop >= top12(1024) {
			// Inf and NaN were handled by the caller.
			res := stdmath.Inf(1)
			if asBits(x)>>63 != 0 {
				res = 0
			}
			if signBias != 0 {
				return -res
			}
			return res
		}
		// Large x is special cased below.
		abstop = 0
	}

	// exp(x) = 2^(k/N) * exp(r), with exp(r) in [2^(-1/2N),2^(1/2N)].
	// x = ln2/N*k + r, with int k and r in [-ln2/2N, ln2/2N].
	z := powInvLn2N * x
	kd, ki := roundToInt(z)
	r := x + kd*powNegLn2HiN + kd*powNegLn2LoN
	// The code assumes 2^-200 < |xtail| < 2^-8/N.
	r += xtail
	// 2^(k/N) ~= scale.
	idx := ki & (powExpN - 1)
	top := (ki + signBias) << (52 - powExpTableBits)
	// This is only a valid scale when -1023*N < k < 1024*N.
	sbits := powExpSBits[idx] + top
	// exp(x) = 2^(k/N) * exp(r) ~= scale + scale * (exp(r) - 1).
	r2 := r * r
	tmp := r + r2*powExpPoly[0] + r*r2*(powExpPoly[1]+r*powExpPoly[2])
	if abstop == 0 {
		return specialCase(tmp, sbits, ki)
	}
	scale := asFloat(sbits)
	// tmp == 0 or |tmp| > 2^-200 and scale > 2^-739, so there is no
	// spurious underflow here even without fma.
	return scale + scale*tmp
}

// roundToInt rounds z to the nearest integer, ties to even, returning it
// both as a float64 and in the low bits of ki. The low 32 bits of ki hold
// the integer in two's complement; the bits above are not meaningful.
// Requires |z| < 2^51.
func roundToInt(z float64) (kd float64, ki uint64) {
	kd = float64(z + powShift)
	ki = asBits(kd)
	kd -= powShift
	return kd, ki
}

// specialCase handles the results of expInline that may overflow or
// underflow: scale*(1+tmp) without intermediate rounding. sbits holds the
// bits of scale but its exponent may have wrapped into the sign bit.
// int32(ki) is the k of the argument reduction: positive k means the
// result may overflow, negative k that it may underflow.
func specialCase(tmp float64, sbits, ki uint64) float64 {
	if ki&0x80000000 == 0 {
		// k > 0, the exponent of scale might have overflowed by <= 460.
		sbits -= 1009 << 52
		scale := asFloat(sbits)
		y := 0x1p1009 * (scale + scale*tmp)
		return checkOflow(y)
	}
	// k < 0, need special care in the subnormal range.
	sbits += 1022 << 52
	// Note: sbits is signed scale.
	scale := asFloat(sbits)
	y := scale + scale*tmp
	y = 0x1p-1022 * y
	return checkUflow(y)
}
