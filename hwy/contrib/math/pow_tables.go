package math

import (
	stdmath "math"

	"github.com/cockroachdb/apd"
	"github.com/pkg/errors"
)

// The pow tables are derived from their defining formulas rather than
// pasted as literals. 50 significant digits leave more than 50 bits of
// headroom over the 106-bit double-double entries they feed.
const powTableDigits = 50

func powTableContext() *apd.Context {
	c := apd.BaseContext.WithPrecision(powTableDigits)
	c.Rounding = apd.RoundHalfEven
	return c
}

// newPowLogTable computes invc, logc and logctail for every subinterval of
// [powLogOff, 2*powLogOff).
//
// c is taken near the centre of subinterval i such that 1/c has only a few
// significant bits:
//
//	1/c = round(N/centre)/N         if centre < 1
//	1/c = round(2N/centre)/(2N)     otherwise
//
// so the two subintervals adjacent to 1 both get invc = 1 and log(x) near
// x = 1 suffers no cancellation against logc.
func newPowLogTable() powLogTable {
	var t powLogTable
	ctx := powTableContext()
	for i := range powLogN {
		lo := asFloat(powLogOff + uint64(i)<<(52-powLogTableBits))
		hi := asFloat(powLogOff + uint64(i+1)<<(52-powLogTableBits))
		centre := (lo + hi) / 2

		num, den := int64(stdmath.Round(powLogN/centre)), int64(powLogN)
		if centre >= 1 {
			num, den = int64(stdmath.Round(2*powLogN/centre)), 2*powLogN
		}
		t.invc[i] = float64(num) / float64(den)

		logc, tail, err := splitLogC(ctx, num, den)
		if err != nil {
			panic(errors.Wrapf(err, "pow log table entry %d", i))
		}
		t.logc[i] = logc
		t.logctail[i] = tail
	}
	return t
}

// splitLogC returns log(c) for 1/c = num/den as logc + tail, with logc a
// multiple of 2^-43.
func splitLogC(ctx *apd.Context, num, den int64) (logc, tail float64, err error) {
	invc := new(apd.Decimal)
	if _, err = ctx.Quo(invc, apd.New(num, 0), apd.New(den, 0)); err != nil {
		return 0, 0, errors.Wrap(err, "1/c")
	}
	l := new(apd.Decimal)
	if _, err = ctx.Ln(l, invc); err != nil {
		return 0, 0, errors.Wrap(err, "log(1/c)")
	}
	if _, err = ctx.Neg(l, l); err != nil {
		return 0, 0, errors.Wrap(err, "log(c)")
	}

	const scale = 1 << 43
	scaled := new(apd.Decimal)
	if _, err = ctx.Mul(scaled, l, apd.New(scale, 0)); err != nil {
		return 0, 0, errors.Wrap(err, "scale")
	}
	if _, err = ctx.RoundToIntegralValue(scaled, scaled); err != nil {
		return 0, 0, errors.Wrap(err, "round")
	}
	n, err := scaled.Int64()
	if err != nil {
		return 0, 0, errors.Wrap(err, "logc numerator")
	}

	// n/2^43 has at most 43 fractional decimal digits, so the quotient and
	// the difference below are exact at the table precision.
	head := new(apd.Decimal)
	if _, err = ctx.Quo(head, apd.New(n, 0), apd.New(scale, 0)); err != nil {
		return 0, 0, errors.Wrap(err, "logc")
	}
	rest := new(apd.Decimal)
	if _, err = ctx.Sub(rest, l, head); err != nil {
		return 0, 0, errors.Wrap(err, "logctail")
	}
	if tail, err = rest.Float64(); err != nil {
		return 0, 0, errors.Wrap(err, "logctail to float64")
	}
	return float64(n) / scale, tail, nil
}

// newPowExpSBits computes 2^(j/N) rounded to nearest for every table index
// and stores it with the index bits pre-subtracted.
func newPowExpSBits() [powExpN]uint64 {
	var sbits [powExpN]uint64
	ctx := powTableContext()

	ln2 := new(apd.Decimal)
	if _, err := ctx.Ln(ln2, apd.New(2, 0)); err != nil {
		panic(errors.Wrap(err, "pow exp table: ln2"))
	}
	step := new(apd.Decimal)
	if _, err := ctx.Quo(step, ln2, apd.New(powExpN, 0)); err != nil {
		panic(errors.Wrap(err, "pow exp table: ln2/N"))
	}

	arg := new(apd.Decimal)
	v := new(apd.Decimal)
	for j := range powExpN {
		if _, err := ctx.Mul(arg, step, apd.New(int64(j), 0)); err != nil {
			panic(errors.Wrapf(err, "pow exp table entry %d", j))
		}
		if _, err := ctx.Exp(v, arg); err != nil {
			panic(errors.Wrapf(err, "pow exp table entry %d", j))
		}
		f, err := v.Float64()
		if err != nil {
			panic(errors.Wrapf(err, "pow exp table entry %d", j))
		}
		sbits[j] = asBits(f) - uint64(j)<<(52-powExpTableBits)
	}
	return sbits
}
