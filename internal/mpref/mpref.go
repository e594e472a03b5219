// Package mpref evaluates reference values for the binary64 math kernels in
// arbitrary-precision decimal arithmetic and measures kernel errors in ULPs
// against them.
package mpref

import (
	stdmath "math"
	"strconv"

	"github.com/cockroachdb/apd"
	"github.com/pkg/errors"
)

// DefaultDigits is the working precision used when none is configured.
// 40 digits is about 133 bits, far beyond the 53 being measured.
const DefaultDigits = 40

// Beyond these magnitudes of y*log|x| the binary64 result is certainly
// ±Inf or ±0, and exp would only spend time building huge exponents.
const (
	overflowArg = 800
)

var (
	// Huge stands for any value above the binary64 range.
	Huge = apd.New(1, 400)
	// Tiny stands for any non-zero value below half the smallest subnormal.
	Tiny = apd.New(1, -400)
)

// Context evaluates reference values at a fixed number of significant
// digits. It is safe for concurrent use.
type Context struct {
	digits uint32
	ctx    *apd.Context
	out    *apd.Context
}

// New returns a Context working with the given number of significant
// decimal digits; digits == 0 selects DefaultDigits.
func New(digits uint32) *Context {
	if digits == 0 {
		digits = DefaultDigits
	}
	// Guard digits absorb the error of the log-multiply-exp chain.
	ctx := apd.BaseContext.WithPrecision(digits + 10)
	ctx.Rounding = apd.RoundHalfEven
	out := apd.BaseContext.WithPrecision(digits)
	out.Rounding = apd.RoundHalfEven
	return &Context{digits: digits, ctx: ctx, out: out}
}

// Digits returns the configured precision.
func (c *Context) Digits() uint32 {
	return c.digits
}

// Decimal converts a finite f to a decimal carrying more significant digits
// than the context, so the conversion error is below anything measured.
func (c *Context) Decimal(f float64) (*apd.Decimal, error) {
	if stdmath.IsNaN(f) || stdmath.IsInf(f, 0) {
		return nil, errors.Errorf("mpref: %v has no decimal value", f)
	}
	d, _, err := apd.NewFromString(strconv.FormatFloat(f, 'e', int(c.ctx.Precision)+10, 64))
	if err != nil {
		return nil, errors.Wrapf(err, "mpref: convert %v", f)
	}
	return d, nil
}

// Pow returns x^y for finite x and y with x != 0, rounded to Digits
// significant digits. A negative x requires an integer y. Results beyond the binary64 range are returned as Huge or
// Tiny with the correct sign.
func (c *Context) Pow(x, y float64) (*apd.Decimal, error) {
	if x == 0 {
		return nil, errors.New("mpref: pow of zero")
	}
	neg := false
	if x < 0 {
		if stdmath.Trunc(y) != y {
			return nil, errors.Errorf("mpref: pow(%v, %v) is not real", x, y)
		}
		neg = stdmath.Abs(y) < 1<<53 && int64(y)&1 == 1
		x = -x
	}

	dx, err := c.Decimal(x)
	if err != nil {
		return nil, err
	}
	dy, err := c.Decimal(y)
	if err != nil {
		return nil, err
	}

	t := new(apd.Decimal)
	if _, err := c.ctx.Ln(t, dx); err != nil {
		return nil, errors.Wrapf(err, "mpref: log(%v)", x)
	}
	if _, err := c.ctx.Mul(t, t, dy); err != nil {
		return nil, errors.Wrapf(err, "mpref: %v*log(%v)", y, x)
	}

	res := new(apd.Decimal)
	switch {
	case t.Cmp(apd.New(overflowArg, 0)) > 0:
		res.Set(Huge)
	case t.Cmp(apd.New(-overflowArg, 0)) < 0:
		res.Set(Tiny)
	default:
		if _, err := c.ctx.Exp(res, t); err != nil {
			return nil, errors.Wrapf(err, "mpref: exp(%v*log(%v))", y, x)
		}
		// Dropping the guard digits turns exact powers back into exact
		// decimals.
		if _, err := c.out.Round(res, res); err != nil {
			return nil, errors.Wrapf(err, "mpref: round pow(%v, %v)", x, y)
		}
	}
	if neg {
		res.Negative = true
	}
	return res, nil
}

// ULPError returns (got - want) in units in the last place of the binary64
// binade containing want. An infinite got matching an above-range want of
// the same sign, or a zero got for Tiny, has zero error; any other
// infinite got has infinite error.
func (c *Context) ULPError(got float64, want *apd.Decimal) (float64, error) {
	if stdmath.IsNaN(got) {
		return stdmath.NaN(), nil
	}

	wf, err := want.Float64()
	if err != nil && !stdmath.IsInf(wf, 0) {
		return 0, errors.Wrapf(err, "mpref: %v to float64", want)
	}
	if stdmath.IsInf(got, 0) {
		if got == wf {
			return 0, nil
		}
		return got, nil
	}

	ulp := binadeULP(wf)
	if stdmath.IsInf(wf, 0) {
		// Above range: measure in the ULP of the top binade.
		ulp = 0x1p971
	} else if frac, _ := stdmath.Frexp(wf); stdmath.Abs(frac) == 0.5 && ulp > 0x1p-1074 {
		// want rounded up to a power of two: if it lies below, it belongs
		// to the binade underneath whose ULP is half as large.
		dw, err := c.Decimal(wf)
		if err != nil {
			return 0, err
		}
		aw, ad := new(apd.Decimal), new(apd.Decimal)
		if _, err := c.ctx.Abs(aw, want); err != nil {
			return 0, errors.Wrap(err, "mpref: |want|")
		}
		if _, err := c.ctx.Abs(ad, dw); err != nil {
			return 0, errors.Wrap(err, "mpref: |round(want)|")
		}
		if aw.Cmp(ad) < 0 {
			ulp /= 2
		}
	}

	dg, err := c.Decimal(got)
	if err != nil {
		return 0, err
	}
	du, err := c.Decimal(ulp)
	if err != nil {
		return 0, err
	}
	diff := new(apd.Decimal)
	if _, err := c.ctx.Sub(diff, dg, want); err != nil {
		return 0, errors.Wrap(err, "mpref: ulp difference")
	}
	if _, err := c.ctx.Quo(diff, diff, du); err != nil {
		return 0, errors.Wrap(err, "mpref: ulp quotient")
	}
	e, err := diff.Float64()
	if err != nil {
		return 0, errors.Wrapf(err, "mpref: %v to float64", diff)
	}
	return e, nil
}

// binadeULP returns the spacing of binary64 values at |f|.
func binadeULP(f float64) float64 {
	f = stdmath.Abs(f)
	if f < 0x1p-1022 {
		return 0x1p-1074
	}
	_, exp := stdmath.Frexp(f)
	return stdmath.Ldexp(1, exp-53)
}
