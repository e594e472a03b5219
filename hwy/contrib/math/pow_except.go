package math

import (
	stdmath "math"
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

// Exceptions is a set of IEEE-754 floating-point exceptions.
type Exceptions uint8

const (
	ExceptInvalid Exceptions = 1 << iota
	ExceptDivByZero
	ExceptOverflow
	ExceptUnderflow
	ExceptInexact
)

var exceptionNames = []struct {
	e    Exceptions
	name string
}{
	{ExceptInvalid, "invalid"},
	{ExceptDivByZero, "divbyzero"},
	{ExceptOverflow, "overflow"},
	{ExceptUnderflow, "underflow"},
	{ExceptInexact, "inexact"},
}

// Sentinel errors returned by Exceptions.Err, in decreasing priority.
var (
	ErrInvalid   = errors.New("invalid operation")
	ErrDivByZero = errors.New("division by zero")
	ErrOverflow  = errors.New("overflow")
	ErrUnderflow = errors.New("underflow")
)

// Has reports whether every exception in want is in e.
func (e Exceptions) Has(want Exceptions) bool {
	return e&want == want
}

func (e Exceptions) String() string {
	if e == 0 {
		return "none"
	}
	var names []string
	for _, n := range exceptionNames {
		if e.Has(n.e) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// Err returns the sentinel error for the highest-priority exception in e,
// or nil if e holds none or only ExceptInexact.
func (e Exceptions) Err() error {
	switch {
	case e.Has(ExceptInvalid):
		return ErrInvalid
	case e.Has(ExceptDivByZero):
		return ErrDivByZero
	case e.Has(ExceptOverflow):
		return ErrOverflow
	case e.Has(ExceptUnderflow):
		return ErrUnderflow
	}
	return nil
}

// PowFlags returns Pow64Scalar(x, y) together with the exceptions a strict
// implementation would raise for it. The value is never altered.
//
//	invalid:   finite x < 0 with finite non-integer y, or a signalling NaN
//	           operand (except pow(x, ±0) and pow(1, y), which return 1)
//	divbyzero: x = ±0 with finite y < 0
//	overflow:  finite operands with an infinite result (also inexact)
//	underflow: finite operands with a zero or subnormal result that is not
//	           the exact value of x^y (also inexact)
func PowFlags(x, y float64) (float64, Exceptions) {
	r := Pow64Scalar(x, y)
	return r, powExceptions(x, y, r)
}

// PowChecked is Pow64Scalar reporting invalid, divbyzero, overflow and
// underflow as an error wrapping the matching sentinel. The returned value
// is the IEEE result either way.
func PowChecked(x, y float64) (float64, error) {
	r, e := PowFlags(x, y)
	if err := e.Err(); err != nil {
		return r, errors.Wrapf(err, "pow(%v, %v)", x, y)
	}
	return r, nil
}

func powExceptions(x, y, r float64) Exceptions {
	ix, iy := asBits(x), asBits(y)
	if 2*iy == 0 || ix == bitsOne {
		return 0
	}
	if stdmath.IsNaN(x) || stdmath.IsNaN(y) {
		if isSignaling(ix) || isSignaling(iy) {
			return ExceptInvalid
		}
		return 0
	}
	if stdmath.IsInf(x, 0) || stdmath.IsInf(y, 0) {
		return 0
	}
	if x == 0 {
		if y < 0 {
			return ExceptDivByZero
		}
		return 0
	}
	if x < 0 && checkint(iy) == notInt {
		return ExceptInvalid
	}
	switch {
	case stdmath.IsInf(r, 0):
		return ExceptOverflow | ExceptInexact
	case stdmath.Abs(r) < 0x1p-1022 && !exactPow(x, y, r):
		return ExceptUnderflow | ExceptInexact
	}
	return 0
}

// isSignaling reports whether u is a NaN with the quiet bit clear.
func isSignaling(u uint64) bool {
	return 2*u > 2*bitsInf && u&(1<<51) == 0
}

// exactPow reports whether |x|^y is exactly representable and |r| holds
// that value. With |x| = m*2^e and m odd, this needs an integer y, a
// non-negative one unless m == 1, m^y below 2^53 and e*y >= -1074.
func exactPow(x, y, r float64) bool {
	// |e| >= 1 once x != ±1, so a larger |y| puts the lowest bit below 2^-1074.
	if y != stdmath.Trunc(y) || stdmath.Abs(y) > 1074 {
		return false
	}
	frac, exp := stdmath.Frexp(stdmath.Abs(x))
	mant := uint64(frac * (1 << 53))
	tz := bits.TrailingZeros64(mant)
	m, e, n := mant>>tz, exp-53+tz, int(y)
	if m != 1 && n < 0 {
		return false
	}
	p := uint64(1)
	if m != 1 {
		for range n {
			hi, lo := bits.Mul64(p, m)
			if hi != 0 || lo >= 1<<53 {
				return false
			}
			p = lo
		}
	}
	if e*n < -1074 {
		return false
	}
	return stdmath.Abs(r) == stdmath.Ldexp(float64(p), e*n)
}
