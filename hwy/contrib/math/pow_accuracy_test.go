package math

import (
	stdmath "math"
	"math/rand/v2"
	"testing"

	"github.com/ajroetker/hwypow/internal/mpref"
)

// maxPowULP bounds |Pow64Scalar - pow| in ULPs. The exp table scales are
// rounded to nearest without a tail, so errors just above 1 ULP occur.
const maxPowULP = 1.25

func checkPowAccuracy(t *testing.T, ref *mpref.Context, x, y float64) float64 {
	t.Helper()
	want, err := ref.Pow(x, y)
	if err != nil {
		t.Fatalf("reference pow(%v, %v): %v", x, y, err)
	}
	got := Pow64Scalar(x, y)
	e, err := ref.ULPError(got, want)
	if err != nil {
		t.Fatalf("ULP error of pow(%v, %v): %v", x, y, err)
	}
	if stdmath.IsNaN(e) || stdmath.Abs(e) > maxPowULP {
		t.Errorf("Pow64Scalar(%v, %v) = %v, want %s (%.3f ULP)", x, y, got, want, e)
	}
	return stdmath.Abs(e)
}

func TestPow64Scalar_Accuracy(t *testing.T) {
	if testing.Short() {
		t.Skip("multiprecision reference is slow")
	}
	ref := mpref.New(0)
	rng := rand.New(rand.NewPCG(0x5eed, 0x9e3779b9))

	regions := []struct {
		name string
		x    func() float64
		y    func(x float64) float64
	}{
		{
			"near one",
			func() float64 { return 0.9 + 0.2*rng.Float64() },
			func(float64) float64 { return 2000 * (rng.Float64() - 0.5) },
		},
		{
			"moderate",
			func() float64 { return stdmath.Ldexp(0.5+rng.Float64(), rng.IntN(40)-20) },
			func(float64) float64 { return 60 * (rng.Float64() - 0.5) },
		},
		{
			"wide base",
			func() float64 { return asFloat(asBits(0x1p-1000) + rng.Uint64N(asBits(0x1p1000)-asBits(0x1p-1000))) },
			func(float64) float64 { return 2*rng.Float64() - 1 },
		},
		{
			"near overflow",
			func() float64 { return 2 + rng.Float64() },
			func(float64) float64 { return 600 + 40*rng.Float64() },
		},
		{
			"subnormal results",
			func() float64 { return 0.5 + 0.4*rng.Float64() },
			// y*log2(x) in [-1070, -1023].
			func(x float64) float64 { return (1023 + 47*rng.Float64()) / -stdmath.Log2(x) },
		},
		{
			"subnormal base",
			func() float64 { return asFloat(1 + rng.Uint64N(1<<52-1)) },
			func(float64) float64 { return 0.1 + 0.8*rng.Float64() },
		},
	}

	for _, r := range regions {
		t.Run(r.name, func(t *testing.T) {
			var worst float64
			for range 200 {
				x := r.x()
				worst = max(worst, checkPowAccuracy(t, ref, x, r.y(x)))
			}
			t.Logf("max error %.3f ULP", worst)
		})
	}
}

func TestPow64Scalar_AccuracyIntegerExponents(t *testing.T) {
	if testing.Short() {
		t.Skip("multiprecision reference is slow")
	}
	ref := mpref.New(0)
	rng := rand.New(rand.NewPCG(11, 12))
	for range 300 {
		x := -stdmath.Ldexp(0.5+rng.Float64(), rng.IntN(10)-5)
		y := float64(rng.IntN(101) - 50)
		checkPowAccuracy(t, ref, x, y)
	}
}
