package math

import (
	"github.com/ajroetker/hwypow/hwy"
	"github.com/ajroetker/hwypow/hwy/contrib/workerpool"
)

// Pow computes x^y for each corresponding pair of elements in the vectors.
//
// This is the portable fallback implementation: every lane is evaluated
// with Pow64Scalar (float32 lanes are widened to float64 and the result
// rounded back), so the special cases and the ~1 ULP accuracy of
// Pow64Scalar carry over lane for lane. The result has
// min(x.NumLanes(), y.NumLanes()) lanes.
//
// Special cases:
//
//	Pow(x, ±0) = 1 for any x
//	Pow(1, y) = 1 for any y
//	Pow(NaN, y) = NaN and Pow(x, NaN) = NaN otherwise
//	Pow(±0, y) = ±Inf for y an odd integer < 0
//	Pow(±0, y) = +Inf for finite y < 0 and not an odd integer
//	Pow(-1, ±Inf) = 1
//	Pow(x, y) = NaN for finite x < 0 and finite non-integer y
func Pow[T hwy.Floats](x, y hwy.Vec[T]) hwy.Vec[T] {
	xData := x.Data()
	yData := y.Data()
	n := min(len(xData), len(yData))
	return hwy.FromLanes(n, func(i int) T {
		return T(Pow64Scalar(float64(xData[i]), float64(yData[i])))
	})
}

// Pow32Scalar computes x^y for a single float32.
//
// The float64 result is within about 1 ULP of float64, far inside half an
// ULP of float32, so the final conversion almost always rounds correctly.
func Pow32Scalar(x, y float32) float32 {
	return float32(Pow64Scalar(float64(x), float64(y)))
}

// BasePow computes result[i] = x[i]^y[i] for
// i < min(len(x), len(y), len(result)), one vector at a time.
func BasePow[T hwy.Floats](x, y, result []T) {
	size := min(len(x), len(y), len(result))
	hwy.ProcessWithTail[T](size,
		func(offset int) {
			vx := hwy.Load(x[offset:])
			vy := hwy.Load(y[offset:])
			hwy.Store(Pow(vx, vy), result[offset:])
		},
		func(offset, count int) {
			vx := hwy.LoadN(x[offset:], count)
			vy := hwy.LoadN(y[offset:], count)
			hwy.Store(Pow(vx, vy), result[offset:])
		},
	)
}

// ParallelPow is BasePow split across the workers of pool. Each worker
// handles a contiguous range, so the output is identical to BasePow.
// A nil pool runs on the calling goroutine.
func ParallelPow(pool *workerpool.Pool, x, y, result []float64) {
	size := min(len(x), len(y), len(result))
	if pool == nil {
		BasePow(x[:size], y[:size], result[:size])
		return
	}
	pool.ParallelFor(size, func(start, end int) {
		BasePow(x[start:end], y[start:end], result[start:end])
	})
}
