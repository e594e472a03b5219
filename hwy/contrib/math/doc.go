// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package math provides the double-precision power function used as the
// scalar fallback of the vectorised math routines.
// This package corresponds to part of Google Highway's hwy/contrib/math directory.
//
// # Scalar Functions
//
//   - Pow64Scalar(x, y float64) float64 - x^y, ~1 ULP, IEEE special values
//   - Pow32Scalar(x, y float32) float32 - x^y through Pow64Scalar
//
// # Vector and Bulk Functions
//
//   - Pow[T](x, y hwy.Vec[T]) hwy.Vec[T] - per-lane Pow64Scalar
//   - BasePow[T](x, y, result []T) - slices, one vector at a time
//   - ParallelPow(pool, x, y, result []float64) - slices across a worker pool
//
// # Exception Reporting
//
// The functions above never touch floating-point exception state. PowFlags
// returns the IEEE-754 exceptions (invalid, divbyzero, overflow, underflow)
// a strict implementation would raise, and PowChecked turns them into
// errors, both without changing the returned value.
//
// # Algorithm
//
// x^y = exp(y * log(x)). log(x) is computed as a double-double from a
// 128-entry table of 1/c and log(c) plus a degree-7 polynomial in
// r = z/c - 1, where r is exact thanks to a fused multiply-add. The product
// y*log(x) is formed with one compensated FMA and passed with its tail to
// an exp kernel using a 256-entry table of 2^(j/256) and a degree-4
// polynomial. The sign of negative bases raised to odd integers is injected
// through the exponent arithmetic of the scale, and results near overflow
// or in the subnormal range are rebuilt from a rescaled exponent.
//
// # Accuracy
//
// The worst-case error over the finite domain is about 1 ULP
// (round-to-nearest only). The tables are built at package initialisation
// from their defining formulas using 50-digit decimal arithmetic.
package math
