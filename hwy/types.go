// Package hwy provides the portable vector handle and runtime dispatch
// information that the contrib packages build on.
//
// Vectors in this module are backed by slices whose length is the number
// of lanes the detected CPU would hold for the element type. Kernels that
// have no SIMD specialisation, such as the pow fallback in
// hwy/contrib/math, process those lanes one at a time.
//
// Basic usage:
//
//	import "github.com/ajroetker/hwypow/hwy"
//
//	// Load data into vectors
//	x := hwy.Load(data)
//
//	// Process with a contrib kernel
//	r := math.Pow(x, hwy.Set(0.5))
//
//	// Store results
//	hwy.Store(r, output)
package hwy

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes is a constraint for all types that can be stored in vector lanes.
type Lanes interface {
	Floats | Integers
}

// Vec is a portable vector handle.
//
// Vec instances should not be created directly; use Load, Set or Zero instead.
type Vec[T Lanes] struct {
	data []T
}

// NumLanes returns the number of lanes (elements) in this vector.
func (v Vec[T]) NumLanes() int {
	return len(v.data)
}

// Data returns the underlying slice representation of the vector.
// This is primarily for testing and should not be used in performance-critical code.
func (v Vec[T]) Data() []T {
	return v.data
}

// Store writes the vector's data to a slice.
// This is the method form of the hwy.Store function.
func (v Vec[T]) Store(dst []T) {
	Store(v, dst)
}
