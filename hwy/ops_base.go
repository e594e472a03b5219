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

package hwy

// Load creates a vector by loading data from a slice.
// At most MaxLanes[T]() elements are read; a shorter src yields a
// vector with fewer lanes.
func Load[T Lanes](src []T) Vec[T] {
	n := min(len(src), MaxLanes[T]())
	data := make([]T, n)
	copy(data, src[:n])
	return Vec[T]{data: data}
}

// LoadN loads exactly count lanes from src, which is how tails narrower
// than a full vector are read.
func LoadN[T Lanes](src []T, count int) Vec[T] {
	n := min(len(src), count, MaxLanes[T]())
	if n < 0 {
		n = 0
	}
	data := make([]T, n)
	copy(data, src[:n])
	return Vec[T]{data: data}
}

// Store writes a vector's data to a slice.
func Store[T Lanes](v Vec[T], dst []T) {
	n := min(len(dst), len(v.data))
	copy(dst[:n], v.data[:n])
}

// Set creates a vector with all lanes set to the same value.
func Set[T Lanes](value T) Vec[T] {
	n := MaxLanes[T]()
	data := make([]T, n)
	for i := range data {
		data[i] = value
	}
	return Vec[T]{data: data}
}

// Zero creates a vector with all lanes set to zero.
func Zero[T Lanes]() Vec[T] {
	return Vec[T]{data: make([]T, MaxLanes[T]())}
}

// FromLanes builds a vector whose lanes are the result of fn applied to
// each lane index in [0, n). It is the per-lane constructor used by
// kernels that evaluate a scalar routine on every lane.
func FromLanes[T Lanes](n int, fn func(i int) T) Vec[T] {
	data := make([]T, n)
	for i := range data {
		data[i] = fn(i)
	}
	return Vec[T]{data: data}
}
