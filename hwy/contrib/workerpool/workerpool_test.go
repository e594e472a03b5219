// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

// coverage records how many times each index was visited.
type coverage struct {
	mu   sync.Mutex
	hits []int
}

func (c *coverage) visit(start, end int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := start; i < end; i++ {
		c.hits[i]++
	}
}

func (c *coverage) check(t *testing.T) {
	t.Helper()
	for i, h := range c.hits {
		if h != 1 {
			t.Errorf("index %d visited %d times, want 1", i, h)
		}
	}
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	for _, n := range []int{1, 3, 4, 5, 100, 1001} {
		c := &coverage{hits: make([]int, n)}
		pool.ParallelFor(n, c.visit)
		c.check(t)
	}
}

func TestParallelForContiguousRanges(t *testing.T) {
	pool := New(3)
	defer pool.Close()

	var mu sync.Mutex
	var ranges [][2]int
	pool.ParallelFor(10, func(start, end int) {
		mu.Lock()
		ranges = append(ranges, [2]int{start, end})
		mu.Unlock()
	})

	if len(ranges) != 3 {
		t.Fatalf("got %d ranges, want 3: %v", len(ranges), ranges)
	}
	for _, r := range ranges {
		if r[0]%4 != 0 || r[1]-r[0] > 4 {
			t.Errorf("range %v does not start on a chunk of 4", r)
		}
	}
}

func TestParallelForAtomicBatched(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	for _, tc := range []struct{ n, batch int }{
		{100, 10}, {101, 10}, {7, 0}, {5, 100}, {1000, 1},
	} {
		c := &coverage{hits: make([]int, tc.n)}
		pool.ParallelForAtomicBatched(tc.n, tc.batch, c.visit)
		c.check(t)
	}
}

func TestParallelForAtomicBatchedSizes(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var bad atomic.Int32
	pool.ParallelForAtomicBatched(95, 10, func(start, end int) {
		if start%10 != 0 || end-start > 10 {
			bad.Add(1)
		}
	})
	if bad.Load() != 0 {
		t.Errorf("%d batches were misaligned", bad.Load())
	}
}

func TestParallelForSmallN(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	n := 3
	var count atomic.Int32
	pool.ParallelFor(n, func(start, end int) {
		count.Add(int32(end - start))
	})

	if count.Load() != int32(n) {
		t.Errorf("count = %d, want %d", count.Load(), n)
	}
}

func TestParallelForZeroN(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var called bool
	pool.ParallelFor(0, func(start, end int) {
		called = true
	})
	pool.ParallelForAtomicBatched(-1, 4, func(start, end int) {
		called = true
	})

	if called {
		t.Error("fn should not be called for n <= 0")
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close() // Should not panic
}

func TestClosedPoolFallback(t *testing.T) {
	pool := New(4)
	pool.Close()

	c := &coverage{hits: make([]int, 100)}
	pool.ParallelFor(100, c.visit)
	c.check(t)

	c = &coverage{hits: make([]int, 100)}
	pool.ParallelForAtomicBatched(100, 7, c.visit)
	c.check(t)
}

func TestCloseDuringParallelFor(t *testing.T) {
	for range 50 {
		pool := New(4)
		var wg sync.WaitGroup
		for g := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 20 {
					c := &coverage{hits: make([]int, 64)}
					if g%2 == 0 {
						pool.ParallelFor(64, c.visit)
					} else {
						pool.ParallelForAtomicBatched(64, 5, c.visit)
					}
					c.check(t)
				}
			}()
		}
		runtime.Gosched()
		pool.Close() // Must not panic with sends in flight.
		wg.Wait()
	}
}

func BenchmarkParallelFor(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	data := make([]float64, 1<<14)
	for b.Loop() {
		pool.ParallelFor(len(data), func(start, end int) {
			for j := start; j < end; j++ {
				data[j] = float64(j) * 0.5
			}
		})
	}
}

func BenchmarkParallelForAtomicBatched(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	data := make([]float64, 1<<14)
	for b.Loop() {
		pool.ParallelForAtomicBatched(len(data), 256, func(start, end int) {
			for j := start; j < end; j++ {
				data[j] = float64(j) * 0.5
			}
		})
	}
}

// BenchmarkPoolOverhead measures the cost of a near-empty parallel call.
func BenchmarkPoolOverhead(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	for b.Loop() {
		pool.ParallelFor(10, func(start, end int) {})
	}
}
