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

package main

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"

	hmath "github.com/ajroetker/hwypow/hwy/contrib/math"
	"github.com/ajroetker/hwypow/hwy/contrib/workerpool"
	"github.com/ajroetker/hwypow/internal/mpref"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// dumpULP is the error above which a sample is written to --dump.
const dumpULP = 0.5

// referenceBatch is how many samples a worker takes at a time.
const referenceBatch = 16

// Sample is one measured input.
type Sample struct {
	X, Y      float64
	Got       float64
	ULP       float64 // signed error of Got in ULPs
	StdULP    float64 // signed error of math.Pow; 0 unless compared
	Reference string  // decimal reference value
}

// Summary is the outcome of measuring one region.
type Summary struct {
	Region   string
	Samples  int
	MaxULP   float64
	MeanULP  float64
	Worst    Sample
	StdMax   float64
	StdMean  float64
	Outliers []Sample // samples above dumpULP
}

type measurer struct {
	ref        *mpref.Context
	pool       *workerpool.Pool
	samples    int
	seed       uint64
	compareStd bool
}

// measure evaluates m.samples inputs of region number idx. The inputs
// depend only on the seed and idx, not on scheduling.
func (m *measurer) measure(ctx context.Context, idx int, r Region) (Summary, error) {
	rng := rand.New(rand.NewPCG(m.seed, uint64(idx)))
	samples := make([]Sample, m.samples)
	for i := range samples {
		samples[i].X, samples[i].Y = r.sample(rng)
	}
	x := lo.Map(samples, func(s Sample, _ int) float64 { return s.X })
	y := lo.Map(samples, func(s Sample, _ int) float64 { return s.Y })
	got := make([]float64, len(samples))
	hmath.ParallelPow(m.pool, x, y, got)

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}
	m.pool.ParallelForAtomicBatched(len(samples), referenceBatch, func(start, end int) {
		if ctx.Err() != nil {
			return
		}
		for i := start; i < end; i++ {
			s := &samples[i]
			s.Got = got[i]
			if err := m.evaluate(s); err != nil {
				fail(errors.Wrapf(err, "region %s", r.Name))
				return
			}
		}
	})
	if firstErr != nil {
		return Summary{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	return summarize(r.Name, samples), nil
}

// evaluate fills in the reference value and errors of s.
func (m *measurer) evaluate(s *Sample) error {
	want, err := m.ref.Pow(s.X, s.Y)
	if err != nil {
		return err
	}
	s.Reference = want.String()
	if s.ULP, err = m.ref.ULPError(s.Got, want); err != nil {
		return err
	}
	if m.compareStd {
		if s.StdULP, err = m.ref.ULPError(math.Pow(s.X, s.Y), want); err != nil {
			return err
		}
	}
	return nil
}

func summarize(name string, samples []Sample) Summary {
	s := Summary{Region: name, Samples: len(samples)}
	if len(samples) == 0 {
		return s
	}
	abs := func(f float64) float64 {
		if math.IsNaN(f) {
			return math.Inf(1)
		}
		return math.Abs(f)
	}
	s.Worst = lo.MaxBy(samples, func(a, b Sample) bool { return abs(a.ULP) > abs(b.ULP) })
	s.MaxULP = abs(s.Worst.ULP)
	s.MeanULP = lo.SumBy(samples, func(e Sample) float64 { return abs(e.ULP) }) / float64(len(samples))
	s.StdMax = lo.Max(lo.Map(samples, func(e Sample, _ int) float64 { return abs(e.StdULP) }))
	s.StdMean = lo.SumBy(samples, func(e Sample) float64 { return abs(e.StdULP) }) / float64(len(samples))
	s.Outliers = lo.Filter(samples, func(e Sample, _ int) bool { return abs(e.ULP) > dumpULP })
	return s
}
