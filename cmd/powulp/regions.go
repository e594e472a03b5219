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
	"math"
	"math/rand/v2"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"sigs.k8s.io/yaml"
)

// Region is a rectangle of pow inputs: x in [X[0], X[1]], y in [Y[0], Y[1]].
// The bounds are keyed base and exponent in a region file; YAML 1.1 reads a
// bare y key as a boolean.
type Region struct {
	Name string     `json:"name"`
	X    [2]float64 `json:"base"`
	Y    [2]float64 `json:"exponent"`
}

// defaultRegions are measured when no --config is given.
var defaultRegions = []Region{
	{Name: "near-one", X: [2]float64{0.9, 1.1}, Y: [2]float64{-1000, 1000}},
	{Name: "moderate", X: [2]float64{0x1p-20, 0x1p20}, Y: [2]float64{-30, 30}},
	{Name: "wide-base", X: [2]float64{0x1p-1000, 0x1p1000}, Y: [2]float64{-1, 1}},
	{Name: "large-exponent", X: [2]float64{0.5, 2}, Y: [2]float64{-1e4, 1e4}},
	{Name: "near-overflow", X: [2]float64{2, 3}, Y: [2]float64{600, 640}},
	{Name: "near-underflow", X: [2]float64{0.5, 0.6}, Y: [2]float64{1000, 1500}},
	{Name: "subnormal-base", X: [2]float64{0x1p-1074, 0x1p-1022}, Y: [2]float64{0.1, 0.9}},
	{Name: "negative-base", X: [2]float64{-4, -0.25}, Y: [2]float64{-60, 60}},
}

// loadRegions reads a YAML list of regions from path.
func loadRegions(path string) ([]Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read region config")
	}
	return parseRegions(data)
}

func parseRegions(data []byte) ([]Region, error) {
	var regions []Region
	if err := yaml.UnmarshalStrict(data, &regions); err != nil {
		return nil, errors.Wrap(err, "parse region config")
	}
	if len(regions) == 0 {
		return nil, errors.New("region config lists no regions")
	}
	for _, r := range regions {
		if err := r.validate(); err != nil {
			return nil, err
		}
	}
	if dups := lo.FindDuplicatesBy(regions, func(r Region) string { return r.Name }); len(dups) > 0 {
		return nil, errors.Errorf("duplicate region name %q", dups[0].Name)
	}
	return regions, nil
}

func (r Region) validate() error {
	if r.Name == "" {
		return errors.New("region without a name")
	}
	for _, b := range [][2]float64{r.X, r.Y} {
		if lo.SomeBy(b[:], func(f float64) bool { return math.IsNaN(f) || math.IsInf(f, 0) }) {
			return errors.Errorf("region %q: bounds must be finite", r.Name)
		}
		if b[0] > b[1] {
			return errors.Errorf("region %q: lower bound %v above upper bound %v", r.Name, b[0], b[1])
		}
	}
	if r.X[0] == 0 && r.X[1] == 0 {
		return errors.Errorf("region %q: x range holds only zero", r.Name)
	}
	return nil
}

// orderedKey maps a float64 to a uint64 with the same ordering, so that
// drawing keys uniformly between two bounds samples every binade between
// them equally often.
func orderedKey(f float64) uint64 {
	b := math.Float64bits(f)
	if b>>63 != 0 {
		return ^b
	}
	return b | 1<<63
}

func fromOrderedKey(k uint64) float64 {
	if k>>63 != 0 {
		return math.Float64frombits(k &^ (1 << 63))
	}
	return math.Float64frombits(^k)
}

// between draws a float64 in [lo, hi], uniform in ordered bit pattern.
func between(rng *rand.Rand, bounds [2]float64) float64 {
	klo, khi := orderedKey(bounds[0]), orderedKey(bounds[1])
	span := khi - klo
	if span == math.MaxUint64 {
		return fromOrderedKey(rng.Uint64())
	}
	return fromOrderedKey(klo + rng.Uint64N(span+1))
}

// sample draws one input pair of r that has a real, non-trivial reference
// value: x is non-zero, and y is rounded to an integer when x is negative.
func (r Region) sample(rng *rand.Rand) (x, y float64) {
	for {
		x = between(rng, r.X)
		if x != 0 {
			break
		}
	}
	y = between(rng, r.Y)
	if x < 0 {
		y = math.Round(y)
	}
	return x, y
}
