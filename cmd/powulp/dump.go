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
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

var dumpHeader = []string{"region", "x", "y", "got", "reference", "ulp", "std_ulp"}

// writeDump writes the outliers of every summary as CSV to path,
// zstd-compressed when path ends in ".zst". Floats are written as hex
// literals so they read back exactly.
func writeDump(path string, summaries []Summary) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create dump")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close dump")
		}
	}()

	return encodeDump(f, strings.HasSuffix(path, ".zst"), summaries)
}

// encodeDump writes the CSV dump to dst, through a zstd encoder when
// compress is set. The compressed stream is only complete once the encoder
// is closed, so its Close error is returned too.
func encodeDump(dst io.Writer, compress bool, summaries []Summary) (err error) {
	if !compress {
		return writeCSV(dst, summaries)
	}
	var enc *zstd.Encoder
	enc, err = zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return errors.Wrap(err, "zstd writer")
	}
	defer func() {
		if cerr := enc.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "flush zstd")
		}
	}()
	return writeCSV(enc, summaries)
}

func writeCSV(w io.Writer, summaries []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dumpHeader); err != nil {
		return errors.Wrap(err, "write dump header")
	}
	hex := func(f float64) string { return strconv.FormatFloat(f, 'x', -1, 64) }
	ulp := func(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }
	for _, s := range summaries {
		for _, o := range s.Outliers {
			rec := []string{s.Region, hex(o.X), hex(o.Y), hex(o.Got), o.Reference, ulp(o.ULP), ulp(o.StdULP)}
			if err := cw.Write(rec); err != nil {
				return errors.Wrap(err, "write dump record")
			}
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush dump")
}
