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

// Command powulp measures the error of the scalar pow kernel in ULPs
// against an arbitrary-precision reference.
//
// Usage:
//
//	powulp                                   # built-in regions
//	powulp --config regions.yaml --samples 5000 --workers 16
//	powulp --dump outliers.csv.zst --compare-std
//
// A region file is a YAML list keyed by base (x) and exponent (y) bounds:
//
//	# regions.yaml
//	- name: near-one
//	  base: [0.9, 1.1]
//	  exponent: [-1000, 1000]
//
// Inputs are drawn uniformly in bit pattern between the bounds, so every
// binade in range is sampled. The command exits non-zero when the largest
// error of any region exceeds --threshold.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/ajroetker/hwypow/hwy"
	"github.com/ajroetker/hwypow/hwy/contrib/workerpool"
	"github.com/ajroetker/hwypow/internal/mpref"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

var errThresholdExceeded = errors.New("error threshold exceeded")

type options struct {
	config     string
	samples    int
	seed       uint64
	workers    int
	precision  uint32
	threshold  float64
	dump       string
	compareStd bool
}

func (o *options) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.config, "config", "", "YAML file listing regions (default: built-in regions)")
	fs.IntVar(&o.samples, "samples", 1000, "Samples per region")
	fs.Uint64Var(&o.seed, "seed", 1, "Random seed")
	fs.IntVar(&o.workers, "workers", 0, "Worker goroutines (default: GOMAXPROCS)")
	fs.Uint32Var(&o.precision, "precision", mpref.DefaultDigits, "Reference precision in decimal digits")
	fs.Float64Var(&o.threshold, "threshold", 1.5, "Maximum acceptable error in ULPs")
	fs.StringVar(&o.dump, "dump", "", "Write samples above 0.5 ULP as CSV to this file (.zst to compress)")
	fs.BoolVar(&o.compareStd, "compare-std", false, "Also measure the standard library math.Pow")
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "powulp",
		Short:         "Measure pow accuracy in ULPs against an arbitrary-precision reference",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
	opts.register(cmd.Flags())
	return cmd
}

func run(ctx context.Context, opts *options, out io.Writer) error {
	if opts.samples <= 0 {
		return errors.Errorf("--samples must be positive, got %d", opts.samples)
	}
	regions := defaultRegions
	if opts.config != "" {
		var err error
		if regions, err = loadRegions(opts.config); err != nil {
			return err
		}
	}

	pool := workerpool.New(opts.workers)
	defer pool.Close()
	m := &measurer{
		ref:        mpref.New(opts.precision),
		pool:       pool,
		samples:    opts.samples,
		seed:       opts.seed,
		compareStd: opts.compareStd,
	}
	log.Printf("%d regions x %d samples, %d digits, %d workers, dispatch %s (fma=%v)",
		len(regions), opts.samples, m.ref.Digits(), pool.NumWorkers(), hwy.CurrentName(), hwy.HasFMA())

	summaries := make([]Summary, len(regions))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range regions {
		g.Go(func() error {
			s, err := m.measure(gctx, i, r)
			if err != nil {
				return err
			}
			summaries[i] = s
			log.Printf("%s: max %.3f ULP", r.Name, s.MaxULP)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := report(out, summaries, opts.compareStd); err != nil {
		return err
	}
	if opts.dump != "" {
		if err := writeDump(opts.dump, summaries); err != nil {
			return err
		}
		log.Printf("wrote outliers to %s", opts.dump)
	}

	for _, s := range summaries {
		if s.MaxULP > opts.threshold {
			return errors.Wrapf(errThresholdExceeded, "region %s: %.3f ULP > %.3f",
				s.Region, s.MaxULP, opts.threshold)
		}
	}
	return nil
}

func report(out io.Writer, summaries []Summary, compareStd bool) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := "REGION\tSAMPLES\tMAX ULP\tMEAN ULP\tWORST X\tWORST Y"
	if compareStd {
		header += "\tSTD MAX\tSTD MEAN"
	}
	fmt.Fprintln(tw, header)
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.4f\t%v\t%v", s.Region, s.Samples, s.MaxULP, s.MeanULP, s.Worst.X, s.Worst.Y)
		if compareStd {
			fmt.Fprintf(tw, "\t%.3f\t%.4f", s.StdMax, s.StdMean)
		}
		fmt.Fprintln(tw)
	}
	return errors.Wrap(tw.Flush(), "write report")
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("[powulp] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Print(err)
		stop()
		os.Exit(1)
	}
}
