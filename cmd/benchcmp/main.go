// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchcmp compares two benchmark result files.
//
// Usage:
//
//	benchcmp [flags] old.txt new.txt
//
// Each input file holds sample records as produced by a benchrun
// binary. Benchcmp groups the samples by benchmark name and axis
// value, trims outliers, and reports the per-group change with its
// statistical significance:
//
//	name    old time/op  new time/op  delta
//	Sort-1  38.1µs ± 0%  25.6µs ± 0%  -32.79% (p=0.000 n=10 r=0+0)
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/benchkit/benchcmp"
	"golang.org/x/benchkit/benchfmt"
	"golang.org/x/benchkit/benchmath"
)

var (
	flagDeltaTest = flag.String("delta-test", "utest", "significance `test` to apply: utest, ttest, or none")
	flagAlpha     = flag.Float64("alpha", 0.05, "consider a change significant if p < `α`")
	flagTrim      = flag.String("trim", "mad", "outlier `trimmer` to apply: mad, iqr, or none")
)

var deltaTests = map[string]benchmath.DeltaTest{
	"utest": benchmath.UTest,
	"ttest": benchmath.TTest,
	"none":  benchmath.NoTest,
}

var trimmers = map[string]benchmath.Trimmer{
	"mad":  benchmath.TrimMAD(3),
	"iqr":  benchmath.TrimIQR(),
	"none": benchmath.TrimNone(),
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: benchcmp [flags] old.txt new.txt\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("benchcmp: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 2 {
		usage()
	}

	deltaTest, ok := deltaTests[*flagDeltaTest]
	if !ok {
		log.Fatalf("unknown delta test %q", *flagDeltaTest)
	}
	trimmer, ok := trimmers[*flagTrim]
	if !ok {
		log.Fatalf("unknown trimmer %q", *flagTrim)
	}
	thresholds := benchmath.DefaultThresholds
	thresholds.CompareAlpha = *flagAlpha

	old := readFile(flag.Arg(0))
	new := readFile(flag.Arg(1))

	rep := benchcmp.Compare(old, new, &benchcmp.Options{
		DeltaTest:  deltaTest,
		Trimmer:    trimmer,
		Thresholds: &thresholds,
	})
	benchcmp.FormatText(os.Stdout, rep)

	for _, res := range rep.Results {
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "benchcmp: warning: %v\n", w)
		}
	}
	for _, key := range rep.OldOnly {
		fmt.Fprintf(os.Stderr, "benchcmp: %s: only in %s\n", key, flag.Arg(0))
	}
	for _, key := range rep.NewOnly {
		fmt.Fprintf(os.Stderr, "benchcmp: %s: only in %s\n", key, flag.Arg(1))
	}
}

// readFile reads the samples in path into a collection. Lines that
// fail to parse are skipped with a warning; a file that cannot be
// opened or that yields no valid samples at all is fatal.
func readFile(path string) *benchcmp.Collection {
	f, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	c := &benchcmp.Collection{}
	warnings, err := c.AddReader(benchfmt.NewReader(f, path))
	if err != nil {
		log.Fatal(err)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "benchcmp: warning: skipping line: %v\n", w)
	}
	if len(c.Keys) == 0 {
		log.Fatalf("%s: no valid samples", path)
	}
	return c
}
