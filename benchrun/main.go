// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/benchkit/benchfmt"
)

// A benchTime is the value of the -benchtime flag: either a target
// duration such as 2s, or a fixed iteration count such as 20x.
type benchTime struct {
	d time.Duration
	n int
}

func (f *benchTime) String() string {
	if f.n > 0 {
		return fmt.Sprintf("%dx", f.n)
	}
	return f.d.String()
}

func (f *benchTime) Set(s string) error {
	if strings.HasSuffix(s, "x") {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid iteration count %q", s)
		}
		f.n, f.d = n, 0
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fmt.Errorf("invalid duration %q", s)
	}
	f.d, f.n = d, 0
	return nil
}

// parseCPUList parses the comma-separated value of the -cpu flag.
func parseCPUList(s string) ([]int, error) {
	var axes []int
	for _, v := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid -cpu value %q", v)
		}
		axes = append(axes, n)
	}
	return axes, nil
}

// Main runs the registered benchmarks according to the command line
// and exits. It is the entry point for a benchmark binary:
//
//	func main() { benchrun.Main() }
func Main() {
	log.SetPrefix("benchrun: ")
	log.SetFlags(0)
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

func run(stdout, stderr io.Writer, args []string) int {
	fs := flag.NewFlagSet("benchrun", flag.ExitOnError)
	benchFlag := fs.String("bench", "", "run only benchmarks matching `regexp`; default runs none")
	bt := &benchTime{d: 1 * time.Second}
	fs.Var(bt, "benchtime", "run each benchmark for `d`, or exactly N iterations with the form Nx")
	count := fs.Int("count", 1, "run each benchmark `n` times")
	cpu := fs.String("cpu", "1", "comma-separated `list` of axis values to sweep")
	benchmem := fs.Bool("benchmem", false, "measure allocations per operation")
	timeout := fs.Duration("timeout", 0, "stop the whole sweep after `d`; 0 means no limit")
	cpuProfile := fs.String("cpuprofile", "", "write a CPU profile to `file`")
	memProfile := fs.String("memprofile", "", "write a heap profile to `file`")
	blockProfile := fs.String("blockprofile", "", "write a blocking profile to `file`")
	fs.Parse(args)

	if *benchFlag == "" {
		return 0
	}
	match, err := regexp.Compile(*benchFlag)
	if err != nil {
		log.Printf("invalid -bench pattern: %v", err)
		return 2
	}
	axes, err := parseCPUList(*cpu)
	if err != nil {
		log.Print(err)
		return 2
	}
	if *count < 1 {
		log.Printf("invalid -count %d", *count)
		return 2
	}

	profiles, err := startProfiles(*cpuProfile, *blockProfile)
	if err != nil {
		log.Print(err)
		return 2
	}

	a := &Aggregator{
		Target:     bt.d,
		FixedIters: bt.n,
		Count:      *count,
		Axes:       axes,
		Benchmem:   *benchmem,
		Budget:     *timeout,
		W:          benchfmt.NewWriter(stdout),
	}

	exit := 0
	for _, bench := range benchmarks {
		if !match.MatchString(bench.Name) {
			continue
		}
		_, warnings, err := a.Run(bench)
		for _, w := range warnings {
			fmt.Fprintf(stderr, "benchrun: warning: %v\n", w)
		}
		if err != nil {
			// A faulting body fails only its own benchmark; the
			// rest of the selection still runs.
			fmt.Fprintf(stderr, "benchrun: %v\n", err)
			exit = 1
			continue
		}
	}

	if err := stopProfiles(profiles, *memProfile); err != nil {
		log.Print(err)
		if exit == 0 {
			exit = 2
		}
	}
	return exit
}
