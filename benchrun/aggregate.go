// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"fmt"
	"time"

	"golang.org/x/benchkit/benchfmt"
)

// An Aggregator runs benchmarks repeatedly across axis values and
// collects the resulting samples. Runs are strictly sequential; only a
// benchmark body may fan out internally.
type Aggregator struct {
	// Target is the minimum measured duration of each run. It is
	// ignored when FixedIters is set.
	Target time.Duration

	// FixedIters, if positive, disables calibration and runs each
	// benchmark for exactly this many iterations.
	FixedIters int

	// Count is the number of independent calibrate-and-record
	// cycles per benchmark per axis value. Each cycle starts from a
	// fresh iteration plan.
	Count int

	// Axes lists the configuration axis values to sweep.
	Axes []int

	// Benchmem enables per-operation allocation measurement.
	Benchmem bool

	// Budget, if nonzero, bounds the wall-clock time of a Run call.
	// When the budget runs out the sweep stops early with a warning
	// and whatever samples were already gathered.
	Budget time.Duration

	// W, if non-nil, receives each sample as soon as its run
	// completes.
	W *benchfmt.Writer

	now func() time.Time // clock; nil means time.Now
}

func (a *Aggregator) clock() time.Time {
	if a.now == nil {
		return time.Now()
	}
	return a.now()
}

// Run measures bench Count times for every axis value and returns the
// recorded samples. Non-fatal conditions, such as a run that could not
// be calibrated within its time cap or a budget that ran out, are
// returned as warnings alongside the samples gathered so far. A fault
// in the benchmark body ends the sweep and is returned as the error.
func (a *Aggregator) Run(bench Benchmark) (samples []*benchfmt.Sample, warnings []error, err error) {
	start := a.clock()
	for _, axis := range a.Axes {
		for i := 0; i < a.Count; i++ {
			if a.Budget != 0 && a.clock().Sub(start) >= a.Budget {
				warnings = append(warnings, fmt.Errorf("benchmark %s: time budget exhausted after %d of %d runs", bench.Name, len(samples), a.Count*len(a.Axes)))
				return samples, warnings, nil
			}
			s, warn, err := a.runOne(bench, axis)
			if err != nil {
				return samples, warnings, err
			}
			if warn != nil {
				warnings = append(warnings, warn)
			}
			if a.W != nil {
				if err := a.W.Write(s); err != nil {
					return samples, warnings, err
				}
			}
			samples = append(samples, s)
		}
	}
	return samples, warnings, nil
}

// runOne performs one calibrate-and-record cycle. A panic in the
// benchmark body, including timer misuse, fails this run only and is
// converted to an error.
func (a *Aggregator) runOne(bench Benchmark, axis int) (s *benchfmt.Sample, warn, err error) {
	defer func() {
		if e := recover(); e != nil {
			s, warn = nil, nil
			if te, ok := e.(*TimerError); ok {
				err = fmt.Errorf("benchmark %s-%d: %w", bench.Name, axis, te)
				return
			}
			err = fmt.Errorf("benchmark %s-%d: panic: %v", bench.Name, axis, e)
		}
	}()

	b := &B{Axis: axis, benchmem: a.Benchmem}
	b.timer.now = a.now
	p := newPlan(a.Target, a.FixedIters)

	// Cap the whole calibration sequence by wall-clock time rather
	// than by the timer's reading, which the body can reset.
	start := a.clock()
	for {
		b.runN(bench.Body, p.n)
		if p.done(b.timer.elapsed()) {
			break
		}
		if p.n >= maxIters || a.clock().Sub(start) >= 100*p.target {
			warn = fmt.Errorf("benchmark %s-%d: did not converge on target %v; recording %d-iteration run", bench.Name, axis, p.target, p.n)
			break
		}
		p.next(b.timer.elapsed())
	}

	sinkHole = b.sink
	return b.record(bench.Name), warn, nil
}
