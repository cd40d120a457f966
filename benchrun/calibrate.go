// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import "time"

// maxIters caps the iteration count of a single run.
const maxIters = int(1e9)

// A plan is the iteration plan for one calibrate-and-record cycle. It
// starts at one iteration and is advanced by next until a run's
// elapsed time reaches the target. A fixed plan skips calibration and
// runs exactly n iterations once.
//
// Plans are not reused: each recorded sample comes from a fresh plan
// so earlier cycles cannot influence later ones.
type plan struct {
	n      int
	target time.Duration
	fixed  bool
}

// newPlan returns a plan targeting the given run duration. If
// fixedIters is positive it returns a fixed plan for that many
// iterations instead.
func newPlan(target time.Duration, fixedIters int) *plan {
	if fixedIters > 0 {
		return &plan{n: fixedIters, fixed: true}
	}
	return &plan{n: 1, target: target}
}

// done reports whether a run of p.n iterations taking elapsed
// satisfies the plan.
func (p *plan) done(elapsed time.Duration) bool {
	return p.fixed || elapsed >= p.target
}

// next advances the plan after a run of p.n iterations took prev,
// which fell short of the target. The new count is predicted from the
// observed per-iteration cost, grown by at least 2x so progress is
// made even when timings mislead, capped at 100x so one bad prediction
// cannot run away, and rounded up to a readable count.
func (p *plan) next(prev time.Duration) {
	n := p.n
	var predicted int
	if prev <= 0 {
		predicted = 100 * n
	} else {
		predicted = int(float64(n) * float64(p.target) / float64(prev))
	}
	if predicted < 2*n {
		predicted = 2 * n
	}
	if predicted > 100*n {
		predicted = 100 * n
	}
	n = roundToNice(predicted)
	if n > maxIters {
		n = maxIters
	}
	p.n = n
}

// roundDown10 rounds n down to the nearest power of 10.
func roundDown10(n int) int {
	tens := 0
	for n >= 10 {
		n /= 10
		tens++
	}
	result := 1
	for i := 0; i < tens; i++ {
		result *= 10
	}
	return result
}

// roundToNice rounds n up to one of 1, 2, 3, 5 times a power of 10,
// so iteration counts stay easy to read in result files.
func roundToNice(n int) int {
	base := roundDown10(n)
	switch {
	case n <= base:
		return base
	case n <= 2*base:
		return 2 * base
	case n <= 3*base:
		return 3 * base
	case n <= 5*base:
		return 5 * base
	default:
		return 10 * base
	}
}
