// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"testing"
	"time"
)

func TestRoundToNice(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 5},
		{5, 5},
		{6, 10},
		{9, 10},
		{10, 10},
		{11, 20},
		{100, 100},
		{120, 200},
		{205, 300},
		{350, 500},
		{501, 1000},
		{999, 1000},
		{1000, 1000},
	}
	for _, test := range tests {
		if got := roundToNice(test.n); got != test.want {
			t.Errorf("roundToNice(%d) = %d, want %d", test.n, got, test.want)
		}
	}
}

func TestPlanNextGrowthFloor(t *testing.T) {
	// A run that nearly reached the target still grows by at least
	// 2x, so calibration cannot stall on misleading timings.
	p := &plan{n: 1000, target: time.Second}
	p.next(990 * time.Millisecond)
	if p.n != 2000 {
		t.Errorf("got n=%d, want 2000", p.n)
	}
}

func TestPlanNextGrowthCap(t *testing.T) {
	// A run that was far too short grows by at most 100x, so one
	// bad prediction cannot run away.
	p := &plan{n: 1, target: time.Second}
	p.next(1 * time.Nanosecond)
	if p.n != 100 {
		t.Errorf("got n=%d, want 100", p.n)
	}
}

func TestPlanNextZeroElapsed(t *testing.T) {
	p := &plan{n: 10, target: time.Second}
	p.next(0)
	if p.n != 1000 {
		t.Errorf("got n=%d, want 1000", p.n)
	}
}

func TestPlanNextMaxIters(t *testing.T) {
	p := &plan{n: maxIters, target: time.Second}
	p.next(time.Millisecond)
	if p.n != maxIters {
		t.Errorf("got n=%d, want %d", p.n, maxIters)
	}
}

func TestPlanFixed(t *testing.T) {
	p := newPlan(time.Second, 20)
	if !p.fixed || p.n != 20 {
		t.Fatalf("got plan %+v, want fixed 20-iteration plan", p)
	}
	// A fixed plan is satisfied by any run, however short.
	if !p.done(0) {
		t.Error("fixed plan not done after its run")
	}
}
