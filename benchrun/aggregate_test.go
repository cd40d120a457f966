// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"bytes"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/benchkit/benchfmt"
)

// spinner returns a benchmark whose every iteration advances clk by
// cost, so calibration sequences are fully deterministic.
func spinner(name string, clk *fakeClock, cost time.Duration) Benchmark {
	return Benchmark{Name: name, Body: func(b *B) {
		for i := 0; i < b.N; i++ {
			clk.advance(cost)
		}
	}}
}

func TestCalibrationConverges(t *testing.T) {
	var clk fakeClock
	a := &Aggregator{Target: time.Second, Count: 2, Axes: []int{1}, now: clk.now}

	var ns []int
	bench := Benchmark{Name: "Spin", Body: func(b *B) {
		ns = append(ns, b.N)
		for i := 0; i < b.N; i++ {
			clk.advance(time.Millisecond)
		}
	}}

	samples, warnings, err := a.Run(bench)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("got warnings %v, want none", warnings)
	}

	// At 1ms per iteration against a 1s target, each cycle seeks
	// 1, 100 (prediction capped at 100x), 1000, then converges.
	wantNs := []int{1, 100, 1000, 1, 100, 1000}
	if len(ns) != len(wantNs) {
		t.Fatalf("got iteration sequence %v, want %v", ns, wantNs)
	}
	for i, n := range wantNs {
		if ns[i] != n {
			t.Fatalf("got iteration sequence %v, want %v", ns, wantNs)
		}
	}

	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	for _, s := range samples {
		if s.Name != "Spin" || s.Axis != 1 || s.Iters != 1000 {
			t.Errorf("got sample %+v, want Spin axis 1 with 1000 iterations", s)
		}
		// 1ms per iteration, exactly.
		if s.NsPerOp != 1e6 {
			t.Errorf("got %v ns/op, want 1e6", s.NsPerOp)
		}
	}
}

func TestCalibrationFirstRunConverges(t *testing.T) {
	var clk fakeClock
	a := &Aggregator{Target: time.Second, Count: 1, Axes: []int{1}, now: clk.now}

	samples, warnings, err := a.Run(spinner("Slow", &clk, 2*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("got warnings %v, want none", warnings)
	}
	if len(samples) != 1 || samples[0].Iters != 1 {
		t.Fatalf("got samples %+v, want one single-iteration sample", samples)
	}
}

func TestFixedIterations(t *testing.T) {
	var clk fakeClock
	a := &Aggregator{FixedIters: 20, Count: 1, Axes: []int{1}, now: clk.now}

	var runs, iters int
	bench := Benchmark{Name: "Fixed", Body: func(b *B) {
		runs++
		iters = b.N
		for i := 0; i < b.N; i++ {
			clk.advance(time.Millisecond)
		}
	}}

	samples, _, err := a.Run(bench)
	if err != nil {
		t.Fatal(err)
	}
	if runs != 1 || iters != 20 {
		t.Errorf("got %d runs of %d iterations, want 1 run of 20", runs, iters)
	}
	if len(samples) != 1 || samples[0].Iters != 20 {
		t.Fatalf("got samples %+v, want one 20-iteration sample", samples)
	}
}

func TestAxisSweep(t *testing.T) {
	var clk fakeClock
	a := &Aggregator{FixedIters: 5, Count: 3, Axes: []int{1, 4}, now: clk.now}

	samples, _, err := a.Run(spinner("Sweep", &clk, time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	wantAxes := []int{1, 1, 1, 4, 4, 4}
	if len(samples) != len(wantAxes) {
		t.Fatalf("got %d samples, want %d", len(samples), len(wantAxes))
	}
	for i, s := range samples {
		if s.Axis != wantAxes[i] {
			t.Errorf("sample %d has axis %d, want %d", i, s.Axis, wantAxes[i])
		}
	}
}

func TestBudgetStopsSweepEarly(t *testing.T) {
	var clk fakeClock
	a := &Aggregator{
		FixedIters: 10,
		Count:      5,
		Axes:       []int{1},
		Budget:     25 * time.Millisecond,
		now:        clk.now,
	}

	// Each run takes 10ms, so the fourth run would start past the
	// 25ms budget.
	samples, warnings, err := a.Run(spinner("Budget", &clk, time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Errorf("got %d samples, want 3", len(samples))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Error(), "budget") {
		t.Errorf("got warnings %v, want one budget warning", warnings)
	}
}

func TestDidNotConverge(t *testing.T) {
	var clk fakeClock
	a := &Aggregator{Target: 10 * time.Millisecond, Count: 1, Axes: []int{1}, now: clk.now}

	// Resetting the timer at the end of the body makes the measured
	// time useless for calibration, so only the wall-clock cap can
	// end the seek.
	bench := Benchmark{Name: "Reset", Body: func(b *B) {
		for i := 0; i < b.N; i++ {
			clk.advance(time.Millisecond)
		}
		b.ResetTimer()
	}}

	samples, warnings, err := a.Run(bench)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Error(), "did not converge") {
		t.Fatalf("got warnings %v, want one did-not-converge warning", warnings)
	}
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want the best-effort sample", len(samples))
	}
}

func TestBodyPanicFailsSweep(t *testing.T) {
	var clk fakeClock
	a := &Aggregator{FixedIters: 1, Count: 1, Axes: []int{1}, now: clk.now}

	bench := Benchmark{Name: "Boom", Body: func(b *B) {
		panic("boom")
	}}

	samples, _, err := a.Run(bench)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("got err %v, want body panic", err)
	}
	if len(samples) != 0 {
		t.Errorf("got %d samples from a faulting run, want 0", len(samples))
	}
}

func TestTimerMisuseFailsRun(t *testing.T) {
	var clk fakeClock
	a := &Aggregator{FixedIters: 1, Count: 1, Axes: []int{1}, now: clk.now}

	bench := Benchmark{Name: "Misuse", Body: func(b *B) {
		b.StopTimer()
		b.StopTimer()
	}}

	_, _, err := a.Run(bench)
	var te *TimerError
	if !errors.As(err, &te) {
		t.Fatalf("got err %v, want a *TimerError", err)
	}
}

func TestKeepPublishesSink(t *testing.T) {
	var clk fakeClock
	a := &Aggregator{FixedIters: 1, Count: 1, Axes: []int{1}, now: clk.now}

	bench := Benchmark{Name: "Keep", Body: func(b *B) {
		for i := 0; i < b.N; i++ {
			b.Keep(i + 42)
		}
	}}

	if _, _, err := a.Run(bench); err != nil {
		t.Fatal(err)
	}
	if sinkHole != 42 {
		t.Errorf("got sink %v, want 42", sinkHole)
	}
}

func TestWorkers(t *testing.T) {
	var clk fakeClock
	a := &Aggregator{FixedIters: 1, Count: 1, Axes: []int{4}, now: clk.now}

	var cnt int32
	bench := Benchmark{Name: "Workers", Body: func(b *B) {
		for i := 0; i < b.N; i++ {
			b.Workers(func() {
				atomic.AddInt32(&cnt, 1)
			})
		}
	}}

	if _, _, err := a.Run(bench); err != nil {
		t.Fatal(err)
	}
	if cnt != 4 {
		t.Errorf("got %d worker invocations, want 4", cnt)
	}
}

func TestWriterStreamsSamples(t *testing.T) {
	var clk fakeClock
	var buf bytes.Buffer
	a := &Aggregator{
		FixedIters: 10,
		Count:      2,
		Axes:       []int{1},
		W:          benchfmt.NewWriter(&buf),
		now:        clk.now,
	}

	if _, _, err := a.Run(spinner("Stream", &clk, time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d output lines, want 2:\n%s", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "Stream-1 10 ") || !strings.Contains(line, "ns/op") {
			t.Errorf("unexpected record line %q", line)
		}
	}
}
