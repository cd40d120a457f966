// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchrun is an adaptive benchmark harness. It calibrates an
// iteration count so that each measured run lasts at least a target
// duration, records each run as a benchfmt.Sample, and repeats runs
// across configuration axis values to build sample sets suitable for
// statistical comparison.
//
// Benchmark bodies follow the familiar shape:
//
//	benchrun.Register(benchrun.Benchmark{
//		Name: "Sort",
//		Body: func(b *benchrun.B) {
//			data := makeInput()
//			b.ResetTimer()
//			for i := 0; i < b.N; i++ {
//				b.Keep(sort(data))
//			}
//		},
//	})
//
// Main runs the registered benchmarks selected by the -bench flag.
package benchrun

import (
	"runtime"
	"sync"
)

// A Benchmark is a named benchmark body. Benchmarks are immutable once
// registered.
type Benchmark struct {
	// Name identifies the benchmark. It must not contain spaces and
	// should not end in a "-<digits>" suffix, which the record
	// format reserves for the axis value.
	Name string

	// Body performs b.N iterations of the measured operation.
	Body func(b *B)
}

var benchmarks []Benchmark

// Register adds a benchmark to the set run by Main. It is typically
// called from an init function.
func Register(b Benchmark) {
	benchmarks = append(benchmarks, b)
}

// A B carries the state of one measured run. The harness sets N before
// invoking the body; the body must perform the measured operation
// exactly N times.
type B struct {
	// N is the number of iterations to perform.
	N int

	// Axis is the configuration axis value for this run, taken from
	// the -cpu flag sweep. Bodies that fan out should start Axis
	// workers, most simply via Workers.
	Axis int

	timer    timer
	benchmem bool
	sink     any

	startMallocs    uint64
	startTotalAlloc uint64
	netAllocs       uint64
	netBytes        uint64
}

// sinkHole holds the most recently kept value from a completed run.
// Publishing kept values here keeps the compiler from proving the
// measured computation dead.
var sinkHole any

// Keep records v as a result of the measured computation. The harness
// publishes the value after the run, so the computation that produced
// it cannot be optimized away. Keep is cheap enough to call once per
// iteration.
func (b *B) Keep(v any) {
	b.sink = v
}

// ResetTimer zeroes the elapsed time and allocation counters. It is
// typically called after expensive setup that should not be measured.
func (b *B) ResetTimer() {
	if b.benchmem {
		runtime.GC()
		b.readAllocsStart()
	}
	b.timer.reset()
}

// StopTimer excludes the following interval from the measured time,
// for example around per-iteration bookkeeping. Stopping a timer that
// is already stopped is a fault that fails the run.
func (b *B) StopTimer() {
	b.timer.pause()
}

// StartTimer resumes timing after StopTimer. Starting a timer that is
// already running is a fault that fails the run.
func (b *B) StartTimer() {
	b.timer.resume()
}

// Workers runs fn in b.Axis goroutines and waits for all of them to
// return. It is the supported way for a body to fan out to the run's
// parallelism level.
func (b *B) Workers(fn func()) {
	var wg sync.WaitGroup
	wg.Add(b.Axis)
	for i := 0; i < b.Axis; i++ {
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	wg.Wait()
}
