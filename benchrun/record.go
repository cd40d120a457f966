// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"runtime"

	"golang.org/x/benchkit/benchfmt"
)

// runN performs one measured run of n iterations. The timer starts
// just before the body is invoked; bodies with expensive setup call
// ResetTimer themselves. The timer is left untouched after the body
// returns so elapsed time can be read regardless of whether the body
// left it running.
func (b *B) runN(body func(*B), n int) {
	b.N = n
	b.sink = nil
	// Try to get a clean slate so an earlier run's garbage is not
	// collected on this run's time.
	runtime.GC()
	b.ResetTimer()
	body(b)
	if b.benchmem {
		b.readAllocsEnd()
	}
}

func (b *B) readAllocsStart() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	b.startMallocs = memStats.Mallocs
	b.startTotalAlloc = memStats.TotalAlloc
}

func (b *B) readAllocsEnd() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	b.netAllocs = memStats.Mallocs - b.startMallocs
	b.netBytes = memStats.TotalAlloc - b.startTotalAlloc
}

// record normalizes the completed run into a Sample. It never
// re-enters calibration; the iteration count is taken as final.
func (b *B) record(name string) *benchfmt.Sample {
	s := &benchfmt.Sample{
		Name:    name,
		Axis:    b.Axis,
		Iters:   b.N,
		NsPerOp: float64(b.timer.elapsed().Nanoseconds()) / float64(b.N),
	}
	if b.benchmem {
		s.Mem = true
		s.BytesPerOp = int64(b.netBytes) / int64(b.N)
		s.AllocsPerOp = int64(b.netAllocs) / int64(b.N)
	}
	return s
}
