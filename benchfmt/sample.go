// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchfmt provides a reader and writer for the benchkit
// sample record format.
//
// A record is a single line of the form
//
//	<name>-<axis> <iters> <ns/op> ns/op [<bytes> B/op <allocs> allocs/op]
//
// where <axis> is the configuration axis value (for example, a
// parallelism level) the benchmark was measured under. The allocation
// fields are present only for runs measured with allocation tracking
// enabled.
//
// The reader is structured as a streaming operation modeled on
// bufio.Scanner. Lines that fail to parse become positional
// *SyntaxError records in the stream rather than terminal errors, so
// consumers can skip damaged lines and keep going.
package benchfmt

import "fmt"

// A Sample is one normalized per-operation measurement from a single
// completed benchmark run. Samples are immutable once recorded.
type Sample struct {
	// Name is the benchmark name, without the axis suffix.
	Name string

	// Axis is the configuration axis value this run was measured
	// under. A record whose name carries no suffix has axis 1.
	Axis int

	// Iters is the number of iterations the measurements were
	// averaged over.
	Iters int

	// NsPerOp is the measured wall-clock time per operation in
	// nanoseconds.
	NsPerOp float64

	// BytesPerOp and AllocsPerOp are the allocation measurements
	// per operation. They are meaningful only if Mem is set.
	BytesPerOp  int64
	AllocsPerOp int64

	// Mem records whether allocation tracking was enabled for the
	// run that produced this sample.
	Mem bool

	// fileName and line record where this Sample was read from.
	fileName string
	line     int
}

// Pos returns the file name and line number of a Sample that was read
// by a Reader. For Samples that were not read from a file, it returns
// "", 0.
func (s *Sample) Pos() (fileName string, line int) {
	return s.fileName, s.line
}

// FullName returns the record name of s, which is the benchmark name
// joined with the axis value.
func (s *Sample) FullName() string {
	return fmt.Sprintf("%s-%d", s.Name, s.Axis)
}

// splitAxis splits a record name into the benchmark name and the axis
// value suffix. A name with no suffix has axis 1.
func splitAxis(full string) (name string, axis int) {
	for i := len(full) - 1; i >= 0; i-- {
		c := full[i]
		if c == '-' && i < len(full)-1 {
			n := 0
			for _, d := range []byte(full[i+1:]) {
				n = n*10 + int(d-'0')
			}
			return full[:i], n
		}
		if c < '0' || c > '9' {
			break
		}
	}
	return full, 1
}
