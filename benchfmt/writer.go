// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"bytes"
	"fmt"
	"io"
)

// A Writer writes the benchkit sample record format.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewWriter returns a writer that writes sample records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the record for Sample s to w as a single line.
// The axis suffix is always written, so a Sample parsed from a record
// with no suffix round-trips as axis 1.
func (w *Writer) Write(s *Sample) error {
	fmt.Fprintf(&w.buf, "%s-%d %d %v ns/op", s.Name, s.Axis, s.Iters, s.NsPerOp)
	if s.Mem {
		fmt.Fprintf(&w.buf, " %d B/op %d allocs/op", s.BytesPerOp, s.AllocsPerOp)
	}
	w.buf.WriteByte('\n')

	// Writes to the buffer can't fail, so we only have to check if
	// the flush to the underlying io.Writer fails.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}
