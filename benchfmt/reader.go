// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A Reader reads the benchkit sample record format.
//
// Its API is modeled on bufio.Scanner. Each call to Scan advances to
// the next record, which may be a *Sample or a *SyntaxError for a line
// that could not be parsed. Blank lines and lines starting with "#"
// are ignored. The Reader allocates a fresh Sample for each record, so
// callers may retain the records it returns.
type Reader struct {
	s        *bufio.Scanner
	err      error // current I/O error
	rec      Record
	fileName string
	line     int
}

// A SyntaxError represents a syntax error on a particular line of a
// sample file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

var noRecord = &SyntaxError{"", 0, "Reader.Scan has not been called"}

// NewReader constructs a reader to parse the sample record format from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	return &Reader{s: bufio.NewScanner(r), fileName: fileName}
}

// newSyntaxError returns a *SyntaxError at the Reader's current position.
func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.fileName, r.line, msg}
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Record method to get the
// record. If Scan reaches EOF or an I/O error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	for r.s.Scan() {
		r.line++
		line := strings.TrimSpace(r.s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if s, err := r.parseLine(line); err != nil {
			r.rec = err
		} else {
			r.rec = s
		}
		return true
	}

	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

// parseLine parses one sample record line.
func (r *Reader) parseLine(line string) (*Sample, *SyntaxError) {
	f := strings.Fields(line)
	if len(f) < 2 {
		return nil, r.newSyntaxError("missing iteration count")
	}

	s := &Sample{fileName: r.fileName, line: r.line}
	s.Name, s.Axis = splitAxis(f[0])
	if s.Name == "" {
		return nil, r.newSyntaxError("missing name")
	}
	if s.Axis < 1 {
		return nil, r.newSyntaxError("axis value must be positive")
	}

	iters, err := strconv.Atoi(f[1])
	if err != nil {
		return nil, r.newSyntaxError("parsing iteration count: " + err.Error())
	}
	if iters < 1 {
		return nil, r.newSyntaxError("iteration count must be positive")
	}
	s.Iters = iters

	// Read value/unit pairs.
	var haveNs, haveBytes, haveAllocs bool
	for i := 2; i < len(f); i += 2 {
		if i+1 >= len(f) {
			return nil, r.newSyntaxError("missing unit after " + f[i])
		}
		val, err := strconv.ParseFloat(f[i], 64)
		if err != nil {
			return nil, r.newSyntaxError("parsing measurement: " + err.Error())
		}
		switch unit := f[i+1]; unit {
		case "ns/op":
			s.NsPerOp = val
			haveNs = true
		case "B/op":
			s.BytesPerOp = int64(val)
			haveBytes = true
		case "allocs/op":
			s.AllocsPerOp = int64(val)
			haveAllocs = true
		default:
			return nil, r.newSyntaxError("unknown unit " + unit)
		}
	}
	if !haveNs {
		return nil, r.newSyntaxError("missing ns/op measurement")
	}
	s.Mem = haveBytes || haveAllocs
	return s, nil
}

// A Record is a single record read from a sample file. It is either a
// *Sample or a *SyntaxError.
type Record interface {
	// Pos returns the position of this record as a file name and a
	// 1-based line number within that file. If this record was not
	// read from a file, it returns "", 0.
	Pos() (fileName string, line int)
}

var _ Record = (*Sample)(nil)
var _ Record = (*SyntaxError)(nil)

// Record returns the record that was just read by Scan. This is either
// a *Sample or a *SyntaxError indicating a parse error. Parse errors
// are non-fatal, so the caller can continue to call Scan.
func (r *Reader) Record() Record {
	if r.rec == nil {
		return noRecord
	}
	return r.rec
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}
