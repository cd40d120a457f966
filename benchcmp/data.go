// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchcmp groups benchmark samples into per-benchmark sample
// sets and compares a baseline set against a candidate set with a
// statistical significance test.
package benchcmp

import (
	"fmt"

	"golang.org/x/benchkit/benchfmt"
)

// A Key identifies the sample set for one benchmark name measured
// under one axis value.
type Key struct {
	Name string
	Axis int
}

func (k Key) String() string {
	return fmt.Sprintf("%s-%d", k.Name, k.Axis)
}

// A SampleSet is the ordered collection of samples sharing a Key.
// It grows by append only; the order is the order the samples were
// added, which for harness output is run order.
type SampleSet struct {
	Key     Key
	Samples []*benchfmt.Sample
}

// NsPerOps returns the ns/op measurement of every sample in s as a
// fresh slice.
func (s *SampleSet) NsPerOps() []float64 {
	vs := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		vs[i] = sample.NsPerOp
	}
	return vs
}

// A Collection accumulates samples into sets keyed by (name, axis).
type Collection struct {
	// Sets maps each key to its sample set.
	Sets map[Key]*SampleSet

	// Keys lists the keys of Sets in the order they were first
	// added.
	Keys []Key
}

// Add appends s to the sample set for its key, creating the set if
// needed.
func (c *Collection) Add(s *benchfmt.Sample) {
	if c.Sets == nil {
		c.Sets = make(map[Key]*SampleSet)
	}
	key := Key{s.Name, s.Axis}
	set, ok := c.Sets[key]
	if !ok {
		set = &SampleSet{Key: key}
		c.Sets[key] = set
		c.Keys = append(c.Keys, key)
	}
	set.Samples = append(set.Samples, s)
}

// AddReader adds every sample record read from r to c. Syntax errors
// are collected and returned as warnings; they do not stop reading.
// The error result reports an I/O failure, if any.
func (c *Collection) AddReader(r *benchfmt.Reader) (warnings []error, err error) {
	for r.Scan() {
		switch rec := r.Record().(type) {
		case *benchfmt.Sample:
			c.Add(rec)
		case *benchfmt.SyntaxError:
			warnings = append(warnings, rec)
		}
	}
	return warnings, r.Err()
}
