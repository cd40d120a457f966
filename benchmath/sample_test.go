// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"math"
	"testing"
)

func TestTrimMAD(t *testing.T) {
	// One extreme outlier among ten clean values must be rejected,
	// and the mean of the accepted values must match the clean mean.
	values := []float64{1000, 1001, 1002, 1003, 1004, 1005, 1006, 1007, 1008, 1009, 50000}
	s := NewSample(values, TrimMAD(3), nil)
	if len(s.Rejected) != 1 || s.Rejected[0] != 50000 {
		t.Fatalf("got rejected %v, want [50000]", s.Rejected)
	}
	if len(s.Accepted) != 10 {
		t.Fatalf("got %d accepted values, want 10", len(s.Accepted))
	}
	if got, want := s.Mean(), 1004.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("got mean %v, want %v", got, want)
	}
}

func TestTrimMADAllEqual(t *testing.T) {
	s := NewSample([]float64{7, 7, 7, 7}, TrimMAD(3), nil)
	if len(s.Accepted) != 4 || len(s.Rejected) != 0 {
		t.Errorf("got %d accepted, %d rejected, want 4, 0", len(s.Accepted), len(s.Rejected))
	}
	if s.RelStdDev() != 0 {
		t.Errorf("got relative stddev %v, want 0", s.RelStdDev())
	}
}

func TestTrimIQR(t *testing.T) {
	values := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 500}
	s := NewSample(values, TrimIQR(), nil)
	if len(s.Rejected) != 1 || s.Rejected[0] != 500 {
		t.Errorf("got rejected %v, want [500]", s.Rejected)
	}
}

func TestTrimNone(t *testing.T) {
	values := []float64{10, 500, 11}
	s := NewSample(values, TrimNone(), nil)
	if len(s.Accepted) != 3 || len(s.Rejected) != 0 {
		t.Errorf("got %d accepted, %d rejected, want 3, 0", len(s.Accepted), len(s.Rejected))
	}
	// NewSample sorts in place.
	if s.Values[0] != 10 || s.Values[2] != 500 {
		t.Errorf("got values %v, want them sorted", s.Values)
	}
}

func TestInsufficientData(t *testing.T) {
	s := NewSample([]float64{42}, nil, nil)
	if s.Ok() {
		t.Errorf("sample of 1 reported Ok")
	}
	if len(s.Warnings) != 1 {
		t.Errorf("got warnings %v, want exactly one", s.Warnings)
	}
}

func TestHighVarianceWarning(t *testing.T) {
	// Relative stddev well above 5%.
	s := NewSample([]float64{100, 150, 50, 120, 80}, TrimNone(), nil)
	if rsd := s.RelStdDev(); rsd <= 0.05 {
		t.Fatalf("test sample not noisy enough: relative stddev %v", rsd)
	}
	if len(s.Warnings) != 1 {
		t.Errorf("got warnings %v, want exactly one", s.Warnings)
	}

	// A tight sample gets no warning.
	s = NewSample([]float64{100, 101, 99, 100, 100}, TrimNone(), nil)
	if len(s.Warnings) != 0 {
		t.Errorf("got warnings %v, want none", s.Warnings)
	}
}
