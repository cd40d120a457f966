// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchmath provides statistics over distributions of
// benchmark measurements: outlier trimming, summary statistics, and
// significance testing of two samples.
//
// All analysis results carry warnings as []error values. These aren't
// errors that prevent analysis, but should be presented to the user
// along with the results.
package benchmath

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// A Sample is a set of repeated measurements of a given benchmark,
// split into accepted values and rejected outliers.
type Sample struct {
	// Values are all measured values, in ascending order.
	Values []float64

	// Accepted are the Values that survived outlier trimming, in
	// ascending order. Summary statistics are computed over
	// Accepted only.
	Accepted []float64

	// Rejected are the Values trimmed as outliers.
	Rejected []float64

	// Thresholds stores the statistical thresholds used by tests
	// on this sample.
	Thresholds *Thresholds

	// Warnings is a list of warnings about this sample that
	// should be reported to the user.
	Warnings []error
}

// NewSample constructs a Sample from a set of measurements.
// It sorts values in place. If trim is nil, TrimMAD(3) is used; if t is
// nil, DefaultThresholds is used.
func NewSample(values []float64, trim Trimmer, t *Thresholds) *Sample {
	if trim == nil {
		trim = TrimMAD(3)
	}
	if t == nil {
		t = &DefaultThresholds
	}
	sort.Float64s(values)
	accepted, rejected := trim(values)
	s := &Sample{Values: values, Accepted: accepted, Rejected: rejected, Thresholds: t}
	if len(s.Accepted) < 2 {
		s.Warnings = append(s.Warnings, fmt.Errorf("need at least 2 accepted measurements, have %d", len(s.Accepted)))
	} else if rsd := s.RelStdDev(); rsd > t.HighVariance {
		s.Warnings = append(s.Warnings, fmt.Errorf("high variance: relative standard deviation %.1f%% exceeds %.1f%%", rsd*100, t.HighVariance*100))
	}
	return s
}

func (s *Sample) sample() stats.Sample {
	return stats.Sample{Xs: s.Accepted, Sorted: true}
}

// Ok reports whether s has enough accepted measurements for its
// summary statistics to be defined.
func (s *Sample) Ok() bool {
	return len(s.Accepted) >= 2
}

// Mean returns the arithmetic mean of the accepted measurements.
func (s *Sample) Mean() float64 {
	return s.sample().Mean()
}

// RelStdDev returns the standard deviation of the accepted
// measurements relative to their mean. It returns 0 for a sample
// whose mean is 0.
func (s *Sample) RelStdDev() float64 {
	mean := s.Mean()
	if mean == 0 {
		return 0
	}
	return math.Abs(s.sample().StdDev() / mean)
}

// A Thresholds configures various thresholds used by statistical tests.
//
// This should be initialized to DefaultThresholds because it may be
// extended with other fields in the future.
type Thresholds struct {
	// CompareAlpha is the alpha level below which Compare rejects
	// the null hypothesis that two samples come from the same
	// distribution.
	//
	// This is typically 0.05.
	CompareAlpha float64

	// HighVariance is the relative standard deviation above which
	// a sample is flagged as too noisy for a confident comparison.
	HighVariance float64
}

// DefaultThresholds contains a reasonable set of defaults for Thresholds.
var DefaultThresholds = Thresholds{
	CompareAlpha: 0.05,
	HighVariance: 0.05,
}

// A Trimmer splits a sorted set of measurements into accepted values
// and rejected outliers. Both result slices preserve ascending order.
type Trimmer func(sorted []float64) (accepted, rejected []float64)

// TrimMAD returns a Trimmer that rejects values more than k median
// absolute deviations from the median. This is robust against the
// skewed, non-Gaussian distributions benchmark timings tend to have.
//
// If the deviations themselves have median 0 (more than half the
// values are identical), only values equal to the median are accepted.
func TrimMAD(k float64) Trimmer {
	return func(sorted []float64) (accepted, rejected []float64) {
		if len(sorted) == 0 {
			return nil, nil
		}
		median := stats.Sample{Xs: sorted, Sorted: true}.Quantile(0.5)
		devs := make([]float64, len(sorted))
		for i, v := range sorted {
			devs[i] = math.Abs(v - median)
		}
		sort.Float64s(devs)
		mad := stats.Sample{Xs: devs, Sorted: true}.Quantile(0.5)
		return trimRange(sorted, median-k*mad, median+k*mad)
	}
}

// TrimIQR returns a Trimmer that applies the interquartile range rule:
// values outside [Q1 - 1.5 IQR, Q3 + 1.5 IQR] are rejected.
func TrimIQR() Trimmer {
	return func(sorted []float64) (accepted, rejected []float64) {
		if len(sorted) == 0 {
			return nil, nil
		}
		s := stats.Sample{Xs: sorted, Sorted: true}
		q1, q3 := s.Quantile(0.25), s.Quantile(0.75)
		return trimRange(sorted, q1-1.5*(q3-q1), q3+1.5*(q3-q1))
	}
}

// TrimNone returns a Trimmer that accepts every value.
func TrimNone() Trimmer {
	return func(sorted []float64) (accepted, rejected []float64) {
		return sorted, nil
	}
}

func trimRange(sorted []float64, lo, hi float64) (accepted, rejected []float64) {
	for _, v := range sorted {
		if lo <= v && v <= hi {
			accepted = append(accepted, v)
		} else {
			rejected = append(rejected, v)
		}
	}
	return
}
