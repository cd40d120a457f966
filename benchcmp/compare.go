// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/benchkit/benchmath"
)

// Options configures a comparison. The zero value uses the Mann-Whitney
// U test, MAD outlier trimming, and benchmath.DefaultThresholds.
type Options struct {
	// DeltaTest is the significance test applied to each group.
	// If nil, benchmath.UTest is used.
	DeltaTest benchmath.DeltaTest

	// Trimmer is the outlier trimmer applied to each side of each
	// group. If nil, benchmath.TrimMAD(3) is used.
	Trimmer benchmath.Trimmer

	// Thresholds are the statistical thresholds for the
	// comparison. If nil, benchmath.DefaultThresholds is used.
	Thresholds *benchmath.Thresholds
}

func (o *Options) thresholds() *benchmath.Thresholds {
	if o.Thresholds == nil {
		return &benchmath.DefaultThresholds
	}
	return o.Thresholds
}

// A Result is the comparison of the baseline and candidate sample sets
// for one group key.
type Result struct {
	Key Key

	// Old and New carry the trimmed samples for the two sides,
	// including their accepted and rejected values.
	Old, New *benchmath.Sample

	// Comparison is the significance test result. It is
	// meaningful only if Insufficient is false.
	Comparison benchmath.Comparison

	// Delta is the percent change of the candidate mean relative
	// to the baseline mean. It is NaN if Insufficient is true.
	Delta float64

	// Insufficient reports that one side had fewer than 2
	// accepted measurements, leaving the group's statistics
	// undefined.
	Insufficient bool

	// LowConfidence reports that the relative standard deviation
	// on either side exceeded the high-variance threshold, so the
	// comparison should not be trusted regardless of its p-value.
	LowConfidence bool

	// Warnings is a list of warnings about this group that should
	// be reported to the user.
	Warnings []error
}

// A Report is the outcome of comparing two collections.
type Report struct {
	// Results holds one Result per key present in both
	// collections, in the baseline collection's key order.
	Results []Result

	// OldOnly and NewOnly list keys present in only one of the
	// two collections. These groups are reported but not
	// compared.
	OldOnly, NewOnly []Key
}

// Compare compares the baseline collection old against the candidate
// collection new. Groups are independent, so they are compared
// concurrently; the result order is deterministic regardless.
func Compare(old, new *Collection, opts *Options) *Report {
	if opts == nil {
		opts = &Options{}
	}

	rep := newReport(old, new)
	var wg sync.WaitGroup
	for i := range rep.Results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := rep.Results[i].Key
			rep.Results[i] = compareOne(key, old.Sets[key], new.Sets[key], opts)
		}()
	}
	wg.Wait()
	return rep
}

// newReport allocates the report skeleton: shared keys in baseline
// order and the unmatched key lists.
func newReport(old, new *Collection) *Report {
	rep := &Report{}
	for _, key := range old.Keys {
		if _, ok := new.Sets[key]; ok {
			rep.Results = append(rep.Results, Result{Key: key})
		} else {
			rep.OldOnly = append(rep.OldOnly, key)
		}
	}
	for _, key := range new.Keys {
		if _, ok := old.Sets[key]; !ok {
			rep.NewOnly = append(rep.NewOnly, key)
		}
	}
	return rep
}

func compareOne(key Key, oldSet, newSet *SampleSet, opts *Options) Result {
	t := opts.thresholds()
	res := Result{
		Key: key,
		Old: benchmath.NewSample(oldSet.NsPerOps(), opts.Trimmer, t),
		New: benchmath.NewSample(newSet.NsPerOps(), opts.Trimmer, t),
	}

	if !res.Old.Ok() || !res.New.Ok() {
		res.Insufficient = true
		res.Delta = math.NaN()
		res.Warnings = append(res.Warnings, fmt.Errorf("%s: insufficient data: %d+%d accepted measurements", key, len(res.Old.Accepted), len(res.New.Accepted)))
		return res
	}

	res.Comparison = benchmath.Compare(res.Old, res.New, opts.DeltaTest)
	res.Warnings = append(res.Warnings, res.Comparison.Warnings...)
	res.Delta = (res.New.Mean()/res.Old.Mean() - 1) * 100
	if res.Old.RelStdDev() > t.HighVariance || res.New.RelStdDev() > t.HighVariance {
		res.LowConfidence = true
		res.Warnings = append(res.Warnings, fmt.Errorf("%s: low confidence: relative standard deviation %.1f%%+%.1f%%", key, res.Old.RelStdDev()*100, res.New.RelStdDev()*100))
	}
	return res
}
