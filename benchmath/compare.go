// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"
)

// A Comparison is the result of comparing two samples to test if they
// come from the same distribution.
type Comparison struct {
	// P is the p-value of the null hypothesis that two samples
	// come from the same distribution. If P is less than a
	// threshold alpha (typically 0.05), then we reject the null
	// hypothesis.
	//
	// P is -1 if no test was applied.
	P float64

	// N1 and N2 are the numbers of accepted measurements in the
	// two samples.
	N1, N2 int

	// Alpha is the alpha threshold for this test. If P < Alpha,
	// we reject the null hypothesis that the two samples come
	// from the same distribution.
	Alpha float64

	// Warnings is a list of warnings about this comparison
	// result.
	Warnings []error
}

// String summarizes the comparison. The general form of this string
// is "p=0.PPP n=N1+N2" but can be shortened.
func (c Comparison) String() string {
	var s string
	if c.P >= 0 {
		s = fmt.Sprintf("p=%0.3f ", c.P)
	}
	if c.N1 == c.N2 {
		// Slightly shorter form for a common case.
		return s + fmt.Sprintf("n=%d", c.N1)
	}
	return s + fmt.Sprintf("n=%d+%d", c.N1, c.N2)
}

// FormatDelta formats the difference in the means of two samples.
// The old and new values must be the means of the two compared
// samples. If the Comparison accepts the null hypothesis that the
// samples come from the same distribution, FormatDelta returns "~" to
// indicate there's no meaningful difference. Otherwise, it returns the
// percent difference between the means.
func (c Comparison) FormatDelta(old, new float64) string {
	if c.P < 0 || c.P > c.Alpha {
		return "~"
	}
	if old == new {
		return "0.00%"
	}
	if old == 0 {
		return "?"
	}
	pct := ((new / old) - 1.0) * 100.0
	return fmt.Sprintf("%+.2f%%", pct)
}

// A DeltaTest tests whether the accepted measurements of two samples
// come from the same distribution, returning a p-value.
type DeltaTest func(s1, s2 *Sample) (pval float64, err error)

// UTest is a DeltaTest that applies the two-sided Mann-Whitney U test,
// sometimes also referred to as the Wilcoxon rank sum test. It is the
// default because benchmark timing distributions are frequently
// skewed, which a rank-based test tolerates and a t-test does not.
func UTest(s1, s2 *Sample) (pval float64, err error) {
	u, err := stats.MannWhitneyUTest(s1.Accepted, s2.Accepted, stats.LocationDiffers)
	if err != nil {
		return -1, err
	}
	return u.P, nil
}

// TTest is a DeltaTest that applies the two-sample Welch t-test.
func TTest(s1, s2 *Sample) (pval float64, err error) {
	t, err := stats.TwoSampleWelchTTest(s1.sample(), s2.sample(), stats.LocationDiffers)
	if err != nil {
		return -1, err
	}
	return t.P, nil
}

// NoTest is a DeltaTest that applies no significance test.
func NoTest(s1, s2 *Sample) (pval float64, err error) {
	return -1, nil
}

// Compare tests whether s1 and s2 come from the same distribution
// using test, or UTest if test is nil.
//
// If the test itself fails (for example, on too few measurements or
// zero variance), the comparison reports no significant difference
// and carries the test's error as a warning.
func Compare(s1, s2 *Sample, test DeltaTest) Comparison {
	if test == nil {
		test = UTest
	}
	c := Comparison{N1: len(s1.Accepted), N2: len(s2.Accepted), Alpha: s1.Thresholds.CompareAlpha}
	p, err := test(s1, s2)
	if err != nil {
		c.P = 1
		c.Warnings = append(c.Warnings, err)
		return c
	}
	c.P = p
	return c
}
