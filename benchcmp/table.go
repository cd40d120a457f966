// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import (
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/benchkit/benchmath"
)

// FormatText writes rep to w as a textual comparison table of the form
//
//	name    old time/op  new time/op  delta
//	Sort-1  38.1µs ± 0%  25.6µs ± 0%  -32.79% (p=0.000 n=10 r=0+0)
//
// The parenthesized trailer gives the p-value, accepted sample sizes,
// and rejected sample counts. Groups with insufficient data or low
// confidence are annotated instead of silently dropped.
func FormatText(w io.Writer, rep *Report) {
	table := [][]string{{"name", "old time/op", "new time/op", "delta"}}
	for _, res := range rep.Results {
		table = append(table, formatRow(&res))
	}

	max := make([]int, 0, 4)
	for _, row := range table {
		for i, s := range row {
			n := utf8.RuneCountInString(s)
			if i >= len(max) {
				max = append(max, n)
			} else if max[i] < n {
				max[i] = n
			}
		}
	}

	for _, row := range table {
		for i, s := range row {
			switch {
			case i == 0:
				fmt.Fprintf(w, "%-*s", max[i], s)
			case i == len(row)-1:
				// Left-align the final column; it carries
				// the delta with its p-value trailer or an
				// annotation.
				fmt.Fprintf(w, "  %s", s)
			default:
				fmt.Fprintf(w, "  %*s", max[i], s)
			}
		}
		fmt.Fprintf(w, "\n")
	}
}

func formatRow(res *Result) []string {
	if res.Insufficient {
		return []string{
			res.Key.String(),
			"", "",
			fmt.Sprintf("insufficient data (%d+%d accepted)", len(res.Old.Accepted), len(res.New.Accepted)),
		}
	}

	scaler := timeScaler(res.Old.Mean())
	c := res.Comparison
	delta := fmt.Sprintf("%-7s (%s r=%d+%d)",
		c.FormatDelta(res.Old.Mean(), res.New.Mean()), c, len(res.Old.Rejected), len(res.New.Rejected))
	if res.LowConfidence {
		delta += " (low confidence)"
	}
	return []string{
		res.Key.String(),
		formatSide(res.Old, scaler),
		formatSide(res.New, scaler),
		delta,
	}
}

// formatSide formats one side's mean and relative standard deviation,
// such as "38.1µs ± 0%".
func formatSide(s *benchmath.Sample, scaler func(float64) string) string {
	return fmt.Sprintf("%s ±%3s", scaler(s.Mean()), fmt.Sprintf("%.0f%%", s.RelStdDev()*100))
}

// timeScaler returns a formatter for ns/op values, scaled to a unit
// appropriate for the magnitude of ns.
func timeScaler(ns float64) func(float64) string {
	var format string
	var scale float64
	switch x := ns / 1e9; {
	case x >= 99.5:
		format, scale = "%.0fs", 1
	case x >= 9.95:
		format, scale = "%.1fs", 1
	case x >= 0.995:
		format, scale = "%.2fs", 1
	case x >= 0.0995:
		format, scale = "%.0fms", 1000
	case x >= 0.00995:
		format, scale = "%.1fms", 1000
	case x >= 0.000995:
		format, scale = "%.2fms", 1000
	case x >= 0.0000995:
		format, scale = "%.0fµs", 1000*1000
	case x >= 0.00000995:
		format, scale = "%.1fµs", 1000*1000
	case x >= 0.000000995:
		format, scale = "%.2fµs", 1000*1000
	case x >= 0.0000000995:
		format, scale = "%.0fns", 1000*1000*1000
	case x >= 0.00000000995:
		format, scale = "%.1fns", 1000*1000*1000
	default:
		format, scale = "%.2fns", 1000*1000*1000
	}
	return func(ns float64) string {
		return fmt.Sprintf(format, ns/1e9*scale)
	}
}
