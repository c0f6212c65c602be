// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"sort"
)

// Interval is a closed residue range [Start, End].
type Interval struct {
	Start int
	End   int
}

// Len returns the number of residues in the interval.
func (iv Interval) Len() int {
	return iv.End - iv.Start + 1
}

// String implements fmt.Stringer.
func (iv Interval) String() string {
	return fmt.Sprintf("[%d,%d]", iv.Start, iv.End)
}

// Merge returns the union of ivs as a sorted list of disjoint intervals.
// Interval (a2, b2) is folded into the running interval (a, b) when
// a2 <= b+adjacency; adjacency 0 merges overlapping or touching intervals
// only, adjacency 1 also merges abutting ones.  ivs is not modified.  An
// empty input yields an empty (non-nil) result.
func Merge(ivs []Interval, adjacency int) []Interval {
	merged := []Interval{}
	if len(ivs) == 0 {
		return merged
	}
	sorted := make([]Interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})
	cur := sorted[0]
	for _, iv := range sorted[1:] {
		if iv.Start <= cur.End+adjacency {
			if iv.End > cur.End {
				cur.End = iv.End
			}
			continue
		}
		merged = append(merged, cur)
		cur = iv
	}
	return append(merged, cur)
}
