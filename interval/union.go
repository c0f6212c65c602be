// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import "sort"

// Union is a collection of disjoint intervals stored as a length-2N sequence
// of endpoints: the start of interval #k (numbering from zero) is in element
// [2k] and the (exclusive) end in element [2k+1].  For example the closed
// intervals [5,16] and [20,24] are stored as {5, 17, 20, 25}.  A position is
// covered iff the number of endpoints <= pos is odd.
//
// Contains keeps a cursor so that queries in nondecreasing order cost
// amortized O(1); a Union must not be queried concurrently.
type Union struct {
	endpoints []int
	// cursor is the number of endpoints <= the last queried position.
	cursor int
	// last is the last queried position.
	last int
}

// NewUnion merges ivs with the given adjacency and returns the result as a
// Union.
func NewUnion(ivs []Interval, adjacency int) Union {
	merged := Merge(ivs, adjacency)
	endpoints := make([]int, 0, 2*len(merged))
	for _, iv := range merged {
		endpoints = append(endpoints, iv.Start, iv.End+1)
	}
	return Union{endpoints: endpoints}
}

// searchEndpoints returns the number of endpoints <= pos.
func (u *Union) searchEndpoints(pos int) int {
	return sort.Search(len(u.endpoints), func(i int) bool { return u.endpoints[i] > pos })
}

// Contains checks whether residue pos is covered by the union.  A query
// below the previous one restarts the cursor with a binary search.
func (u *Union) Contains(pos int) bool {
	if pos < u.last {
		u.cursor = u.searchEndpoints(pos)
	} else {
		for u.cursor < len(u.endpoints) && u.endpoints[u.cursor] <= pos {
			u.cursor++
		}
	}
	u.last = pos
	return u.cursor&1 == 1
}

// Index returns the index, in Intervals order, of the interval covering
// residue pos, or -1 if pos is not covered.
func (u *Union) Index(pos int) int {
	idx := u.searchEndpoints(pos)
	if idx&1 == 0 {
		return -1
	}
	return idx / 2
}

// Covered returns the number of residues covered by the union.
func (u *Union) Covered() int {
	n := 0
	for i := 0; i < len(u.endpoints); i += 2 {
		n += u.endpoints[i+1] - u.endpoints[i]
	}
	return n
}

// Len returns the number of disjoint intervals in the union.
func (u *Union) Len() int {
	return len(u.endpoints) / 2
}

// Intervals returns the disjoint intervals, in increasing order.
func (u *Union) Intervals() []Interval {
	ivs := make([]Interval, 0, u.Len())
	for i := 0; i < len(u.endpoints); i += 2 {
		ivs = append(ivs, Interval{Start: u.endpoints[i], End: u.endpoints[i+1] - 1})
	}
	return ivs
}
