// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package fragment assembles the significant peptides of one experiment group
// into fragments: maximal runs of overlapping or touching peptides, each with
// the set of cleavage boundaries it implies in recombinant and native
// numbering.
package fragment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/lipms/coord"
	"github.com/grailbio/lipms/interval"
	"github.com/grailbio/lipms/peptide"
	"github.com/pkg/errors"
)

var (
	// ErrUnsorted is returned when the input is not ordered by (NStart, CEnd).
	// It indicates a defect in the caller, not in the data.
	ErrUnsorted = errors.New("peptides not sorted by start and end")
	// ErrInvalidPeptide is returned for peptides with impossible coordinates.
	ErrInvalidPeptide = errors.New("invalid peptide coordinates")
)

// Fragment is a maximal run of overlapping or touching peptides.
type Fragment struct {
	Group  string
	NStart int
	CEnd   int
	// NStartNat and CEndNat are coord.Unmapped when the corresponding end has
	// no native counterpart.
	NStartNat int
	CEndNat   int

	PeptideCount int
	// NativePeptideCount counts the members whose both ends map to native
	// numbering.
	NativePeptideCount int

	CleavageCount       int
	NativeCleavageCount int
	// CleavageSites and NativeCleavageSites are sorted 0-based boundaries.
	CleavageSites       []int
	NativeCleavageSites []int

	// CoveredSequences holds the member sequences, each left-padded with
	// spaces to its offset from NStart.
	CoveredSequences []string
}

// String implements fmt.Stringer.
func (f Fragment) String() string {
	return fmt.Sprintf("%s:%d-%d(%d peptides, %d cleavages)", f.Group, f.NStart, f.CEnd, f.PeptideCount, f.CleavageCount)
}

// Interval returns the recombinant extent of the fragment.
func (f Fragment) Interval() interval.Interval {
	return interval.Interval{Start: f.NStart, End: f.CEnd}
}

// state of the assembly scan.
type state int

const (
	idle state = iota
	inFragment
)

// accumulator holds the fragment being built.  It is owned by a single call
// to Assemble.
type accumulator struct {
	state   state
	curN    int
	curC    int
	members []peptide.Peptide
}

func (acc *accumulator) open(p peptide.Peptide) {
	acc.state = inFragment
	acc.curN, acc.curC = p.NStart, p.CEnd
	acc.members = []peptide.Peptide{p}
}

func (acc *accumulator) extend(p peptide.Peptide) {
	if p.CEnd > acc.curC {
		acc.curC = p.CEnd
	}
	acc.members = append(acc.members, p)
}

// Assemble scans peptides, which must all belong to one group and be sorted by
// (NStart, CEnd), and returns the fragments in coordinate order.  proteinLen
// is the recombinant sequence length.  An empty input yields no fragments.
//
// A peptide starting at or before the current fragment's end extends it;
// otherwise the current fragment is closed and a new one opened.  Every
// member contributes candidate cleavage boundaries NStart-1 and CEnd.  A
// candidate is kept if it lies strictly inside the protein and no member
// spans it, i.e. no member covers both residues b and b+1.
func Assemble(peptides []peptide.Peptide, m *coord.Map, proteinLen int) ([]Fragment, error) {
	var (
		acc   accumulator
		frags []Fragment
	)
	for i, p := range peptides {
		if p.NStart < 1 || p.NStart > p.CEnd || p.CEnd > proteinLen {
			return nil, errors.Wrapf(ErrInvalidPeptide, "%v in protein of length %d", p, proteinLen)
		}
		if i > 0 {
			prev := peptides[i-1]
			if p.Group != prev.Group {
				return nil, errors.Wrapf(ErrInvalidPeptide, "%v: group differs from %q", p, prev.Group)
			}
			if peptide.Less(p, prev) {
				return nil, errors.Wrapf(ErrUnsorted, "%v after %v", p, prev)
			}
		}
		switch {
		case acc.state == idle:
			acc.open(p)
		case p.NStart <= acc.curC:
			acc.extend(p)
		default:
			f, err := closeFragment(&acc, m, proteinLen)
			if err != nil {
				return nil, err
			}
			frags = append(frags, f)
			acc.open(p)
		}
	}
	if acc.state == inFragment {
		f, err := closeFragment(&acc, m, proteinLen)
		if err != nil {
			return nil, err
		}
		frags = append(frags, f)
	}
	return frags, nil
}

// closeFragment finalizes the accumulated fragment and resets acc to idle.
func closeFragment(acc *accumulator, m *coord.Map, proteinLen int) (Fragment, error) {
	members := acc.members
	ivs := make([]interval.Interval, len(members))
	for i, p := range members {
		ivs[i] = interval.Interval{Start: p.NStart, End: p.CEnd}
	}
	bounds := interval.Merge(ivs, 0)
	if len(bounds) != 1 || bounds[0].Start != acc.curN || bounds[0].End != acc.curC {
		return Fragment{}, errors.Errorf("fragment %d-%d: members merge into %v", acc.curN, acc.curC, bounds)
	}
	f := Fragment{
		Group:        members[0].Group,
		NStart:       bounds[0].Start,
		CEnd:         bounds[0].End,
		PeptideCount: len(members),
	}
	f.NStartNat, _ = m.ToNative(f.NStart)
	f.CEndNat, _ = m.ToNative(f.CEnd)

	sites := map[int]struct{}{}
	natSites := map[int]struct{}{}
	nativeLen := m.NativeLen()
	for _, p := range members {
		for _, b := range [2]int{p.NStart - 1, p.CEnd} {
			if b <= 0 || b >= proteinLen || spanned(members, b) {
				continue
			}
			sites[b] = struct{}{}
			if nb, ok := m.ToNativeBoundary(b); ok && nb > 0 && nb < nativeLen {
				natSites[nb] = struct{}{}
			}
		}
		_, okN := m.ToNative(p.NStart)
		_, okC := m.ToNative(p.CEnd)
		if okN && okC {
			f.NativePeptideCount++
		}
		f.CoveredSequences = append(f.CoveredSequences, strings.Repeat(" ", p.NStart-f.NStart)+p.Sequence)
	}
	f.CleavageSites = sortedKeys(sites)
	f.NativeCleavageSites = sortedKeys(natSites)
	f.CleavageCount = len(f.CleavageSites)
	f.NativeCleavageCount = len(f.NativeCleavageSites)

	acc.state = idle
	acc.members = nil
	log.Debug.Printf("fragment: closed %v", f)
	return f, nil
}

// spanned reports whether some member covers both residues b and b+1.
func spanned(members []peptide.Peptide, b int) bool {
	for _, p := range members {
		if p.NStart <= b && p.CEnd >= b+1 {
			return true
		}
	}
	return false
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// AssembleGroups sorts a copy of each group's peptides and assembles them.
// Fragments are returned group by group, in the order of groups.
func AssembleGroups(groups []peptide.Group, m *coord.Map, proteinLen int) ([]Fragment, error) {
	var frags []Fragment
	for _, g := range groups {
		peps := make([]peptide.Peptide, len(g.Peptides))
		copy(peps, g.Peptides)
		peptide.Sort(peps)
		f, err := Assemble(peps, m, proteinLen)
		if err != nil {
			return nil, errors.Wrapf(err, "group %s", g.Name)
		}
		log.Debug.Printf("fragment: group %s: %d peptides, %d fragments", g.Name, len(peps), len(f))
		frags = append(frags, f...)
	}
	return frags, nil
}
