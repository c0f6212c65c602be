// Package peptide defines detected peptide observations and the loader for
// the tabular files they arrive in.
package peptide

import (
	"fmt"
	"math"
	"sort"
)

// Row is one line of a peptide table.  Coordinates are 1-based and
// inclusive, in recombinant numbering.  Missing float values are NaN.
type Row struct {
	Group     string
	NStart    int
	CEnd      int
	Sequence  string
	PValue    float64
	Log2FC    float64
	ZScore    float64
	Intensity float64
}

// Peptide is one detected peptide within an experiment group.
type Peptide struct {
	Group    string
	NStart   int
	CEnd     int
	Sequence string
	// Significance is the P-value the peptide was selected on, NaN if the
	// table did not carry one.
	Significance float64
	// Intensity is the MS1 intensity, NaN if absent.
	Intensity float64
}

// Peptide converts a row to a Peptide.
func (r Row) Peptide() Peptide {
	return Peptide{
		Group:        r.Group,
		NStart:       r.NStart,
		CEnd:         r.CEnd,
		Sequence:     r.Sequence,
		Significance: r.PValue,
		Intensity:    r.Intensity,
	}
}

// String implements fmt.Stringer.
func (p Peptide) String() string {
	return fmt.Sprintf("%s:%d-%d", p.Group, p.NStart, p.CEnd)
}

// Len returns the number of residues spanned by the peptide.
func (p Peptide) Len() int {
	return p.CEnd - p.NStart + 1
}

// Less orders peptides by start, then by end.
func Less(a, b Peptide) bool {
	if a.NStart != b.NStart {
		return a.NStart < b.NStart
	}
	return a.CEnd < b.CEnd
}

// Sort sorts peptides in place by (NStart, CEnd).  The sort is stable so
// duplicate coordinates keep their table order.
func Sort(peps []Peptide) {
	sort.SliceStable(peps, func(i, j int) bool { return Less(peps[i], peps[j]) })
}

// Group is the set of peptides observed in one experiment or condition.
type Group struct {
	Name     string
	Peptides []Peptide
}

// GroupBy partitions peps by group label.  Groups are returned in order of
// first appearance; peptide order inside a group is preserved.
func GroupBy(peps []Peptide) []Group {
	index := map[string]int{}
	var groups []Group
	for _, p := range peps {
		i, ok := index[p.Group]
		if !ok {
			i = len(groups)
			index[p.Group] = i
			groups = append(groups, Group{Name: p.Group})
		}
		groups[i].Peptides = append(groups[i].Peptides, p)
	}
	return groups
}

// FromRows converts rows to peptides.
func FromRows(rows []Row) []Peptide {
	peps := make([]Peptide, len(rows))
	for i, r := range rows {
		peps[i] = r.Peptide()
	}
	return peps
}

// Missing reports whether v is an absent measurement.
func Missing(v float64) bool {
	return math.IsNaN(v)
}
