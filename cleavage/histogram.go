package cleavage

import (
	"fmt"
	"sort"

	"github.com/grailbio/lipms/sequence"
	"github.com/pkg/errors"
)

// ErrBins is returned when neither a positive window width nor explicit edges
// are configured.
var ErrBins = errors.New("histogram needs a positive window width or bin edges")

// Bins configures a histogram.  Explicit Edges take precedence over Width.
type Bins struct {
	Width int
	Edges []int
}

// Bin is one histogram cell.  The bin covers boundaries [Lo, Hi); the last bin
// of a histogram also includes Hi.
type Bin struct {
	Lo, Hi    int
	Group     string
	All       int
	Unique    int
	Numbering sequence.Role
}

// String implements fmt.Stringer.
func (b Bin) String() string {
	return fmt.Sprintf("%s[%d,%d)%s: %d/%d", b.Group, b.Lo, b.Hi, b.Numbering, b.All, b.Unique)
}

// Edges returns the sorted bin edges for a protein of length proteinLen.
// Explicit edges are deduplicated, clipped to [0, proteinLen] and extended with
// 0 and proteinLen so that every boundary falls in some bin.  A width w yields
// 0, w, 2w, ..., proteinLen; the last bin may be narrower.
func Edges(bins Bins, proteinLen int) ([]int, error) {
	if len(bins.Edges) == 0 {
		if bins.Width <= 0 {
			return nil, errors.Wrapf(ErrBins, "width %d", bins.Width)
		}
		var edges []int
		for e := 0; e < proteinLen; e += bins.Width {
			edges = append(edges, e)
		}
		return append(edges, proteinLen), nil
	}
	edges := []int{0, proteinLen}
	for _, e := range bins.Edges {
		if e > 0 && e < proteinLen {
			edges = append(edges, e)
		}
	}
	sort.Ints(edges)
	n := 1
	for _, e := range edges[1:] {
		if e != edges[n-1] {
			edges[n] = e
			n++
		}
	}
	return edges[:n], nil
}

// Histogram counts the sites of each group per bin.  All counts every
// occurrence; Unique counts distinct boundaries.  Sites outside
// [0, proteinLen] fall in no bin.  The result is ordered by group, then bin.
func Histogram(groups []GroupSites, bins Bins, proteinLen int, numbering sequence.Role) ([]Bin, error) {
	edges, err := Edges(bins, proteinLen)
	if err != nil {
		return nil, err
	}
	if len(edges) < 2 {
		return []Bin{}, nil
	}
	nbins := len(edges) - 1
	out := make([]Bin, 0, nbins*len(groups))
	for _, g := range groups {
		hist := make([]Bin, nbins)
		for i := range hist {
			hist[i] = Bin{Lo: edges[i], Hi: edges[i+1], Group: g.Group, Numbering: numbering}
		}
		seen := map[int]bool{}
		for _, b := range g.Sites {
			if b < 0 || b > proteinLen {
				continue
			}
			// Index of the last edge <= b, clamped so that proteinLen lands in
			// the final bin.
			i := sort.SearchInts(edges, b+1) - 1
			if i >= nbins {
				i = nbins - 1
			}
			hist[i].All++
			if !seen[b] {
				seen[b] = true
				hist[i].Unique++
			}
		}
		out = append(out, hist...)
	}
	return out, nil
}
