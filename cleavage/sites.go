package cleavage

import (
	"math"

	"github.com/grailbio/lipms/coord"
	"github.com/grailbio/lipms/fragment"
	"github.com/grailbio/lipms/peptide"
)

// GroupSites lists the cleavage boundaries observed in one group.
// Intensities[i] is the intensity of the observation behind Sites[i], NaN if
// unknown.  Intensities may be shorter than Sites; missing entries are NaN.
type GroupSites struct {
	Group       string
	Sites       []int
	Intensities []float64
}

func (g *GroupSites) add(b int, intensity float64) {
	g.Sites = append(g.Sites, b)
	g.Intensities = append(g.Intensities, intensity)
}

func (g *GroupSites) intensity(i int) float64 {
	if i >= len(g.Intensities) {
		return math.NaN()
	}
	return g.Intensities[i]
}

func interior(b, length int) bool {
	return b > 0 && b < length
}

// Sites extracts the boundaries NStart-1 and CEnd of every peptide, keeping
// the interior ones.  Groups are returned in order of first appearance.  Each
// site carries the intensity of its peptide.
func Sites(peps []peptide.Peptide, proteinLen int) []GroupSites {
	var out []GroupSites
	for _, g := range peptide.GroupBy(peps) {
		gs := GroupSites{Group: g.Name}
		for _, p := range g.Peptides {
			for _, b := range [2]int{p.NStart - 1, p.CEnd} {
				if interior(b, proteinLen) {
					gs.add(b, p.Intensity)
				}
			}
		}
		out = append(out, gs)
	}
	return out
}

// FromFragments collects the cleavage sets of fragments per group, in
// recombinant or native numbering.  Intensities are unknown.
func FromFragments(frags []fragment.Fragment, native bool) []GroupSites {
	index := map[string]int{}
	var out []GroupSites
	for _, f := range frags {
		i, ok := index[f.Group]
		if !ok {
			i = len(out)
			index[f.Group] = i
			out = append(out, GroupSites{Group: f.Group})
		}
		sites := f.CleavageSites
		if native {
			sites = f.NativeCleavageSites
		}
		for _, b := range sites {
			out[i].add(b, math.NaN())
		}
	}
	return out
}

// NativeSites translates recombinant sites to native numbering.  Sites that
// do not map, or that fall on the native protein ends, are dropped.  Without
// a native sequence every group comes back empty.
func NativeSites(groups []GroupSites, m *coord.Map) []GroupSites {
	out := make([]GroupSites, len(groups))
	nativeLen := m.NativeLen()
	for i, g := range groups {
		out[i].Group = g.Group
		for j, b := range g.Sites {
			if nb, ok := m.ToNativeBoundary(b); ok && interior(nb, nativeLen) {
				out[i].add(nb, g.intensity(j))
			}
		}
	}
	return out
}

// NumSites returns the total number of sites across groups.
func NumSites(groups []GroupSites) int {
	n := 0
	for _, g := range groups {
		n += len(g.Sites)
	}
	return n
}
