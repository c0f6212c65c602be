package analysis

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/lipms/interval"
)

// Region is a recombinant region covered by the fragments of one group in one
// or more result sets.
type Region struct {
	Group string
	interval.Interval
	// Fragments is the number of fragments inside the region.
	Fragments int
	// Sets is the number of distinct result sets contributing to the region.
	Sets int
	// Covered is the number of residues of the region inside a fragment.  It
	// is below the region length only when adjacency joined separate
	// fragments.
	Covered int
}

// MergeResultSets unions, per group, the fragment coordinates of results
// analyzed against the same protein.  Fragments within adjacency residues
// of each other are joined.  Result sets with identical fragment tables are
// counted once.  Groups appear in order of first appearance and regions in
// coordinate order.
func MergeResultSets(results []*Result, adjacency int) []Region {
	type groupFrags struct {
		name string
		ivs  []interval.Interval
		// set[i] is the result-set index of ivs[i].
		set []int
	}
	var (
		groups []*groupFrags
		index  = map[string]*groupFrags{}
		seen   = map[uint64]string{}
	)
	for i, r := range results {
		if prev, ok := seen[r.Digest]; ok {
			log.Printf("merge: %s has the same fragments as %s, skipping", r.Name, prev)
			continue
		}
		seen[r.Digest] = r.Name
		for _, f := range r.Fragments {
			g := index[f.Group]
			if g == nil {
				g = &groupFrags{name: f.Group}
				index[f.Group] = g
				groups = append(groups, g)
			}
			g.ivs = append(g.ivs, f.Interval())
			g.set = append(g.set, i)
		}
	}

	var regions []Region
	for _, g := range groups {
		u := interval.NewUnion(g.ivs, adjacency)
		exact := interval.NewUnion(g.ivs, 0)
		merged := u.Intervals()
		out := make([]Region, len(merged))
		sets := make([]map[int]bool, len(merged))
		for k, iv := range merged {
			out[k] = Region{Group: g.name, Interval: iv}
			sets[k] = map[int]bool{}
		}
		for j, iv := range g.ivs {
			k := u.Index(iv.Start)
			out[k].Fragments++
			sets[k][g.set[j]] = true
		}
		for k := range out {
			out[k].Sets = len(sets[k])
			for pos := out[k].Start; pos <= out[k].End; pos++ {
				if exact.Contains(pos) {
					out[k].Covered++
				}
			}
		}
		log.Debug.Printf("merge: group %s, %d regions, %d residues covered", g.name, len(out), exact.Covered())
		regions = append(regions, out...)
	}
	return regions
}
