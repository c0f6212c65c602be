package cleavage

// ResidueCounts is the per-residue cleavage table.  Counts[g][b] is the number
// of sites at boundary b in group Groups[g], for b in [0, ProteinLen].
// Columns 0 and ProteinLen are always zero.
type ResidueCounts struct {
	ProteinLen int
	Groups     []string
	Counts     [][]int
}

// PerResidueCounts tallies sites per boundary and group.  Sites outside the
// protein interior are ignored.
func PerResidueCounts(groups []GroupSites, proteinLen int) ResidueCounts {
	if proteinLen < 0 {
		proteinLen = 0
	}
	rc := ResidueCounts{
		ProteinLen: proteinLen,
		Groups:     make([]string, len(groups)),
		Counts:     make([][]int, len(groups)),
	}
	for i, g := range groups {
		rc.Groups[i] = g.Group
		counts := make([]int, proteinLen+1)
		for _, b := range g.Sites {
			if interior(b, proteinLen) {
				counts[b]++
			}
		}
		rc.Counts[i] = counts
	}
	return rc
}

// Total returns the count at boundary b summed over groups.
func (rc ResidueCounts) Total(b int) int {
	if b < 0 || b > rc.ProteinLen {
		return 0
	}
	n := 0
	for _, c := range rc.Counts {
		n += c[b]
	}
	return n
}
