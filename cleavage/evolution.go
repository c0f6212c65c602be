// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cleavage

import (
	"math"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/log"
)

// Intensities are rescaled linearly onto [minScaled, maxScaled].
const (
	minScaled = 1.0
	maxScaled = 10.0
)

// EvolutionRow holds, for one boundary, the summed normalized intensity of
// each group.  Values[g] corresponds to EvolutionTable.Groups[g].
type EvolutionRow struct {
	Residue int
	Values  []float64
}

// EvolutionTable is the cleavage evolution across groups.  Rows are sorted by
// residue and cover every boundary observed in at least one group.
type EvolutionTable struct {
	Groups []string
	// Binary is set when all intensities were equal and each observation
	// counts as 1.
	Binary bool
	Rows   []EvolutionRow
}

// residueKey indexes evolution rows by boundary.
type residueKey struct {
	residue int
	max     float64
	row     *EvolutionRow
}

// Compare implements llrb.Comparable.
func (k *residueKey) Compare(c llrb.Comparable) int {
	return k.residue - c.(*residueKey).residue
}

// Evolution computes the evolution table.  Finite intensities of interior
// sites are first rescaled globally onto [1, 10], or all set to 1 when they
// are equal.  Each observation is then divided by the largest rescaled
// intensity observed at the same boundary in any group, and the ratios are
// summed per group.  Observations with a NaN or infinite intensity are left
// out.
func Evolution(groups []GroupSites, proteinLen int) EvolutionTable {
	tab := EvolutionTable{Groups: make([]string, len(groups))}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, g := range groups {
		tab.Groups[i] = g.Group
		for j, b := range g.Sites {
			v := g.intensity(j)
			if !interior(b, proteinLen) || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return tab
	}
	tab.Binary = lo == hi
	scale := func(v float64) float64 {
		if tab.Binary {
			return minScaled
		}
		return minScaled + (maxScaled-minScaled)*(v-lo)/(hi-lo)
	}
	usable := func(b int, v float64) bool {
		return interior(b, proteinLen) && !math.IsNaN(v) && !math.IsInf(v, 0)
	}

	var tree llrb.Tree
	for _, g := range groups {
		for j, b := range g.Sites {
			v := g.intensity(j)
			if !usable(b, v) {
				continue
			}
			s := scale(v)
			if c := tree.Get(&residueKey{residue: b}); c != nil {
				k := c.(*residueKey)
				k.max = math.Max(k.max, s)
				continue
			}
			tree.Insert(&residueKey{
				residue: b,
				max:     s,
				row:     &EvolutionRow{Residue: b, Values: make([]float64, len(groups))},
			})
		}
	}
	for i, g := range groups {
		for j, b := range g.Sites {
			v := g.intensity(j)
			if !usable(b, v) {
				continue
			}
			k := tree.Get(&residueKey{residue: b}).(*residueKey)
			k.row.Values[i] += scale(v) / k.max
		}
	}
	tab.Rows = make([]EvolutionRow, 0, tree.Len())
	tree.Do(func(c llrb.Comparable) bool {
		tab.Rows = append(tab.Rows, *c.(*residueKey).row)
		return false
	})
	log.Debug.Printf("cleavage: evolution over %d groups, %d residues, binary=%v", len(groups), len(tab.Rows), tab.Binary)
	return tab
}
