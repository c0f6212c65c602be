package cleavage

import (
	"math"
	"math/rand"
	"testing"

	"github.com/grailbio/lipms/coord"
	"github.com/grailbio/lipms/fragment"
	"github.com/grailbio/lipms/interval"
	"github.com/grailbio/lipms/peptide"
	"github.com/grailbio/lipms/sequence"
	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPeptides() []peptide.Peptide {
	return []peptide.Peptide{
		{Group: "a", NStart: 1, CEnd: 5, Intensity: 10},
		{Group: "b", NStart: 3, CEnd: 20, Intensity: 7},
		{Group: "a", NStart: 6, CEnd: 10, Intensity: 20},
	}
}

func TestSites(t *testing.T) {
	groups := Sites(testPeptides(), 20)
	require.Len(t, groups, 2)
	expect.EQ(t, groups[0].Group, "a")
	expect.EQ(t, groups[0].Sites, []int{5, 5, 10})
	expect.EQ(t, groups[0].Intensities, []float64{10, 20, 20})
	expect.EQ(t, groups[1].Group, "b")
	expect.EQ(t, groups[1].Sites, []int{2})
	expect.EQ(t, NumSites(groups), 4)

	expect.EQ(t, len(Sites(nil, 20)), 0)
}

func TestNativeSites(t *testing.T) {
	groups := Sites(testPeptides(), 20)
	m := coord.New(-2, interval.Interval{Start: 3, End: 20}, 18)
	nat := NativeSites(groups, m)
	require.Len(t, nat, 2)
	expect.EQ(t, nat[0].Sites, []int{3, 3, 8})
	expect.EQ(t, nat[0].Intensities, []float64{10, 20, 20})
	// Boundary 2 maps onto the native start.
	expect.EQ(t, len(nat[1].Sites), 0)

	for _, g := range NativeSites(groups, coord.NoNative()) {
		expect.EQ(t, len(g.Sites), 0)
	}
}

func TestFromFragments(t *testing.T) {
	frags := []fragment.Fragment{
		{Group: "a", CleavageSites: []int{1, 8}, NativeCleavageSites: []int{3}},
		{Group: "b", CleavageSites: []int{4}},
		{Group: "a", CleavageSites: []int{9, 12}},
	}
	groups := FromFragments(frags, false)
	require.Len(t, groups, 2)
	expect.EQ(t, groups[0].Sites, []int{1, 8, 9, 12})
	expect.True(t, math.IsNaN(groups[0].Intensities[0]))
	expect.EQ(t, groups[1].Sites, []int{4})

	groups = FromFragments(frags, true)
	expect.EQ(t, groups[0].Sites, []int{3})
	expect.EQ(t, len(groups[1].Sites), 0)
}

func TestPerResidueCounts(t *testing.T) {
	groups := Sites(testPeptides(), 20)
	groups[1].add(0, 1)
	groups[1].add(20, 1)
	rc := PerResidueCounts(groups, 20)
	expect.EQ(t, rc.Groups, []string{"a", "b"})
	require.Len(t, rc.Counts[0], 21)
	expect.EQ(t, rc.Counts[0][5], 2)
	expect.EQ(t, rc.Counts[0][10], 1)
	expect.EQ(t, rc.Counts[1][2], 1)
	expect.EQ(t, rc.Counts[1][0], 0)
	expect.EQ(t, rc.Counts[1][20], 0)
	expect.EQ(t, rc.Total(5), 2)
	expect.EQ(t, rc.Total(99), 0)

	empty := PerResidueCounts(nil, 20)
	expect.EQ(t, len(empty.Counts), 0)
}

func TestEdges(t *testing.T) {
	tests := []struct {
		bins       Bins
		proteinLen int
		want       []int
	}{
		{Bins{Width: 4}, 10, []int{0, 4, 8, 10}},
		{Bins{Width: 5}, 10, []int{0, 5, 10}},
		{Bins{Width: 20}, 10, []int{0, 10}},
		{Bins{Edges: []int{8, 3, 3, 15}}, 10, []int{0, 3, 8, 10}},
		{Bins{Width: 4, Edges: []int{10, 0}}, 10, []int{0, 10}},
	}
	for _, tt := range tests {
		got, err := Edges(tt.bins, tt.proteinLen)
		require.NoError(t, err)
		expect.EQ(t, got, tt.want, "%+v", tt.bins)
	}
	_, err := Edges(Bins{}, 10)
	expect.EQ(t, errors.Cause(err), ErrBins)
	_, err = Edges(Bins{Width: -3}, 10)
	expect.EQ(t, errors.Cause(err), ErrBins)
}

func TestHistogram(t *testing.T) {
	groups := []GroupSites{
		{Group: "a", Sites: []int{5, 5, 10}},
		{Group: "b", Sites: []int{0, 3, 4}},
	}
	bins, err := Histogram(groups, Bins{Width: 4}, 10, sequence.Native)
	require.NoError(t, err)
	require.Len(t, bins, 6)
	want := []Bin{
		{Lo: 0, Hi: 4, Group: "a"},
		{Lo: 4, Hi: 8, Group: "a", All: 2, Unique: 1},
		{Lo: 8, Hi: 10, Group: "a", All: 1, Unique: 1},
		{Lo: 0, Hi: 4, Group: "b", All: 2, Unique: 2},
		{Lo: 4, Hi: 8, Group: "b", All: 1, Unique: 1},
		{Lo: 8, Hi: 10, Group: "b"},
	}
	for i := range want {
		want[i].Numbering = sequence.Native
		expect.EQ(t, bins[i], want[i])
	}

	bins, err = Histogram(nil, Bins{Width: 4}, 10, sequence.Recombinant)
	require.NoError(t, err)
	expect.EQ(t, len(bins), 0)

	_, err = Histogram(groups, Bins{}, 10, sequence.Recombinant)
	expect.EQ(t, errors.Cause(err), ErrBins)
}

func TestHistogramConservation(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	const proteinLen = 137
	for iter := 0; iter < 100; iter++ {
		var groups []GroupSites
		ngroups := 1 + r.Intn(4)
		for g := 0; g < ngroups; g++ {
			var gs GroupSites
			nsites := r.Intn(50)
			for i := 0; i < nsites; i++ {
				gs.add(1+r.Intn(proteinLen-1), 1)
			}
			groups = append(groups, gs)
		}
		for _, bins := range []Bins{
			{Width: 1 + r.Intn(40)},
			{Edges: []int{r.Intn(proteinLen), r.Intn(proteinLen), r.Intn(proteinLen)}},
		} {
			hist, err := Histogram(groups, bins, proteinLen, sequence.Recombinant)
			require.NoError(t, err)
			all := 0
			for _, b := range hist {
				all += b.All
				assert.True(t, b.Unique <= b.All)
			}
			assert.Equal(t, NumSites(groups), all, "%+v", bins)
		}
	}
}

func TestEvolution(t *testing.T) {
	groups := []GroupSites{
		{Group: "a", Sites: []int{5, 5, 10}, Intensities: []float64{10, 20, 20}},
		{Group: "b", Sites: []int{5, 7, 0}, Intensities: []float64{100, math.NaN(), 1000}},
	}
	tab := Evolution(groups, 20)
	expect.False(t, tab.Binary)
	expect.EQ(t, tab.Groups, []string{"a", "b"})
	require.Len(t, tab.Rows, 2)

	// 10 -> 1, 20 -> 2, 100 -> 10.
	expect.EQ(t, tab.Rows[0].Residue, 5)
	assert.InDelta(t, 0.3, tab.Rows[0].Values[0], 1e-12)
	assert.InDelta(t, 1.0, tab.Rows[0].Values[1], 1e-12)
	expect.EQ(t, tab.Rows[1].Residue, 10)
	assert.InDelta(t, 1.0, tab.Rows[1].Values[0], 1e-12)
	assert.InDelta(t, 0.0, tab.Rows[1].Values[1], 1e-12)
}

func TestEvolutionBinary(t *testing.T) {
	groups := []GroupSites{
		{Group: "a", Sites: []int{9, 3, 3}, Intensities: []float64{5, 5, 5}},
		{Group: "b", Sites: []int{3}, Intensities: []float64{5}},
	}
	tab := Evolution(groups, 20)
	expect.True(t, tab.Binary)
	require.Len(t, tab.Rows, 2)
	expect.EQ(t, tab.Rows[0], EvolutionRow{Residue: 3, Values: []float64{2, 1}})
	expect.EQ(t, tab.Rows[1], EvolutionRow{Residue: 9, Values: []float64{1, 0}})
}

func TestEvolutionEmpty(t *testing.T) {
	tab := Evolution(nil, 20)
	expect.EQ(t, len(tab.Rows), 0)
	tab = Evolution([]GroupSites{{Group: "a", Sites: []int{4}, Intensities: []float64{math.NaN()}}}, 20)
	expect.EQ(t, tab.Groups, []string{"a"})
	expect.EQ(t, len(tab.Rows), 0)
}

func TestMissingIntensities(t *testing.T) {
	groups := []GroupSites{
		{Group: "a", Sites: []int{4, 9}},
		{Group: "b", Sites: []int{4, 9}, Intensities: []float64{7}},
	}
	tab := Evolution(groups, 20)
	expect.True(t, tab.Binary)
	require.Len(t, tab.Rows, 1)
	expect.EQ(t, tab.Rows[0], EvolutionRow{Residue: 4, Values: []float64{0, 1}})

	nat := NativeSites(groups, coord.New(2, interval.Interval{Start: 1, End: 20}, 30))
	require.Len(t, nat, 2)
	expect.EQ(t, nat[0].Sites, []int{6, 11})
	expect.True(t, math.IsNaN(nat[0].Intensities[0]))
	expect.EQ(t, nat[1].Intensities[0], 7.0)
	expect.True(t, math.IsNaN(nat[1].Intensities[1]))
}
