package significance

import (
	"math"
	"testing"

	"github.com/grailbio/lipms/peptide"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
)

func TestHyperbolic(t *testing.T) {
	tests := []struct {
		x, t0, s0 float64
		want      float64
		wantOK    bool
	}{
		{2, 1, 1, 2, true},
		{-2, 1, 1, 2, true},
		{4, 0.5, 2, 2.0 / 3, true},
		{1, 1, 1, 0, false},
		{0.5, 1, 1, 0, false},
		{math.NaN(), 1, 1, 0, false},
	}
	for _, tt := range tests {
		got, ok := Hyperbolic(tt.x, tt.t0, tt.s0)
		expect.EQ(t, ok, tt.wantOK, "x=%v", tt.x)
		if ok {
			assert.InDelta(t, tt.want, got, 1e-12)
		}
	}
}

func TestHyperbolicSignificant(t *testing.T) {
	tests := []struct {
		name  string
		fc, p float64
		logP  bool
		want  bool
	}{
		{"raw p above curve", 2, 0.001, false, true},
		{"raw p below curve", 2, 0.1, false, false},
		{"negative fold change", -2, 0.001, false, true},
		{"log p above curve", 2, 3, true, true},
		{"log p on curve", 2, 2, true, false},
		{"inside asymptote", 0.9, 1e-10, false, false},
		{"zero p", 2, 0, false, true},
		{"missing p", 2, math.NaN(), false, false},
	}
	for _, tt := range tests {
		expect.EQ(t, HyperbolicSignificant(tt.fc, tt.p, 1, 1, tt.logP), tt.want, tt.name)
	}
}

func TestZScoreThreshold(t *testing.T) {
	assert.InDelta(t, 1.6448536, ZScoreThreshold(5), 1e-6)
	assert.InDelta(t, 1.9599640, ZScoreThreshold(2.5), 1e-6)
	assert.InDelta(t, 0, ZScoreThreshold(50), 1e-9)
	expect.True(t, math.IsInf(ZScoreThreshold(0), 1))
	expect.True(t, math.IsNaN(ZScoreThreshold(150)))
	expect.True(t, math.IsNaN(ZScoreThreshold(-1)))
	expect.True(t, math.IsNaN(ZScoreThreshold(math.NaN())))
	expect.False(t, ZScoreSignificant(100, 150))
	expect.False(t, ZScorePredicate(-5)(peptide.Row{ZScore: 100}))

	expect.True(t, ZScoreSignificant(2, 5))
	expect.True(t, ZScoreSignificant(-2, 5))
	expect.False(t, ZScoreSignificant(1.5, 5))
	expect.False(t, ZScoreSignificant(math.NaN(), 5))
}

func TestPLog2FC(t *testing.T) {
	expect.True(t, PLog2FC(0.01, 1, 0.05, 1))
	expect.True(t, PLog2FC(0.05, -1.5, 0.05, 1))
	expect.False(t, PLog2FC(0.06, 2, 0.05, 1))
	expect.False(t, PLog2FC(0.01, 0.5, 0.05, 1))
	expect.False(t, PLog2FC(math.NaN(), 2, 0.05, 1))
}

func TestChainAndFilter(t *testing.T) {
	rows := []peptide.Row{
		{Group: "a", NStart: 1, CEnd: 5, PValue: 0.001, Log2FC: 3, ZScore: 2.5},
		{Group: "a", NStart: 3, CEnd: 9, PValue: 0.001, Log2FC: 3, ZScore: 0.2},
		{Group: "a", NStart: 6, CEnd: 9, PValue: 0.4, Log2FC: 3, ZScore: 2.5},
		{Group: "a", NStart: 8, CEnd: 9, PValue: math.NaN(), Log2FC: math.NaN(), ZScore: math.NaN()},
	}
	expect.EQ(t, len(Filter(rows, Chain())), 4)
	expect.EQ(t, len(Filter(rows, PLog2FCPredicate(0.05, 1))), 2)
	expect.EQ(t, len(Filter(rows, ZScorePredicate(5))), 2)
	expect.EQ(t, len(Filter(rows, HyperbolicPredicate(1, 1, false))), 2)

	both := Filter(rows, Chain(PLog2FCPredicate(0.05, 1), ZScorePredicate(5)))
	expect.EQ(t, len(both), 1)
	expect.EQ(t, both[0].NStart, 1)
	expect.EQ(t, len(Filter(nil, Chain())), 0)
}
