package composition

import (
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// AAGroup is a named set of amino acids pooled for testing.
type AAGroup struct {
	Name    string
	Members string
}

// Groups partitions Alphabet by side-chain chemistry.
var Groups = []AAGroup{
	{Name: "Aliphatic", Members: "AILMV"},
	{Name: "Aromatic", Members: "FWY"},
	{Name: "Polar", Members: "NQST"},
	{Name: "Acidic", Members: "DE"},
	{Name: "Basic", Members: "HKR"},
	{Name: "Special", Members: "CGP"},
}

// GroupOf returns the name of the group containing aa, or "".
func GroupOf(aa byte) string {
	for _, g := range Groups {
		if strings.IndexByte(g.Members, aa) >= 0 {
			return g.Name
		}
	}
	return ""
}

// Call classifies one test.
type Call int

const (
	// Neutral means no significant difference.
	Neutral Call = iota
	// Enriched means the group is over-represented in the observed profile.
	Enriched
	// Depleted means the group is under-represented in the observed profile.
	Depleted
)

// String implements fmt.Stringer.
func (c Call) String() string {
	switch c {
	case Enriched:
		return "enriched"
	case Depleted:
		return "depleted"
	default:
		return "neutral"
	}
}

// TestResult is the outcome for one offset and amino acid group.
type TestResult struct {
	// Profile is the group label of the observed profile.
	Profile       string
	Offset        int
	Group         string
	Observed      int
	ObservedTotal int
	Expected      int
	ExpectedTotal int
	ChiSquare     float64
	P             float64
	Call          Call
}

func pooled(p *Profile, o int, members string) int {
	n := 0
	for i := 0; i < len(members); i++ {
		n += p.Count(members[i], o)
	}
	return n
}

// chiSquare2x2 returns Pearson's statistic for [[a, b], [c, d]] without
// continuity correction.  A table with an empty row or column yields 0.
func chiSquare2x2(a, b, c, d int) float64 {
	r1, r2 := float64(a+b), float64(c+d)
	c1, c2 := float64(a+c), float64(b+d)
	if r1 == 0 || r2 == 0 || c1 == 0 || c2 == 0 {
		return 0
	}
	x := float64(a)*float64(d) - float64(b)*float64(c)
	return (r1 + r2) * x * x / (r1 * r2 * c1 * c2)
}

// ChiSquareTest compares, at each offset and for each of Groups, the share
// of the group among observed residues against its share among expected
// residues with a 2x2 chi-square test (one degree of freedom).  A group is
// Enriched or Depleted when p < alpha, by the direction of the difference.
// Swapping observed and expected swaps Enriched and Depleted and leaves the
// statistics unchanged.
func ChiSquareTest(observed, expected Profile, alpha float64) ([]TestResult, error) {
	if observed.Window != expected.Window || observed.Window < 1 {
		return nil, errors.Wrapf(ErrWindow, "windows %d and %d", observed.Window, expected.Window)
	}
	dist := distuv.ChiSquared{K: 1}
	var results []TestResult
	for _, o := range observed.Offsets() {
		obsTotal, expTotal := observed.Total(o), expected.Total(o)
		for _, g := range Groups {
			obs, exp := pooled(&observed, o, g.Members), pooled(&expected, o, g.Members)
			stat := chiSquare2x2(obs, obsTotal-obs, exp, expTotal-exp)
			r := TestResult{
				Profile:       observed.Group,
				Offset:        o,
				Group:         g.Name,
				Observed:      obs,
				ObservedTotal: obsTotal,
				Expected:      exp,
				ExpectedTotal: expTotal,
				ChiSquare:     stat,
				P:             1,
			}
			if stat > 0 {
				r.P = dist.Survival(stat)
			}
			if r.P < alpha {
				// Compare obs/obsTotal with exp/expTotal without dividing.
				switch lhs, rhs := obs*expTotal, exp*obsTotal; {
				case lhs > rhs:
					r.Call = Enriched
				case lhs < rhs:
					r.Call = Depleted
				}
			}
			results = append(results, r)
		}
	}
	return results, nil
}
