package report

import (
	"bytes"
	"io"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/lipms/cleavage"
	"github.com/grailbio/lipms/composition"
	"github.com/grailbio/lipms/coord"
	"github.com/grailbio/lipms/fragment"
	"github.com/grailbio/lipms/sequence"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

var testFragments = []fragment.Fragment{
	{
		Group: "g", NStart: 2, CEnd: 8,
		NStartNat: coord.Unmapped, CEndNat: coord.Unmapped,
		PeptideCount: 2, CleavageCount: 2,
		CleavageSites:    []int{1, 8},
		CoveredSequences: []string{"BCDE", "  DEFGH"},
	},
	{
		Group: "g", NStart: 10, CEnd: 12,
		NStartNat: 1, CEndNat: 3,
		PeptideCount: 1, NativePeptideCount: 1, CleavageCount: 2, NativeCleavageCount: 1,
		CleavageSites:       []int{9, 12},
		NativeCleavageSites: []int{3},
		CoveredSequences:    []string{"JKL"},
	},
}

const testFragmentsTSV = "group\tn_start\tc_end\tn_start_nat\tc_end_nat\tpeptides\tnative_peptides\tcleavages\tnative_cleavages\tcleavage_sites\tnative_cleavage_sites\tcovered_sequences\n" +
	"g\t2\t8\tNA\tNA\t2\t0\t2\t0\t1,8\t\tBCDE|  DEFGH\n" +
	"g\t10\t12\t1\t3\t1\t1\t2\t1\t9,12\t3\tJKL\n"

func TestFragments(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Fragments(&buf, testFragments))
	expect.EQ(t, buf.String(), testFragmentsTSV)

	buf.Reset()
	assert.NoError(t, Fragments(&buf, nil))
	expect.EQ(t, strings.Count(buf.String(), "\n"), 1)
}

func TestHistogram(t *testing.T) {
	bins := []cleavage.Bin{
		{Lo: 0, Hi: 4, Group: "a", All: 3, Unique: 2, Numbering: sequence.Recombinant},
		{Lo: 4, Hi: 6, Group: "a", Numbering: sequence.Native},
	}
	var buf bytes.Buffer
	assert.NoError(t, Histogram(&buf, bins))
	expect.EQ(t, buf.String(), "group\tnumbering\tlo\thi\tall\tunique\n"+
		"a\tRec\t0\t4\t3\t2\n"+
		"a\tNat\t4\t6\t0\t0\n")
}

func TestResidueCounts(t *testing.T) {
	rc := cleavage.PerResidueCounts([]cleavage.GroupSites{
		{Group: "a", Sites: []int{1, 1}},
		{Group: "b", Sites: []int{2}},
	}, 3)
	var buf bytes.Buffer
	assert.NoError(t, ResidueCounts(&buf, rc))
	expect.EQ(t, buf.String(), "residue\ta\tb\n0\t0\t0\n1\t2\t0\n2\t0\t1\n3\t0\t0\n")
}

func TestChiSquare(t *testing.T) {
	results := []composition.TestResult{
		{Profile: "x", Offset: -1, Group: "Basic", Observed: 30, ObservedTotal: 40,
			Expected: 10, ExpectedTotal: 100, ChiSquare: 2.5, P: 0.125, Call: composition.Enriched},
		{Profile: "x", Offset: 1, Group: "Acidic", P: 1, ChiSquare: math.NaN()},
	}
	var buf bytes.Buffer
	assert.NoError(t, ChiSquare(&buf, results))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.EQ(t, len(lines), 3)
	expect.EQ(t, lines[1], "x\t-1\tBasic\t30\t40\t10\t100\t2.5\t0.125\tenriched")
	expect.EQ(t, lines[2], "x\t1\tAcidic\t0\t0\t0\t0\tNA\t1\tneutral")
}

func readAll(t *testing.T, path string) string {
	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close() // nolint: errcheck
	var r io.Reader = f
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		assert.NoError(t, err)
		r = gz
	case strings.HasSuffix(path, SnappySuffix):
		r = snappy.NewReader(f)
	}
	data, err := ioutil.ReadAll(r)
	assert.NoError(t, err)
	return string(data)
}

func TestWriteFiles(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	for _, name := range []string{"fragments.tsv", "fragments.tsv.gz", "fragments.tsv.sz"} {
		path := filepath.Join(tmpdir, name)
		assert.NoError(t, WriteFragments(ctx, path, testFragments))
		expect.EQ(t, readAll(t, path), testFragmentsTSV, name)
	}

	tab := cleavage.Evolution([]cleavage.GroupSites{
		{Group: "a", Sites: []int{3}, Intensities: []float64{5}},
		{Group: "b", Sites: []int{3, 7}, Intensities: []float64{5, 5}},
	}, 10)
	path := filepath.Join(tmpdir, "evolution.tsv")
	assert.NoError(t, WriteEvolution(ctx, path, tab))
	expect.EQ(t, readAll(t, path), "residue\ta\tb\n3\t1\t1\n7\t0\t1\n")

	p, err := composition.NewProfile("x", 1)
	assert.NoError(t, err)
	p.AddBoundary(sequence.New("s", "AC", sequence.Recombinant), 1)
	path = filepath.Join(tmpdir, "composition.tsv")
	assert.NoError(t, WriteComposition(ctx, path, []composition.Profile{p}))
	data := readAll(t, path)
	expect.True(t, strings.HasPrefix(data, "group\toffset\tamino_acid\tcount\nx\t-1\tA\t1\nx\t-1\tC\t0\n"))
	expect.EQ(t, strings.Count(data, "\n"), 1+2*composition.NumAminoAcids)

	path = filepath.Join(tmpdir, "histogram.tsv.gz")
	assert.NoError(t, WriteHistogram(ctx, path, nil))
	expect.EQ(t, readAll(t, path), "group\tnumbering\tlo\thi\tall\tunique\n")

	path = filepath.Join(tmpdir, "residue_counts.tsv")
	assert.NoError(t, WriteResidueCounts(ctx, path, cleavage.PerResidueCounts(nil, 1)))
	expect.EQ(t, readAll(t, path), "residue\n0\n1\n")

	path = filepath.Join(tmpdir, "chisquare.tsv")
	assert.NoError(t, WriteChiSquare(ctx, path, nil))
	expect.EQ(t, strings.Count(readAll(t, path), "\n"), 1)
}
