package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/lipms/analysis"
	"github.com/grailbio/lipms/report"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const lysozyme = "KVFGRCELAAAMKRHGLDNYRGYSLGNWVCAAKFESNFNTQATNRNTDGSTDYGILQINSRWWCNDGRTP" +
	"GSRNLCNIPCSALLSSDITASVNCAKKIVSDGNGMNAWVAWRNRCKGTDVQAWIRGCRL"

func TestParseEdges(t *testing.T) {
	edges, err := parseEdges("10, 50,100")
	assert.NoError(t, err)
	expect.EQ(t, edges, []int{10, 50, 100})
	edges, err = parseEdges("")
	assert.NoError(t, err)
	expect.EQ(t, len(edges), 0)
	_, err = parseEdges("10,x")
	expect.True(t, err != nil)
}

func TestParseCompression(t *testing.T) {
	for s, want := range map[string]report.Compression{
		"":       report.None,
		"none":   report.None,
		"gzip":   report.Gzip,
		"Snappy": report.Snappy,
	} {
		c, err := parseCompression(s)
		assert.NoError(t, err)
		expect.EQ(t, c, want, s)
	}
	_, err := parseCompression("zstd")
	expect.True(t, err != nil)
}

func TestTableName(t *testing.T) {
	expect.EQ(t, tableName("/data/ctl.tsv.gz"), "ctl")
	expect.EQ(t, tableName("trt"), "trt")
	expect.EQ(t, tableName(".hidden.tsv"), ".hidden")
}

func TestRun(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	write := func(name, data string) string {
		path := filepath.Join(tmpdir, name)
		assert.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))
		return path
	}
	recPath := write("rec.fa", ">rec\nMGSSHHHHH"+lysozyme[:60]+"\n"+lysozyme[60:]+"\n")
	natPath := write("nat.fa", ">nat\n"+lysozyme+"\n")
	header := "group\tn_start\tc_end\tsequence\tpvalue\tlog2fc\tzscore\tintensity\n"
	ctl := write("ctl.tsv", header+
		"ctl\t12\t20\tVFGRCELAA\t0.01\t2\tNA\t1e5\n"+
		"ctl\t18\t30\tLAAAMKRHGLDNY\t0.01\t2\tNA\t1e6\n")
	trt := write("trt.tsv", header+
		"trt\t40\t55\tx\t0.001\t-3\t\t1e8\n")

	out := filepath.Join(tmpdir, "out", "lyz")
	assert.NoError(t, os.MkdirAll(filepath.Dir(out), 0755))
	flags := lipFlags{
		recombinantPath: recPath,
		nativePath:      natPath,
		outPrefix:       out,
		compress:        "none",
		binEdges:        "20,40",
	}
	assert.NoError(t, run(ctx, flags, []string{ctl, trt}, analysis.DefaultOpts))

	for _, name := range []string{"ctl", "trt"} {
		for _, table := range []string{
			report.TableFragments, report.TableResidueCounts, report.TableNativeResidueCounts,
			report.TableFragmentCounts, report.TableNativeFragmentCounts,
			report.TableHistogram, report.TableEvolution, report.TableComposition, report.TableChiSquare,
		} {
			_, err := os.Stat(report.Path(out+"."+name, table, report.None))
			expect.NoError(t, err, "%s %s", name, table)
		}
	}
	data, err := ioutil.ReadFile(report.Path(out, report.TableMergedFragments, report.None))
	assert.NoError(t, err)
	expect.EQ(t, string(data), "group\tn_start\tc_end\tfragments\tresult_sets\tcovered\n"+
		"ctl\t12\t30\t1\t1\t19\n"+
		"trt\t40\t55\t1\t1\t16\n")

	data, err = ioutil.ReadFile(report.Path(out+".ctl", report.TableFragments, report.None))
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.EQ(t, len(lines), 2)
	expect.True(t, strings.HasPrefix(lines[1], "ctl\t12\t30\t3\t21\t2\t2\t2\t2\t11,30\t2,21\t"), lines[1])

	// One count per fragment boundary: rows are residue 0..138.
	data, err = ioutil.ReadFile(report.Path(out+".ctl", report.TableFragmentCounts, report.None))
	assert.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.EQ(t, len(lines), 1+139)
	expect.EQ(t, lines[0], "residue\tctl")
	expect.EQ(t, lines[1+11], "11\t1")
	expect.EQ(t, lines[1+18], "18\t0")
	expect.EQ(t, lines[1+30], "30\t1")

	// Histogram with explicit edges: 0, 20, 40, 138 per numbering.
	data, err = ioutil.ReadFile(report.Path(out+".trt", report.TableHistogram, report.None))
	assert.NoError(t, err)
	expect.EQ(t, strings.Count(string(data), "\n"), 1+3+3)

	flags.recombinantPath = ""
	expect.True(t, run(ctx, flags, []string{ctl}, analysis.DefaultOpts) != nil)
}
