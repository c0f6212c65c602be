package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/lipms/analysis"
	"github.com/grailbio/lipms/peptide"
	"github.com/grailbio/lipms/report"
	"github.com/grailbio/lipms/sequence"
)

// Collection of options set via cmdline flags
type lipFlags struct {
	recombinantPath string
	nativePath      string
	configPath      string
	outPrefix       string
	compress        string
	binEdges        string
	parallelism     int
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage:
  bio-lip [flags] -recombinant rec.fa -out prefix peptides.tsv [peptides.tsv...]

Flags:`)
	flag.PrintDefaults()
}

func parseCompression(s string) (report.Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return report.None, nil
	case "gzip", "gz":
		return report.Gzip, nil
	case "snappy", "sz":
		return report.Snappy, nil
	}
	return report.None, errors.E(errors.Invalid, "unknown compression", s)
}

// parseEdges parses a comma-separated list of bin edges.
func parseEdges(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var edges []int
	for _, f := range strings.Split(s, ",") {
		e, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.E(errors.Invalid, err, "bin edges", s)
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// tableName returns the base name of path without extensions.
func tableName(path string) string {
	name := filepath.Base(path)
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}

// overlaySettings loads the settings file onto the defaults and reapplies the
// flags given on the command line, so that they take precedence.
func overlaySettings(path string, opts *analysis.Opts) error {
	loaded, err := analysis.LoadOpts(path, analysis.DefaultOpts)
	if err != nil {
		return err
	}
	set := map[*flag.Flag]string{}
	flag.Visit(func(f *flag.Flag) { set[f] = f.Value.String() })
	*opts = loaded
	for f, v := range set {
		if err := f.Value.Set(v); err != nil {
			return errors.E(errors.Invalid, err, "flag", f.Name)
		}
	}
	return nil
}

func run(ctx context.Context, flags lipFlags, paths []string, opts analysis.Opts) error {
	if flags.recombinantPath == "" || flags.outPrefix == "" || len(paths) == 0 {
		return errors.E(errors.Invalid, "-recombinant, -out and at least one peptide table are required")
	}
	compression, err := parseCompression(flags.compress)
	if err != nil {
		return err
	}
	if flags.binEdges != "" {
		if opts.BinEdges, err = parseEdges(flags.binEdges); err != nil {
			return err
		}
	}
	rec, err := sequence.ReadFASTA(ctx, flags.recombinantPath, sequence.Recombinant)
	if err != nil {
		return err
	}
	var nat sequence.Sequence
	if flags.nativePath != "" {
		if nat, err = sequence.ReadFASTA(ctx, flags.nativePath, sequence.Native); err != nil {
			return err
		}
	}
	log.Printf("recombinant %s (%d residues), native %s (%d residues), %d tables",
		rec.Name, rec.Len(), nat.Name, nat.Len(), len(paths))

	results := make([]*analysis.Result, len(paths))
	err = traverse.Each(len(paths), func(i int) error {
		rows, err := peptide.ReadRowsFromPath(ctx, paths[i])
		if err != nil {
			return err
		}
		in := analysis.Input{
			Name:        tableName(paths[i]),
			Recombinant: rec,
			Native:      nat,
			Rows:        rows,
		}
		res, err := analysis.Analyze(ctx, in, opts)
		if err != nil {
			return err
		}
		prefix := flags.outPrefix
		if len(paths) > 1 {
			prefix += "." + in.Name
		}
		results[i] = res
		return report.WriteResult(ctx, prefix, compression, res)
	})
	if err != nil {
		return err
	}

	var stats analysis.Stats
	for _, res := range results {
		stats = stats.Merge(res.Stats)
	}
	if len(paths) > 1 {
		regions := analysis.MergeResultSets(results, opts.MergeAdjacency)
		path := report.Path(flags.outPrefix, report.TableMergedFragments, compression)
		if err := report.WriteRegions(ctx, path, regions); err != nil {
			return err
		}
		log.Printf("%d merged fragment regions", len(regions))
	}
	log.Printf("total: %v", stats)
	return nil
}

func main() {
	flag.Usage = usage
	var (
		flags lipFlags
		opts  = analysis.DefaultOpts
	)
	flag.StringVar(&flags.recombinantPath, "recombinant", "", "FASTA file of the recombinant protein; peptide coordinates use its numbering.")
	flag.StringVar(&flags.nativePath, "native", "", "FASTA file of the native protein. Optional.")
	flag.StringVar(&flags.configPath, "config", "", "YAML, JSON or TOML settings file.")
	flag.StringVar(&flags.outPrefix, "out", "", "Output path prefix.")
	flag.StringVar(&flags.compress, "compress", "none", "Output compression: none, gzip or snappy.")
	flag.StringVar(&flags.binEdges, "bin-edges", "", "Comma-separated histogram bin edges. Overrides -bin-width.")

	flag.StringVar(&opts.Model, "model", analysis.DefaultOpts.Model, "Significance model: plog2fc, hyperbolic, zscore or all.")
	flag.Float64Var(&opts.PValueCutoff, "pvalue-cutoff", analysis.DefaultOpts.PValueCutoff, "P-value cutoff of the plog2fc model.")
	flag.Float64Var(&opts.Log2FCCutoff, "log2fc-cutoff", analysis.DefaultOpts.Log2FCCutoff, "Absolute log2 fold-change cutoff of the plog2fc model.")
	flag.Float64Var(&opts.T0, "t0", analysis.DefaultOpts.T0, "t0 of the hyperbolic curve.")
	flag.Float64Var(&opts.S0, "s0", analysis.DefaultOpts.S0, "s0 of the hyperbolic curve.")
	flag.BoolVar(&opts.LogP, "log-p", analysis.DefaultOpts.LogP, "The pvalue column holds -log10(P).")
	flag.Float64Var(&opts.ZPercentile, "z-percentile", analysis.DefaultOpts.ZPercentile, "Two-sided percentile of the zscore model.")
	flag.Float64Var(&opts.Alpha, "alpha", analysis.DefaultOpts.Alpha, "Significance level of the composition chi-square tests.")
	flag.IntVar(&opts.AAWindow, "aa-window", analysis.DefaultOpts.AAWindow, "Residues counted on each side of a cleavage.")
	flag.IntVar(&opts.BinWidth, "bin-width", analysis.DefaultOpts.BinWidth, "Histogram window width.")
	flag.Float64Var(&opts.GapOpen, "gap-open", analysis.DefaultOpts.GapOpen, "Alignment gap-open score.")
	flag.Float64Var(&opts.GapExtend, "gap-extend", analysis.DefaultOpts.GapExtend, "Alignment gap-extend score.")
	flag.IntVar(&opts.MergeAdjacency, "merge-adjacency", analysis.DefaultOpts.MergeAdjacency, "Adjacency when merging fragment regions across tables.")

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	if flags.configPath != "" {
		if err := overlaySettings(flags.configPath, &opts); err != nil {
			log.Fatalf("%v", err)
		}
	}
	if err := run(ctx, flags, flag.Args(), opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("All done")
}
