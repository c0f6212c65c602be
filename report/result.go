package report

import (
	"context"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/lipms/analysis"
	"github.com/grailbio/lipms/composition"
)

// Compression selects the codec of written tables.
type Compression int

const (
	// None writes plain text.
	None Compression = iota
	// Gzip writes .gz files.
	Gzip
	// Snappy writes snappy-framed .sz files.
	Snappy
)

// Ext returns the file extension of tables written with c.
func (c Compression) Ext() string {
	switch c {
	case Gzip:
		return ".tsv.gz"
	case Snappy:
		return ".tsv" + SnappySuffix
	default:
		return ".tsv"
	}
}

// Path returns the path of the named table for prefix.
func Path(prefix, table string, c Compression) string {
	return prefix + "." + table + c.Ext()
}

// Table names.
const (
	TableFragments            = "fragments"
	TableResidueCounts        = "residue_counts"
	TableNativeResidueCounts  = "native_residue_counts"
	TableFragmentCounts       = "fragment_residue_counts"
	TableNativeFragmentCounts = "native_fragment_residue_counts"
	TableHistogram            = "histogram"
	TableEvolution            = "evolution"
	TableComposition          = "composition"
	TableChiSquare            = "chisquare"
	TableMergedFragments      = "merged_fragments"
)

// WriteResult writes every table of res next to prefix.
func WriteResult(ctx context.Context, prefix string, c Compression, res *analysis.Result) error {
	if err := WriteFragments(ctx, Path(prefix, TableFragments, c), res.Fragments); err != nil {
		return err
	}
	if err := WriteResidueCounts(ctx, Path(prefix, TableResidueCounts, c), res.ResidueCounts); err != nil {
		return err
	}
	if err := WriteResidueCounts(ctx, Path(prefix, TableFragmentCounts, c), res.FragmentResidueCounts); err != nil {
		return err
	}
	if res.Map.HasNative() {
		if err := WriteResidueCounts(ctx, Path(prefix, TableNativeResidueCounts, c), res.NativeResidueCounts); err != nil {
			return err
		}
		if err := WriteResidueCounts(ctx, Path(prefix, TableNativeFragmentCounts, c), res.NativeFragmentResidueCounts); err != nil {
			return err
		}
	}
	if err := WriteHistogram(ctx, Path(prefix, TableHistogram, c), res.Histogram); err != nil {
		return err
	}
	if err := WriteEvolution(ctx, Path(prefix, TableEvolution, c), res.Evolution); err != nil {
		return err
	}
	profiles := append([]composition.Profile{res.Background}, res.Profiles...)
	if err := WriteComposition(ctx, Path(prefix, TableComposition, c), profiles); err != nil {
		return err
	}
	return WriteChiSquare(ctx, Path(prefix, TableChiSquare, c), res.ChiSquare)
}

func regions(w *tsv.Writer, regs []analysis.Region) error {
	if err := writeRow(w, "group", "n_start", "c_end", "fragments", "result_sets", "covered"); err != nil {
		return err
	}
	for _, r := range regs {
		if err := writeRow(w, r.Group, itoa(r.Start), itoa(r.End), itoa(r.Fragments), itoa(r.Sets), itoa(r.Covered)); err != nil {
			return err
		}
	}
	return nil
}

// WriteRegions writes merged fragment regions to path.
func WriteRegions(ctx context.Context, path string, regs []analysis.Region) error {
	return writeFile(ctx, path, func(w *tsv.Writer) error { return regions(w, regs) })
}
