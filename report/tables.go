package report

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/lipms/cleavage"
	"github.com/grailbio/lipms/composition"
	"github.com/grailbio/lipms/fragment"
)

// Fragments writes one row per fragment.  Covered sequences are joined with
// '|'.
func Fragments(w io.Writer, frags []fragment.Fragment) error {
	t := tsv.NewWriter(w)
	if err := fragments(t, frags); err != nil {
		return err
	}
	return t.Flush()
}

func fragments(w *tsv.Writer, frags []fragment.Fragment) error {
	if err := writeRow(w, "group", "n_start", "c_end", "n_start_nat", "c_end_nat",
		"peptides", "native_peptides", "cleavages", "native_cleavages",
		"cleavage_sites", "native_cleavage_sites", "covered_sequences"); err != nil {
		return err
	}
	for _, f := range frags {
		if err := writeRow(w,
			f.Group,
			itoa(f.NStart),
			itoa(f.CEnd),
			natCoord(f.NStartNat),
			natCoord(f.CEndNat),
			itoa(f.PeptideCount),
			itoa(f.NativePeptideCount),
			itoa(f.CleavageCount),
			itoa(f.NativeCleavageCount),
			joinInts(f.CleavageSites),
			joinInts(f.NativeCleavageSites),
			strings.Join(f.CoveredSequences, "|"),
		); err != nil {
			return err
		}
	}
	return nil
}

// WriteFragments writes the fragment table to path.
func WriteFragments(ctx context.Context, path string, frags []fragment.Fragment) error {
	return writeFile(ctx, path, func(w *tsv.Writer) error { return fragments(w, frags) })
}

// ResidueCounts writes one row per boundary with a column per group.
func ResidueCounts(w io.Writer, rc cleavage.ResidueCounts) error {
	t := tsv.NewWriter(w)
	if err := residueCounts(t, rc); err != nil {
		return err
	}
	return t.Flush()
}

func residueCounts(w *tsv.Writer, rc cleavage.ResidueCounts) error {
	if err := writeRow(w, append([]string{"residue"}, rc.Groups...)...); err != nil {
		return err
	}
	fields := make([]string, len(rc.Groups)+1)
	for b := 0; b <= rc.ProteinLen; b++ {
		fields[0] = itoa(b)
		for g := range rc.Groups {
			fields[g+1] = itoa(rc.Counts[g][b])
		}
		if err := writeRow(w, fields...); err != nil {
			return err
		}
	}
	return nil
}

// WriteResidueCounts writes the per-residue cleavage table to path.
func WriteResidueCounts(ctx context.Context, path string, rc cleavage.ResidueCounts) error {
	return writeFile(ctx, path, func(w *tsv.Writer) error { return residueCounts(w, rc) })
}

// Histogram writes one row per bin.
func Histogram(w io.Writer, bins []cleavage.Bin) error {
	t := tsv.NewWriter(w)
	if err := histogram(t, bins); err != nil {
		return err
	}
	return t.Flush()
}

func histogram(w *tsv.Writer, bins []cleavage.Bin) error {
	if err := writeRow(w, "group", "numbering", "lo", "hi", "all", "unique"); err != nil {
		return err
	}
	for _, b := range bins {
		if err := writeRow(w, b.Group, b.Numbering.String(), itoa(b.Lo), itoa(b.Hi), itoa(b.All), itoa(b.Unique)); err != nil {
			return err
		}
	}
	return nil
}

// WriteHistogram writes histogram bins to path.
func WriteHistogram(ctx context.Context, path string, bins []cleavage.Bin) error {
	return writeFile(ctx, path, func(w *tsv.Writer) error { return histogram(w, bins) })
}

func evolution(w *tsv.Writer, tab cleavage.EvolutionTable) error {
	if err := writeRow(w, append([]string{"residue"}, tab.Groups...)...); err != nil {
		return err
	}
	fields := make([]string, len(tab.Groups)+1)
	for _, row := range tab.Rows {
		fields[0] = itoa(row.Residue)
		for g, v := range row.Values {
			fields[g+1] = ftoa(v)
		}
		if err := writeRow(w, fields...); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvolution writes the evolution table to path.
func WriteEvolution(ctx context.Context, path string, tab cleavage.EvolutionTable) error {
	return writeFile(ctx, path, func(w *tsv.Writer) error { return evolution(w, tab) })
}

func compositionCells(w *tsv.Writer, profiles []composition.Profile) error {
	if err := writeRow(w, "group", "offset", "amino_acid", "count"); err != nil {
		return err
	}
	for i := range profiles {
		for _, c := range profiles[i].Cells() {
			if err := writeRow(w, c.Group, itoa(c.Offset), string(c.AminoAcid), itoa(c.Count)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteComposition writes the cells of profiles to path.
func WriteComposition(ctx context.Context, path string, profiles []composition.Profile) error {
	return writeFile(ctx, path, func(w *tsv.Writer) error { return compositionCells(w, profiles) })
}

// ChiSquare writes chi-square results.
func ChiSquare(w io.Writer, results []composition.TestResult) error {
	t := tsv.NewWriter(w)
	if err := chiSquare(t, results); err != nil {
		return err
	}
	return t.Flush()
}

func chiSquare(w *tsv.Writer, results []composition.TestResult) error {
	if err := writeRow(w, "group", "offset", "aa_group", "observed", "observed_total",
		"expected", "expected_total", "chi_square", "p", "call"); err != nil {
		return err
	}
	for _, r := range results {
		if err := writeRow(w, r.Profile, itoa(r.Offset), r.Group,
			itoa(r.Observed), itoa(r.ObservedTotal), itoa(r.Expected), itoa(r.ExpectedTotal),
			ftoa(r.ChiSquare), ftoa(r.P), r.Call.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteChiSquare writes chi-square results to path.
func WriteChiSquare(ctx context.Context, path string, results []composition.TestResult) error {
	return writeFile(ctx, path, func(w *tsv.Writer) error { return chiSquare(w, results) })
}
