package analysis

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/lipms/cleavage"
	"github.com/grailbio/lipms/composition"
	"github.com/grailbio/lipms/coord"
	"github.com/grailbio/lipms/fragment"
	"github.com/grailbio/lipms/peptide"
	"github.com/grailbio/lipms/sequence"
	"github.com/grailbio/lipms/significance"
	"github.com/pkg/errors"
)

// Input is one peptide table with the sequences it was measured against.
type Input struct {
	// Name identifies the table in logs and merged output.
	Name        string
	Recombinant sequence.Sequence
	// Native may be empty, in which case every native value is unmapped.
	Native sequence.Sequence
	Rows   []peptide.Row
}

// Result holds every table derived from one Input.
type Result struct {
	Name string
	Map  *coord.Map

	Relevant  []peptide.Peptide
	Fragments []fragment.Fragment
	// Digest fingerprints Fragments.
	Digest uint64

	Sites               []cleavage.GroupSites
	NativeSites         []cleavage.GroupSites
	ResidueCounts       cleavage.ResidueCounts
	NativeResidueCounts cleavage.ResidueCounts
	// FragmentResidueCounts tallies the fragment cleavage sets, one site per
	// fragment boundary regardless of how many peptides share it.
	FragmentResidueCounts       cleavage.ResidueCounts
	NativeFragmentResidueCounts cleavage.ResidueCounts
	// Histogram holds recombinant bins followed by native bins, if any.
	Histogram []cleavage.Bin
	Evolution cleavage.EvolutionTable

	Background composition.Profile
	Profiles   []composition.Profile
	ChiSquare  []composition.TestResult

	Stats Stats
}

// Analyze runs the pipeline.  Alignment, ordering and configuration errors
// abort the run; unmapped native coordinates and empty selections do not.
func Analyze(ctx context.Context, in Input, opts Opts) (*Result, error) {
	res := &Result{Name: in.Name}
	res.Stats.Inputs = 1
	res.Stats.Rows = len(in.Rows)
	proteinLen := in.Recombinant.Len()

	pred, err := opts.Predicate()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res.Map, err = coord.FromSequences(in.Recombinant, in.Native, opts.AlignOpts()); err != nil {
		return nil, errors.Wrapf(err, "%s: map %s to %s", in.Name, in.Recombinant.Name, in.Native.Name)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Relevant = peptide.FromRows(significance.Filter(in.Rows, pred))
	res.Stats.Relevant = len(res.Relevant)
	groups := peptide.GroupBy(res.Relevant)
	res.Stats.Groups = len(groups)
	log.Printf("%s: %d of %d rows relevant under %s, %d groups", in.Name, len(res.Relevant), len(in.Rows), opts.Model, len(groups))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res.Fragments, err = fragment.AssembleGroups(groups, res.Map, proteinLen); err != nil {
		return nil, errors.Wrap(err, in.Name)
	}
	res.Digest = fragment.Digest(res.Fragments)
	res.Stats.Fragments = len(res.Fragments)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err = cleavageStage(res, opts, proteinLen); err != nil {
		return nil, errors.Wrap(err, in.Name)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err = compositionStage(res, in.Recombinant, opts); err != nil {
		return nil, errors.Wrap(err, in.Name)
	}
	log.Printf("%s: %v", in.Name, res.Stats)
	return res, nil
}

func cleavageStage(res *Result, opts Opts, proteinLen int) error {
	res.Sites = cleavage.Sites(res.Relevant, proteinLen)
	res.NativeSites = cleavage.NativeSites(res.Sites, res.Map)
	res.Stats.CleavageSites = cleavage.NumSites(res.Sites)
	res.Stats.NativeCleavageSites = cleavage.NumSites(res.NativeSites)

	res.ResidueCounts = cleavage.PerResidueCounts(res.Sites, proteinLen)
	nativeLen := res.Map.NativeLen()
	res.NativeResidueCounts = cleavage.PerResidueCounts(res.NativeSites, nativeLen)
	res.FragmentResidueCounts = cleavage.PerResidueCounts(cleavage.FromFragments(res.Fragments, false), proteinLen)
	res.NativeFragmentResidueCounts = cleavage.PerResidueCounts(cleavage.FromFragments(res.Fragments, true), nativeLen)

	var err error
	if res.Histogram, err = cleavage.Histogram(res.Sites, opts.Bins(), proteinLen, sequence.Recombinant); err != nil {
		return err
	}
	if res.Map.HasNative() {
		nat, err := cleavage.Histogram(res.NativeSites, opts.Bins(), nativeLen, sequence.Native)
		if err != nil {
			return err
		}
		res.Histogram = append(res.Histogram, nat...)
	}
	res.Evolution = cleavage.Evolution(res.Sites, proteinLen)
	log.Debug.Printf("%s: %d cleavage sites, %d native, %d evolution residues",
		res.Name, res.Stats.CleavageSites, res.Stats.NativeCleavageSites, len(res.Evolution.Rows))
	return nil
}

func compositionStage(res *Result, seq sequence.Sequence, opts Opts) error {
	var err error
	if res.Background, err = composition.BuildBackgroundProfile(seq, opts.AAWindow); err != nil {
		return err
	}
	if res.Profiles, err = composition.BuildGroupProfiles(res.Relevant, seq, opts.AAWindow); err != nil {
		return err
	}
	for _, p := range res.Profiles {
		tests, err := composition.ChiSquareTest(p, res.Background, opts.Alpha)
		if err != nil {
			return err
		}
		res.ChiSquare = append(res.ChiSquare, tests...)
	}
	return nil
}
