package analysis

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/lipms/align"
	"github.com/grailbio/lipms/cleavage"
	"github.com/grailbio/lipms/significance"
	"github.com/spf13/viper"
)

// Significance models accepted by Opts.Model.
const (
	ModelPLog2FC    = "plog2fc"
	ModelHyperbolic = "hyperbolic"
	ModelZScore     = "zscore"
	// ModelAll keeps every row.
	ModelAll = "all"
)

// Opts configures an analysis.  The mapstructure tags are the keys accepted
// in a settings file.
type Opts struct {
	// Model selects the significance predicate applied to peptide rows.
	Model string `mapstructure:"model"`
	// PValueCutoff and Log2FCCutoff parameterize ModelPLog2FC.
	PValueCutoff float64 `mapstructure:"pvalue-cutoff"`
	Log2FCCutoff float64 `mapstructure:"log2fc-cutoff"`
	// T0 and S0 shape the hyperbolic curve.  LogP tells whether the table's
	// pvalue column already holds -log10(P).
	T0   float64 `mapstructure:"t0"`
	S0   float64 `mapstructure:"s0"`
	LogP bool    `mapstructure:"log-p"`
	// ZPercentile is the two-sided percentile for ModelZScore.
	ZPercentile float64 `mapstructure:"z-percentile"`

	// Alpha is the significance level of the composition chi-square tests.
	Alpha float64 `mapstructure:"alpha"`
	// AAWindow is the number of residues counted on each side of a cleavage.
	AAWindow int `mapstructure:"aa-window"`

	// BinWidth is the histogram window; BinEdges, if set, replace it.
	BinWidth int   `mapstructure:"bin-width"`
	BinEdges []int `mapstructure:"bin-edges"`

	GapOpen   float64 `mapstructure:"gap-open"`
	GapExtend float64 `mapstructure:"gap-extend"`

	// MergeAdjacency is the adjacency used when fragment regions of several
	// result sets are merged.
	MergeAdjacency int `mapstructure:"merge-adjacency"`
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	Model:          ModelPLog2FC,
	PValueCutoff:   0.05,
	Log2FCCutoff:   1,
	T0:             1,
	S0:             0.1,
	LogP:           false,
	ZPercentile:    5,
	Alpha:          0.05,
	AAWindow:       4,
	BinWidth:       10,
	GapOpen:        align.DefaultOpts.GapOpen,
	GapExtend:      align.DefaultOpts.GapExtend,
	MergeAdjacency: 0,
}

// LoadOpts overlays the settings file at path (YAML, JSON or TOML, by
// extension) on opts.  Keys absent from the file keep their value in opts.
func LoadOpts(path string, opts Opts) (Opts, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return opts, errors.E(errors.Invalid, err, "read settings", path)
	}
	if err := v.Unmarshal(&opts); err != nil {
		return opts, errors.E(errors.Invalid, err, "decode settings", path)
	}
	return opts, nil
}

// AlignOpts returns the gap penalties for the aligner.
func (o Opts) AlignOpts() align.Opts {
	return align.Opts{GapOpen: o.GapOpen, GapExtend: o.GapExtend}
}

// Bins returns the histogram configuration.
func (o Opts) Bins() cleavage.Bins {
	return cleavage.Bins{Width: o.BinWidth, Edges: o.BinEdges}
}

// Predicate returns the significance predicate selected by Model.
func (o Opts) Predicate() (significance.Predicate, error) {
	switch o.Model {
	case ModelPLog2FC:
		return significance.PLog2FCPredicate(o.PValueCutoff, o.Log2FCCutoff), nil
	case ModelHyperbolic:
		return significance.HyperbolicPredicate(o.T0, o.S0, o.LogP), nil
	case ModelZScore:
		if !(o.ZPercentile > 0 && o.ZPercentile <= 100) {
			return nil, errors.E(errors.Invalid, "z-percentile outside (0, 100]", fmt.Sprint(o.ZPercentile))
		}
		return significance.ZScorePredicate(o.ZPercentile), nil
	case ModelAll, "":
		return significance.Chain(), nil
	}
	return nil, errors.E(errors.Invalid, "unknown significance model", o.Model)
}
