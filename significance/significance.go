// Package significance decides which peptide rows are relevant.  Three
// models are provided, each as a Predicate so that they can be chained:
//
//   - a hyperbolic curve in (log2 fold-change, -log10 P) space, controlled
//     by t0 and s0, as used for volcano plots;
//   - a Z-score threshold at a two-sided percentile;
//   - a plain conjunctive P-value / log2 fold-change cutoff.
//
// Rows with a NaN in any input the model needs are never significant.
package significance

import (
	"math"

	"github.com/grailbio/lipms/peptide"
	"gonum.org/v1/gonum/stat/distuv"
)

// Hyperbolic returns the curve |x*t0 / (|x| - t0*s0)|.  ok is false where
// the curve is undefined (|x| <= t0*s0); no point there is significant.
func Hyperbolic(x, t0, s0 float64) (y float64, ok bool) {
	ax := math.Abs(x)
	if math.IsNaN(ax) || ax <= t0*s0 {
		return 0, false
	}
	return math.Abs(x * t0 / (ax - t0*s0)), true
}

// HyperbolicSignificant reports whether the point (fc, p) lies above the
// hyperbolic curve.  The curve is in -log10(P) units; when logP is false, p
// is a raw probability and is transformed before the comparison.
func HyperbolicSignificant(fc, p, t0, s0 float64, logP bool) bool {
	y, ok := Hyperbolic(fc, t0, s0)
	if !ok || math.IsNaN(p) {
		return false
	}
	if !logP {
		if p <= 0 {
			// -log10(0) is +Inf, above any finite curve.
			return true
		}
		p = -math.Log10(p)
	}
	return p > y
}

// ZScoreThreshold returns the standard normal quantile of
// 1 - percentile/100.  For percentile 5 this is ~1.645.  It returns NaN for
// a percentile outside [0, 100], which no Z-score exceeds.
func ZScoreThreshold(percentile float64) float64 {
	if !(percentile >= 0 && percentile <= 100) {
		return math.NaN()
	}
	return distuv.UnitNormal.Quantile(1 - percentile/100)
}

// ZScoreSignificant reports whether |z| exceeds the threshold for
// percentile.
func ZScoreSignificant(z, percentile float64) bool {
	if math.IsNaN(z) {
		return false
	}
	return math.Abs(z) > ZScoreThreshold(percentile)
}

// PLog2FC is the conjunctive cutoff p <= pCutoff && |fc| >= fcCutoff.
func PLog2FC(p, fc, pCutoff, fcCutoff float64) bool {
	if math.IsNaN(p) || math.IsNaN(fc) {
		return false
	}
	return p <= pCutoff && math.Abs(fc) >= fcCutoff
}

// Predicate decides whether a row is relevant.
type Predicate func(r peptide.Row) bool

// HyperbolicPredicate tests (Log2FC, PValue) against the hyperbolic curve.
func HyperbolicPredicate(t0, s0 float64, logP bool) Predicate {
	return func(r peptide.Row) bool {
		return HyperbolicSignificant(r.Log2FC, r.PValue, t0, s0, logP)
	}
}

// ZScorePredicate tests ZScore against the percentile threshold.  The
// quantile is computed once.
func ZScorePredicate(percentile float64) Predicate {
	threshold := ZScoreThreshold(percentile)
	return func(r peptide.Row) bool {
		return !math.IsNaN(r.ZScore) && math.Abs(r.ZScore) > threshold
	}
}

// PLog2FCPredicate tests (PValue, Log2FC) against the plain cutoffs.
func PLog2FCPredicate(pCutoff, fcCutoff float64) Predicate {
	return func(r peptide.Row) bool {
		return PLog2FC(r.PValue, r.Log2FC, pCutoff, fcCutoff)
	}
}

// Chain returns the conjunction of preds.  An empty chain accepts every row.
func Chain(preds ...Predicate) Predicate {
	return func(r peptide.Row) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Filter returns the rows accepted by pred, in input order.
func Filter(rows []peptide.Row, pred Predicate) []peptide.Row {
	var out []peptide.Row
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
