// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package align computes global alignments between a recombinant protein and
// its native counterpart, and derives from them the region where the two share
// residue numbering up to a constant offset.
package align

import (
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/lipms/interval"
	"github.com/pkg/errors"
)

// Gap is the character used for gaps in aligned sequences.
const Gap = '-'

// MaxCells bounds (len(a)+1)*(len(b)+1).  The traceback takes one byte per
// cell, so the limit caps it at 1 GiB, about 32k residues on each side.
const MaxCells = 1 << 30

var (
	// ErrAlignment is returned when an alignment cannot be computed, e.g.
	// because one of the sequences is empty.
	ErrAlignment = errors.New("alignment impossible")
	// ErrNoOverlap is returned when an alignment has no identical aligned
	// residue.
	ErrNoOverlap = errors.New("no overlap between aligned sequences")
)

// Opts holds the affine gap penalties.  A gap of length L costs
// GapOpen + (L-1)*GapExtend.  Both are normally negative.
type Opts struct {
	GapOpen   float64
	GapExtend float64
}

// DefaultOpts are the EMBOSS-style protein gap penalties.
var DefaultOpts = Opts{
	GapOpen:   -10,
	GapExtend: -0.5,
}

// Alignment is a global alignment.  A and B have equal length and contain
// Gap where a residue of the other sequence has no partner.
type Alignment struct {
	A, B  string
	Score float64
}

// state is one of the three Gotoh matrices.
type state uint8

const (
	// stMatch: a[i] aligned to b[j].
	stMatch state = iota
	// stGapB: a[i] aligned to a gap.
	stGapB
	// stGapA: b[j] aligned to a gap.
	stGapA
)

// traceback packs the predecessor state of each of the three matrices for one
// cell: bits 0-1 for stMatch, 2-3 for stGapB, 4-5 for stGapA.
type traceback uint8

func (t traceback) prev(s state) state {
	return state((t >> (2 * s)) & 3)
}

func (t *traceback) set(s, prev state) {
	*t |= traceback(prev) << (2 * s)
}

// argmax3 returns the largest of the three values and its state, preferring
// earlier states on ties.
func argmax3(m, x, y float64) (float64, state) {
	best, s := m, stMatch
	if x > best {
		best, s = x, stGapB
	}
	if y > best {
		best, s = y, stGapA
	}
	return best, s
}

// Align computes the optimal global alignment of a and b under BLOSUM62 with
// affine gap penalties (Gotoh).  End gaps are penalized like internal ones.
// On ties the traceback prefers a match, then a gap in b, then a gap in a.
// Memory is O(len(a)*len(b)); inputs beyond MaxCells fail with ErrAlignment.
func Align(a, b string, opts Opts) (Alignment, error) {
	if len(a) == 0 || len(b) == 0 {
		return Alignment{}, errors.Wrapf(ErrAlignment, "empty sequence (lengths %d, %d)", len(a), len(b))
	}
	n, m := len(a), len(b)
	if int64(n+1)*int64(m+1) > MaxCells {
		return Alignment{}, errors.Wrapf(ErrAlignment, "sequences too long (lengths %d, %d)", n, m)
	}
	negInf := math.Inf(-1)
	open, ext := opts.GapOpen, opts.GapExtend

	// Scores are kept for two rows only; the traceback is (n+1) x (m+1),
	// row-major.
	cols := m + 1
	tb := make([]traceback, (n+1)*cols)
	prevM, prevX, prevY := make([]float64, cols), make([]float64, cols), make([]float64, cols)
	curM, curX, curY := make([]float64, cols), make([]float64, cols), make([]float64, cols)

	prevM[0], prevX[0], prevY[0] = 0, negInf, negInf
	for j := 1; j <= m; j++ {
		prevM[j], prevX[j] = negInf, negInf
		prevY[j] = open + float64(j-1)*ext
		if j > 1 {
			tb[j].set(stGapA, stGapA)
		}
	}
	for i := 1; i <= n; i++ {
		curM[0], curY[0] = negInf, negInf
		curX[0] = open + float64(i-1)*ext
		if i > 1 {
			tb[i*cols].set(stGapB, stGapB)
		}
		ai := a[i-1]
		for j := 1; j <= m; j++ {
			var t traceback
			best, s := argmax3(prevM[j-1], prevX[j-1], prevY[j-1])
			curM[j] = best + float64(Blosum62(ai, b[j-1]))
			t.set(stMatch, s)

			// Opening from stMatch and from the other gap state cost the same;
			// argmax3 keeps stMatch on ties.
			best, s = argmax3(prevM[j]+open, prevX[j]+ext, prevY[j]+open)
			curX[j] = best
			t.set(stGapB, s)

			best, s = argmax3(curM[j-1]+open, curX[j-1]+open, curY[j-1]+ext)
			curY[j] = best
			t.set(stGapA, s)

			tb[i*cols+j] = t
		}
		prevM, curM = curM, prevM
		prevX, curX = curX, prevX
		prevY, curY = curY, prevY
	}
	score, s := argmax3(prevM[m], prevX[m], prevY[m])

	// Trace back from (n, m).
	alnA := make([]byte, 0, n+m)
	alnB := make([]byte, 0, n+m)
	i, j := n, m
	for i > 0 || j > 0 {
		t := tb[i*cols+j]
		switch {
		case i == 0:
			s = stGapA
		case j == 0:
			s = stGapB
		}
		switch s {
		case stMatch:
			alnA = append(alnA, a[i-1])
			alnB = append(alnB, b[j-1])
			s = t.prev(stMatch)
			i--
			j--
		case stGapB:
			alnA = append(alnA, a[i-1])
			alnB = append(alnB, Gap)
			s = t.prev(stGapB)
			i--
		case stGapA:
			alnA = append(alnA, Gap)
			alnB = append(alnB, b[j-1])
			s = t.prev(stGapA)
			j--
		}
	}
	reverse(alnA)
	reverse(alnB)
	log.Debug.Printf("align: %d x %d residues, score %.1f, %d columns", n, m, score, len(alnA))
	return Alignment{A: string(alnA), B: string(alnB), Score: score}, nil
}

func reverse(s []byte) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// LargestOverlap returns the longest run of aligned columns in which both
// sequences carry the same residue.  A gap or a mismatch ends a run.  If
// several runs tie, the leftmost one wins.  The result is a closed range of
// 1-based residue numbers of aln.A.
func LargestOverlap(aln Alignment) (interval.Interval, error) {
	var (
		best     interval.Interval
		bestLen  int
		runStart int
		runLen   int
		posA     int
	)
	for k := 0; k < len(aln.A) && k < len(aln.B); k++ {
		ca, cb := aln.A[k], aln.B[k]
		if ca != Gap {
			posA++
		}
		if ca == Gap || cb == Gap || ca != cb {
			runLen = 0
			continue
		}
		if runLen == 0 {
			runStart = posA
		}
		runLen++
		if runLen > bestLen {
			bestLen = runLen
			best = interval.Interval{Start: runStart, End: posA}
		}
	}
	if bestLen == 0 {
		return interval.Interval{}, ErrNoOverlap
	}
	return best, nil
}

// Delta returns the additive offset d such that residue r of aln.A is residue
// r+d of aln.B inside overlap, computed as the number of gaps in A minus the
// number of gaps in B before the overlap's first column.  overlap must have
// been produced by LargestOverlap on the same alignment.
func Delta(aln Alignment, overlap interval.Interval) int {
	var gapsA, gapsB, posA int
	for k := 0; k < len(aln.A) && k < len(aln.B); k++ {
		if aln.A[k] != Gap {
			posA++
			if posA == overlap.Start {
				break
			}
		} else {
			gapsA++
		}
		if aln.B[k] == Gap {
			gapsB++
		}
	}
	return gapsA - gapsB
}
