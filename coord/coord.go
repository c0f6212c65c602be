// Package coord translates residue numbers between the recombinant numbering
// that peptide coordinates use and the numbering of the native protein.
//
// Inside the overlap region found by the aligner the two numberings differ by
// a constant delta: nat = rec + delta.  Outside it, or when no native sequence
// was supplied, a position is unmapped.  Unmapped is a value, not an error;
// no method of Map fails.
//
// Boundaries map more widely than residues: the boundary just before the
// overlap's first residue maps to the cut before the first native residue of
// the overlap, even though the residue itself is unmapped.  For overlap [71,138] with delta -9, ToNative(70) is unmapped
// but ToNativeBoundary(70) is 61.
package coord

import (
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/lipms/align"
	"github.com/grailbio/lipms/interval"
	"github.com/grailbio/lipms/sequence"
)

// Unmapped is returned, together with false, for positions that have no
// counterpart in the other numbering.
const Unmapped = -1

// Map is an immutable recombinant <-> native translation.  The zero value
// maps nothing.
type Map struct {
	delta     int
	overlap   interval.Interval
	nativeLen int
	hasNative bool
}

// New returns a map with the given offset, overlap (closed, recombinant
// numbering) and native sequence length.
func New(delta int, overlap interval.Interval, nativeLen int) *Map {
	return &Map{
		delta:     delta,
		overlap:   overlap,
		nativeLen: nativeLen,
		hasNative: true,
	}
}

// NoNative returns a map for an analysis without a native sequence.
func NoNative() *Map {
	return &Map{}
}

// FromSequences aligns rec against nat and builds the map from the largest
// overlap.  An empty native sequence yields NoNative().  Alignment errors are
// returned unchanged so that callers can test them with errors.Cause.
func FromSequences(rec, nat sequence.Sequence, opts align.Opts) (*Map, error) {
	if nat.Empty() {
		log.Debug.Printf("coord: no native sequence for %s", rec.Name)
		return NoNative(), nil
	}
	aln, err := align.Align(rec.Residues, nat.Residues, opts)
	if err != nil {
		return nil, err
	}
	overlap, err := align.LargestOverlap(aln)
	if err != nil {
		return nil, err
	}
	m := New(align.Delta(aln, overlap), overlap, nat.Len())
	log.Printf("coord: %s vs %s: %v", rec.Name, nat.Name, m)
	return m, nil
}

// HasNative reports whether a native sequence backs the map.
func (m *Map) HasNative() bool {
	return m != nil && m.hasNative
}

// Delta returns the offset nat - rec.  ok is false without a native sequence.
func (m *Map) Delta() (delta int, ok bool) {
	if !m.HasNative() {
		return 0, false
	}
	return m.delta, true
}

// Overlap returns the overlap region in recombinant numbering.
func (m *Map) Overlap() (iv interval.Interval, ok bool) {
	if !m.HasNative() {
		return interval.Interval{}, false
	}
	return m.overlap, true
}

// NativeLen returns the native sequence length, 0 without one.
func (m *Map) NativeLen() int {
	if !m.HasNative() {
		return 0
	}
	return m.nativeLen
}

// ToNative maps recombinant residue pos.
func (m *Map) ToNative(pos int) (int, bool) {
	if !m.HasNative() || pos < m.overlap.Start || pos > m.overlap.End {
		return Unmapped, false
	}
	return pos + m.delta, true
}

// ToRecombinant maps native residue pos.  It is the inverse of ToNative: a
// native residue maps only if it lies in the native sequence and its
// recombinant counterpart lies inside the overlap.
func (m *Map) ToRecombinant(pos int) (int, bool) {
	if !m.HasNative() || pos < 1 || pos > m.nativeLen {
		return Unmapped, false
	}
	rec := pos - m.delta
	if rec < m.overlap.Start || rec > m.overlap.End {
		return Unmapped, false
	}
	return rec, true
}

// ToNativeBoundary maps the 0-based boundary b, which lies between
// recombinant residues b and b+1.  The boundary maps when at least one of its
// flanking residues lies in the overlap.
func (m *Map) ToNativeBoundary(b int) (int, bool) {
	if !m.HasNative() || b < m.overlap.Start-1 || b > m.overlap.End {
		return Unmapped, false
	}
	return b + m.delta, true
}

// String implements fmt.Stringer.
func (m *Map) String() string {
	if !m.HasNative() {
		return "no native sequence"
	}
	return fmt.Sprintf("delta %d, overlap %v, native length %d", m.delta, m.overlap, m.nativeLen)
}
