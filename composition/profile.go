// Package composition counts amino acids flanking cleavage boundaries and
// tests, per flank offset and chemical group, whether the observed sites
// differ from the background of every possible cleavage.
//
// Offsets are signed and exclude 0.  For boundary b, which lies between
// residues b and b+1, offset -k is residue b-k+1 and offset +k is residue
// b+k; offset -1 is the residue before the cut and +1 the one after it.
package composition

import (
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/lipms/peptide"
	"github.com/grailbio/lipms/sequence"
	"github.com/pkg/errors"
)

// Alphabet lists the standard amino acids in profile column order.  Other
// residue letters are not counted.
const Alphabet = "ACDEFGHIKLMNPQRSTVWY"

// NumAminoAcids is len(Alphabet).
const NumAminoAcids = len(Alphabet)

// BackgroundGroup labels profiles built from every interior boundary.
const BackgroundGroup = "background"

// ErrWindow is returned for a non-positive window or when two profiles with
// different windows are compared.
var ErrWindow = errors.New("invalid composition window")

var aaIndex [256]int8

func init() {
	for i := range aaIndex {
		aaIndex[i] = -1
	}
	for i := 0; i < NumAminoAcids; i++ {
		aaIndex[Alphabet[i]] = int8(i)
	}
}

// Profile holds amino acid counts at offsets -Window..-1 and 1..Window.
type Profile struct {
	Group  string
	Window int
	// Counts[OffsetIndex(o)][i] counts Alphabet[i] at offset o.
	Counts [][NumAminoAcids]int
	// Sites is the number of boundaries added.
	Sites int
}

// Cell is one profile entry.
type Cell struct {
	AminoAcid byte
	Offset    int
	Group     string
	Count     int
}

// NewProfile returns an empty profile.
func NewProfile(group string, window int) (Profile, error) {
	if window < 1 {
		return Profile{}, errors.Wrapf(ErrWindow, "window %d", window)
	}
	return Profile{
		Group:  group,
		Window: window,
		Counts: make([][NumAminoAcids]int, 2*window),
	}, nil
}

// Offsets returns the offsets of the profile in column order.
func (p *Profile) Offsets() []int {
	offsets := make([]int, 0, 2*p.Window)
	for o := -p.Window; o <= p.Window; o++ {
		if o != 0 {
			offsets = append(offsets, o)
		}
	}
	return offsets
}

// OffsetIndex returns the row of Counts holding offset o, or -1.
func (p *Profile) OffsetIndex(o int) int {
	switch {
	case o < -p.Window || o > p.Window || o == 0:
		return -1
	case o < 0:
		return o + p.Window
	default:
		return o + p.Window - 1
	}
}

// residue returns the 1-based residue number at offset o from boundary b.
func residue(b, o int) int {
	if o < 0 {
		return b + o + 1
	}
	return b + o
}

// AddBoundary counts the residues flanking boundary b of seq.  Positions
// past either end of the sequence are skipped.
func (p *Profile) AddBoundary(seq sequence.Sequence, b int) {
	p.Sites++
	for _, o := range p.Offsets() {
		aa := aaIndex[seq.At(residue(b, o))]
		if aa < 0 {
			continue
		}
		p.Counts[p.OffsetIndex(o)][aa]++
	}
}

// Count returns the count of amino acid aa at offset o.
func (p *Profile) Count(aa byte, o int) int {
	i, a := p.OffsetIndex(o), aaIndex[aa]
	if i < 0 || a < 0 {
		return 0
	}
	return p.Counts[i][a]
}

// Total returns the number of residues counted at offset o.
func (p *Profile) Total(o int) int {
	i := p.OffsetIndex(o)
	if i < 0 {
		return 0
	}
	n := 0
	for _, c := range p.Counts[i] {
		n += c
	}
	return n
}

// Cells flattens the profile, offset by offset in Alphabet order.
func (p *Profile) Cells() []Cell {
	cells := make([]Cell, 0, 2*p.Window*NumAminoAcids)
	for _, o := range p.Offsets() {
		row := p.Counts[p.OffsetIndex(o)]
		for i := 0; i < NumAminoAcids; i++ {
			cells = append(cells, Cell{AminoAcid: Alphabet[i], Offset: o, Group: p.Group, Count: row[i]})
		}
	}
	return cells
}

// String implements fmt.Stringer.
func (p *Profile) String() string {
	return fmt.Sprintf("%s(window %d, %d sites)", p.Group, p.Window, p.Sites)
}

// BuildProfile counts the flanks of the N- and C-terminal boundaries of
// every peptide that lie strictly inside seq.  The profile takes the group of
// the first peptide.
func BuildProfile(peps []peptide.Peptide, seq sequence.Sequence, window int) (Profile, error) {
	group := ""
	if len(peps) > 0 {
		group = peps[0].Group
	}
	p, err := NewProfile(group, window)
	if err != nil {
		return p, err
	}
	for _, pep := range peps {
		for _, b := range [2]int{pep.NStart - 1, pep.CEnd} {
			if b > 0 && b < seq.Len() {
				p.AddBoundary(seq, b)
			}
		}
	}
	return p, nil
}

// BuildBackgroundProfile counts the flanks of every interior boundary of seq,
// the expectation under random cleavage.
func BuildBackgroundProfile(seq sequence.Sequence, window int) (Profile, error) {
	p, err := NewProfile(BackgroundGroup, window)
	if err != nil {
		return p, err
	}
	for b := 1; b < seq.Len(); b++ {
		p.AddBoundary(seq, b)
	}
	return p, nil
}

// BuildGroupProfiles builds one profile per peptide group, in order of first
// appearance.
func BuildGroupProfiles(peps []peptide.Peptide, seq sequence.Sequence, window int) ([]Profile, error) {
	var profiles []Profile
	for _, g := range peptide.GroupBy(peps) {
		p, err := BuildProfile(g.Peptides, seq, window)
		if err != nil {
			return nil, err
		}
		log.Debug.Printf("composition: %v", &p)
		profiles = append(profiles, p)
	}
	return profiles, nil
}
