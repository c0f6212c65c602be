// Package sequence holds the protein sequences an analysis is run against,
// and parses them from FASTA.  Briefly, FASTA files consist of a number of
// named sequences that may be interrupted by newlines.  For example:
//
// >sp|P00698|LYSC_CHICK
// KVFGRCELAAAMKRHGLDNYRGYSLGNWVCAAKFESNFNTQATNRNTDGSTDYGILQINSRWWCNDGRTP
// GSRNLCNIPCSALLSSDITASVNCAKKIVSDGNGMNAWVAWRNRCKGTDVQAWIRGCRL
//
// Only the first record of a file is used.  Sequence names are the stretch of
// characters excluding spaces immediately after '>'.
package sequence

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

const bufferInitSize = 1024 * 1024

// Role distinguishes the numbering reference from the wild-type sequence.
type Role int

const (
	// Recombinant is the expressed protein; peptide coordinates use its
	// numbering.
	Recombinant Role = iota
	// Native is the natural protein, related to the recombinant one by a
	// constant offset inside their overlap.
	Native
)

// String implements fmt.Stringer.
func (r Role) String() string {
	if r == Native {
		return "Nat"
	}
	return "Rec"
}

// Sequence is an immutable protein residue string.
type Sequence struct {
	Name     string
	Residues string
	Role     Role
}

// New returns a Sequence with upper-cased residues and whitespace removed.
func New(name, residues string, role Role) Sequence {
	return Sequence{
		Name:     name,
		Residues: strings.ToUpper(strings.Join(strings.Fields(residues), "")),
		Role:     role,
	}
}

// Len returns the number of residues.
func (s Sequence) Len() int {
	return len(s.Residues)
}

// Empty reports whether the sequence has no residues.
func (s Sequence) Empty() bool {
	return len(s.Residues) == 0
}

// At returns the residue at the 1-based position pos, or 0 if pos is out of
// range.
func (s Sequence) At(pos int) byte {
	if pos < 1 || pos > len(s.Residues) {
		return 0
	}
	return s.Residues[pos-1]
}

// Sub returns residues [start, end], 1-based inclusive, clipped to the
// sequence.
func (s Sequence) Sub(start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(s.Residues) {
		end = len(s.Residues)
	}
	if end < start {
		return ""
	}
	return s.Residues[start-1 : end]
}

// ParseFASTA reads the first record from r.
func ParseFASTA(r io.Reader, role Role) (Sequence, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)
	var (
		name    string
		seq     strings.Builder
		inFirst bool
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == ';' {
			continue
		}
		if line[0] == '>' {
			if inFirst {
				break
			}
			inFirst = true
			if fields := strings.Fields(line[1:]); len(fields) > 0 {
				name = fields[0]
			}
			continue
		}
		if !inFirst {
			return Sequence{}, errors.Errorf("malformed FASTA: residues before header")
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return Sequence{}, errors.Wrap(err, "couldn't read FASTA data")
	}
	if !inFirst {
		return Sequence{}, errors.Errorf("malformed FASTA: no record found")
	}
	s := New(name, seq.String(), role)
	for i := 0; i < len(s.Residues); i++ {
		if c := s.Residues[i]; c < 'A' || c > 'Z' {
			if c != '*' || i != len(s.Residues)-1 {
				return Sequence{}, errors.Errorf("sequence %s: invalid residue %q at position %d", name, c, i+1)
			}
		}
	}
	// A trailing stop codon is not a residue.
	s.Residues = strings.TrimSuffix(s.Residues, "*")
	return s, nil
}

// ReadFASTA reads the first record of the FASTA file at path, which may be
// gzip-compressed.
func ReadFASTA(ctx context.Context, path string, role Role) (seq Sequence, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	reader := io.Reader(in.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	if seq, err = ParseFASTA(reader, role); err != nil {
		err = errors.Wrap(err, path)
	}
	return
}
