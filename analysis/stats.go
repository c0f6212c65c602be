package analysis

import "fmt"

// Stats summarizes one or more analyses.
type Stats struct {
	// Inputs is the number of analyzed peptide tables.
	Inputs int
	// Rows is the number of peptide rows read.
	Rows int
	// Relevant is the number of rows accepted by the significance model.
	Relevant int
	// Groups is the number of experiment groups with relevant rows.
	Groups int
	// Fragments is the number of assembled fragments.
	Fragments int
	// CleavageSites and NativeCleavageSites count site occurrences.
	CleavageSites       int
	NativeCleavageSites int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Inputs += o.Inputs
	s.Rows += o.Rows
	s.Relevant += o.Relevant
	s.Groups += o.Groups
	s.Fragments += o.Fragments
	s.CleavageSites += o.CleavageSites
	s.NativeCleavageSites += o.NativeCleavageSites
	return s
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("inputs %d, rows %d, relevant %d, groups %d, fragments %d, cleavage sites %d (native %d)",
		s.Inputs, s.Rows, s.Relevant, s.Groups, s.Fragments, s.CleavageSites, s.NativeCleavageSites)
}
