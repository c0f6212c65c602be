// Package analysis runs the limited-proteolysis pipeline over one peptide
// table:
//
//   - align the recombinant and native sequences and build the coordinate map;
//   - select relevant peptide rows with the configured significance model;
//   - assemble fragments per experiment group;
//   - extract cleavage sites, then per-residue counts, histograms and the
//     evolution table;
//   - build flanking amino acid profiles and test them against the
//     background of every possible cleavage.
//
// Stages are synchronous.  The context is checked before each stage so that
// a caller can abandon a run between stages.  Results of several tables
// analyzed against the same protein can be combined with MergeResultSets.
package analysis
