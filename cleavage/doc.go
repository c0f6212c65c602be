// Package cleavage aggregates cleavage boundaries across experiment groups.
//
// A cleavage site is a 0-based residue boundary: boundary b lies between
// residues b and b+1, so a peptide [n, c] implies boundaries n-1 and c.  Only
// boundaries strictly inside the protein, 0 < b < length, are sites.
//
// From per-group site lists the package derives per-residue counts, windowed
// histograms (every occurrence and distinct boundaries) and the
// intensity-weighted evolution table that compares groups whose raw
// intensities differ by orders of magnitude.
package cleavage
