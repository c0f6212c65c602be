/*
bio-lip analyzes limited-proteolysis mass-spectrometry peptide tables.  For
each table it selects the relevant peptides, assembles them into fragments,
and reports cleavage statistics and flanking amino acid composition in
recombinant and, when a native sequence is given, native numbering.

Each peptide table is a TSV file with a header row naming the columns group,
n_start, c_end, sequence, pvalue, log2fc, zscore and intensity; other columns
are ignored.  Empty cells and NA are missing values.

Tables are analyzed in parallel.  For a single table, outputs are written as
<out>.<table>.tsv; with several, as <out>.<name>.<table>.tsv, where name is
the input file name without extensions, plus <out>.merged_fragments.tsv with
the union of the fragment regions of all inputs.

Options can also be read from a YAML, JSON or TOML settings file given with
-config, using the flag names as keys.  Flags given on the command line take
precedence over the file.

Sample usage:
bio-lip \
    -recombinant rec.fa \
    -native native.fa \
    -model hyperbolic -t0 1 -s0 0.1 \
    -out results/lysozyme \
    ctl.tsv trt.tsv.gz
*/
package main
