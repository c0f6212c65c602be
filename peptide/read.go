package peptide

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
)

// tsvRow mirrors the on-disk peptide table.  Float columns are read as
// strings since empty cells and "NA" are legal.
type tsvRow struct {
	Group     string `tsv:"group"`
	NStart    int64  `tsv:"n_start"`
	CEnd      int64  `tsv:"c_end"`
	Sequence  string `tsv:"sequence"`
	PValue    string `tsv:"pvalue"`
	Log2FC    string `tsv:"log2fc"`
	ZScore    string `tsv:"zscore"`
	Intensity string `tsv:"intensity"`
}

// parseFloat parses a numeric cell; "", "NA", "NaN" and "-" are missing.
func parseFloat(s string) (float64, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NA", "NAN", "-":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// ReadRows reads a peptide table with a header row naming the columns
// group, n_start, c_end, sequence, pvalue, log2fc, zscore and intensity.
// Extra columns are ignored and lines starting with '#' are skipped.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := tsv.NewReader(r)
	reader.HasHeaderRow = true
	reader.UseHeaderNames = true
	reader.Comment = '#'

	var rows []Row
	for record := 1; ; record++ {
		var tr tsvRow
		if err := reader.Read(&tr); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("peptide table record %d", record))
		}
		row := Row{
			Group:    tr.Group,
			NStart:   int(tr.NStart),
			CEnd:     int(tr.CEnd),
			Sequence: strings.ToUpper(strings.TrimSpace(tr.Sequence)),
		}
		var err error
		for _, f := range []struct {
			dst *float64
			src string
		}{
			{&row.PValue, tr.PValue},
			{&row.Log2FC, tr.Log2FC},
			{&row.ZScore, tr.ZScore},
			{&row.Intensity, tr.Intensity},
		} {
			if *f.dst, err = parseFloat(f.src); err != nil {
				return nil, errors.E(errors.Invalid, err, fmt.Sprintf("peptide table record %d", record))
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadRowsFromPath is a wrapper for ReadRows that takes a path, which may be
// gzip-compressed, instead of an io.Reader.
func ReadRowsFromPath(ctx context.Context, path string) (rows []Row, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, errors.E(err, "open peptide table", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	reader := io.Reader(in.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		if reader, err = gzip.NewReader(reader); err != nil {
			return nil, errors.E(err, path)
		}
	}
	if rows, err = ReadRows(reader); err != nil {
		return nil, errors.E(err, path)
	}
	log.Debug.Printf("%s: %d peptide rows", path, len(rows))
	return rows, nil
}
