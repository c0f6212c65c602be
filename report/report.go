// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package report writes the derived tables of an analysis as TSV files.  A
// path ending in .gz is gzip-compressed and one ending in .sz is
// snappy-framed.  Unmapped native coordinates and undefined numbers are
// written as NA.
package report

import (
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/lipms/coord"
	"github.com/klauspost/compress/gzip"
)

// NA marks a missing value.
const NA = "NA"

// SnappySuffix selects snappy compression.
const SnappySuffix = ".sz"

func itoa(v int) string {
	return strconv.Itoa(v)
}

// natCoord formats a native coordinate.
func natCoord(v int) string {
	if v == coord.Unmapped {
		return NA
	}
	return strconv.Itoa(v)
}

func ftoa(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func joinInts(vs []int) string {
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ",")
}

// writeRow writes one line of fields.
func writeRow(w *tsv.Writer, fields ...string) error {
	for _, f := range fields {
		w.WriteString(f)
	}
	return w.EndLine()
}

// writeFile creates path and runs fn on a TSV writer for it, compressing by
// suffix.
func writeFile(ctx context.Context, path string, fn func(w *tsv.Writer) error) (err error) {
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)

	var dst io.Writer = out.Writer(ctx)
	switch {
	case fileio.DetermineType(path) == fileio.Gzip:
		gz := gzip.NewWriter(dst)
		defer func() {
			if e := gz.Close(); e != nil && err == nil {
				err = e
			}
		}()
		dst = gz
	case strings.HasSuffix(path, SnappySuffix):
		sz := snappy.NewBufferedWriter(dst)
		defer func() {
			if e := sz.Close(); e != nil && err == nil {
				err = e
			}
		}()
		dst = sz
	}
	w := tsv.NewWriter(dst)
	if err = fn(w); err != nil {
		return errors.E(err, path)
	}
	if err = w.Flush(); err != nil {
		return errors.E(err, path)
	}
	log.Debug.Printf("report: wrote %s", path)
	return nil
}
