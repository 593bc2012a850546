// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"

	"cogentcore.org/datview/base/errors"
)

// Delims are standard CSV delimiter options (Tab, Comma, Space).
type Delims int32

const (
	// Tab is the tab rune delimiter, for TSV tab separated values.
	Tab Delims = iota

	// Comma is the comma rune delimiter, for CSV comma separated values.
	Comma

	// Space is the space rune delimiter, for SSV space separated values.
	Space
)

// Rune returns the delimiter rune.
func (dl Delims) Rune() rune {
	switch dl {
	case Tab:
		return '\t'
	case Comma:
		return ','
	case Space:
		return ' '
	}
	return '\t'
}

// SaveCSV writes the table to a comma-separated-values (CSV) file
// (where comma = any delimiter, specified in the delim arg),
// with the column names as the first row.
func (dt *Table) SaveCSV(filename string, delim Delims) error {
	fp, err := os.Create(filename)
	if err != nil {
		return errors.Log(err)
	}
	defer fp.Close()
	bw := bufio.NewWriter(fp)
	err = dt.WriteCSV(bw, delim)
	if ferr := bw.Flush(); err == nil {
		err = ferr
	}
	return err
}

// WriteCSV writes the table to the given writer as comma-separated
// values, with the column names as the first row.
func (dt *Table) WriteCSV(w io.Writer, delim Delims) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim.Rune()
	if err := cw.Write(dt.Columns.Keys); err != nil {
		return err
	}
	nc := dt.NumColumns()
	rec := make([]string, nc)
	for r := range dt.NumRows() {
		for c, cl := range dt.Columns.Values {
			rec[c] = cl.String1D(r)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
