// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"cogentcore.org/datview/base/errors"
)

// RecordOptions are options for [FromRecords].
type RecordOptions struct {

	// DayFirst parses ambiguous dates such as 03/04/2025 as 3 April.
	DayFirst bool
}

func (ro RecordOptions) dateLayouts() []string {
	lay := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}
	if ro.DayFirst {
		return append(lay, "02/01/2006 15:04:05", "02/01/2006")
	}
	return append(lay, "01/02/2006 15:04:05", "01/02/2006")
}

// FromRecords returns a new table with given raw name from a header
// and rows of text cells, inferring the type of each column:
// columns whose non-empty cells all parse as numbers become [Float64]
// with empty cells as NaN, date columns become [Float64] seconds since
// the Unix epoch, and all other columns are [String]. Columns of
// mostly numbers are kept numeric with the others as NaN, and a warning
// is returned. Short rows are padded and long rows truncated, with a
// warning.
func FromRecords(rawName string, header []string, rows [][]string, opts RecordOptions) (*Table, errors.Warnings, error) {
	if len(header) == 0 {
		return nil, nil, fmt.Errorf("table %q: no columns", rawName)
	}
	var warns errors.Warnings
	names := uniqueHeader(header)
	nc := len(names)
	cells := make([][]string, nc)
	for c := range cells {
		cells[c] = make([]string, len(rows))
	}
	ragged := 0
	for r, row := range rows {
		if len(row) != nc {
			ragged++
		}
		for c := range nc {
			if c < len(row) {
				cells[c][r] = strings.TrimSpace(row[c])
			}
		}
	}
	if ragged > 0 {
		warns.Addf("table %q: %d rows do not have %d cells", rawName, ragged, nc)
	}
	dt := New(rawName)
	for c, name := range names {
		cl, bad := inferColumn(cells[c], opts)
		if bad > 0 {
			warns.Addf("table %q: column %q: %d values could not be parsed as numbers", rawName, name, bad)
		}
		if err := dt.AddColumn(name, cl); err != nil {
			return nil, warns, err
		}
	}
	return dt, warns, nil
}

// uniqueHeader names empty headers by position and suffixes duplicates.
func uniqueHeader(header []string) []string {
	names := make([]string, len(header))
	seen := map[string]bool{}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		names[i] = UniqueName(h, func(s string) bool { return seen[s] })
		seen[names[i]] = true
	}
	return names
}

// inferColumn returns the typed column for the given cells, and the
// number of non-empty cells that were not numbers in a numeric column.
func inferColumn(cells []string, opts RecordOptions) (Values, int) {
	vals := make([]float64, len(cells))
	n, bad := 0, 0
	for i, s := range cells {
		if s == "" {
			vals[i] = math.NaN()
			continue
		}
		n++
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			vals[i] = math.NaN()
			bad++
			continue
		}
		vals[i] = f
	}
	switch {
	case bad == 0:
		return NewFloat64(vals...), 0
	case bad < n-bad:
		return NewFloat64(vals...), bad
	}
	if dv, ok := parseDates(cells, opts); ok {
		return NewFloat64(dv...), 0
	}
	return NewString(cells...), 0
}

func parseDates(cells []string, opts RecordOptions) ([]float64, bool) {
	layouts := opts.dateLayouts()
	vals := make([]float64, len(cells))
	for i, s := range cells {
		if s == "" {
			vals[i] = math.NaN()
			continue
		}
		ok := false
		for _, lay := range layouts {
			if tm, err := time.Parse(lay, s); err == nil {
				vals[i] = float64(tm.UnixMilli()) / 1000
				ok = true
				break
			}
		}
		if !ok {
			return nil, false
		}
	}
	return vals, true
}

// UniqueName returns name if exists(name) is false, and otherwise the
// first of name_2, name_3, ... that does not exist.
func UniqueName(name string, exists func(string) bool) string {
	if !exists(name) {
		return name
	}
	for i := 2; ; i++ {
		nm := fmt.Sprintf("%s_%d", name, i)
		if !exists(nm) {
			return nm
		}
	}
}
