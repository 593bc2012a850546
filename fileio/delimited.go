// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/table"
)

// whitespace is the delimiter value that splits cells on runs of spaces and tabs.
const whitespace = ' '

func readDelimited(rd *Reader, rawName string, data []byte, fm *Format) ([]*table.Table, errors.Warnings, error) {
	lines := textLines(data, rd.Options.Comment)
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("no data")
	}
	delim, err := rd.delimiter(fm, lines[0])
	if err != nil {
		return nil, nil, err
	}
	recs, err := splitRecords(lines, delim)
	if err != nil {
		return nil, nil, err
	}
	header := recs[0]
	rows := recs[1:]
	if isNumericRow(header) {
		header = make([]string, len(recs[0]))
		for i := range header {
			header[i] = fmt.Sprintf("Column_%d", i+1)
		}
		rows = recs
	}
	return rd.readRecords(rawName, header, rows)
}

// textLines returns the non-empty lines that are not comments.
func textLines(data []byte, comment string) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for sc.Scan() {
		ln := strings.TrimRight(sc.Text(), "\r")
		tl := strings.TrimSpace(ln)
		if tl == "" || (comment != "" && strings.HasPrefix(tl, comment)) {
			continue
		}
		lines = append(lines, ln)
	}
	return lines
}

// delimiter returns the delimiter from the options, the format,
// or the counts of candidate delimiters in the first line.
func (rd *Reader) delimiter(fm *Format, first string) (rune, error) {
	switch d := rd.Options.Delimiter; d {
	case "":
	case "tab", `\t`:
		return '\t', nil
	case "space":
		return whitespace, nil
	default:
		r := []rune(d)
		if len(r) != 1 {
			return 0, fmt.Errorf("delimiter %q is not a single character", d)
		}
		return r[0], nil
	}
	if fm.Delimiter != 0 {
		return fm.Delimiter, nil
	}
	best, bestN := whitespace, 0
	for _, c := range []rune{'\t', ',', ';', '|'} {
		if n := strings.Count(first, string(c)); n > bestN {
			best, bestN = c, n
		}
	}
	return best, nil
}

func splitRecords(lines []string, delim rune) ([][]string, error) {
	if delim == whitespace {
		recs := make([][]string, len(lines))
		for i, ln := range lines {
			recs[i] = strings.Fields(ln)
		}
		return recs, nil
	}
	cr := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

func isNumericRow(rec []string) bool {
	for _, s := range rec {
		if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return false
		}
	}
	return len(rec) > 0
}
