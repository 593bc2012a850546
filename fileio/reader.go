// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fileio reads tables from delimited text and JSON files.
package fileio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/base/fsx"
	"cogentcore.org/datview/table"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// headSize is the number of bytes used to detect binary files.
const headSize = 262

// Options are the loader options of a [Reader].
type Options struct {

	// DayFirst parses ambiguous dates such as 03/04/2025 as 3 April.
	DayFirst bool `toml:"dayFirst" yaml:"dayFirst" json:"dayFirst"`

	// Comment is the line prefix of comment lines in delimited files,
	// empty for none.
	Comment string `toml:"comment" yaml:"comment" json:"comment" default:"#"`

	// Delimiter overrides the cell delimiter of delimited files,
	// empty to use the format's delimiter or detect it.
	// The name "tab" or "\t" is a tab and "space" splits on whitespace.
	Delimiter string `toml:"delimiter" yaml:"delimiter" json:"delimiter"`
}

// Reader reads files into tables. It implements [table.Reader].
type Reader struct {
	Options Options
}

// NewReader returns a new Reader with the given options.
func NewReader(opts Options) *Reader {
	return &Reader{Options: opts}
}

// Read reads the file at given path using the format of given name,
// or detecting it when the name is empty. The whole file is read
// before any table is returned.
func (rd *Reader) Read(path, format string) (*table.ReadResult, error) {
	var fm *Format
	if format != "" {
		f, err := FormatByName(format)
		if err != nil {
			return nil, err
		}
		fm = f
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if cat := CatFromHead(raw[:min(len(raw), headSize)]); cat != Text {
		return nil, fmt.Errorf("%s file is not a readable table", cat)
	}
	data, err := decodeText(raw)
	if err != nil {
		return nil, err
	}
	if fm == nil {
		fm = DetectFormat(path, data)
	}
	tabs, warns, err := fm.read(rd, fsx.Stem(path), data, fm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fm.Name, err)
	}
	return &table.ReadResult{Tables: tabs, Format: fm.Name, Extensions: fm.Extensions, Warnings: warns}, nil
}

// decodeText returns the content as UTF-8, removing a byte order mark
// and converting from UTF-16 when one is present.
func decodeText(raw []byte) ([]byte, error) {
	tr := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return io.ReadAll(transform.NewReader(bytes.NewReader(raw), tr))
}

func (rd *Reader) recordOptions() table.RecordOptions {
	return table.RecordOptions{DayFirst: rd.Options.DayFirst}
}

// readRecords builds one table from text records,
// for formats that produce a single table.
func (rd *Reader) readRecords(rawName string, header []string, rows [][]string) ([]*table.Table, errors.Warnings, error) {
	dt, warns, err := table.FromRecords(rawName, header, rows, rd.recordOptions())
	if err != nil {
		return nil, warns, err
	}
	return []*table.Table{dt}, warns, nil
}
