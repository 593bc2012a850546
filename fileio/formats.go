// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileio

import (
	"bytes"
	"fmt"
	"slices"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/base/fsx"
	"cogentcore.org/datview/base/suggest"
	"cogentcore.org/datview/table"
)

// Format is a readable file format.
type Format struct {

	// Name is the name used to request the format.
	Name string

	// Extensions are the file extensions of the format, with the dot.
	Extensions []string

	// Delimiter is the cell delimiter of delimited text formats,
	// 0 to detect it from the content.
	Delimiter rune

	read func(rd *Reader, rawName string, data []byte, fm *Format) ([]*table.Table, errors.Warnings, error)
}

// Formats are all the readable formats, in order of preference
// for detection.
var Formats = []*Format{
	{Name: "csv", Extensions: []string{".csv"}, Delimiter: ',', read: readDelimited},
	{Name: "tsv", Extensions: []string{".tsv", ".tab"}, Delimiter: '\t', read: readDelimited},
	{Name: "delimited", Extensions: []string{".txt", ".dat", ".out", ".asc"}, read: readDelimited},
	{Name: "json", Extensions: []string{".json"}, read: readJSON},
}

// FormatNames returns the names of all [Formats].
func FormatNames() []string {
	nms := make([]string, len(Formats))
	for i, fm := range Formats {
		nms[i] = fm.Name
	}
	return nms
}

// FormatByName returns the format with given name, or an error
// suggesting the closest name.
func FormatByName(name string) (*Format, error) {
	i := slices.IndexFunc(Formats, func(fm *Format) bool { return fm.Name == name })
	if i < 0 {
		return nil, fmt.Errorf("unknown format %q%s", name, suggest.Hint(name, FormatNames()))
	}
	return Formats[i], nil
}

// FormatByExtension returns the format for the extension of the path,
// or nil if none has it.
func FormatByExtension(path string) *Format {
	ext := fsx.Ext(path)
	for _, fm := range Formats {
		if slices.Contains(fm.Extensions, ext) {
			return fm
		}
	}
	return nil
}

// DetectFormat returns the format for the given file path and text
// content, by extension and otherwise from the content.
func DetectFormat(path string, data []byte) *Format {
	if fm := FormatByExtension(path); fm != nil {
		return fm
	}
	trim := bytes.TrimSpace(data)
	if len(trim) > 0 && (trim[0] == '{' || trim[0] == '[') {
		return Formats[3]
	}
	return Formats[2]
}
