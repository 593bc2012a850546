// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/base/fsx"
)

// LoadMode determines what happens to the existing tables of a [List]
// when new tables are loaded.
type LoadMode int32

const (
	// Replace removes all existing tables before loading.
	Replace LoadMode = iota

	// Add keeps the existing tables and appends the new ones.
	Add
)

func (lm LoadMode) String() string {
	if lm == Add {
		return "add"
	}
	return "replace"
}

// ReadResult is the result of reading one file with a [Reader].
type ReadResult struct {

	// Tables are the tables read from the file; a file may hold more
	// than one. A table without a RawName is named by the file stem.
	Tables []*Table

	// Format is the name of the format that was used.
	Format string

	// Extensions are the file extensions of the format.
	Extensions []string

	// Warnings are non-fatal problems such as partially parsed columns.
	Warnings errors.Warnings
}

// Reader reads files into tables. An empty format requests
// detection of the format.
type Reader interface {
	Read(path, format string) (*ReadResult, error)
}

// StatusFunc is called with the index of each file after it has been
// loaded, in load order.
type StatusFunc func(i int)

// List is the ordered collection of loaded tables. The order is the
// display order. Raw names and display names are unique in the list.
type List struct {

	// Tables are the loaded tables.
	Tables []*Table

	// Reader is used to read files.
	Reader Reader
}

// NewList returns a new empty List using the given [Reader].
func NewList(rd Reader) *List {
	return &List{Reader: rd}
}

// Len returns the number of tables.
func (ls *List) Len() int { return len(ls.Tables) }

// Get returns the table at given index, or nil if out of range.
func (ls *List) Get(i int) *Table {
	if i < 0 || i >= len(ls.Tables) {
		return nil
	}
	return ls.Tables[i]
}

// GetTry returns the table at given index,
// or an error if the index is out of range.
func (ls *List) GetTry(i int) (*Table, error) {
	if dt := ls.Get(i); dt != nil {
		return dt, nil
	}
	return nil, fmt.Errorf("table index %d out of range [0, %d)", i, len(ls.Tables))
}

// Names returns the display names of the tables.
func (ls *List) Names() []string {
	nms := make([]string, len(ls.Tables))
	for i, dt := range ls.Tables {
		nms[i] = dt.Name
	}
	return nms
}

// IndexOf returns the index of the table with given display name, or -1.
func (ls *List) IndexOf(name string) int {
	return slices.IndexFunc(ls.Tables, func(dt *Table) bool { return dt.Name == name })
}

// ByRawName returns the table with given raw name, or nil.
func (ls *List) ByRawName(rawName string) *Table {
	i := slices.IndexFunc(ls.Tables, func(dt *Table) bool { return dt.RawName == rawName })
	if i < 0 {
		return nil
	}
	return ls.Tables[i]
}

// LoadFiles reads the given files and adds their tables to the list.
// formats is either nil, to detect the format of each file, or a list
// parallel to paths. Paths are canonicalized and loaded in order of
// their base names. A file that cannot be read is reported as a
// [*LoadError] warning and the other files are still loaded.
// The returned error is a [*ConfigurationError] when the arguments
// are invalid, in which case nothing is loaded.
func (ls *List) LoadFiles(paths, formats []string, mode LoadMode, status StatusFunc) ([]*Table, errors.Warnings, error) {
	if formats != nil && len(formats) != len(paths) {
		return nil, nil, configErrorf("load", "%d formats given for %d files", len(formats), len(paths))
	}
	if ls.Reader == nil {
		return nil, nil, configErrorf("load", "no file reader")
	}
	var warns errors.Warnings
	cpaths := make([]string, 0, len(paths))
	cfmts := make([]string, 0, len(paths))
	for i, p := range paths {
		cp, err := fsx.Canonical(p)
		if err != nil {
			warns.Add(&LoadError{Path: p, Err: err})
			continue
		}
		cpaths = append(cpaths, cp)
		if formats != nil {
			cfmts = append(cfmts, formats[i])
		} else {
			cfmts = append(cfmts, "")
		}
	}
	if mode == Replace {
		ls.Clean()
	}
	var added []*Table
	for i, oi := range fsx.SortByBase(cpaths) {
		path, format := cpaths[oi], cfmts[oi]
		tabs, rwarns, err := ls.readFile(path, format)
		warns.Extend(rwarns)
		if err != nil {
			slog.Debug("load failed", "path", path, "err", err)
			warns.Add(&LoadError{Path: path, Err: err})
		}
		for _, dt := range tabs {
			ls.add(dt)
			added = append(added, dt)
		}
		if status != nil {
			status(i)
		}
	}
	return added, warns, nil
}

func (ls *List) readFile(path, format string) ([]*Table, errors.Warnings, error) {
	res, err := ls.Reader.Read(path, format)
	if err != nil {
		return nil, nil, err
	}
	var warns errors.Warnings
	for _, w := range res.Warnings {
		warns.Add(fmt.Errorf("%s: %w", filepath.Base(path), w))
	}
	if len(res.Tables) == 0 {
		return nil, warns, fmt.Errorf("no tables found")
	}
	stem := fsx.Stem(path)
	for _, dt := range res.Tables {
		if dt.RawName == "" {
			dt.RawName = stem
		}
		dt.Source = Source{Path: path, Format: res.Format, Requested: format}
	}
	return res.Tables, warns, nil
}

// LoadTables adds the given in-memory tables to the list.
// names is either nil or parallel to tables, and a non-empty name
// becomes the raw name of the table.
func (ls *List) LoadTables(tabs []*Table, names []string, mode LoadMode) ([]*Table, error) {
	if names != nil && len(names) != len(tabs) {
		return nil, configErrorf("load", "%d names given for %d tables", len(names), len(tabs))
	}
	if slices.Contains(tabs, nil) {
		return nil, configErrorf("load", "nil table")
	}
	if mode == Replace {
		ls.Clean()
	}
	for i, dt := range tabs {
		if names != nil && names[i] != "" {
			dt.RawName = names[i]
			dt.Name = ""
		}
		if dt.RawName == "" {
			dt.RawName = fmt.Sprintf("table_%d", len(ls.Tables)+1)
		}
		if dt.Source.Path == "" {
			dt.Source.Format = InMemory
		}
		ls.add(dt)
	}
	return tabs, nil
}

// add appends the table, making its raw and display names unique.
func (ls *List) add(dt *Table) {
	dt.RawName = UniqueName(dt.RawName, func(s string) bool { return ls.ByRawName(s) != nil })
	if dt.Name == "" {
		dt.Name = dt.RawName
	}
	dt.Name = UniqueName(dt.Name, func(s string) bool { return ls.IndexOf(s) >= 0 })
	ls.Tables = append(ls.Tables, dt)
}

// Rename sets the display name of the table at given index, adding a
// numeric suffix if another table has that name, and returns the old name.
func (ls *List) Rename(i int, name string) (string, error) {
	dt, err := ls.GetTry(i)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("rename: name must not be empty")
	}
	old := dt.Name
	dt.Name = UniqueName(name, func(s string) bool {
		j := ls.IndexOf(s)
		return j >= 0 && j != i
	})
	return old, nil
}

// Delete removes the tables at the given indexes, ignoring any that are
// out of range, and returns true if the list is now empty.
func (ls *List) Delete(indices ...int) bool {
	del := map[int]bool{}
	for _, i := range indices {
		del[i] = true
	}
	j := 0
	for i, dt := range ls.Tables {
		if !del[i] {
			ls.Tables[j] = dt
			j++
		}
	}
	clear(ls.Tables[j:])
	ls.Tables = ls.Tables[:j]
	return len(ls.Tables) == 0
}

// Clean removes all tables and drops the references to them.
func (ls *List) Clean() {
	clear(ls.Tables)
	ls.Tables = nil
}

// Sources returns the unique file sources of the tables, in table
// order. In-memory tables have no source.
func (ls *List) Sources() []Source {
	var srcs []Source
	for _, dt := range ls.Tables {
		if dt.Source.Path == "" {
			continue
		}
		src := Source{Path: dt.Source.Path, Requested: dt.Source.Requested}
		if !slices.ContainsFunc(srcs, func(s Source) bool { return s.Path == src.Path }) {
			srcs = append(srcs, src)
		}
	}
	return srcs
}

// Sort sorts the tables by display name if byName,
// and otherwise by file name and then display name.
func (ls *List) Sort(byName bool) {
	slices.SortStableFunc(ls.Tables, func(a, b *Table) int {
		if !byName {
			if c := strings.Compare(filepath.Base(a.Source.Path), filepath.Base(b.Source.Path)); c != 0 {
				return c
			}
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// Status is a short description of selected tables.
type Status struct {
	Format   string
	Filename string
	Shape    string
}

func (st Status) String() string {
	var parts []string
	for _, s := range []string{st.Format, st.Filename, st.Shape} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " | ")
}

// Status returns the status of the tables at the given indexes, or of
// all tables if none are given. Invalid indexes are ignored; with no
// valid tables all fields are empty.
func (ls *List) Status(sel ...int) Status {
	if len(sel) == 0 {
		for i := range ls.Tables {
			sel = append(sel, i)
		}
	}
	var tabs []*Table
	for _, i := range sel {
		if dt := ls.Get(i); dt != nil {
			tabs = append(tabs, dt)
		}
	}
	switch len(tabs) {
	case 0:
		return Status{}
	case 1:
		dt := tabs[0]
		return Status{Format: dt.Source.Format, Filename: dt.Source.Path, Shape: dt.ShapeString()}
	}
	var fmts, files []string
	for _, dt := range tabs {
		if !slices.Contains(fmts, dt.Source.Format) {
			fmts = append(fmts, dt.Source.Format)
		}
		if dt.Source.Path != "" && !slices.Contains(files, filepath.Base(dt.Source.Path)) {
			files = append(files, filepath.Base(dt.Source.Path))
		}
	}
	return Status{Format: strings.Join(fmts, ", "), Filename: strings.Join(files, ", "), Shape: fmt.Sprintf("%d tables", len(tabs))}
}
