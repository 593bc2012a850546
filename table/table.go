// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package table provides the loaded data model: a [Table] of named
// columns with derived formula columns, and the ordered [List] of
// tables with its load, rename, delete and reload lifecycle.
package table

import (
	"fmt"
	"slices"

	"cogentcore.org/datview/base/keylist"
	"cogentcore.org/datview/base/suggest"
	"cogentcore.org/datview/formula"
)

// InMemory is the format of tables that were supplied
// programmatically rather than read from a file.
const InMemory = "in-memory"

// Columns is the ordered set of named columns of a table,
// where the order is the display order.
type Columns = keylist.List[string, Values]

// Source describes where a table was loaded from.
type Source struct {
	// Path is the canonical file path, empty for in-memory tables.
	Path string

	// Format is the format name used to read the file,
	// or [InMemory].
	Format string

	// Requested is the explicitly requested format, empty for
	// auto-detection; reload uses it to read the file the same way.
	Requested string
}

// Table is one loaded dataset: raw columns plus derived formula columns.
type Table struct {

	// RawName is the stable identity of the table, assigned at load
	// time from the file stem or supplied name. It does not change
	// when the table is renamed.
	RawName string

	// Name is the user-visible name, which defaults to RawName and is
	// unique among the tables of a [List].
	Name string

	// Columns are the current columns of the table, including the
	// effects of any table-level pipeline actions.
	Columns *Columns

	// Formulas are the derived columns added by formula,
	// in the order they were added.
	Formulas []Formula

	// Source describes where the table was loaded from.
	Source Source

	// base holds the columns from before pipeline actions were
	// materialized, nil if no actions have been materialized.
	base *Columns

	// version counts data changes that are not pipeline actions.
	version int
}

// New returns a new empty in-memory Table with given raw name.
func New(rawName string) *Table {
	return &Table{RawName: rawName, Name: rawName, Columns: &Columns{}, Source: Source{Format: InMemory}}
}

// NumRows returns the number of rows.
func (dt *Table) NumRows() int {
	if dt.Columns.Len() == 0 {
		return 0
	}
	return dt.Columns.Values[0].Len()
}

// NumColumns returns the number of columns.
func (dt *Table) NumColumns() int { return dt.Columns.Len() }

// ColumnNames returns the column names in display order.
func (dt *Table) ColumnNames() []string { return slices.Clone(dt.Columns.Keys) }

// Column returns the column with given name, or nil if not found.
func (dt *Table) Column(name string) Values {
	return dt.Columns.At(name)
}

// ColumnTry is a version of [Table.Column] that also returns an error
// if the column name is not found.
func (dt *Table) ColumnTry(name string) (Values, error) {
	cl, ok := dt.Columns.AtTry(name)
	if !ok {
		return nil, fmt.Errorf("%w: table %q has no column %q%s", formula.ErrUnknownColumn, dt.Name, name, suggest.Hint(name, dt.Columns.Keys))
	}
	return cl, nil
}

// Floats returns the values of the named numeric column,
// which must not be modified. It satisfies [formula.Env].
func (dt *Table) Floats(name string) ([]float64, error) {
	cl, err := dt.ColumnTry(name)
	if err != nil {
		return nil, err
	}
	if cl.IsString() {
		return nil, fmt.Errorf("%w: column %q of table %q is text", formula.ErrType, name, dt.Name)
	}
	return Floats(cl), nil
}

// AddColumn adds the given column at the end of the table.
// See [Table.InsertColumn].
func (dt *Table) AddColumn(name string, cl Values) error {
	return dt.InsertColumn(dt.NumColumns(), name, cl)
}

// InsertColumn inserts the given column at given index, clamped to
// the valid range, returning an error and not adding if the name is
// not unique or the number of rows differs from the table.
func (dt *Table) InsertColumn(idx int, name string, cl Values) error {
	return insertColumn(dt.Columns, idx, name, cl)
}

func insertColumn(cols *Columns, idx int, name string, cl Values) error {
	if name == "" {
		return fmt.Errorf("table: column name must not be empty")
	}
	if cols.Len() > 0 && cols.Values[0].Len() != cl.Len() {
		return fmt.Errorf("table: column %q has %d rows, table has %d", name, cl.Len(), cols.Values[0].Len())
	}
	if cols.IndexByKey(name) >= 0 {
		return fmt.Errorf("table: column %q already exists", name)
	}
	return cols.Insert(idx, name, cl)
}

// DeleteColumn deletes the column of given name,
// returning false if not found.
func (dt *Table) DeleteColumn(name string) bool {
	if dt.base != nil {
		dt.base.DeleteByKey(name)
	}
	dt.version++
	return dt.Columns.DeleteByKey(name)
}

// Version returns a counter that changes whenever the base data
// of the table changes outside of pipeline actions.
func (dt *Table) Version() int { return dt.version }

// ShapeString returns the "rows x columns" shape of the table.
func (dt *Table) ShapeString() string {
	return fmt.Sprintf("%dx%d", dt.NumRows(), dt.NumColumns())
}

// Filename returns the file path of the table, or "" if in memory.
func (dt *Table) Filename() string { return dt.Source.Path }

// Clone returns a deep copy of the table, including its base columns.
func (dt *Table) Clone() *Table {
	cp := *dt
	cp.Columns = cloneColumns(dt.Columns)
	cp.Formulas = slices.Clone(dt.Formulas)
	if dt.base != nil {
		cp.base = cloneColumns(dt.base)
	}
	return &cp
}

func cloneColumns(cols *Columns) *Columns {
	return cols.Clone(func(v Values) Values { return v.Clone() })
}

// SelectRows keeps only the rows at the given indexes, in that order,
// in the current columns.
func (dt *Table) SelectRows(idx []int) {
	selectRows(dt.Columns, idx)
}

func selectRows(cols *Columns, idx []int) {
	for i, cl := range cols.Values {
		cols.Values[i] = cl.Subset(idx)
	}
}

// SelectBaseRows keeps only the rows at the given indexes in the base
// data of the table, discarding any materialized pipeline results,
// which must then be re-applied.
func (dt *Table) SelectBaseRows(idx []int) {
	dt.Unmaterialize()
	selectRows(dt.Columns, idx)
	dt.version++
}

// BaseTable returns a working copy of the table holding a deep copy
// of the columns from before any pipeline materialization.
func (dt *Table) BaseTable() *Table {
	wk := &Table{RawName: dt.RawName, Name: dt.Name, Source: dt.Source, Formulas: slices.Clone(dt.Formulas)}
	wk.Columns = cloneColumns(dt.baseColumns())
	return wk
}

func (dt *Table) baseColumns() *Columns {
	if dt.base != nil {
		return dt.base
	}
	return dt.Columns
}

// Materialize sets the current columns to the given pipeline result,
// keeping the base columns for later recomputation.
func (dt *Table) Materialize(cols *Columns) {
	if dt.base == nil {
		dt.base = dt.Columns
	}
	dt.Columns = cols
}

// Unmaterialize restores the base columns, returning false if
// there was no materialized pipeline result.
func (dt *Table) Unmaterialize() bool {
	if dt.base == nil {
		return false
	}
	dt.Columns = dt.base
	dt.base = nil
	return true
}

// IsMaterialized returns true if pipeline results are materialized.
func (dt *Table) IsMaterialized() bool { return dt.base != nil }
