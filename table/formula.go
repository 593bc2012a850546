// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"fmt"
	"slices"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/formula"
)

// Formula records a derived column added to a table.
type Formula struct {

	// Name is the name of the derived column.
	Name string `toml:"name" yaml:"name" json:"name"`

	// Expr is the formula expression.
	Expr string `toml:"expr" yaml:"expr" json:"expr"`

	// Pos is the 0-based column index where the column was inserted.
	Pos int `toml:"pos" yaml:"pos" json:"pos"`
}

// AddColumnByFormula evaluates expr against the columns of the table,
// including previously added formula columns, and inserts the result
// as a new column named name at column index pos, clamped to the range
// [0, NumColumns]. The formula is recorded in [Table.Formulas].
// On failure nothing is inserted and a [*FormulaError] is returned.
func (dt *Table) AddColumnByFormula(name, expr string, pos int) error {
	ferr := func(err error) error {
		var fe *formula.Error
		if errors.As(err, &fe) {
			err = fe.Err
		}
		return &FormulaError{Table: dt.Name, Name: name, Expr: expr, Err: err}
	}
	if name == "" {
		return ferr(fmt.Errorf("column name must not be empty"))
	}
	if dt.Columns.IndexByKey(name) >= 0 {
		return ferr(fmt.Errorf("column %q already exists", name))
	}
	ex, err := formula.Parse(expr)
	if err != nil {
		return ferr(err)
	}
	pos = min(max(pos, 0), dt.NumColumns())
	vals, err := ex.Eval(dt)
	if err != nil {
		return ferr(err)
	}
	var bvals []float64
	if dt.base != nil {
		bt := &Table{Name: dt.Name, Columns: dt.base}
		bvals, err = ex.Eval(bt)
		if err != nil {
			return ferr(err)
		}
	}
	if err := insertColumn(dt.Columns, pos, name, NewFloat64(vals...)); err != nil {
		return ferr(err)
	}
	if dt.base != nil {
		bpos := min(pos, dt.base.Len())
		if err := insertColumn(dt.base, bpos, name, NewFloat64(bvals...)); err != nil {
			dt.Columns.DeleteByKey(name)
			return ferr(err)
		}
	}
	dt.Formulas = append(dt.Formulas, Formula{Name: name, Expr: expr, Pos: pos})
	dt.version++
	return nil
}

// RemoveFormula deletes the derived column of given name and its
// formula record, returning false if there is no such formula.
func (dt *Table) RemoveFormula(name string) bool {
	i := slices.IndexFunc(dt.Formulas, func(f Formula) bool { return f.Name == name })
	if i < 0 {
		return false
	}
	dt.Formulas = slices.Delete(dt.Formulas, i, i+1)
	dt.DeleteColumn(name)
	return true
}

// FormulaByName returns the formula of given name and whether it exists.
func (dt *Table) FormulaByName(name string) (Formula, bool) {
	i := slices.IndexFunc(dt.Formulas, func(f Formula) bool { return f.Name == name })
	if i < 0 {
		return Formula{}, false
	}
	return dt.Formulas[i], true
}

// PendingFormulas holds the formulas of tables that are about to be
// reloaded, keyed by table raw name. Each entry is consumed the first
// time a table with that raw name is restored.
type PendingFormulas map[string][]Formula

// CaptureFormulas returns the formulas of the given tables,
// each list sorted by ascending position.
func CaptureFormulas(tabs []*Table) PendingFormulas {
	pf := PendingFormulas{}
	for _, dt := range tabs {
		if len(dt.Formulas) == 0 {
			continue
		}
		fs := slices.Clone(dt.Formulas)
		slices.SortStableFunc(fs, func(a, b Formula) int { return a.Pos - b.Pos })
		pf[dt.RawName] = append(pf[dt.RawName], fs...)
	}
	return pf
}

// Restore re-adds the pending formulas for the raw name of the given
// table and removes the entry, returning any formula failures.
func (pf PendingFormulas) Restore(dt *Table) errors.Warnings {
	fs, ok := pf[dt.RawName]
	if !ok {
		return nil
	}
	delete(pf, dt.RawName)
	var warns errors.Warnings
	for _, f := range fs {
		warns.Add(dt.AddColumnByFormula(f.Name, f.Expr, f.Pos))
	}
	return warns
}

// RestoreAll calls [PendingFormulas.Restore] on each table.
func (pf PendingFormulas) RestoreAll(tabs []*Table) errors.Warnings {
	var warns errors.Warnings
	for _, dt := range tabs {
		warns.Extend(pf.Restore(dt))
	}
	return warns
}
