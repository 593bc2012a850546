// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"

	"cogentcore.org/datview/base/metadata"
	"cogentcore.org/datview/table"
)

// XYFunc is a series transform: it returns new x and y slices for the
// given ones, which it must not modify.
type XYFunc func(x, y []float64, params metadata.Data) ([]float64, []float64, error)

// TableFunc is a table-level transform that modifies the given working
// copy of a table in place.
type TableFunc func(dt *table.Table, params metadata.Data) error

// Action is a named, parameterized and reversible transform on data.
// It is a no-op while it is inactive, and only one of XY and Table is set.
type Action struct {

	// Name is the unique key of the action in a [Pipeline].
	Name string

	// Params are the parameters of the action, including the
	// [metadata.ActiveKey] flag. Params must be serializable.
	Params metadata.Data

	// XY is the series transform of a series action.
	XY XYFunc

	// Table is the transform of a table-level action.
	Table TableFunc

	// onChange is called after the parameters are changed
	// through the Set methods.
	onChange func(a *Action)
}

// NewXYAction returns a new series action with a copy of the
// given parameters.
func NewXYAction(name string, params metadata.Data, fn XYFunc) *Action {
	return &Action{Name: name, Params: params.Clone(), XY: fn}
}

// NewTableAction returns a new table-level action with a copy of the
// given parameters.
func NewTableAction(name string, params metadata.Data, fn TableFunc) *Action {
	return &Action{Name: name, Params: params.Clone(), Table: fn}
}

// IsActive returns whether the action is applied.
func (a *Action) IsActive() bool { return a.Params.IsActive() }

// IsSeries returns true for series actions, false for table-level ones.
func (a *Action) IsSeries() bool { return a.Table == nil }

// SetActive sets whether the action is applied.
func (a *Action) SetActive(active bool) *Action {
	a.Params.SetActive(active)
	a.changed()
	return a
}

// SetParam sets the parameter of given key.
func (a *Action) SetParam(key string, value any) *Action {
	a.Params.Set(key, value)
	a.changed()
	return a
}

// SetOnChange sets a function that is called after the parameters are
// changed, for example to refresh an editor. It does not own the action.
func (a *Action) SetOnChange(fn func(a *Action)) *Action {
	a.onChange = fn
	return a
}

func (a *Action) changed() {
	if a.onChange != nil {
		a.onChange(a)
	}
}

// Record returns the serializable record of the action.
func (a *Action) Record() Record {
	return Record{Name: a.Name, Data: a.Params.Clone()}
}

// fingerprint encodes the identity and parameters of the action.
func (a *Action) fingerprint() string {
	return fmt.Sprintf("%s{%s}", a.Name, a.Params.Fingerprint())
}

func (a *Action) String() string {
	kind := "series"
	if !a.IsSeries() {
		kind = "table"
	}
	state := "inactive"
	if a.IsActive() {
		state = "active"
	}
	return fmt.Sprintf("%s (%s, %s) %s", a.Name, kind, state, a.Params.Fingerprint())
}

// Record is the persisted form of an action.
type Record struct {
	Name string        `toml:"name" yaml:"name" json:"name"`
	Data metadata.Data `toml:"data" yaml:"data" json:"data"`
}

// ActionError is a failure of one action on one table. The action is
// skipped for that table and the other actions and tables are unaffected.
type ActionError struct {
	Action string
	Table  string
	Err    error
}

func (e *ActionError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("action %q: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("action %q on table %q: %v", e.Action, e.Table, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
