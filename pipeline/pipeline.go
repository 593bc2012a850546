// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline provides the ordered list of named [Action]s that
// transform tables and plotted series, and the engine that applies them.
//
// Table-level actions are applied first, in pipeline order, to a copy of
// the base data of each table, and the result becomes the visible columns
// of the table. Series actions are then applied in pipeline order to the
// x and y series pulled from a table, by [Pipeline.ApplyXY].
package pipeline

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"strings"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/base/keylist"
	"cogentcore.org/datview/table"
)

// Pipeline is the ordered list of actions. The order is the order
// of application, and there is at most one action per name.
type Pipeline struct {
	actions keylist.List[string, *Action]

	// memo holds the fingerprint of the last apply to each table.
	memo map[*table.Table]string
}

// New returns a new empty Pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// Len returns the number of actions.
func (pl *Pipeline) Len() int { return pl.actions.Len() }

// Actions returns the actions in order.
func (pl *Pipeline) Actions() []*Action { return slices.Clone(pl.actions.Values) }

// Names returns the names of the actions in order.
func (pl *Pipeline) Names() []string { return slices.Clone(pl.actions.Keys) }

// Find returns the action with given name.
func (pl *Pipeline) Find(name string) (*Action, bool) {
	return pl.actions.AtTry(name)
}

// Append adds the action at the end of the pipeline and returns the
// action held by the pipeline. If an action with the same name is
// present, cancelIfPresent removes it first, and otherwise the
// parameters of the existing action are set from a, in place.
func (pl *Pipeline) Append(a *Action, cancelIfPresent bool) *Action {
	if ex, ok := pl.actions.AtTry(a.Name); ok {
		if !cancelIfPresent {
			ex.Params = a.Params.Clone()
			ex.changed()
			return ex
		}
		pl.actions.DeleteByKey(a.Name)
	}
	pl.actions.Add(a.Name, a)
	return a
}

// Remove removes the action with given name, returning false if
// there was none.
func (pl *Pipeline) Remove(name string) bool {
	return pl.actions.DeleteByKey(name)
}

// Clear removes all actions.
func (pl *Pipeline) Clear() {
	pl.actions.Reset()
}

// ApplyOptions are options for [Pipeline.Apply].
type ApplyOptions struct {

	// Force recomputes tables even when nothing changed since
	// the last apply.
	Force bool

	// ApplyToAll applies to all tables instead of the targets.
	ApplyToAll bool
}

// Result is the result of [Pipeline.Apply].
type Result struct {

	// Changed are the tables whose visible columns were recomputed.
	Changed []*table.Table

	// Warnings are the [*ActionError]s of failed actions.
	Warnings errors.Warnings
}

// DataChanged returns whether any table was changed.
func (r *Result) DataChanged() bool { return len(r.Changed) > 0 }

// Apply applies the active table-level actions, in order, to the target
// tables, or all tables with [ApplyOptions.ApplyToAll]. Each table is
// recomputed from its base data. A failing action is reported as an
// [*ActionError] warning and skipped for that table only.
func (pl *Pipeline) Apply(all, targets []*table.Table, opts ApplyOptions) *Result {
	pl.prune(all)
	if opts.ApplyToAll {
		targets = all
	}
	res := &Result{}
	acts := slices.DeleteFunc(pl.Actions(), func(a *Action) bool { return a.IsSeries() || !a.IsActive() })
	fp := fingerprint(acts)
	for _, dt := range targets {
		key := fmt.Sprintf("%s;version=%d", fp, dt.Version())
		if !opts.Force && pl.memo[dt] == key {
			continue
		}
		pl.memo[dt] = key
		if len(acts) == 0 {
			if dt.Unmaterialize() {
				res.Changed = append(res.Changed, dt)
			}
			continue
		}
		wk := dt.BaseTable()
		for _, a := range acts {
			step := wk.Clone()
			if err := runTable(a, step); err != nil {
				res.Warnings.Add(&ActionError{Action: a.Name, Table: dt.Name, Err: err})
				continue
			}
			wk = step
		}
		dt.Materialize(wk.Columns)
		res.Changed = append(res.Changed, dt)
	}
	return res
}

// prune drops memoized fingerprints of tables that are no longer loaded.
func (pl *Pipeline) prune(all []*table.Table) {
	if pl.memo == nil {
		pl.memo = map[*table.Table]string{}
	}
	for dt := range pl.memo {
		if !slices.Contains(all, dt) {
			delete(pl.memo, dt)
		}
	}
}

// Invalidate forgets the last apply, so the next apply recomputes all tables.
func (pl *Pipeline) Invalidate() {
	clear(pl.memo)
}

func fingerprint(acts []*Action) string {
	fps := make([]string, len(acts))
	for i, a := range acts {
		fps[i] = a.fingerprint()
	}
	return strings.Join(fps, ",")
}

func runTable(a *Action, dt *table.Table) (err error) {
	defer recoverError(a, &err)
	return a.Table(dt, a.Params)
}

func runXY(a *Action, x, y []float64) (nx, ny []float64, err error) {
	defer recoverError(a, &err)
	nx, ny, err = a.XY(slices.Clone(x), slices.Clone(y), a.Params)
	if err == nil && len(nx) != len(ny) {
		err = fmt.Errorf("returned %d x values and %d y values", len(nx), len(ny))
	}
	return
}

func recoverError(a *Action, err *error) {
	if r := recover(); r != nil {
		slog.Error("action panic", "action", a.Name, "panic", r, "stack", string(debug.Stack()))
		*err = fmt.Errorf("panic: %v", r)
	}
}

// ApplyXY applies the active series actions in order to the given
// series of the given table, each on the output of the previous one.
// The given slices are not modified. A failing action is reported as
// an [*ActionError] warning and skipped.
func (pl *Pipeline) ApplyXY(dt *table.Table, x, y []float64) ([]float64, []float64, errors.Warnings) {
	var warns errors.Warnings
	x, y = slices.Clone(x), slices.Clone(y)
	name := ""
	if dt != nil {
		name = dt.Name
	}
	for _, a := range pl.actions.Values {
		if !a.IsSeries() || !a.IsActive() {
			continue
		}
		nx, ny, err := runXY(a, x, y)
		if err != nil {
			warns.Add(&ActionError{Action: a.Name, Table: name, Err: err})
			continue
		}
		x, y = nx, ny
	}
	return x, y, warns
}

// Records returns the records of all actions in order.
func (pl *Pipeline) Records() []Record {
	recs := make([]Record, pl.Len())
	for i, a := range pl.actions.Values {
		recs[i] = a.Record()
	}
	return recs
}

// Factory returns a new action for the given record.
type Factory func(rec Record) (*Action, error)

// Restore appends the actions created by the factory for each record,
// in order. Records that cannot be restored are returned as warnings.
func (pl *Pipeline) Restore(recs []Record, factory Factory) errors.Warnings {
	var warns errors.Warnings
	for _, rec := range recs {
		a, err := factory(rec)
		if err != nil {
			warns.Add(fmt.Errorf("restore action %q: %w", rec.Name, err))
			continue
		}
		pl.Append(a, true)
	}
	return warns
}
