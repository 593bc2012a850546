// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session provides [Session], which owns the loaded tables and
// the pipeline and is the only place where they are mutated.
package session

import (
	"fmt"
	"log/slog"
	"runtime"
	"slices"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/base/metadata"
	"cogentcore.org/datview/fileio"
	"cogentcore.org/datview/pipeline"
	"cogentcore.org/datview/plugins"
	"cogentcore.org/datview/settings"
	"cogentcore.org/datview/table"
)

// Session is the loaded tables and the pipeline applied to them.
type Session struct {

	// Tables are the loaded tables.
	Tables *table.List

	// Pipeline is the pipeline of actions.
	Pipeline *pipeline.Pipeline

	// Settings are the persisted settings, nil for none.
	Settings *settings.Settings

	// SettingsPath is where [Session.SavePipeline] saves the settings,
	// empty to only update Settings.
	SettingsPath string

	// OnDataChanged is called with the tables whose data changed,
	// for example to refresh a plot. It may be nil.
	OnDataChanged func(changed []*table.Table)

	// OnStatus is called after each file is loaded. It may be nil.
	OnStatus table.StatusFunc
}

// OpenOptions are the options for [Open]. Exactly one of Paths and
// Tables must be given.
type OpenOptions struct {

	// Paths are files to load.
	Paths []string

	// Formats are nil to detect, or the format of each of Paths.
	Formats []string

	// Tables are in-memory tables to load.
	Tables []*table.Table

	// Names are nil, or the raw name of each of Tables.
	Names []string

	// Settings are the settings to use, nil for the defaults.
	Settings *settings.Settings
}

// New returns a new empty Session using the given settings,
// or the defaults if nil.
func New(st *settings.Settings) *Session {
	if st == nil {
		st = settings.Defaults()
	}
	return &Session{
		Tables:   table.NewList(fileio.NewReader(st.Loader)),
		Pipeline: pipeline.New(),
		Settings: st,
	}
}

// Open returns a new Session with the given files or tables loaded.
func Open(opts OpenOptions) (s *Session, warns errors.Warnings, err error) {
	hasPaths, hasTables := len(opts.Paths) > 0, len(opts.Tables) > 0
	if hasPaths == hasTables {
		return nil, nil, &table.ConfigurationError{Op: "open", Msg: "exactly one of paths and tables must be given"}
	}
	s = New(opts.Settings)
	if hasPaths {
		warns, err = s.LoadFiles(opts.Paths, opts.Formats, table.Replace)
	} else {
		warns, err = s.LoadTables(opts.Tables, opts.Names, table.Replace)
	}
	if err != nil {
		return nil, warns, err
	}
	return s, warns, nil
}

// LoadFiles loads the given files. In [table.Replace] mode the pipeline
// is applied to all tables, and in [table.Add] mode to the new tables only.
func (s *Session) LoadFiles(paths, formats []string, mode table.LoadMode) (warns errors.Warnings, err error) {
	defer guard("load files", &err)
	added, warns, err := s.Tables.LoadFiles(paths, formats, mode, s.OnStatus)
	if err != nil {
		return warns, err
	}
	slog.Info("loaded files", "files", len(paths), "tables", len(added), "mode", mode)
	warns.Extend(s.loaded(added, mode))
	return warns, nil
}

// LoadTables loads the given in-memory tables, with optional raw names.
func (s *Session) LoadTables(tabs []*table.Table, names []string, mode table.LoadMode) (warns errors.Warnings, err error) {
	defer guard("load tables", &err)
	added, err := s.Tables.LoadTables(tabs, names, mode)
	if err != nil {
		return nil, err
	}
	return s.loaded(added, mode), nil
}

func (s *Session) loaded(added []*table.Table, mode table.LoadMode) errors.Warnings {
	var res *pipeline.Result
	if mode == table.Replace {
		s.CleanMemory()
		res = s.Pipeline.Apply(s.Tables.Tables, nil, pipeline.ApplyOptions{Force: true, ApplyToAll: true})
	} else {
		res = s.Pipeline.Apply(s.Tables.Tables, added, pipeline.ApplyOptions{Force: true})
	}
	s.dataChanged(added)
	return res.Warnings
}

// Reload reads the files of all tables again, replacing the tables
// with new ones, restores their formulas, and applies the pipeline.
// Display names and the order of tables are kept, including the
// in-memory tables. New tables from the files go at the end.
func (s *Session) Reload() (warns errors.Warnings, err error) {
	defer guard("reload", &err)
	srcs := s.Tables.Sources()
	if len(srcs) == 0 {
		return nil, nil
	}
	pending := table.CaptureFormulas(s.Tables.Tables)
	prev := slices.Clone(s.Tables.Tables)
	paths := make([]string, len(srcs))
	formats := make([]string, len(srcs))
	for i, src := range srcs {
		paths[i], formats[i] = src.Path, src.Requested
	}
	added, warns, err := s.Tables.LoadFiles(paths, formats, table.Replace, s.OnStatus)
	if err != nil {
		return warns, err
	}
	warns.Extend(pending.RestoreAll(added))
	tabs := reloadOrder(prev, added)
	s.Tables.Clean()
	if _, err := s.Tables.LoadTables(tabs, nil, table.Add); err != nil {
		return warns, err
	}
	s.CleanMemory()
	s.Pipeline.Invalidate()
	res := s.Pipeline.Apply(s.Tables.Tables, nil, pipeline.ApplyOptions{Force: true, ApplyToAll: true})
	warns.Extend(res.Warnings)
	s.dataChanged(s.Tables.Tables)
	return warns, nil
}

// reloadOrder returns the reloaded tables in the order of prev, with
// the display names of the tables they replace. In-memory tables of
// prev are kept as is, and added tables not in prev go last.
func reloadOrder(prev, added []*table.Table) []*table.Table {
	byRaw := make(map[string]*table.Table, len(added))
	for _, dt := range added {
		byRaw[dt.RawName] = dt
	}
	tabs := make([]*table.Table, 0, len(prev)+len(added))
	for _, old := range prev {
		if old.Source.Path == "" {
			tabs = append(tabs, old)
			continue
		}
		if dt, ok := byRaw[old.RawName]; ok {
			dt.Name = old.Name
			tabs = append(tabs, dt)
			delete(byRaw, old.RawName)
		}
	}
	for _, dt := range added {
		if _, ok := byRaw[dt.RawName]; ok {
			tabs = append(tabs, dt)
		}
	}
	return tabs
}

// Rename renames the table at given index, returning the old name.
func (s *Session) Rename(i int, name string) (old string, err error) {
	defer guard("rename", &err)
	return s.Tables.Rename(i, name)
}

// Delete deletes the tables at given indexes and returns true if no
// tables are left, in which case memory is reclaimed.
func (s *Session) Delete(indices ...int) (reset bool, err error) {
	defer guard("delete", &err)
	reset = s.Tables.Delete(indices...)
	s.Pipeline.Apply(s.Tables.Tables, nil, pipeline.ApplyOptions{})
	if reset {
		s.CleanMemory()
	}
	return reset, nil
}

// Sort sorts the tables, see [table.List.Sort].
func (s *Session) Sort(byName bool) {
	s.Tables.Sort(byName)
}

// CleanMemory reclaims the memory of discarded tables.
func (s *Session) CleanMemory() {
	s.Pipeline.Apply(s.Tables.Tables, nil, pipeline.ApplyOptions{})
	runtime.GC()
}

func (s *Session) dataChanged(changed []*table.Table) {
	if s.OnDataChanged != nil && len(changed) > 0 {
		s.OnDataChanged(changed)
	}
}

func (s *Session) tables(indices []int) ([]*table.Table, error) {
	if len(indices) == 0 {
		return slices.Clone(s.Tables.Tables), nil
	}
	tabs := make([]*table.Table, len(indices))
	for i, ti := range indices {
		dt, err := s.Tables.GetTry(ti)
		if err != nil {
			return nil, err
		}
		tabs[i] = dt
	}
	return tabs, nil
}

// AddFormula adds a formula column to the table at given index.
// A formula failure is returned as a warning and nothing is added.
func (s *Session) AddFormula(i int, name, expr string, pos int) (changed bool, warns errors.Warnings, err error) {
	defer guard("add formula", &err)
	dt, err := s.Tables.GetTry(i)
	if err != nil {
		return false, nil, err
	}
	if ferr := dt.AddColumnByFormula(name, expr, pos); ferr != nil {
		warns.Add(ferr)
		return false, warns, nil
	}
	res := s.Pipeline.Apply(s.Tables.Tables, []*table.Table{dt}, pipeline.ApplyOptions{})
	warns.Extend(res.Warnings)
	s.dataChanged([]*table.Table{dt})
	return true, warns, nil
}

// RemoveFormula removes the formula column of given name from the
// table at given index, returning false if there is none.
func (s *Session) RemoveFormula(i int, name string) (removed bool, err error) {
	defer guard("remove formula", &err)
	dt, err := s.Tables.GetTry(i)
	if err != nil {
		return false, err
	}
	if !dt.RemoveFormula(name) {
		return false, nil
	}
	s.Pipeline.Apply(s.Tables.Tables, []*table.Table{dt}, pipeline.ApplyOptions{})
	s.dataChanged([]*table.Table{dt})
	return true, nil
}

// Apply applies the pipeline to the tables at given indexes,
// or all tables if none are given.
func (s *Session) Apply(opts pipeline.ApplyOptions, indices ...int) (res *pipeline.Result, err error) {
	defer guard("apply", &err)
	tabs, err := s.tables(indices)
	if err != nil {
		return nil, err
	}
	res = s.Pipeline.Apply(s.Tables.Tables, tabs, opts)
	s.dataChanged(res.Changed)
	return res, nil
}

// applyAll applies the pipeline to all tables after an action changed.
func (s *Session) applyAll() *pipeline.Result {
	res := s.Pipeline.Apply(s.Tables.Tables, nil, pipeline.ApplyOptions{ApplyToAll: true})
	s.dataChanged(res.Changed)
	return res
}

// AddAction appends a new action of the stateful tool of given name,
// with the given parameters over the tool defaults, and applies the
// pipeline. See [pipeline.Pipeline.Append] for cancelIfPresent.
func (s *Session) AddAction(name string, params metadata.Data, cancelIfPresent bool) (a *pipeline.Action, res *pipeline.Result, err error) {
	defer guard("add action", &err)
	na, err := plugins.NewAction(name, params)
	if err != nil {
		return nil, nil, err
	}
	a = s.Pipeline.Append(na, cancelIfPresent)
	return a, s.applyAll(), nil
}

// RemoveAction removes the action of given name and applies the pipeline.
func (s *Session) RemoveAction(name string) (removed bool, res *pipeline.Result, err error) {
	defer guard("remove action", &err)
	if !s.Pipeline.Remove(name) {
		return false, &pipeline.Result{}, nil
	}
	return true, s.applyAll(), nil
}

// FindAction returns the action of given name.
func (s *Session) FindAction(name string) (*pipeline.Action, bool) {
	return s.Pipeline.Find(name)
}

// UpdateAction calls fn on the action of given name, typically to
// set its parameters, and applies the pipeline.
func (s *Session) UpdateAction(name string, fn func(a *pipeline.Action)) (res *pipeline.Result, err error) {
	defer guard("update action", &err)
	a, ok := s.Pipeline.Find(name)
	if !ok {
		return nil, fmt.Errorf("no action %q in the pipeline", name)
	}
	fn(a)
	return s.applyAll(), nil
}

// Dispatch runs the tool of given name. A stateless tool is run on the
// tables at given indexes, or all tables, and returns a nil action.
// A stateful tool adds its action to the pipeline, or updates the
// existing one with the given parameters over its current ones.
func (s *Session) Dispatch(name string, params metadata.Data, indices ...int) (a *pipeline.Action, warns errors.Warnings, err error) {
	defer guard("dispatch", &err)
	tl, err := plugins.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	switch tl := tl.(type) {
	case *plugins.StatelessTool:
		tabs, err := s.tables(indices)
		if err != nil {
			return nil, nil, err
		}
		if err := tl.Run(tabs, params); err != nil {
			return nil, nil, err
		}
		res := s.Pipeline.Apply(s.Tables.Tables, tabs, pipeline.ApplyOptions{Force: true})
		s.dataChanged(tabs)
		return nil, res.Warnings, nil
	case *plugins.StatefulTool:
		if ex, ok := s.Pipeline.Find(name); ok {
			md := ex.Params.Clone()
			md.Copy(params.Clone())
			params = md
		}
		a = s.Pipeline.Append(tl.NewAction(params), false)
		return a, s.applyAll().Warnings, nil
	}
	return nil, nil, fmt.Errorf("tool %q has an unknown kind %T", name, tl)
}

// PlotData returns the x and y series of the named columns of the table
// at given index, after the series actions of the pipeline.
func (s *Session) PlotData(i int, xcol, ycol string) (x, y []float64, warns errors.Warnings, err error) {
	defer guard("plot data", &err)
	dt, err := s.Tables.GetTry(i)
	if err != nil {
		return nil, nil, nil, err
	}
	xs, err := dt.Floats(xcol)
	if err != nil {
		return nil, nil, nil, err
	}
	ys, err := dt.Floats(ycol)
	if err != nil {
		return nil, nil, nil, err
	}
	x, y, warns = s.Pipeline.ApplyXY(dt, xs, ys)
	return x, y, warns, nil
}

// Status returns the status of the tables at given indexes,
// or all tables.
func (s *Session) Status(sel ...int) table.Status {
	return s.Tables.Status(sel...)
}

// Export saves the table at given index as a CSV file.
func (s *Session) Export(i int, path string, delim table.Delims) (err error) {
	defer guard("export", &err)
	dt, err := s.Tables.GetTry(i)
	if err != nil {
		return err
	}
	return dt.SaveCSV(path, delim)
}

// SavePipeline stores the pipeline in the settings, including inactive
// actions, and saves the settings to SettingsPath if set.
func (s *Session) SavePipeline() error {
	if s.Settings == nil {
		s.Settings = settings.Defaults()
	}
	s.Settings.Pipeline = s.Pipeline.Records()
	if s.SettingsPath == "" {
		return nil
	}
	return s.Settings.Save(s.SettingsPath)
}

// RestorePipeline appends the actions stored in the settings, in order,
// and applies the pipeline.
func (s *Session) RestorePipeline() errors.Warnings {
	if s.Settings == nil {
		return nil
	}
	warns := s.Pipeline.Restore(s.Settings.Pipeline, plugins.Factory)
	warns.Extend(s.applyAll().Warnings)
	return warns
}
