// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/base/metadata"
	"cogentcore.org/datview/pipeline"
	"cogentcore.org/datview/plugins"
	"cogentcore.org/datview/settings"
	"cogentcore.org/datview/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	require.NoError(t, os.WriteFile(path, []byte(content), 0666))
}

func memTable(t *testing.T, name string) *table.Table {
	dt := table.New(name)
	require.NoError(t, dt.AddColumn("x", table.NewFloat64(0, 1, 2, 3, 4, 5)))
	require.NoError(t, dt.AddColumn("y", table.NewFloat64(1, 2, 3, 100, 4, 5)))
	return dt
}

func TestOpenOptions(t *testing.T) {
	_, _, err := Open(OpenOptions{})
	var ce *table.ConfigurationError
	assert.ErrorAs(t, err, &ce)
	_, _, err = Open(OpenOptions{Paths: []string{"a.csv"}, Tables: []*table.Table{table.New("a")}})
	assert.ErrorAs(t, err, &ce)
	_, _, err = Open(OpenOptions{Paths: []string{"a.csv", "b.csv"}, Formats: []string{"csv"}})
	assert.ErrorAs(t, err, &ce)

	s, warns, err := Open(OpenOptions{Tables: []*table.Table{memTable(t, "")}, Names: []string{"mem"}})
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, []string{"mem"}, s.Tables.Names())
	assert.Equal(t, table.InMemory, s.Status().Format)
}

func TestLoadWithBadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.csv"), "x,y\n1,2\n")
	writeFile(t, filepath.Join(dir, "a.csv"), "x,y\n1,2\n")
	writeFile(t, filepath.Join(dir, "c.png"), "\x89PNG\r\n\x1a\n\x00\x00")
	paths := []string{filepath.Join(dir, "b.csv"), filepath.Join(dir, "c.png"), filepath.Join(dir, "a.csv")}
	var status []int
	s := New(nil)
	s.OnStatus = func(i int) { status = append(status, i) }
	warns, err := s.LoadFiles(paths, nil, table.Replace)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, s.Tables.Names())
	require.Len(t, warns, 1)
	var le *table.LoadError
	assert.True(t, errors.As(warns[0], &le))
	assert.Len(t, warns.Strings(), 1)
	assert.Equal(t, []int{0, 1, 2}, status)
}

func TestReloadFormulas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run1.csv")
	writeFile(t, path, "time,col1,col2\n0,1,5\n1,2,6\n")
	s, warns, err := Open(OpenOptions{Paths: []string{path}})
	require.NoError(t, err)
	assert.Empty(t, warns)
	changed, warns, err := s.AddFormula(0, "Power2", "col1*2", 3)
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.True(t, changed)
	old := s.Tables.Get(0)

	writeFile(t, path, "time,col1,col2\n0,10,5\n1,20,6\n2,30,7\n")
	warns, err = s.Reload()
	require.NoError(t, err)
	assert.Empty(t, warns)
	dt := s.Tables.Get(0)
	assert.NotSame(t, old, dt)
	assert.Equal(t, "run1", dt.RawName)
	assert.Equal(t, []string{"time", "col1", "col2", "Power2"}, dt.ColumnNames())
	assert.Equal(t, []float64{20, 40, 60}, table.Floats(dt.Column("Power2")))

	warns, err = s.Reload()
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Len(t, s.Tables.Get(0).Formulas, 1)
}

func TestReloadKeepsNamesAndOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.csv")
	writeFile(t, path, "x,y\n0,1\n1,2\n")
	s, _, err := Open(OpenOptions{Tables: []*table.Table{memTable(t, "mem")}})
	require.NoError(t, err)
	_, err = s.LoadFiles([]string{path}, nil, table.Add)
	require.NoError(t, err)
	_, err = s.Rename(1, "fast run")
	require.NoError(t, err)
	mem, old := s.Tables.Get(0), s.Tables.Get(1)

	writeFile(t, path, "x,y\n0,1\n1,2\n2,3\n")
	warns, err := s.Reload()
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, []string{"mem", "fast run"}, s.Tables.Names())
	assert.Same(t, mem, s.Tables.Get(0))
	dt := s.Tables.Get(1)
	assert.NotSame(t, old, dt)
	assert.Equal(t, "run", dt.RawName)
	assert.Equal(t, 3, dt.NumRows())
}

func TestReloadBrokenFormula(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run1.csv")
	writeFile(t, path, "time,col1\n0,1\n")
	s, _, err := Open(OpenOptions{Paths: []string{path}})
	require.NoError(t, err)
	_, warns, err := s.AddFormula(0, "f", "col1 + 1", 0)
	require.NoError(t, err)
	assert.Empty(t, warns)
	_, warns, err = s.AddFormula(0, "g", "nope", 0)
	require.NoError(t, err)
	require.Len(t, warns, 1)
	var fe *table.FormulaError
	assert.ErrorAs(t, warns[0], &fe)

	writeFile(t, path, "time,other\n0,1\n")
	warns, err = s.Reload()
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.ErrorAs(t, warns[0], &fe)
	assert.Equal(t, []string{"time", "other"}, s.Tables.Get(0).ColumnNames())
}

func TestDeleteAll(t *testing.T) {
	s, _, err := Open(OpenOptions{Tables: []*table.Table{memTable(t, "a"), memTable(t, "b")}})
	require.NoError(t, err)
	reset, err := s.Delete(0)
	require.NoError(t, err)
	assert.False(t, reset)
	reset, err = s.Delete(0)
	require.NoError(t, err)
	assert.True(t, reset)
	st := s.Status()
	assert.Equal(t, "", st.Format)
	assert.Equal(t, "", st.Filename)
	assert.Equal(t, "", st.Shape)
	_, _, _, err = s.PlotData(0, "x", "y")
	assert.Error(t, err)
}

func TestActionsAndPlot(t *testing.T) {
	s, _, err := Open(OpenOptions{Tables: []*table.Table{memTable(t, "run")}})
	require.NoError(t, err)
	a, _, err := s.Dispatch(plugins.OutliersName, nil)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.False(t, a.IsActive())
	x, y, warns, err := s.PlotData(0, "x", "y")
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Len(t, y, 6)

	_, err = s.UpdateAction(plugins.OutliersName, func(a *pipeline.Action) { a.SetActive(true) })
	require.NoError(t, err)
	x, y, _, err = s.PlotData(0, "x", "y")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 4, 5}, x)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, y)

	var changed int
	s.OnDataChanged = func(tabs []*table.Table) { changed += len(tabs) }
	_, res, err := s.AddAction(plugins.MaskName, metadata.Data{"active": true, "expression": "x < 3"}, false)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 1, changed)
	assert.Equal(t, 3, s.Tables.Get(0).NumRows())

	removed, _, err := s.RemoveAction(plugins.MaskName)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 6, s.Tables.Get(0).NumRows())

	_, _, err = s.Dispatch("Remove outlier", nil)
	assert.ErrorContains(t, err, "did you mean")
}

func TestDispatchKeepsParams(t *testing.T) {
	s, _, err := Open(OpenOptions{Tables: []*table.Table{memTable(t, "run")}})
	require.NoError(t, err)
	a, _, err := s.Dispatch(plugins.OutliersName, metadata.Data{"active": true, "medianDeviation": 3.0})
	require.NoError(t, err)
	require.NotNil(t, a)

	b, _, err := s.Dispatch(plugins.OutliersName, nil)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.True(t, b.IsActive())
	assert.Equal(t, 3.0, metadata.GetOr(b.Params, "medianDeviation", 0.0))

	b, _, err = s.Dispatch(plugins.OutliersName, metadata.Data{"medianDeviation": 4.0})
	require.NoError(t, err)
	assert.True(t, b.IsActive())
	assert.Equal(t, 4.0, metadata.GetOr(b.Params, "medianDeviation", 0.0))
	assert.Equal(t, 1, s.Pipeline.Len())
}

func TestPipelinePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	s := New(nil)
	s.SettingsPath = path
	_, _, err := s.AddAction(plugins.OutliersName, metadata.Data{"active": true}, false)
	require.NoError(t, err)
	_, _, err = s.AddAction(plugins.FilterName, nil, false)
	require.NoError(t, err)
	_, _, err = s.AddAction(plugins.SamplerName, metadata.Data{"active": true, "step": 3}, false)
	require.NoError(t, err)
	require.NoError(t, s.SavePipeline())

	st, warns, err := settings.Open(path)
	require.NoError(t, err)
	assert.Empty(t, warns)
	ns := New(st)
	assert.Empty(t, ns.RestorePipeline())
	assert.Equal(t, []string{plugins.OutliersName, plugins.FilterName, plugins.SamplerName}, ns.Pipeline.Names())
	f, ok := ns.FindAction(plugins.FilterName)
	require.True(t, ok)
	assert.False(t, f.IsActive())
	smp, _ := ns.FindAction(plugins.SamplerName)
	assert.Equal(t, 3, metadata.GetOr(smp.Params, "step", 0))
}

func TestDropNaNAndExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	writeFile(t, path, "x,y\n0,1\n1,\n2,3\n")
	s, _, err := Open(OpenOptions{Paths: []string{path}})
	require.NoError(t, err)
	a, _, err := s.Dispatch(plugins.DropNaNName, nil)
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.Equal(t, 2, s.Tables.Get(0).NumRows())
	assert.Zero(t, s.Pipeline.Len())

	out := filepath.Join(dir, "out.csv")
	require.NoError(t, s.Export(0, out, table.Comma))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "x,y\n0,1\n2,3\n", string(b))
}

func TestInternalError(t *testing.T) {
	s := New(nil)
	s.OnDataChanged = func([]*table.Table) { panic("plot failed") }
	_, err := s.LoadTables([]*table.Table{memTable(t, "a")}, nil, table.Replace)
	var ie *InternalError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "load tables", ie.Op)
	s.OnDataChanged = nil
	_, err = s.Rename(0, "b")
	assert.NoError(t, err)
}
