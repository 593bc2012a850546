// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"
	"testing"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/base/iox/tomlx"
	"cogentcore.org/datview/base/metadata"
	"cogentcore.org/datview/table"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scaleAction(name string, factor float64, active bool) *Action {
	return NewXYAction(name, metadata.Data{"active": active, "factor": factor}, func(x, y []float64, md metadata.Data) ([]float64, []float64, error) {
		f := metadata.GetOr(md, "factor", 1.0)
		for i := range y {
			y[i] *= f
		}
		return x, y, nil
	})
}

func offsetAction(name string, off float64) *Action {
	return NewXYAction(name, metadata.Data{"active": true, "offset": off}, func(x, y []float64, md metadata.Data) ([]float64, []float64, error) {
		o := metadata.GetOr(md, "offset", 0.0)
		for i := range y {
			y[i] += o
		}
		return x, y, nil
	})
}

// keepAbove keeps rows where column "y" is above the "min" parameter.
func keepAbove(name string, mn float64) *Action {
	return NewTableAction(name, metadata.Data{"active": true, "min": mn}, func(dt *table.Table, md metadata.Data) error {
		ys, err := dt.Floats("y")
		if err != nil {
			return err
		}
		m := metadata.GetOr(md, "min", 0.0)
		var idx []int
		for i, v := range ys {
			if v > m {
				idx = append(idx, i)
			}
		}
		dt.SelectRows(idx)
		return nil
	})
}

func failing(name string) *Action {
	return NewTableAction(name, metadata.Data{"active": true}, func(dt *table.Table, md metadata.Data) error {
		dt.SelectRows(nil)
		return fmt.Errorf("always fails")
	})
}

func panicking(name string) *Action {
	return NewXYAction(name, metadata.Data{"active": true}, func(x, y []float64, md metadata.Data) ([]float64, []float64, error) {
		panic("boom")
	})
}

func testTable(t *testing.T, name string) *table.Table {
	dt := table.New(name)
	require.NoError(t, dt.AddColumn("x", table.NewFloat64(0, 1, 2, 3, 4)))
	require.NoError(t, dt.AddColumn("y", table.NewFloat64(1, 5, 2, 6, 3)))
	return dt
}

func TestAppendRemove(t *testing.T) {
	pl := New()
	a := pl.Append(scaleAction("A", 2, true), false)
	pl.Append(offsetAction("B", 1), false)
	assert.Equal(t, []string{"A", "B"}, pl.Names())

	got := pl.Append(scaleAction("A", 3, true), false)
	assert.Same(t, a, got)
	assert.Equal(t, []string{"A", "B"}, pl.Names())
	assert.Equal(t, 3.0, a.Params["factor"])

	pl.Append(scaleAction("A", 4, true), true)
	pl.Append(scaleAction("A", 5, true), true)
	assert.Equal(t, []string{"B", "A"}, pl.Names())
	assert.Equal(t, 2, pl.Len())

	assert.True(t, pl.Remove("B"))
	assert.False(t, pl.Remove("B"))
	_, ok := pl.Find("B")
	assert.False(t, ok)
	f, ok := pl.Find("A")
	require.True(t, ok)
	assert.Equal(t, 5.0, f.Params["factor"])
}

func TestApplyXYOrder(t *testing.T) {
	pl := New()
	pl.Append(scaleAction("scale", 2, true), false)
	pl.Append(offsetAction("offset", 1), false)
	x, y := []float64{0, 1}, []float64{1, 2}
	nx, ny, warns := pl.ApplyXY(nil, x, y)
	assert.Empty(t, warns)
	assert.Equal(t, []float64{3, 5}, ny)
	assert.Equal(t, []float64{0, 1}, nx)
	assert.Equal(t, []float64{1, 2}, y)

	pl.Append(scaleAction("scale", 2, true), true)
	_, ny, _ = pl.ApplyXY(nil, x, y)
	assert.Equal(t, []float64{4, 6}, ny)
}

func TestInactiveNoop(t *testing.T) {
	pl := New()
	a := pl.Append(scaleAction("scale", 10, false), false)
	_, ny, _ := pl.ApplyXY(nil, []float64{0}, []float64{1})
	assert.Equal(t, []float64{1}, ny)

	var calls int
	a.SetOnChange(func(*Action) { calls++ })
	a.SetActive(true)
	_, ny, _ = pl.ApplyXY(nil, []float64{0}, []float64{1})
	assert.Equal(t, []float64{10}, ny)
	a.SetActive(false)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, pl.Len())
}

func TestApplyXYFailure(t *testing.T) {
	pl := New()
	pl.Append(scaleAction("scale", 2, true), false)
	pl.Append(panicking("bad"), false)
	pl.Append(offsetAction("offset", 1), false)
	_, ny, warns := pl.ApplyXY(table.New("run"), []float64{0, 1}, []float64{1, 2})
	assert.Equal(t, []float64{3, 5}, ny)
	require.Len(t, warns, 1)
	var ae *ActionError
	require.True(t, errors.As(warns[0], &ae))
	assert.Equal(t, "bad", ae.Action)
	assert.Equal(t, "run", ae.Table)
}

func TestApplyTables(t *testing.T) {
	pl := New()
	a, b := testTable(t, "a"), testTable(t, "b")
	all := []*table.Table{a, b}
	pl.Append(keepAbove("mask", 2), false)
	res := pl.Apply(all, nil, ApplyOptions{ApplyToAll: true})
	assert.Len(t, res.Changed, 2)
	assert.Equal(t, []float64{5, 6, 3}, table.Floats(a.Column("y")))

	res = pl.Apply(all, nil, ApplyOptions{ApplyToAll: true})
	assert.Empty(t, res.Changed)
	res = pl.Apply(all, []*table.Table{b}, ApplyOptions{Force: true})
	assert.Equal(t, []*table.Table{b}, res.Changed)

	act, _ := pl.Find("mask")
	act.SetParam("min", 4)
	pl.Apply(all, nil, ApplyOptions{ApplyToAll: true})
	assert.Equal(t, []float64{5, 6}, table.Floats(a.Column("y")))

	act.SetActive(false)
	res = pl.Apply(all, nil, ApplyOptions{ApplyToAll: true})
	assert.Len(t, res.Changed, 2)
	assert.Equal(t, 5, a.NumRows())
	assert.False(t, a.IsMaterialized())
}

func TestApplyTableFailure(t *testing.T) {
	pl := New()
	a := testTable(t, "a")
	pl.Append(failing("bad"), false)
	pl.Append(keepAbove("mask", 2), false)
	res := pl.Apply([]*table.Table{a}, []*table.Table{a}, ApplyOptions{})
	require.Len(t, res.Warnings, 1)
	var ae *ActionError
	require.ErrorAs(t, res.Warnings[0], &ae)
	assert.Equal(t, "bad", ae.Action)
	assert.Equal(t, "a", ae.Table)
	assert.Equal(t, []float64{5, 6, 3}, table.Floats(a.Column("y")))
}

func TestApplyDeterministic(t *testing.T) {
	run := func() []float64 {
		pl := New()
		dt := testTable(t, "a")
		pl.Append(keepAbove("mask", 1.5), false)
		pl.Append(scaleAction("scale", 0.1, true), false)
		pl.Apply([]*table.Table{dt}, nil, ApplyOptions{ApplyToAll: true})
		ys, err := dt.Floats("y")
		require.NoError(t, err)
		_, ny, _ := pl.ApplyXY(dt, table.Floats(dt.Column("x")), ys)
		return ny
	}
	assert.Equal(t, run(), run())
}

func TestRecordsRoundTrip(t *testing.T) {
	pl := New()
	pl.Append(scaleAction("A", 2, true), false)
	pl.Append(scaleAction("B", 3, false), false)
	pl.Append(offsetAction("C", 1), false)

	type saved struct {
		Pipeline []Record `toml:"pipeline"`
	}
	b, err := tomlx.WriteBytes(&saved{Pipeline: pl.Records()})
	require.NoError(t, err)
	var sv saved
	require.NoError(t, tomlx.ReadBytes(&sv, b))

	factory := func(rec Record) (*Action, error) {
		switch rec.Name {
		case "A", "B":
			a := scaleAction(rec.Name, 1, false)
			a.Params = rec.Data.Clone()
			return a, nil
		case "C":
			a := offsetAction(rec.Name, 0)
			a.Params = rec.Data.Clone()
			return a, nil
		}
		return nil, fmt.Errorf("unknown action")
	}
	np := New()
	warns := np.Restore(append(sv.Pipeline, Record{Name: "Z"}), factory)
	assert.Len(t, warns, 1)
	assert.Equal(t, []string{"A", "B", "C"}, np.Names())
	b2, _ := np.Find("B")
	assert.False(t, b2.IsActive())
	a2, _ := np.Find("A")
	assert.True(t, a2.IsActive())
	assert.Equal(t, 2.0, metadata.GetOr(a2.Params, "factor", 0.0))

	_, ny, _ := np.ApplyXY(nil, []float64{0}, []float64{1})
	_, oy, _ := pl.ApplyXY(nil, []float64{0}, []float64{1})
	if diff := cmp.Diff(oy, ny); diff != "" {
		t.Errorf("restored pipeline output differs (-want +got):\n%s", diff)
	}
}
