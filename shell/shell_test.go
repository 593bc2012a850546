// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cogentcore.org/datview/session"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShell(t *testing.T) (*Shell, *bytes.Buffer, string) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run1.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n0,1\n1,2\n2,3\n3,100\n4,4\n5,5\n"), 0666))
	var b bytes.Buffer
	sh := New(session.New(nil), &b, termenv.WithProfile(termenv.Ascii))
	return sh, &b, path
}

func TestLoadAndList(t *testing.T) {
	sh, b, path := testShell(t)
	require.NoError(t, sh.RunLine("load "+path))
	assert.Contains(t, b.String(), "0\trun1\t6x2\tx, y")

	b.Reset()
	require.NoError(t, sh.RunLine("formula 0 y2 'y * 2'"))
	require.NoError(t, sh.RunLine("status 0"))
	assert.Contains(t, b.String(), "6x3")

	require.NoError(t, sh.RunLine("rename 0 first"))
	assert.Equal(t, "first", sh.Session.Tables.Get(0).Name)
	require.NoError(t, sh.RunLine("unformula 0 y2"))
	assert.Error(t, sh.RunLine("unformula 0 y2"))
}

func TestPipelineCommands(t *testing.T) {
	sh, b, path := testShell(t)
	require.NoError(t, sh.RunLine("load "+path))
	require.NoError(t, sh.RunLine(`tool "Remove outliers" medianDeviation=5`))
	require.NoError(t, sh.RunLine(`enable "Remove outliers"`))
	b.Reset()
	require.NoError(t, sh.RunLine("plot 0 x y"))
	assert.Equal(t, "0\t1\n1\t2\n2\t3\n4\t4\n5\t5\n", b.String())

	require.NoError(t, sh.RunLine(`disable "Remove outliers"`))
	require.NoError(t, sh.RunLine(`tool Mask expression='x < 2' active=true`))
	b.Reset()
	require.NoError(t, sh.RunLine("pipeline"))
	assert.Contains(t, b.String(), "0\tRemove outliers (series, inactive)")
	assert.Contains(t, b.String(), "1\tMask (table, active)")
	assert.Equal(t, 2, sh.Session.Tables.Get(0).NumRows())

	require.NoError(t, sh.RunLine(`set Mask expression='x < 3'`))
	assert.Equal(t, 3, sh.Session.Tables.Get(0).NumRows())
	require.NoError(t, sh.RunLine("remove Mask"))
	assert.Error(t, sh.RunLine("remove Mask"))
	assert.Error(t, sh.RunLine("set Nope a=1"))
}

func TestErrorsAndWarnings(t *testing.T) {
	sh, b, path := testShell(t)
	err := sh.RunLine("lod " + path)
	assert.ErrorContains(t, err, `did you mean "load"`)
	require.NoError(t, sh.RunLine("load "+path+" "+filepath.Join(filepath.Dir(path), "missing.csv")))
	assert.Contains(t, b.String(), "warning: could not load")

	b.Reset()
	require.NoError(t, sh.Run(strings.NewReader("# comment\n\nformula 0 bad 'nope + 1'\ndelete x\n")))
	out := b.String()
	assert.Contains(t, out, "warning: formula")
	assert.Contains(t, out, "error: invalid table index")
}

func TestHelp(t *testing.T) {
	sh, b, _ := testShell(t)
	require.NoError(t, sh.RunLine("help"))
	for _, c := range sh.Commands() {
		assert.Contains(t, b.String(), c)
	}
	assert.Error(t, sh.RunLine("help nope"))
	b.Reset()
	require.NoError(t, sh.RunLine("formats"))
	assert.Contains(t, b.String(), "csv\t.csv")
}

func TestExportSort(t *testing.T) {
	sh, _, path := testShell(t)
	other := filepath.Join(filepath.Dir(path), "a.csv")
	require.NoError(t, os.WriteFile(other, []byte("x\n1\n"), 0666))
	require.NoError(t, sh.RunLine("load "+path))
	require.NoError(t, sh.RunLine("add "+other))
	assert.Equal(t, []string{"run1", "a"}, sh.Session.Tables.Names())
	require.NoError(t, sh.RunLine("sort"))
	assert.Equal(t, []string{"a", "run1"}, sh.Session.Tables.Names())
	out := filepath.Join(filepath.Dir(path), "out.csv")
	require.NoError(t, sh.RunLine("export 0 "+out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "x\n1\n", string(data))
	require.NoError(t, sh.RunLine("delete 0 1"))
}
