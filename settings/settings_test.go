// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package settings

import (
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/datview/base/metadata"
	"cogentcore.org/datview/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() *Settings {
	s := Defaults()
	s.Loader.Delimiter = ";"
	s.Pipeline = []pipeline.Record{
		{Name: "A", Data: metadata.Data{"active": true, "medianDeviation": 5.0}},
		{Name: "B", Data: metadata.Data{"active": false, "window": 3.0}},
		{Name: "C", Data: metadata.Data{"active": true, "expression": "x > 1"}},
	}
	return s
}

func TestDefaults(t *testing.T) {
	s := Defaults()
	assert.Equal(t, "1.0.0", s.Version)
	assert.Equal(t, "#", s.Loader.Comment)
	assert.Empty(t, s.Pipeline)
}

func TestDayFirst(t *testing.T) {
	assert.False(t, DayFirst("en-US"))
	assert.False(t, DayFirst("en_US.UTF-8"))
	assert.True(t, DayFirst("en-GB"))
	assert.True(t, DayFirst("fr_FR"))
	assert.True(t, DayFirst(""))
}

func TestSaveOpen(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml"} {
		path := filepath.Join(t.TempDir(), "settings"+ext)
		s := testSettings()
		require.NoError(t, s.Save(path))
		o, warns, err := Open(path)
		require.NoError(t, err)
		assert.Empty(t, warns)
		assert.Equal(t, s.Loader, o.Loader, ext)
		names := []string{}
		for _, r := range o.Pipeline {
			names = append(names, r.Name)
		}
		assert.Equal(t, []string{"A", "B", "C"}, names, ext)
		assert.Equal(t, false, o.Pipeline[1].Data["active"], ext)
		if diff := cmp.Diff(s.Pipeline[2].Data, o.Pipeline[2].Data); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", ext, diff)
		}
	}
}

func TestOpenFallback(t *testing.T) {
	dir := t.TempDir()
	s, warns, err := Open(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, "1.0.0", s.Version)

	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = [\n"), 0666))
	s, warns, err = Open(path)
	require.NoError(t, err)
	assert.Len(t, warns, 1)
	assert.Equal(t, "1.0.0", s.Version)

	path = filepath.Join(dir, "new.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = \"2.1.0\"\n[[pipeline]]\nname = \"A\"\n"), 0666))
	s, warns, err = Open(path)
	require.NoError(t, err)
	assert.Len(t, warns, 1)
	assert.Empty(t, s.Pipeline)

	_, _, err = Open(filepath.Join(dir, "settings.ini"))
	assert.Error(t, err)
	assert.Error(t, testSettings().Save(filepath.Join(dir, "settings.ini")))
}

func TestResetMissing(t *testing.T) {
	assert.NoError(t, Reset(filepath.Join(t.TempDir(), "none.toml")))
}
