// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run1.csv")
	other := filepath.Join(dir, "other.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\n1\n"), 0666))

	w, err := New([]string{path}, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(other, []byte("x\n1\n"), 0666))
	require.NoError(t, os.WriteFile(path, []byte("x\n2\n"), 0666))
	require.NoError(t, os.WriteFile(path, []byte("x\n3\n"), 0666))
	select {
	case batch := <-w.Events():
		assert.Equal(t, []string{path}, batch)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
}

func TestWatchMissingDir(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "nodir", "a.csv")}, 0)
	assert.Error(t, err)
}

func TestUpdate(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(a, []byte("x\n1\n"), 0666))
	require.NoError(t, os.WriteFile(b, []byte("x\n1\n"), 0666))

	w, err := Update(nil, []string{a}, 50*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, []string{a}, w.Files())

	same, err := Update(w, []string{a, a}, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Same(t, w, same)

	nw, err := Update(w, []string{b, a}, 50*time.Millisecond)
	require.NoError(t, err)
	require.NotSame(t, w, nw)
	defer nw.Close()
	assert.Equal(t, []string{a, b}, nw.Files())
	for range w.Events() {
	}

	require.NoError(t, os.WriteFile(b, []byte("x\n2\n"), 0666))
	select {
	case batch := <-nw.Events():
		assert.Equal(t, []string{b}, batch)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
}

func TestUpdateNoFiles(t *testing.T) {
	w, err := Update(nil, nil, 0)
	require.NoError(t, err)
	assert.Nil(t, w)
}
