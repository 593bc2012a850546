// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fsx provides file system helpers for the paths
// that are loaded into tables.
package fsx

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cogentcore.org/datview/base/errors"
	"github.com/mitchellh/go-homedir"
)

// Canonical returns the canonical form of the given path:
// a leading ~ is expanded to the home directory, and the
// result is absolute and cleaned.
func Canonical(path string) (string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(p)
}

// Stem returns the base name of the path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ext returns the lower-case extension of the path, including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// SortByBase returns the permutation of the given paths that orders them
// by their base names, with ties keeping the input order.
func SortByBase(paths []string) []int {
	idx := make([]int, len(paths))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return filepath.Base(paths[idx[a]]) < filepath.Base(paths[idx[b]])
	})
	return idx
}

// FileExists checks whether given file exists, returning true if so,
// false if not, and error if there is an error in accessing the file.
func FileExists(filePath string) (bool, error) {
	fileInfo, err := os.Stat(filePath)
	if err == nil {
		return !fileInfo.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// DirAndFile returns the directory and file name of the given path.
func DirAndFile(path string) (dir, file string) {
	dir, file = filepath.Split(path)
	return filepath.Clean(dir), file
}
