// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import "fmt"

// LoadError is a per-file failure to read a source. It is
// collected as a warning and does not stop loading of other files.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ConfigurationError is returned when the shape of the arguments
// of a call is invalid, for example mismatched lengths of
// file names and formats. The whole call fails.
type ConfigurationError struct {
	Op  string
	Msg string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func configErrorf(op, format string, args ...any) error {
	return &ConfigurationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// FormulaError is a failure to evaluate a formula column on a table.
// The formula is dropped and the table is otherwise unchanged.
type FormulaError struct {
	Table string
	Name  string
	Expr  string
	Err   error
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("formula %q = %q on table %q: %v", e.Name, e.Expr, e.Table, e.Err)
}

func (e *FormulaError) Unwrap() error { return e.Err }
