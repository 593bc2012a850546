// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides a set of error handling helpers,
// extending the standard library errors package with logging
// helpers and an aggregated [Warnings] list for recoverable failures.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

// Log takes the given error and logs it if it is non-nil.
// The intended usage is:
//
//	errors.Log(MyFunc(v))
//	// or
//	return errors.Log(MyFunc(v))
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return err
}

// Log1 takes the given value and error and returns the value if
// the error is nil, and logs the error and returns a zero value
// if the error is non-nil. The intended usage is:
//
//	a := errors.Log1(MyFunc(v))
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return v
}

// Ignore1 ignores an error return value for a function returning
// a value and an error, allowing direct usage of the value.
func Ignore1[T any](v T, err error) T {
	return v
}

// Must takes the given error and panics if it is non-nil.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 takes the given value and error and returns the value
// if the error is nil, and panics if the error is non-nil.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// CallerInfo returns string information about the caller
// of the function that called CallerInfo.
func CallerInfo() string {
	pc, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%s:%d %s", filepath.Base(file), line, runtime.FuncForPC(pc).Name())
}

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// As is [errors.As].
func As(err error, target any) bool { return errors.As(err, target) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// ErrUnsupported is [errors.ErrUnsupported].
var ErrUnsupported = errors.ErrUnsupported

// Warnings is an ordered list of recoverable errors collected during
// an operation that otherwise completed. A nil Warnings is empty.
type Warnings []error

// Add appends err to the list, ignoring nil errors.
func (w *Warnings) Add(err error) {
	if err != nil {
		*w = append(*w, err)
	}
}

// Addf appends a formatted error to the list.
func (w *Warnings) Addf(format string, args ...any) {
	*w = append(*w, fmt.Errorf(format, args...))
}

// Extend appends all of the given warnings.
func (w *Warnings) Extend(o Warnings) {
	*w = append(*w, o...)
}

// Len returns the number of warnings.
func (w Warnings) Len() int { return len(w) }

// Strings returns the human-readable message of each warning.
func (w Warnings) Strings() []string {
	s := make([]string, len(w))
	for i, e := range w {
		s[i] = e.Error()
	}
	return s
}

// Err returns the warnings joined into a single error, or nil if empty.
func (w Warnings) Err() error {
	if len(w) == 0 {
		return nil
	}
	return errors.Join(w...)
}

// String returns all warnings, one per line.
func (w Warnings) String() string {
	return strings.Join(w.Strings(), "\n")
}
