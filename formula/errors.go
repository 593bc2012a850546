// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formula

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is returned for expressions that cannot be parsed.
	ErrSyntax = errors.New("syntax error")

	// ErrUnknownColumn is returned when an expression references
	// a name that is neither a column nor a constant.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrType is returned when a text column is used as a number.
	ErrType = errors.New("type mismatch")

	// ErrDivideByZero is returned when a divisor is zero.
	ErrDivideByZero = errors.New("division by zero")

	// ErrUnknownFunc is returned for calls to unknown functions.
	ErrUnknownFunc = errors.New("unknown function")

	// ErrArgs is returned for calls with the wrong number of arguments.
	ErrArgs = errors.New("wrong number of arguments")
)

// Error is an expression failure, with the offending expression
// and the underlying cause, which wraps one of the Err* kinds.
type Error struct {
	Expr string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("formula %q: %v", e.Expr, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}
