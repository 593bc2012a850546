// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// InternalError is an unexpected failure inside a session operation.
// The operation is abandoned and the session remains usable.
type InternalError struct {
	Op    string
	Value any
	Stack []byte
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in %s: %v", e.Op, e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *InternalError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// guard converts a panic in the operation into an [*InternalError].
// It must be deferred directly.
func guard(op string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	ie := &InternalError{Op: op, Value: r, Stack: debug.Stack()}
	slog.Error("internal error", "op", op, "panic", r, "stack", string(ie.Stack))
	*err = ie
}
