// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx configures the default [slog] logger for
// the datview command line tools.
package logx

import (
	"io"
	"log/slog"
)

// UserLevel is the verbosity [slog.Level] that the user has selected
// for what logging and printing messages should be shown. Messages at
// levels at or above this level will be shown. It should typically be
// set through [SetDefaultLogger].
var UserLevel = defaultUserLevel

// SetDefaultLogger installs a text [slog.Handler] writing to w as the
// default logger, at [UserLevel], or at [slog.LevelDebug] if verbose.
func SetDefaultLogger(w io.Writer, verbose bool) {
	if verbose {
		UserLevel = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: UserLevel})
	slog.SetDefault(slog.New(h))
}
