// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shell provides a line-oriented command interpreter
// that operates a [session.Session].
package shell

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/base/suggest"
	"cogentcore.org/datview/session"
	"github.com/mattn/go-shellwords"
	"github.com/muesli/termenv"
)

// Shell interprets commands against a session.
type Shell struct {

	// Session is the session operated by the shell.
	Session *session.Session

	// Builtins are all the shell commands.
	Builtins map[string]func(args ...string) error

	// Out is where command output, warnings and errors are printed.
	Out *termenv.Output

	// Prompt is printed before reading each line of an interactive run.
	Prompt string
}

// New returns a new [Shell] for the given session,
// printing to the given writer.
func New(ses *session.Session, w io.Writer, opts ...termenv.OutputOption) *Shell {
	sh := &Shell{Session: ses, Out: termenv.NewOutput(w, opts...)}
	sh.InstallBuiltins()
	return sh
}

// RunLine runs one command line. Empty lines and comments starting with
// # are ignored.
func (sh *Shell) RunLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		return fmt.Errorf("error parsing command %w", err)
	}
	if len(args) == 0 {
		return nil
	}
	cmd, ok := sh.Builtins[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q%s", args[0], suggest.Hint(args[0], sh.Commands()))
	}
	return cmd(args[1:]...)
}

// Run runs each line read from r, printing errors and continuing
// with the next line. It returns an error only if reading fails.
func (sh *Shell) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for {
		if sh.Prompt != "" {
			fmt.Fprint(sh.Out, sh.Prompt)
		}
		if !sc.Scan() {
			return sc.Err()
		}
		if err := sh.RunLine(sc.Text()); err != nil {
			sh.Error(err)
		}
	}
}

// Commands returns the sorted names of all commands.
func (sh *Shell) Commands() []string {
	cmds := make([]string, 0, len(sh.Builtins))
	for c := range sh.Builtins {
		cmds = append(cmds, c)
	}
	sort.Strings(cmds)
	return cmds
}

// Printf prints to the output.
func (sh *Shell) Printf(format string, args ...any) {
	fmt.Fprintf(sh.Out, format, args...)
}

// Error prints the error in red.
func (sh *Shell) Error(err error) {
	fmt.Fprintln(sh.Out, sh.Out.String("error: "+err.Error()).Foreground(termenv.ANSIRed))
}

// Warn prints each of the warnings in yellow.
func (sh *Shell) Warn(warns errors.Warnings) {
	for _, w := range warns.Strings() {
		fmt.Fprintln(sh.Out, sh.Out.String("warning: "+w).Foreground(termenv.ANSIYellow))
	}
}

// parseValue returns a bool or float64 for values that parse as one,
// and otherwise the string itself.
func parseValue(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// parseIndexes parses table indexes.
func parseIndexes(args []string) ([]int, error) {
	idx := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid table index %q", a)
		}
		idx[i] = v
	}
	return idx, nil
}

// splitParams separates key=value arguments from the others.
func splitParams(args []string) (map[string]any, []string) {
	params := map[string]any{}
	var rest []string
	for _, a := range args {
		if k, v, ok := strings.Cut(a, "="); ok && k != "" {
			params[k] = parseValue(v)
			continue
		}
		rest = append(rest, a)
	}
	return params, rest
}

// takeFlag removes a "-name value" or "--name value" flag from args.
func takeFlag(args []string, name string) (string, []string, error) {
	for i, a := range args {
		if a == "-"+name || a == "--"+name {
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("flag %s needs a value", a)
			}
			return args[i+1], slices.Delete(slices.Clone(args), i, i+2), nil
		}
	}
	return "", args, nil
}
