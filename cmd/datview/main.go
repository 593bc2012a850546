// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command datview loads tabular data files and applies a pipeline of
// actions to them, driven by shell commands from a script or the terminal.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/cli"
	"cogentcore.org/datview/logx"
	"cogentcore.org/datview/session"
	"cogentcore.org/datview/settings"
	"cogentcore.org/datview/shell"
	"cogentcore.org/datview/table"
	"cogentcore.org/datview/watch"
	"github.com/spf13/cobra"
)

// Config is the configuration of the command.
type Config struct {

	// Format is the format of all files, empty to detect.
	Format string

	// Settings is the settings file, empty for the default.
	Settings string

	// Script is a file of shell commands to run instead of
	// reading commands from the terminal.
	Script string

	// Watch reloads the files when they change.
	Watch bool

	// Reset moves the settings file to the trash before starting.
	Reset bool

	// Verbose shows debug logging.
	Verbose bool `default:"false"`

	// Prompt is the interactive prompt.
	Prompt string `default:"datview> "`
}

func main() {
	cfg := &Config{}
	cli.SetFromDefaults(cfg)
	cmd := &cobra.Command{
		Use:          "datview [files...]",
		Short:        "Load tabular data files and apply a pipeline of actions to them",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&cfg.Format, "format", cfg.Format, "format of all files, empty to detect")
	fl.StringVar(&cfg.Settings, "settings", cfg.Settings, "settings file, default ~/"+settings.Filename)
	fl.StringVar(&cfg.Script, "script", cfg.Script, "file of shell commands to run")
	fl.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload files when they change")
	fl.BoolVar(&cfg.Reset, "reset", cfg.Reset, "move the settings file to the trash before starting")
	fl.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "show debug logging")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *Config, files []string) error {
	logx.SetDefaultLogger(os.Stderr, cfg.Verbose)
	path := cfg.Settings
	if path == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if cfg.Reset {
		if err := settings.Reset(path); err != nil {
			return err
		}
	}
	st, warns, err := settings.Open(path)
	if err != nil {
		return err
	}
	ses := session.New(st)
	ses.SettingsPath = path
	sh := shell.New(ses, os.Stdout)
	sh.Warn(warns)
	sh.Warn(ses.RestorePipeline())
	defer func() { errors.Log(ses.SavePipeline()) }()

	if len(files) > 0 {
		var formats []string
		if cfg.Format != "" {
			formats = make([]string, len(files))
			for i := range formats {
				formats[i] = cfg.Format
			}
		}
		warns, err := ses.LoadFiles(files, formats, table.Replace)
		sh.Warn(warns)
		if err != nil {
			return err
		}
		sh.List()
	}

	if cfg.Script != "" {
		f, err := os.Open(cfg.Script)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := sh.Run(f); err != nil {
			return err
		}
		if !cfg.Watch {
			return nil
		}
	}
	return loop(cfg, sh)
}

// loop runs terminal commands and reloads on file changes,
// on this goroutine only.
func loop(cfg *Config, sh *shell.Shell) error {
	var w *watch.Watcher
	var changes <-chan []string
	// rewatch follows the sources currently loaded, which change with
	// the load and add commands.
	rewatch := func() {
		if !cfg.Watch {
			return
		}
		nw, err := watch.Update(w, sourcePaths(sh.Session), 0)
		if err != nil {
			sh.Error(err)
		}
		w, changes = nw, nil
		if w != nil {
			changes = w.Events()
		}
	}
	rewatch()
	defer func() {
		if w != nil {
			errors.Log(w.Close())
		}
	}()
	lines := make(chan string)
	done := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
		done <- sc.Err()
	}()
	if cfg.Script == "" {
		fmt.Fprint(sh.Out, cfg.Prompt)
	}
	for {
		select {
		case line := <-lines:
			if line == "exit" || line == "quit" {
				return nil
			}
			if err := sh.RunLine(line); err != nil {
				sh.Error(err)
			}
			rewatch()
			if cfg.Script == "" {
				fmt.Fprint(sh.Out, cfg.Prompt)
			}
		case batch, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			slog.Info("reloading", "changed", batch)
			if err := sh.Reload(); err != nil {
				sh.Error(err)
			}
			rewatch()
		case err := <-done:
			return err
		}
	}
}

// sourcePaths returns the files of the loaded tables.
func sourcePaths(ses *session.Session) []string {
	var paths []string
	for _, src := range ses.Tables.Sources() {
		paths = append(paths, src.Path)
	}
	return paths
}
