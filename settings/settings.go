// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package settings provides the persisted state of the application:
// the loader options and the pipeline, saved as TOML or YAML.
package settings

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"cogentcore.org/datview/base/errors"
	"cogentcore.org/datview/base/fsx"
	"cogentcore.org/datview/base/iox/tomlx"
	"cogentcore.org/datview/base/iox/yamlx"
	"cogentcore.org/datview/cli"
	"cogentcore.org/datview/fileio"
	"cogentcore.org/datview/pipeline"
	"github.com/Bios-Marcel/wastebasket/v2"
	"github.com/Masterminds/semver/v3"
	"github.com/jeandeaual/go-locale"
	"github.com/mitchellh/go-homedir"
)

// Compatible is the constraint on the settings version
// that this version of the application can read.
const Compatible = "^1"

// Filename is the name of the default settings file
// in the home directory.
const Filename = ".datview.toml"

// Settings are the persisted settings.
type Settings struct {

	// Version is the version of the settings format.
	Version string `toml:"version" yaml:"version" json:"version" default:"1.0.0"`

	// Loader are the options used to read files.
	Loader fileio.Options `toml:"loader" yaml:"loader" json:"loader"`

	// Pipeline are the actions of the pipeline, in order,
	// including inactive ones.
	Pipeline []pipeline.Record `toml:"pipeline" yaml:"pipeline" json:"pipeline"`
}

// Defaults returns new settings with default values,
// where the date convention follows the system locale.
func Defaults() *Settings {
	s := &Settings{}
	cli.SetFromDefaults(s)
	s.Loader.DayFirst = DayFirst(errors.Ignore1(locale.GetLocale()))
	return s
}

// monthFirst are the regions that write the month before the day.
var monthFirst = []string{"US", "PH", "FM", "MH", "PW"}

// DayFirst returns whether dates are written day first in the given
// locale, such as en-GB or fr_FR. An empty locale is day first.
func DayFirst(loc string) bool {
	loc = strings.ReplaceAll(loc, "_", "-")
	_, region, ok := strings.Cut(loc, "-")
	if !ok {
		return true
	}
	region, _, _ = strings.Cut(region, ".")
	for _, r := range monthFirst {
		if strings.EqualFold(region, r) {
			return false
		}
	}
	return true
}

// DefaultPath returns the path of the settings file in the home directory.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, Filename), nil
}

func isYAML(path string) (bool, error) {
	switch fsx.Ext(path) {
	case ".toml":
		return false, nil
	case ".yaml", ".yml":
		return true, nil
	}
	return false, fmt.Errorf("settings: unsupported file type %q, use .toml, .yaml or .yml", filepath.Ext(path))
}

// Open reads the settings from the given file. A missing file gives
// the defaults. A file that cannot be parsed, or has an incompatible
// version, also gives the defaults, with a warning. The error is only
// for unsupported file types.
func Open(path string) (*Settings, errors.Warnings, error) {
	yml, err := isYAML(path)
	if err != nil {
		return nil, nil, err
	}
	s := Defaults()
	var warns errors.Warnings
	if yml {
		err = yamlx.Open(s, path)
	} else {
		err = tomlx.Open(s, path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no settings file", "path", path)
		return Defaults(), nil, nil
	}
	if err != nil {
		warns.Addf("settings %q: %v; using defaults", path, err)
		return Defaults(), warns, nil
	}
	if err := checkVersion(s.Version); err != nil {
		warns.Addf("settings %q: %v; using defaults", path, err)
		return Defaults(), warns, nil
	}
	return s, warns, nil
}

func checkVersion(v string) error {
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", v, err)
	}
	c, err := semver.NewConstraint(Compatible)
	if err != nil {
		return err
	}
	if !c.Check(ver) {
		return fmt.Errorf("version %s is not compatible with %s", ver, Compatible)
	}
	return nil
}

// Save saves the settings to the given file, as TOML or YAML
// depending on the extension.
func (s *Settings) Save(path string) error {
	yml, err := isYAML(path)
	if err != nil {
		return err
	}
	if yml {
		return yamlx.Save(s, path)
	}
	return tomlx.Save(s, path)
}

// Reset moves the given settings file to the trash,
// so that the next [Open] gives the defaults.
func Reset(path string) error {
	ok, err := fsx.FileExists(path)
	if err != nil || !ok {
		return err
	}
	return wastebasket.Trash(path)
}
