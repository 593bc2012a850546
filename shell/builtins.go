// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shell

import (
	"fmt"
	"strconv"
	"strings"

	"cogentcore.org/datview/base/metadata"
	"cogentcore.org/datview/fileio"
	"cogentcore.org/datview/pipeline"
	"cogentcore.org/datview/plugins"
	"cogentcore.org/datview/table"
)

// InstallBuiltins adds the shell commands to [Shell.Builtins].
func (sh *Shell) InstallBuiltins() {
	sh.Builtins = make(map[string]func(args ...string) error)
	sh.Builtins["load"] = sh.Load
	sh.Builtins["add"] = sh.Add
	sh.Builtins["reload"] = sh.Reload
	sh.Builtins["tables"] = sh.List
	sh.Builtins["rename"] = sh.Rename
	sh.Builtins["delete"] = sh.Delete
	sh.Builtins["formula"] = sh.Formula
	sh.Builtins["unformula"] = sh.Unformula
	sh.Builtins["tool"] = sh.Tool
	sh.Builtins["tools"] = sh.ToolList
	sh.Builtins["set"] = sh.Set
	sh.Builtins["enable"] = sh.Enable
	sh.Builtins["disable"] = sh.Disable
	sh.Builtins["remove"] = sh.Remove
	sh.Builtins["pipeline"] = sh.PipelineList
	sh.Builtins["apply"] = sh.Apply
	sh.Builtins["plot"] = sh.Plot
	sh.Builtins["export"] = sh.Export
	sh.Builtins["status"] = sh.Status
	sh.Builtins["formats"] = sh.Formats
	sh.Builtins["save"] = sh.Save
	sh.Builtins["sort"] = sh.Sort
	sh.Builtins["help"] = sh.Help
}

var help = map[string]string{
	"load":      "load [-format f] files... : replace all tables with the given files",
	"add":       "add [-format f] files... : add the given files",
	"reload":    "reload : read all files again, keeping formulas",
	"tables":    "tables : list the tables",
	"rename":    "rename i name : rename table i",
	"delete":    "delete i... : delete tables",
	"formula":   "formula i name expr [pos] : add a formula column to table i",
	"unformula": "unformula i name : remove a formula column from table i",
	"tool":      "tool name [key=value...] [i...] : run a tool, or add its action",
	"tools":     "tools : list the tools",
	"set":       "set action key=value... : set action parameters",
	"enable":    "enable action : activate an action",
	"disable":   "disable action : deactivate an action",
	"remove":    "remove action : remove an action from the pipeline",
	"pipeline":  "pipeline : list the actions in order",
	"apply":     "apply [-force] [i...] : apply the pipeline",
	"plot":      "plot i x y : print the x and y series of table i",
	"export":    "export i file : save table i as CSV",
	"status":    "status [i...] : show format, file and shape",
	"formats":   "formats : list the file formats",
	"save":      "save : save the pipeline to the settings",
	"sort":      "sort [name|file] : sort the tables",
	"help":      "help [command] : show help",
}

func (sh *Shell) load(mode table.LoadMode, args []string) error {
	format, args, err := takeFlag(args, "format")
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("expected at least one file")
	}
	var formats []string
	if format != "" {
		formats = make([]string, len(args))
		for i := range formats {
			formats[i] = format
		}
	}
	warns, err := sh.Session.LoadFiles(args, formats, mode)
	sh.Warn(warns)
	if err != nil {
		return err
	}
	return sh.List()
}

// Load replaces all tables with the given files.
func (sh *Shell) Load(args ...string) error { return sh.load(table.Replace, args) }

// Add adds the given files.
func (sh *Shell) Add(args ...string) error { return sh.load(table.Add, args) }

// Reload reads all files again.
func (sh *Shell) Reload(args ...string) error {
	warns, err := sh.Session.Reload()
	sh.Warn(warns)
	if err != nil {
		return err
	}
	return sh.List()
}

// List lists the tables.
func (sh *Shell) List(args ...string) error {
	for i, dt := range sh.Session.Tables.Tables {
		sh.Printf("%d\t%s\t%s\t%s\n", i, dt.Name, dt.ShapeString(), strings.Join(dt.ColumnNames(), ", "))
	}
	return nil
}

func (sh *Shell) index(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid table index %q", arg)
	}
	return i, nil
}

// Rename renames a table.
func (sh *Shell) Rename(args ...string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected a table index and a name")
	}
	i, err := sh.index(args[0])
	if err != nil {
		return err
	}
	old, err := sh.Session.Rename(i, args[1])
	if err != nil {
		return err
	}
	sh.Printf("renamed %s to %s\n", old, sh.Session.Tables.Get(i).Name)
	return nil
}

// Delete deletes tables.
func (sh *Shell) Delete(args ...string) error {
	idx, err := parseIndexes(args)
	if err != nil {
		return err
	}
	if len(idx) == 0 {
		return fmt.Errorf("expected at least one table index")
	}
	reset, err := sh.Session.Delete(idx...)
	if err != nil {
		return err
	}
	if reset {
		sh.Printf("no tables left\n")
	}
	return nil
}

// Formula adds a formula column.
func (sh *Shell) Formula(args ...string) error {
	if len(args) < 3 || len(args) > 4 {
		return fmt.Errorf("expected a table index, a name, an expression and an optional position")
	}
	i, err := sh.index(args[0])
	if err != nil {
		return err
	}
	dt, err := sh.Session.Tables.GetTry(i)
	if err != nil {
		return err
	}
	pos := dt.NumColumns()
	if len(args) == 4 {
		if pos, err = strconv.Atoi(args[3]); err != nil {
			return fmt.Errorf("invalid position %q", args[3])
		}
	}
	_, warns, err := sh.Session.AddFormula(i, args[1], args[2], pos)
	sh.Warn(warns)
	return err
}

// Unformula removes a formula column.
func (sh *Shell) Unformula(args ...string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected a table index and a name")
	}
	i, err := sh.index(args[0])
	if err != nil {
		return err
	}
	ok, err := sh.Session.RemoveFormula(i, args[1])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("table %d has no formula %q", i, args[1])
	}
	return nil
}

// Tool runs a tool, or adds or updates its action.
func (sh *Shell) Tool(args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("expected a tool name")
	}
	params, rest := splitParams(args[1:])
	idx, err := parseIndexes(rest)
	if err != nil {
		return err
	}
	a, warns, err := sh.Session.Dispatch(args[0], params, idx...)
	sh.Warn(warns)
	if err != nil {
		return err
	}
	if a != nil {
		sh.Printf("%s\n", a)
	}
	return nil
}

// ToolList lists the tools.
func (sh *Shell) ToolList(args ...string) error {
	for _, tl := range plugins.Tools() {
		kind := "action"
		if _, ok := tl.(*plugins.StatelessTool); ok {
			kind = "run once"
		}
		sh.Printf("%s\t(%s)\t%s\n", tl.ToolName(), kind, tl.ToolDoc())
	}
	return nil
}

func (sh *Shell) update(name string, fn func(a *pipeline.Action)) error {
	res, err := sh.Session.UpdateAction(name, fn)
	if err != nil {
		return err
	}
	sh.Warn(res.Warnings)
	return nil
}

// Set sets action parameters.
func (sh *Shell) Set(args ...string) error {
	if len(args) < 2 {
		return fmt.Errorf("expected an action name and key=value parameters")
	}
	params, rest := splitParams(args[1:])
	if len(rest) > 0 {
		return fmt.Errorf("expected key=value, got %q", rest[0])
	}
	return sh.update(args[0], func(a *pipeline.Action) {
		md := metadata.Data(params)
		for _, k := range md.Keys() {
			a.SetParam(k, md[k])
		}
	})
}

// Enable activates an action.
func (sh *Shell) Enable(args ...string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected an action name")
	}
	return sh.update(args[0], func(a *pipeline.Action) { a.SetActive(true) })
}

// Disable deactivates an action.
func (sh *Shell) Disable(args ...string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected an action name")
	}
	return sh.update(args[0], func(a *pipeline.Action) { a.SetActive(false) })
}

// Remove removes an action.
func (sh *Shell) Remove(args ...string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected an action name")
	}
	ok, res, err := sh.Session.RemoveAction(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no action %q in the pipeline", args[0])
	}
	sh.Warn(res.Warnings)
	return nil
}

// PipelineList lists the actions in order.
func (sh *Shell) PipelineList(args ...string) error {
	for i, a := range sh.Session.Pipeline.Actions() {
		sh.Printf("%d\t%s\n", i, a)
	}
	return nil
}

// Apply applies the pipeline.
func (sh *Shell) Apply(args ...string) error {
	var opts pipeline.ApplyOptions
	var rest []string
	for _, a := range args {
		if a == "-force" || a == "--force" {
			opts.Force = true
			continue
		}
		rest = append(rest, a)
	}
	idx, err := parseIndexes(rest)
	if err != nil {
		return err
	}
	res, err := sh.Session.Apply(opts, idx...)
	if err != nil {
		return err
	}
	sh.Warn(res.Warnings)
	sh.Printf("%d tables changed\n", len(res.Changed))
	return nil
}

// Plot prints the x and y series of a table after the pipeline.
func (sh *Shell) Plot(args ...string) error {
	if len(args) != 3 {
		return fmt.Errorf("expected a table index and x and y column names")
	}
	i, err := sh.index(args[0])
	if err != nil {
		return err
	}
	x, y, warns, err := sh.Session.PlotData(i, args[1], args[2])
	sh.Warn(warns)
	if err != nil {
		return err
	}
	for j := range x {
		sh.Printf("%g\t%g\n", x[j], y[j])
	}
	return nil
}

// Export saves a table as CSV.
func (sh *Shell) Export(args ...string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected a table index and a file name")
	}
	i, err := sh.index(args[0])
	if err != nil {
		return err
	}
	return sh.Session.Export(i, args[1], table.Comma)
}

// Status shows the status of tables.
func (sh *Shell) Status(args ...string) error {
	idx, err := parseIndexes(args)
	if err != nil {
		return err
	}
	sh.Printf("%s\n", sh.Session.Status(idx...))
	return nil
}

// Formats lists the file formats.
func (sh *Shell) Formats(args ...string) error {
	for _, fm := range fileio.Formats {
		sh.Printf("%s\t%s\n", fm.Name, strings.Join(fm.Extensions, " "))
	}
	return nil
}

// Save saves the pipeline to the settings.
func (sh *Shell) Save(args ...string) error {
	return sh.Session.SavePipeline()
}

// Sort sorts the tables.
func (sh *Shell) Sort(args ...string) error {
	by := "name"
	if len(args) > 0 {
		by = args[0]
	}
	switch by {
	case "name":
		sh.Session.Sort(true)
	case "file":
		sh.Session.Sort(false)
	default:
		return fmt.Errorf("sort by name or file, not %q", by)
	}
	return sh.List()
}

// Help shows help for all commands or the given one.
func (sh *Shell) Help(args ...string) error {
	if len(args) == 1 {
		h, ok := help[args[0]]
		if !ok {
			return fmt.Errorf("unknown command %q", args[0])
		}
		sh.Printf("%s\n", h)
		return nil
	}
	for _, c := range sh.Commands() {
		sh.Printf("%s\n", help[c])
	}
	return nil
}
