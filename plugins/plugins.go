// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plugins is the registry of data tools. A tool is either a
// [StatelessTool], run once on selected tables, or a [StatefulTool],
// which creates a long-lived [pipeline.Action].
package plugins

import (
	"fmt"

	"cogentcore.org/datview/base/keylist"
	"cogentcore.org/datview/base/metadata"
	"cogentcore.org/datview/base/suggest"
	"cogentcore.org/datview/pipeline"
	"cogentcore.org/datview/table"
)

// Tool is a registered data tool: a [*StatelessTool] or a [*StatefulTool].
type Tool interface {
	ToolName() string
	ToolDoc() string
	isTool()
}

// StatelessTool modifies the base data of tables once, and records
// nothing in the pipeline.
type StatelessTool struct {
	Name string
	Doc  string

	// Run runs the tool on the given tables with the given parameters.
	Run func(tabs []*table.Table, params metadata.Data) error
}

func (t *StatelessTool) ToolName() string { return t.Name }
func (t *StatelessTool) ToolDoc() string  { return t.Doc }
func (t *StatelessTool) isTool()          {}

// StatefulTool creates an action that lives in the pipeline.
type StatefulTool struct {
	Name string
	Doc  string

	// Defaults are the default parameters of a new action,
	// which copies them.
	Defaults metadata.Data

	// New returns a new action with the given parameters.
	New func(params metadata.Data) *pipeline.Action
}

func (t *StatefulTool) ToolName() string { return t.Name }
func (t *StatefulTool) ToolDoc() string  { return t.Doc }
func (t *StatefulTool) isTool()          {}

// NewAction returns a new action with the defaults of the tool,
// overridden by any given parameters.
func (t *StatefulTool) NewAction(params metadata.Data) *pipeline.Action {
	md := t.Defaults.Clone()
	md.Copy(params.Clone())
	return t.New(md)
}

var registry keylist.List[string, Tool]

// Register adds the tool to the registry,
// returning an error if the name is taken.
func Register(t Tool) error {
	return registry.Add(t.ToolName(), t)
}

// Tools returns all registered tools in registration order.
func Tools() []Tool {
	return append([]Tool(nil), registry.Values...)
}

// Names returns the names of all registered tools.
func Names() []string {
	return append([]string(nil), registry.Keys...)
}

// Lookup returns the tool with given name, or an error
// suggesting the closest name.
func Lookup(name string) (Tool, error) {
	if t, ok := registry.AtTry(name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown tool %q%s", name, suggest.Hint(name, registry.Keys))
}

// NewAction returns a new action of the stateful tool of given name.
func NewAction(name string, params metadata.Data) (*pipeline.Action, error) {
	t, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	st, ok := t.(*StatefulTool)
	if !ok {
		return nil, fmt.Errorf("tool %q has no action", name)
	}
	return st.NewAction(params), nil
}

// Factory is a [pipeline.Factory] that restores actions
// of the registered tools.
func Factory(rec pipeline.Record) (*pipeline.Action, error) {
	return NewAction(rec.Name, rec.Data)
}

func init() {
	for _, t := range []Tool{outliersTool, filterTool, samplerTool, maskTool, dropNaNTool} {
		if err := Register(t); err != nil {
			panic(err)
		}
	}
}
