// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugins

import (
	"math"
	"strings"

	"cogentcore.org/datview/base/metadata"
	"cogentcore.org/datview/formula"
	"cogentcore.org/datview/pipeline"
	"cogentcore.org/datview/table"
)

// MaskName is the name of the row mask tool.
const MaskName = "Mask"

var maskTool = &StatefulTool{
	Name:     MaskName,
	Doc:      "keeps the rows of each table for which expression is non-zero, e.g. time > 10 && time < 20",
	Defaults: metadata.Data{"active": false, "expression": ""},
	New: func(params metadata.Data) *pipeline.Action {
		return pipeline.NewTableAction(MaskName, params, mask)
	},
}

func mask(dt *table.Table, params metadata.Data) error {
	expr := strings.TrimSpace(metadata.GetOr(params, "expression", ""))
	if expr == "" {
		return nil
	}
	vals, err := formula.Eval(expr, dt)
	if err != nil {
		return err
	}
	var idx []int
	for i, v := range vals {
		if v != 0 && !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	dt.SelectRows(idx)
	return nil
}

// DropNaNName is the name of the tool that drops rows with missing values.
const DropNaNName = "Drop NaN"

var dropNaNTool = &StatelessTool{
	Name: DropNaNName,
	Doc:  "removes the rows of each table that have a NaN in any numeric column",
	Run: func(tabs []*table.Table, params metadata.Data) error {
		for _, dt := range tabs {
			dropNaN(dt)
		}
		return nil
	},
}

func dropNaN(dt *table.Table) {
	dt.Unmaterialize()
	var idx []int
	for r := range dt.NumRows() {
		keep := true
		for _, cl := range dt.Columns.Values {
			if !cl.IsString() && math.IsNaN(cl.Float1D(r)) {
				keep = false
				break
			}
		}
		if keep {
			idx = append(idx, r)
		}
	}
	dt.SelectBaseRows(idx)
}
