// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugins

import (
	"fmt"
	"slices"

	"cogentcore.org/datview/base/metadata"
	"cogentcore.org/datview/pipeline"
	"cogentcore.org/datview/stats"
)

// FilterName is the name of the moving average filter tool.
const FilterName = "Filter"

var filterTool = &StatefulTool{
	Name:     FilterName,
	Doc:      "smooths y with a centered moving average over window points",
	Defaults: metadata.Data{"active": false, "window": 5},
	New: func(params metadata.Data) *pipeline.Action {
		return pipeline.NewXYAction(FilterName, params, movingAverage)
	},
}

func movingAverage(x, y []float64, params metadata.Data) ([]float64, []float64, error) {
	n, err := metadata.Get[int](params, "window")
	if err != nil {
		return nil, nil, err
	}
	if n < 1 {
		return nil, nil, fmt.Errorf("window must be >= 1, is %d", n)
	}
	return slices.Clone(x), stats.MovingAverage(y, n), nil
}

// SamplerName is the name of the decimation tool.
const SamplerName = "Sampler"

var samplerTool = &StatefulTool{
	Name:     SamplerName,
	Doc:      "keeps every step'th point",
	Defaults: metadata.Data{"active": false, "step": 2},
	New: func(params metadata.Data) *pipeline.Action {
		return pipeline.NewXYAction(SamplerName, params, decimate)
	},
}

func decimate(x, y []float64, params metadata.Data) ([]float64, []float64, error) {
	step, err := metadata.Get[int](params, "step")
	if err != nil {
		return nil, nil, err
	}
	return stats.Decimate(x, y, step)
}
