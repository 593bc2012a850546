// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugins

import (
	"fmt"

	"cogentcore.org/datview/base/metadata"
	"cogentcore.org/datview/pipeline"
	"cogentcore.org/datview/stats"
)

// OutliersName is the name of the outlier removal tool.
const OutliersName = "Remove outliers"

var outliersTool = &StatefulTool{
	Name:     OutliersName,
	Doc:      "removes points whose distance from the median exceeds medianDeviation times the median absolute deviation",
	Defaults: metadata.Data{"active": false, "medianDeviation": 5.0},
	New: func(params metadata.Data) *pipeline.Action {
		return pipeline.NewXYAction(OutliersName, params, removeOutliers)
	},
}

func removeOutliers(x, y []float64, params metadata.Data) ([]float64, []float64, error) {
	m, err := metadata.Get[float64](params, "medianDeviation")
	if err != nil {
		return nil, nil, err
	}
	xo, yo, err := stats.RejectOutliers(x, y, m)
	if err != nil {
		return nil, nil, fmt.Errorf("outlier removal failed, deactivate it or use a different signal: %w", err)
	}
	return xo, yo, nil
}
