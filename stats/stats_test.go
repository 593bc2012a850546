// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedian(t *testing.T) {
	m, err := Median([]float64{3, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, m)

	m, err = Median([]float64{4, 1, math.NaN(), 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2.5, m)

	_, err = Median([]float64{math.NaN()})
	assert.ErrorIs(t, err, ErrNoData)

	m32, err := Median([]float32{1, 5})
	require.NoError(t, err)
	assert.Equal(t, float32(3), m32)
}

func TestMedianAbsDev(t *testing.T) {
	med, mad, err := MedianAbsDev([]float64{1, 2, 3, 100, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 3.5, med)
	assert.Equal(t, 1.5, mad)
}

func TestRejectOutliers(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{1, 2, 3, 100, 4, 5}
	xo, yo, err := RejectOutliers(x, y, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 4, 5}, xo)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, yo)
	assert.Equal(t, []float64{1, 2, 3, 100, 4, 5}, y)

	xo, yo, err = RejectOutliers(x[:3], []float64{2, 2, 2}, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, xo)
	assert.Equal(t, []float64{2, 2, 2}, yo)

	_, _, err = RejectOutliers(x, y[:2], 5)
	assert.ErrorIs(t, err, ErrLength)
	_, _, err = RejectOutliers(nil, nil, 5)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestMovingAverage(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, []float64{1.5, 2, 3, 4, 4.5}, MovingAverage(y, 3))
	assert.Equal(t, y, MovingAverage(y, 1))
}

func TestDecimate(t *testing.T) {
	xo, yo, err := Decimate([]float64{0, 1, 2, 3, 4}, []float64{5, 6, 7, 8, 9}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 4}, xo)
	assert.Equal(t, []float64{5, 7, 9}, yo)
	_, _, err = Decimate(xo, yo, 0)
	assert.Error(t, err)
}
