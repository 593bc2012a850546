// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stats provides the series statistics used by the
// data actions: NaN-skipping median and median absolute deviation,
// outlier rejection, moving averages and decimation.
// All functions are pure: inputs are never modified.
package stats

import (
	"errors"
	"math"
	"slices"

	"golang.org/x/exp/constraints"
)

var (
	// ErrNoData is returned when a series has no non-NaN values.
	ErrNoData = errors.New("stats: no valid data points")

	// ErrLength is returned when paired series differ in length.
	ErrLength = errors.New("stats: x and y have different lengths")
)

// valid returns a sorted copy of the non-NaN values.
func valid[T constraints.Float](vals []T) []T {
	vs := make([]T, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(float64(v)) {
			vs = append(vs, v)
		}
	}
	slices.Sort(vs)
	return vs
}

// Median returns the median of the non-NaN values,
// averaging the two middle values for an even count.
func Median[T constraints.Float](vals []T) (T, error) {
	vs := valid(vals)
	n := len(vs)
	if n == 0 {
		return T(math.NaN()), ErrNoData
	}
	if n%2 == 1 {
		return vs[n/2], nil
	}
	return (vs[n/2-1] + vs[n/2]) / 2, nil
}

// MedianAbsDev returns the median and the median absolute deviation
// from the median of the non-NaN values.
func MedianAbsDev[T constraints.Float](vals []T) (med, mad T, err error) {
	med, err = Median(vals)
	if err != nil {
		return med, med, err
	}
	dd := make([]T, len(vals))
	for i, v := range vals {
		dd[i] = T(math.Abs(float64(v - med)))
	}
	mad, err = Median(dd)
	return
}

// Mean returns the mean of the non-NaN values.
func Mean[T constraints.Float](vals []T) (T, error) {
	var sum T
	n := 0
	for _, v := range vals {
		if math.IsNaN(float64(v)) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return T(math.NaN()), ErrNoData
	}
	return sum / T(n), nil
}

// RejectOutliers removes the paired (x, y) points for which
// |y - median(y)| > m * mad(y), where mad is the median absolute
// deviation. NaN values of y are removed as well. The kept points
// preserve their order. If the deviation is zero the series are
// returned unchanged (as copies).
func RejectOutliers(x, y []float64, m float64) ([]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, ErrLength
	}
	med, mad, err := MedianAbsDev(y)
	if err != nil {
		return nil, nil, err
	}
	if mad == 0 {
		return slices.Clone(x), slices.Clone(y), nil
	}
	lim := m * mad
	xo := make([]float64, 0, len(x))
	yo := make([]float64, 0, len(y))
	for i, v := range y {
		if math.IsNaN(v) || math.Abs(v-med) > lim {
			continue
		}
		xo = append(xo, x[i])
		yo = append(yo, v)
	}
	return xo, yo, nil
}

// MovingAverage returns the centered moving average of y,
// over a window of n points, truncated at the ends.
// NaN values are skipped within each window.
func MovingAverage(y []float64, n int) []float64 {
	out := make([]float64, len(y))
	if n <= 1 {
		copy(out, y)
		return out
	}
	lo := (n - 1) / 2
	hi := n - 1 - lo
	for i := range y {
		st, ed := max(0, i-lo), min(len(y), i+hi+1)
		out[i], _ = Mean(y[st:ed])
	}
	return out
}

// Decimate returns every step'th paired point of x and y, starting at 0.
func Decimate(x, y []float64, step int) ([]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, ErrLength
	}
	if step < 1 {
		return nil, nil, errors.New("stats: decimation step must be >= 1")
	}
	n := (len(x) + step - 1) / step
	xo := make([]float64, 0, n)
	yo := make([]float64, 0, n)
	for i := 0; i < len(x); i += step {
		xo = append(xo, x[i])
		yo = append(yo, y[i])
	}
	return xo, yo, nil
}
