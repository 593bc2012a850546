// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Values is the interface for the homogeneous data of one column.
// It matches the float / string access pattern used by plotting.
type Values interface {
	// Len returns the number of values.
	Len() int

	// Float1D returns the value at given index as a float64.
	// Text values that do not parse as numbers are NaN.
	Float1D(i int) float64

	// String1D returns the value at given index as a string.
	String1D(i int) string

	// IsString returns true for text columns.
	IsString() bool

	// Clone returns a deep copy of the column.
	Clone() Values

	// Subset returns a new column with the values at given indexes.
	Subset(idx []int) Values
}

// Float64 is a column of float64 values.
// Missing values are NaN.
type Float64 struct {
	Values []float64
}

// NewFloat64 returns a new [Float64] column wrapping the given values,
// which are not copied.
func NewFloat64(vals ...float64) *Float64 {
	return &Float64{Values: vals}
}

func (cl *Float64) Len() int { return len(cl.Values) }

func (cl *Float64) Float1D(i int) float64 { return cl.Values[i] }

func (cl *Float64) String1D(i int) string {
	return strconv.FormatFloat(cl.Values[i], 'g', -1, 64)
}

func (cl *Float64) IsString() bool { return false }

func (cl *Float64) Clone() Values { return &Float64{Values: slices.Clone(cl.Values)} }

func (cl *Float64) Subset(idx []int) Values {
	vals := make([]float64, len(idx))
	for i, j := range idx {
		vals[i] = cl.Values[j]
	}
	return &Float64{Values: vals}
}

// String is a column of text values.
type String struct {
	Values []string
}

// NewString returns a new [String] column wrapping the given values,
// which are not copied.
func NewString(vals ...string) *String {
	return &String{Values: vals}
}

func (cl *String) Len() int { return len(cl.Values) }

func (cl *String) Float1D(i int) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(cl.Values[i]), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func (cl *String) String1D(i int) string { return cl.Values[i] }

func (cl *String) IsString() bool { return true }

func (cl *String) Clone() Values { return &String{Values: slices.Clone(cl.Values)} }

func (cl *String) Subset(idx []int) Values {
	vals := make([]string, len(idx))
	for i, j := range idx {
		vals[i] = cl.Values[j]
	}
	return &String{Values: vals}
}

// Floats returns all values of the column as float64.
// The returned slice is shared with a [Float64] column.
func Floats(cl Values) []float64 {
	if fc, ok := cl.(*Float64); ok {
		return fc.Values
	}
	vals := make([]float64, cl.Len())
	for i := range vals {
		vals[i] = cl.Float1D(i)
	}
	return vals
}
