// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formula

import "math"

// Func is a function callable from expressions. Elem functions are
// applied per row; Vector functions see whole columns and return a
// new column of the same length. MaxArgs < 0 means variadic.
type Func struct {
	MinArgs, MaxArgs int
	Elem             func(xs ...float64) float64
	Vector           func(cols ...[]float64) []float64
}

func elem1(f func(float64) float64) Func {
	return Func{MinArgs: 1, MaxArgs: 1, Elem: func(xs ...float64) float64 { return f(xs[0]) }}
}

func elem2(f func(a, b float64) float64) Func {
	return Func{MinArgs: 2, MaxArgs: 2, Elem: func(xs ...float64) float64 { return f(xs[0], xs[1]) }}
}

func reduce(f func(a, b float64) float64) Func {
	return Func{MinArgs: 1, MaxArgs: -1, Elem: func(xs ...float64) float64 {
		r := xs[0]
		for _, x := range xs[1:] {
			r = f(r, x)
		}
		return r
	}}
}

// Funcs are the functions available in expressions.
var Funcs = map[string]Func{
	"abs":   elem1(math.Abs),
	"sqrt":  elem1(math.Sqrt),
	"exp":   elem1(math.Exp),
	"log":   elem1(math.Log),
	"log10": elem1(math.Log10),
	"sin":   elem1(math.Sin),
	"cos":   elem1(math.Cos),
	"tan":   elem1(math.Tan),
	"asin":  elem1(math.Asin),
	"acos":  elem1(math.Acos),
	"atan":  elem1(math.Atan),
	"floor": elem1(math.Floor),
	"ceil":  elem1(math.Ceil),
	"round": elem1(math.Round),
	"atan2": elem2(math.Atan2),
	"pow":   elem2(math.Pow),
	"hypot": elem2(math.Hypot),
	"min":   reduce(math.Min),
	"max":   reduce(math.Max),
	"diff": {MinArgs: 1, MaxArgs: 1, Vector: func(cols ...[]float64) []float64 {
		x := cols[0]
		out := make([]float64, len(x))
		for i := range x {
			if i == 0 {
				out[i] = math.NaN()
				continue
			}
			out[i] = x[i] - x[i-1]
		}
		return out
	}},
	"cumsum": {MinArgs: 1, MaxArgs: 1, Vector: func(cols ...[]float64) []float64 {
		x := cols[0]
		out := make([]float64, len(x))
		sum := 0.0
		for i, v := range x {
			sum += v
			out[i] = sum
		}
		return out
	}},
}
