// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formula

import (
	"errors"
	"go/token"
	"math"
)

// Env provides the columns an expression is evaluated against.
type Env interface {
	// NumRows returns the number of rows of each column.
	NumRows() int

	// Floats returns the numeric values of the named column.
	// It must return an error wrapping [ErrUnknownColumn] for a missing
	// column and [ErrType] for a column that is not numeric.
	// The returned values are not modified.
	Floats(name string) ([]float64, error)
}

// Constants are the named constants, used when no column has the name.
var Constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"nan": math.NaN(),
	"inf": math.Inf(1),
}

// Eval parses and evaluates the given expression against env.
func Eval(src string, env Env) ([]float64, error) {
	ex, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return ex.Eval(env)
}

// Eval evaluates the expression against env, returning a new slice
// of env.NumRows() values. Errors are of type [*Error].
func (ex *Expr) Eval(env Env) ([]float64, error) {
	n := env.NumRows()
	v, err := ex.root.eval(env, n)
	if err != nil {
		return nil, &Error{Expr: ex.Source, Err: err}
	}
	out := make([]float64, n)
	if v.scalar {
		for i := range out {
			out[i] = v.s
		}
		return out, nil
	}
	copy(out, v.v)
	return out, nil
}

// value is either a scalar or a vector of n rows.
type value struct {
	v      []float64
	s      float64
	scalar bool
}

func scalar(s float64) value { return value{s: s, scalar: true} }

func (v value) at(i int) float64 {
	if v.scalar {
		return v.s
	}
	return v.v[i]
}

// mapValues applies fun elementwise over the broadcast arguments.
func mapValues(n int, fun func(i int) (float64, error), args ...value) (value, error) {
	all := true
	for _, a := range args {
		all = all && a.scalar
	}
	if all {
		r, err := fun(0)
		return scalar(r), err
	}
	out := make([]float64, n)
	for i := range out {
		r, err := fun(i)
		if err != nil {
			return value{}, err
		}
		out[i] = r
	}
	return value{v: out}, nil
}

type node interface {
	eval(env Env, n int) (value, error)
}

type numNode struct{ v float64 }

func (nd *numNode) eval(env Env, n int) (value, error) { return scalar(nd.v), nil }

type identNode struct{ name string }

func (nd *identNode) eval(env Env, n int) (value, error) {
	vals, err := env.Floats(nd.name)
	if err == nil {
		if len(vals) != n {
			return value{}, wrapf(ErrType, "column %q has %d rows, expected %d", nd.name, len(vals), n)
		}
		return value{v: vals}, nil
	}
	if errors.Is(err, ErrUnknownColumn) {
		if c, ok := Constants[nd.name]; ok {
			return scalar(c), nil
		}
	}
	return value{}, err
}

type unaryNode struct {
	op token.Token
	x  node
}

func (nd *unaryNode) eval(env Env, n int) (value, error) {
	x, err := nd.x.eval(env, n)
	if err != nil {
		return value{}, err
	}
	return mapValues(n, func(i int) (float64, error) {
		a := x.at(i)
		switch nd.op {
		case token.SUB:
			return -a, nil
		case token.NOT:
			return truth(a == 0), nil
		}
		return a, nil
	}, x)
}

type binaryNode struct {
	op   token.Token
	x, y node
}

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (nd *binaryNode) eval(env Env, n int) (value, error) {
	x, err := nd.x.eval(env, n)
	if err != nil {
		return value{}, err
	}
	y, err := nd.y.eval(env, n)
	if err != nil {
		return value{}, err
	}
	return mapValues(n, func(i int) (float64, error) {
		a, b := x.at(i), y.at(i)
		switch nd.op {
		case token.ADD:
			return a + b, nil
		case token.SUB:
			return a - b, nil
		case token.MUL:
			return a * b, nil
		case token.QUO:
			if b == 0 {
				return 0, wrapf(ErrDivideByZero, "at row %d", i)
			}
			return a / b, nil
		case token.REM:
			if b == 0 {
				return 0, wrapf(ErrDivideByZero, "at row %d", i)
			}
			return math.Mod(a, b), nil
		case token.XOR:
			return math.Pow(a, b), nil
		case token.EQL:
			return truth(a == b), nil
		case token.NEQ:
			return truth(a != b), nil
		case token.LSS:
			return truth(a < b), nil
		case token.LEQ:
			return truth(a <= b), nil
		case token.GTR:
			return truth(a > b), nil
		case token.GEQ:
			return truth(a >= b), nil
		case token.LAND:
			return truth(a != 0 && b != 0), nil
		case token.LOR:
			return truth(a != 0 || b != 0), nil
		}
		return 0, wrapf(ErrSyntax, "unsupported operator %s", nd.op)
	}, x, y)
}

type callNode struct {
	name string
	args []node
}

func (nd *callNode) eval(env Env, n int) (value, error) {
	fn, ok := Funcs[nd.name]
	if !ok {
		return value{}, wrapf(ErrUnknownFunc, "%s", nd.name)
	}
	if len(nd.args) < fn.MinArgs || (fn.MaxArgs >= 0 && len(nd.args) > fn.MaxArgs) {
		return value{}, wrapf(ErrArgs, "%s: got %d", nd.name, len(nd.args))
	}
	args := make([]value, len(nd.args))
	for i, a := range nd.args {
		v, err := a.eval(env, n)
		if err != nil {
			return value{}, err
		}
		args[i] = v
	}
	if fn.Vector != nil {
		vals := make([][]float64, len(args))
		for i, a := range args {
			vals[i] = broadcast(a, n)
		}
		return value{v: fn.Vector(vals...)}, nil
	}
	return mapValues(n, func(i int) (float64, error) {
		xs := make([]float64, len(args))
		for j, a := range args {
			xs[j] = a.at(i)
		}
		return fn.Elem(xs...), nil
	}, args...)
}

func broadcast(v value, n int) []float64 {
	if !v.scalar {
		return v.v
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = v.s
	}
	return out
}
