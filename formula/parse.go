// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package formula parses and evaluates column expressions, such
// as "col1*2" or "{Wind Speed}^2 / 2", into derived columns.
//
// Columns are referenced by name, either directly when the name is a
// valid identifier, or within braces for any other name. Expressions
// support + - * / %, ^ and ** for power, unary - + !, comparisons and
// && || (which produce 1 or 0), the constants pi, e, nan and inf,
// and the functions listed in [Funcs]. Evaluation is vectorized over
// the rows of the table; scalar values are broadcast.
package formula

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"
)

// Expr is a parsed expression.
type Expr struct {
	// Source is the expression as written.
	Source string

	root    node
	columns []string
}

// tok is one scanned token.
type tok struct {
	tok token.Token
	lit string
	pos int
}

// Parse parses the given expression source.
func Parse(src string) (*Expr, error) {
	code, names, err := replaceBraces(src)
	if err != nil {
		return nil, &Error{Expr: src, Err: err}
	}
	toks, err := tokens(code)
	if err != nil {
		return nil, &Error{Expr: src, Err: err}
	}
	p := &parser{toks: toks, names: names}
	root, err := p.or()
	if err == nil && p.peek().tok != token.EOF {
		err = wrapf(ErrSyntax, "unexpected %s", p.peek())
	}
	if err != nil {
		return nil, &Error{Expr: src, Err: err}
	}
	return &Expr{Source: src, root: root, columns: p.columns}, nil
}

// Columns returns the names referenced by the expression that
// are not function names, in order of first appearance.
// Constant names such as pi are included, as a column of that
// name takes precedence over the constant.
func (ex *Expr) Columns() []string { return ex.columns }

func (ex *Expr) String() string { return ex.Source }

// placeholder is the identifier substituted for the i'th braced name.
func placeholder(i int) string { return "__c" + strconv.Itoa(i) }

// replaceBraces replaces {any name} references by placeholder
// identifiers, returning the mapping back to the names.
func replaceBraces(src string) (string, map[string]string, error) {
	if !strings.ContainsAny(src, "{}") {
		return src, nil, nil
	}
	var b strings.Builder
	names := map[string]string{}
	for {
		st := strings.IndexByte(src, '{')
		ed := strings.IndexByte(src, '}')
		if st < 0 && ed < 0 {
			b.WriteString(src)
			break
		}
		if st < 0 || ed < st {
			return "", nil, wrapf(ErrSyntax, "unbalanced braces")
		}
		name := src[st+1 : ed]
		if strings.ContainsRune(name, '{') {
			return "", nil, wrapf(ErrSyntax, "nested braces")
		}
		ph := placeholder(len(names))
		names[ph] = name
		b.WriteString(src[:st])
		b.WriteString(" " + ph + " ")
		src = src[ed+1:]
	}
	return b.String(), names, nil
}

// tokens scans the code with the Go scanner, dropping
// automatically inserted semicolons.
func tokens(code string) ([]tok, error) {
	fset := token.NewFileSet()
	f := fset.AddFile("", fset.Base(), len(code))
	var serr error
	var sc scanner.Scanner
	sc.Init(f, []byte(code), func(pos token.Position, msg string) {
		if serr == nil {
			serr = wrapf(ErrSyntax, "%s at column %d", msg, pos.Column)
		}
	}, 0)
	var toks []tok
	for {
		pos, tk, lit := sc.Scan()
		if tk == token.EOF {
			break
		}
		if tk == token.SEMICOLON && lit == "\n" {
			continue
		}
		toks = append(toks, tok{tok: tk, lit: lit, pos: f.Offset(pos)})
	}
	if serr != nil {
		return nil, serr
	}
	return append(toks, tok{tok: token.EOF, pos: len(code)}), nil
}

func (t tok) String() string {
	if t.lit != "" {
		return strconv.Quote(t.lit)
	}
	return strconv.Quote(t.tok.String())
}

type parser struct {
	toks    []tok
	i       int
	names   map[string]string
	columns []string
}

func (p *parser) peek() tok { return p.toks[p.i] }

func (p *parser) next() tok {
	t := p.toks[p.i]
	if t.tok != token.EOF {
		p.i++
	}
	return t
}

func (p *parser) or() (node, error) {
	return p.binary(p.and, token.LOR)
}

func (p *parser) and() (node, error) {
	return p.binary(p.cmp, token.LAND)
}

func (p *parser) cmp() (node, error) {
	return p.binary(p.add, token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ)
}

func (p *parser) add() (node, error) {
	return p.binary(p.mul, token.ADD, token.SUB)
}

func (p *parser) mul() (node, error) {
	return p.binary(p.unary, token.MUL, token.QUO, token.REM)
}

// binary parses a left-associative sequence of the given operators.
func (p *parser) binary(sub func() (node, error), ops ...token.Token) (node, error) {
	x, err := sub()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().tok
		if !hasToken(ops, op) || p.isPower() {
			return x, nil
		}
		p.next()
		y, err := sub()
		if err != nil {
			return nil, err
		}
		x = &binaryNode{op: op, x: x, y: y}
	}
}

func hasToken(ops []token.Token, t token.Token) bool {
	for _, o := range ops {
		if o == t {
			return true
		}
	}
	return false
}

// isPower reports whether the next tokens are ^ or an adjacent **.
func (p *parser) isPower() bool {
	t := p.peek()
	if t.tok == token.XOR {
		return true
	}
	if t.tok == token.MUL && p.i+1 < len(p.toks) {
		n := p.toks[p.i+1]
		return n.tok == token.MUL && n.pos == t.pos+1
	}
	return false
}

func (p *parser) unary() (node, error) {
	switch p.peek().tok {
	case token.SUB, token.ADD, token.NOT:
		op := p.next().tok
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op, x: x}, nil
	}
	return p.power()
}

func (p *parser) power() (node, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.isPower() {
		return x, nil
	}
	if p.next().tok == token.MUL {
		p.next()
	}
	y, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: token.XOR, x: x, y: y}, nil
}

func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.tok {
	case token.INT, token.FLOAT:
		v, err := strconv.ParseFloat(t.lit, 64)
		if err != nil {
			return nil, wrapf(ErrSyntax, "invalid number %s", t)
		}
		return &numNode{v: v}, nil
	case token.IDENT:
		if p.peek().tok == token.LPAREN {
			return p.call(t.lit)
		}
		name := t.lit
		if nm, ok := p.names[name]; ok {
			name = nm
		}
		p.addColumn(name)
		return &identNode{name: name}, nil
	case token.LPAREN:
		x, err := p.or()
		if err != nil {
			return nil, err
		}
		if p.next().tok != token.RPAREN {
			return nil, wrapf(ErrSyntax, "missing closing parenthesis")
		}
		return x, nil
	case token.EOF:
		return nil, wrapf(ErrSyntax, "unexpected end of expression")
	}
	return nil, wrapf(ErrSyntax, "unexpected %s", t)
}

func (p *parser) call(name string) (node, error) {
	p.next() // (
	c := &callNode{name: name}
	if p.peek().tok == token.RPAREN {
		p.next()
		return c, nil
	}
	for {
		a, err := p.or()
		if err != nil {
			return nil, err
		}
		c.args = append(c.args, a)
		switch p.next().tok {
		case token.COMMA:
			continue
		case token.RPAREN:
			return c, nil
		}
		return nil, fmt.Errorf("%w: expected , or ) in call to %s", ErrSyntax, name)
	}
}

func (p *parser) addColumn(name string) {
	for _, c := range p.columns {
		if c == name {
			return
		}
	}
	p.columns = append(p.columns, name)
}
