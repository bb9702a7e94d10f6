// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package generator compiles a grammar.Grammar's expression algebra into a
// family of matcher closures that share a runtime.ParserContext, and
// exposes the resulting parse(input) entry point.
package generator

import (
	"fmt"

	"github.com/lVlEK0/pegtree/grammar"
	"github.com/lVlEK0/pegtree/runtime"
)

// Matcher is a compiled matcher closure: given a ParserContext, it reports
// whether the expression it was compiled from matched at the current
// position, having already applied whatever effect a match has.
type Matcher func(px *runtime.ParserContext) bool

// cell is the one-field indirection forward references are tied off
// through: a Ref compiles to a closure that calls cell.fn, and cell.fn is
// only assigned once every rule in the grammar has been compiled. This
// lets mutually (non-left-) recursive rules resolve without a two-pass
// topological sort.
type cell struct {
	fn Matcher
}

// Options configures Parser construction.
type Options struct {
	// Start names the rule to begin parsing from; defaults to the
	// grammar's first-inserted rule.
	Start string
	// Memoize turns on the fixed-size memo table for every rule.
	Memoize bool
}

// Parser is a compiled grammar, ready to parse any number of inputs. It
// holds no per-parse state, so the same Parser may be used concurrently
// by constructing one ParserContext per call to Parse.
type Parser struct {
	Grammar   *grammar.Grammar
	start     string
	startFn   Matcher
	cells     map[string]*cell
	ruleIndex map[string]int
	memoSize  int
}

// New compiles g. The left-recursion check and the treeState/formTree
// normalization passes run once here, before any matcher is emitted.
func New(g *grammar.Grammar, opts Options) (*Parser, error) {
	p := &Parser{Grammar: g, cells: make(map[string]*cell)}

	startName := opts.Start
	if startName == "" {
		startName = g.Start()
	}

	if opts.Memoize {
		p.ruleIndex = make(map[string]int, len(g.Names()))
		for i, name := range g.Names() {
			p.ruleIndex[name] = i
		}
		p.memoSize = len(g.Names())
	}

	normalized := make(map[string]grammar.Expr, len(g.Names()))
	for _, name := range g.Names() {
		body, ok := g.Lookup(name)
		if !ok {
			continue
		}
		if grammar.RejectLeftRecursion(name, body) {
			if g.Diagnostics != nil {
				g.Diagnostics(grammar.SeverityError, -1, fmt.Sprintf("rule %q is left-recursive; rewritten to fail", name))
			}
			body = grammar.Not{Expr: grammar.Empty{}}
		}
		declared := grammar.ClassifyName(name)
		formed, _ := grammar.FormTree(body, declared)
		normalized[name] = formed
	}

	for _, name := range g.Names() {
		body, ok := normalized[name]
		if !ok {
			continue
		}
		ref := g.NewRef(name)
		c := p.cellFor(ref.Uname)
		c.fn = p.bind(name, p.emit(body))
	}

	startRef := g.NewRef(startName)
	startCell, ok := p.cells[startRef.Uname]
	if !ok {
		return nil, fmt.Errorf("generator: start rule %q has no compiled body", startName)
	}
	p.start = startName
	p.startFn = startCell.fn
	return p, nil
}

// Parse runs the compiled grammar over input[spos:epos] (epos<=0 means end
// of input), returning a ParseTree or the synthetic "err" marker anchored
// at headpos on failure.
func (p *Parser) Parse(input, urn string, spos, epos int) *runtime.ParseTree {
	if epos <= 0 || epos > len(input) {
		epos = len(input)
	}
	px := runtime.NewContext(input, urn, spos, epos, p.memoSize)
	if !p.startFn(px) {
		return runtime.NewErr(urn, input, px.Headpos)
	}
	ast := px.Ast
	if ast == nil {
		ast = runtime.PushNode(nil, p.start, spos, px.Pos, nil)
	}
	return runtime.ToParseTree(ast, urn, input)
}

func (p *Parser) cellFor(uname string) *cell {
	if c, ok := p.cells[uname]; ok {
		return c
	}
	c := &cell{}
	p.cells[uname] = c
	return c
}

// bind wraps fn with the memo table lookup/store when memoization was
// requested and name has a rule index; otherwise it is a no-op passthrough.
func (p *Parser) bind(name string, fn Matcher) Matcher {
	if p.ruleIndex == nil {
		return fn
	}
	idx, ok := p.ruleIndex[name]
	if !ok {
		return fn
	}
	msize := p.memoSize
	return func(px *runtime.ParserContext) bool {
		if px.Memo == nil {
			return fn(px)
		}
		key := runtime.MemoKey(msize, px.Pos, idx)
		if m, hit := runtime.MemoLookup(px.Memo, key); hit {
			px.Pos = m.Pos
			if m.Result {
				px.Ast = m.Ast
			}
			return m.Result
		}
		ok2 := fn(px)
		runtime.MemoStore(px.Memo, key, px.Pos, px.Ast, ok2)
		return ok2
	}
}

func (p *Parser) emitAll(exprs []grammar.Expr) []Matcher {
	ms := make([]Matcher, len(exprs))
	for i, e := range exprs {
		ms[i] = p.emit(e)
	}
	return ms
}

// emit compiles one expression-algebra node into a Matcher. Every case is
// a direct translation of the corresponding rule in the recognizer design:
// terminals check and advance; predicates snapshot and restore; repetition
// enforces the loop-progress guard; tree constructors push PTree nodes.
func (p *Parser) emit(e grammar.Expr) Matcher {
	switch v := e.(type) {
	case grammar.Empty:
		return func(px *runtime.ParserContext) bool { return true }

	case grammar.Any:
		return func(px *runtime.ParserContext) bool {
			_, w := px.Peek()
			if w == 0 {
				px.MarkHeadpos()
				return false
			}
			px.Pos += w
			px.MarkHeadpos()
			return true
		}

	case grammar.Char:
		text := v.Text
		n := len(text)
		return func(px *runtime.ParserContext) bool {
			if !px.HasPrefix(text) {
				px.MarkHeadpos()
				return false
			}
			px.Pos += n
			px.MarkHeadpos()
			return true
		}

	case grammar.Range:
		contains := compileRange(v)
		return func(px *runtime.ParserContext) bool {
			r, w := px.Peek()
			if w == 0 || !contains(r) {
				px.MarkHeadpos()
				return false
			}
			px.Pos += w
			px.MarkHeadpos()
			return true
		}

	case grammar.Seq:
		ms := p.emitAll(v.Exprs)
		return func(px *runtime.ParserContext) bool {
			for _, m := range ms {
				if !m(px) {
					return false
				}
			}
			return true
		}

	case grammar.Ore:
		return p.emitOre(p.emitAll(v.Exprs))

	case grammar.Alt:
		return p.emitOre(p.emitAll(v.Exprs))

	case grammar.And:
		m := p.emit(v.Expr)
		return func(px *runtime.ParserContext) bool {
			pos, ast, state := px.Snapshot()
			ok := m(px)
			px.Restore(pos, ast, state)
			return ok
		}

	case grammar.Not:
		m := p.emit(v.Expr)
		return func(px *runtime.ParserContext) bool {
			pos, ast, state := px.Snapshot()
			ok := m(px)
			px.Restore(pos, ast, state)
			return !ok
		}

	case grammar.Many:
		m := p.emit(v.Expr)
		return func(px *runtime.ParserContext) bool {
			for {
				pos, ast, state := px.Snapshot()
				if !m(px) {
					px.Restore(pos, ast, state)
					break
				}
				if px.Pos == pos {
					break
				}
			}
			return true
		}

	case grammar.Many1:
		m := p.emit(v.Expr)
		return func(px *runtime.ParserContext) bool {
			pos0, ast0, state0 := px.Snapshot()
			if !m(px) {
				px.Restore(pos0, ast0, state0)
				return false
			}
			for {
				pos, ast, state := px.Snapshot()
				if !m(px) {
					px.Restore(pos, ast, state)
					break
				}
				if px.Pos == pos {
					break
				}
			}
			return true
		}

	case grammar.Option:
		m := p.emit(v.Expr)
		return func(px *runtime.ParserContext) bool {
			pos, ast, state := px.Snapshot()
			if !m(px) {
				px.Restore(pos, ast, state)
			}
			return true
		}

	case *grammar.Ref:
		c := p.cellFor(v.Uname)
		return func(px *runtime.ParserContext) bool {
			return c.fn(px)
		}

	case grammar.Node:
		m := p.emit(v.Expr)
		tag := v.Tag
		return func(px *runtime.ParserContext) bool {
			spos := px.Pos
			savedAst := px.Ast
			px.Ast = nil
			if !m(px) {
				px.Ast = savedAst
				return false
			}
			px.Ast = runtime.PushNode(savedAst, tag, spos, px.Pos, px.Ast)
			return true
		}

	case grammar.Edge:
		m := p.emit(v.Expr)
		label := v.Label
		return func(px *runtime.ParserContext) bool {
			spos := px.Pos
			savedAst := px.Ast
			px.Ast = nil
			if !m(px) {
				px.Ast = savedAst
				return false
			}
			if label == "" {
				// An unlabeled Edge is the internal marker formRef/formNode
				// use to splice an already-complete value (a bare Ref to a
				// Tree rule, or a Node formTree itself wrapped) into the
				// enclosing chain; it must not materialize as a phantom
				// empty-tagged named edge.
				px.Ast = runtime.Reparent(savedAst, px.Ast)
			} else {
				px.Ast = runtime.PushEdge(savedAst, label, spos, px.Pos, px.Ast)
			}
			return true
		}

	case grammar.Fold:
		return p.emitFold(v)

	case grammar.Abs:
		m := p.emit(v.Expr)
		return func(px *runtime.ParserContext) bool {
			savedAst := px.Ast
			ok := m(px)
			px.Ast = savedAst
			return ok
		}

	case grammar.Action:
		return p.emitAction(v)

	default:
		panic(fmt.Sprintf("generator: unhandled expression %T", e))
	}
}

func (p *Parser) emitOre(ms []Matcher) Matcher {
	return func(px *runtime.ParserContext) bool {
		pos, ast, state := px.Snapshot()
		for _, m := range ms {
			if m(px) {
				return true
			}
			px.MarkHeadpos()
			px.Restore(pos, ast, state)
		}
		return false
	}
}

func (p *Parser) emitFold(v grammar.Fold) Matcher {
	m := p.emit(v.Expr)
	label := v.Label
	tag := v.Tag
	return func(px *runtime.ParserContext) bool {
		entryPos := px.Pos
		savedAst := px.Ast
		rest, top := runtime.SplitAst(px.Ast)
		// The produced node spans from the start of the tree built so far
		// (top), not from where this Fold application happens to begin --
		// that is what makes repeated folding accumulate a left-associated
		// span across iterations instead of only covering the last one.
		spos := entryPos
		if top != nil {
			spos = top.Spos
		}
		if label != "" && top != nil {
			top = runtime.PushEdge(nil, label, top.Spos, top.End(), top)
		}
		px.Ast = top
		if !m(px) {
			px.Pos = entryPos
			px.Ast = savedAst
			return false
		}
		px.Ast = runtime.PushNode(rest, tag, spos, px.Pos, px.Ast)
		return true
	}
}
