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

// Package grammar defines the parsing-expression algebra and the registry
// that owns named rules built from it.
package grammar

// Expr is one node of the parsing-expression algebra. Every variant is a
// plain value; the sole exception is *Ref, which carries identity so that
// repeated references to the same rule compare equal.
type Expr interface {
	exprNode()
}

// Empty always succeeds without consuming input.
type Empty struct{}

func (Empty) exprNode() {}

// Any consumes one code unit; fails at end of input.
type Any struct{}

func (Any) exprNode() {}

// Char matches Text as a literal prefix.
type Char struct {
	Text string
}

func (Char) exprNode() {}

// RangeSpan is an inclusive rune interval.
type RangeSpan struct {
	Lo, Hi rune
}

// Range matches one code unit drawn from the union of Chars and Ranges.
type Range struct {
	Chars  []rune
	Ranges []RangeSpan
}

func (Range) exprNode() {}

// Seq requires every child to match in order.
type Seq struct {
	Exprs []Expr
}

func (Seq) exprNode() {}

// Ore is ordered choice with backtracking.
type Ore struct {
	Exprs []Expr
}

func (Ore) exprNode() {}

// Alt is recognized identically to Ore; it exists as a distinct variant so
// the tree-state pass can treat it differently (see Classify).
type Alt struct {
	Exprs []Expr
}

func (Alt) exprNode() {}

// And is a positive, zero-width lookahead.
type And struct {
	Expr Expr
}

func (And) exprNode() {}

// Not is a negative, zero-width lookahead.
type Not struct {
	Expr Expr
}

func (Not) exprNode() {}

// Many matches Expr zero or more times.
type Many struct {
	Expr Expr
}

func (Many) exprNode() {}

// Many1 matches Expr one or more times.
type Many1 struct {
	Expr Expr
}

func (Many1) exprNode() {}

// Option matches Expr zero or one time, always succeeding.
type Option struct {
	Expr Expr
}

func (Option) exprNode() {}

// Ref is a lazy, canonicalized indirection into a Grammar's rule table.
// Two Refs obtained from the same Grammar.NewRef(name) call are the same
// pointer, so identity equality can be used by the generator's
// forward-reference table.
type Ref struct {
	Name  string
	Uname string
	g     *Grammar
}

func (*Ref) exprNode() {}

// Deref looks up the rule Name currently bound in the owning grammar.
func (r *Ref) Deref() (Expr, bool) {
	return r.g.Lookup(r.Name)
}

// Node wraps the span consumed by Expr as a fresh tree node tagged Tag.
type Node struct {
	Expr Expr
	Tag  string
}

func (Node) exprNode() {}

// Edge attaches Expr's result to the enclosing tree node under Label.
type Edge struct {
	Label string
	Expr  Expr
}

func (Edge) exprNode() {}

// Fold wraps the tree built so far as a child of a freshly tagged node,
// implementing iterative left-associative tree building.
type Fold struct {
	Label string
	Expr  Expr
	Tag   string
}

func (Fold) exprNode() {}

// Abs runs Expr purely for its effect on position, discarding any tree it
// would otherwise build.
type Abs struct {
	Expr Expr
}

func (Abs) exprNode() {}

// Closed set of Action verbs.
const (
	VerbNT     = "NT"
	VerbImport = "import"
	VerbLazy   = "lazy"
	VerbSkip   = "skip"
	VerbSymbol = "symbol"
	VerbScope  = "scope"
	VerbExists = "exists"
	VerbMatch  = "match"
	VerbIf     = "if"
	VerbDef    = "def"
	VerbIn     = "in"
	VerbOn     = "on"
)

// Action attaches a named semantic verb to Expr with Params supplied by the
// grammar source (e.g. a symbol id, a dictionary name).
type Action struct {
	Expr   Expr
	Verb   string
	Params []string
}

func (Action) exprNode() {}

// NewChar collapses the empty literal to Empty, matching how the original
// bootstrap grammar treats a quoted empty string.
func NewChar(s string) Expr {
	if s == "" {
		return Empty{}
	}
	return Char{Text: s}
}

// NewSeq flattens nested Seqs and drops Empty children, as the original
// Grammar.pSeq constructor does, then collapses to the single remaining
// child or Empty when nothing is left.
func NewSeq(exprs ...Expr) Expr {
	flat := flattenSeq(exprs)
	switch len(flat) {
	case 0:
		return Empty{}
	case 1:
		return flat[0]
	default:
		return Seq{Exprs: flat}
	}
}

func flattenSeq(exprs []Expr) []Expr {
	var out []Expr
	for _, e := range exprs {
		switch v := e.(type) {
		case Empty:
			continue
		case Seq:
			out = append(out, flattenSeq(v.Exprs)...)
		default:
			out = append(out, e)
		}
	}
	return out
}

// NewOre flattens nested Ores and collapses a single remaining alternative,
// mirroring the original Grammar.pOre constructor.
func NewOre(exprs ...Expr) Expr {
	flat := flattenOre(exprs)
	if len(flat) == 1 {
		return flat[0]
	}
	return Ore{Exprs: flat}
}

func flattenOre(exprs []Expr) []Expr {
	var out []Expr
	for _, e := range exprs {
		if v, ok := e.(Ore); ok {
			out = append(out, flattenOre(v.Exprs)...)
			continue
		}
		out = append(out, e)
	}
	return out
}

// NewAlt is the Alt counterpart of NewOre.
func NewAlt(exprs ...Expr) Expr {
	flat := flattenAlt(exprs)
	if len(flat) == 1 {
		return flat[0]
	}
	return Alt{Exprs: flat}
}

func flattenAlt(exprs []Expr) []Expr {
	var out []Expr
	for _, e := range exprs {
		if v, ok := e.(Alt); ok {
			out = append(out, flattenAlt(v.Exprs)...)
			continue
		}
		out = append(out, e)
	}
	return out
}
