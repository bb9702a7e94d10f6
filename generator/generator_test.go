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

package generator

import (
	"testing"

	"github.com/lVlEK0/pegtree/grammar"
	"github.com/lVlEK0/pegtree/runtime"
)

func digit() grammar.Expr {
	return grammar.Range{Ranges: []grammar.RangeSpan{{Lo: '0', Hi: '9'}}}
}

func mustParse(t *testing.T, g *grammar.Grammar, start, input string) *runtime.ParseTree {
	t.Helper()
	p, err := New(g, Options{Start: start})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pt := p.Parse(input, "test", 0, 0)
	if pt.IsErr() {
		t.Fatalf("parse of %q failed at %d", input, pt.Spos)
	}
	return pt
}

// Sum = 'ab' / 'a' 'c'; input "ac" -> tree [#S 'ac'], consumed 2.
func TestScenarioOrderedChoice(t *testing.T) {
	g := grammar.New()
	g.Add("Sum", grammar.Node{
		Tag: "S",
		Expr: grammar.NewOre(
			grammar.NewChar("ab"),
			grammar.NewSeq(grammar.NewChar("a"), grammar.NewChar("c")),
		),
	})

	pt := mustParse(t, g, "Sum", "ac")
	if pt.Tag != "S" || pt.Text() != "ac" {
		t.Fatalf("got %s, want [#S 'ac']", pt)
	}
	if pt.Epos != 2 {
		t.Fatalf("consumed %d, want 2", pt.Epos)
	}
}

// Num = [0-9]+; input "42x" -> tree [#N '42'].
func TestScenarioMany1Digits(t *testing.T) {
	g := grammar.New()
	g.Add("Num", grammar.Node{Tag: "N", Expr: grammar.Many1{Expr: digit()}})

	pt := mustParse(t, g, "Num", "42x")
	if pt.Tag != "N" || pt.Text() != "42" {
		t.Fatalf("got %s, want [#N '42']", pt)
	}
}

// Expr = {#Add left:Num '+' right:Num}, Num=[0-9]+; input "1+2" ->
// [#Add left=[#N '1'] right=[#N '2']].
func TestScenarioNamedEdges(t *testing.T) {
	g := grammar.New()
	n := g.NewRef("Num")
	g.Add("Num", grammar.Node{Tag: "N", Expr: grammar.Many1{Expr: digit()}})
	g.Add("Expr", grammar.Node{
		Tag: "Add",
		Expr: grammar.NewSeq(
			grammar.Edge{Label: "left", Expr: n},
			grammar.NewChar("+"),
			grammar.Edge{Label: "right", Expr: n},
		),
	})

	pt := mustParse(t, g, "Expr", "1+2")
	if pt.Tag != "Add" {
		t.Fatalf("got tag %q, want Add", pt.Tag)
	}
	left := pt.Edge("left")
	right := pt.Edge("right")
	if left == nil || left.Tag != "N" || left.Text() != "1" {
		t.Fatalf("left = %v, want [#N '1']", left)
	}
	if right == nil || right.Tag != "N" || right.Text() != "2" {
		t.Fatalf("right = %v, want [#N '2']", right)
	}
}

// List = Num (Fold("+" Num, "Lst"))*, Num=[0-9]+; input "1+2+3" ->
// [#Lst [#Lst [#N '1'] [#N '2']] [#N '3']] -- left-associative folding.
func TestScenarioLeftFold(t *testing.T) {
	g := grammar.New()
	n := g.NewRef("Num")
	g.Add("Num", grammar.Node{Tag: "N", Expr: grammar.Many1{Expr: digit()}})
	g.Add("List", grammar.NewSeq(
		n,
		grammar.Many{Expr: grammar.Fold{
			Tag:  "Lst",
			Expr: grammar.NewSeq(grammar.NewChar("+"), n),
		}},
	))

	pt := mustParse(t, g, "List", "1+2+3")
	if pt.Tag != "Lst" || pt.Spos != 0 || pt.Epos != 5 {
		t.Fatalf("got %s, want [#Lst ...] spanning [0,5)", pt)
	}
	if len(pt.Children) != 2 || pt.Children[1].Tag != "N" || pt.Children[1].Text() != "3" {
		t.Fatalf("outer children = %v, want [inner, #N '3']", pt.Children)
	}
	inner := pt.Children[0]
	if inner.Tag != "Lst" || inner.Spos != 0 || inner.Epos != 3 {
		t.Fatalf("inner = %s, want [#Lst ...] spanning [0,3)", inner)
	}
	if len(inner.Children) != 2 || inner.Children[0].Text() != "1" || inner.Children[1].Text() != "2" {
		t.Fatalf("inner children = %v, want [#N '1', #N '2']", inner.Children)
	}
}

// symbol/match: quoted strings must repeat the same text once captured.
// Q = symbol("q", [a-z]+) ' ' match("q").
func TestScenarioSymbolMatch(t *testing.T) {
	letters := grammar.Range{Ranges: []grammar.RangeSpan{{Lo: 'a', Hi: 'z'}}}
	g := grammar.New()
	g.Add("q", grammar.NewSeq(
		grammar.Action{Verb: grammar.VerbSymbol, Params: []string{"q"}, Expr: grammar.Many1{Expr: letters}},
		grammar.NewChar(" "),
		grammar.Action{Verb: grammar.VerbMatch, Params: []string{"q"}, Expr: grammar.Empty{}},
	))

	p, err := New(g, Options{Start: "q"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if pt := p.Parse("echo echo", "test", 0, 0); pt.IsErr() {
		t.Fatalf("symbol/match round trip should have succeeded")
	}
	if pt := p.Parse("echo hello", "test", 0, 0); !pt.IsErr() {
		t.Fatalf("mismatched repeated text should have failed")
	}
}

// Many over an expression that can match without consuming must terminate
// rather than loop forever (the loop-progress guard).
func TestScenarioManyProgressGuard(t *testing.T) {
	g := grammar.New()
	g.Add("Z", grammar.Many{Expr: grammar.Option{Expr: grammar.NewChar("nonexistent-branch-never-taken")}})

	pt := mustParse(t, g, "Z", "abc")
	if pt.Epos != 0 {
		t.Fatalf("consumed %d, want 0: the zero-width child should not advance Many's loop", pt.Epos)
	}
}

// List = [a-z] (',' [a-z])* ',' '!'; a trailing comma with no following
// [a-z] must not leak its consumed position out of the Many: the repetition
// that starts matching ',' and then fails on the missing [a-z] has to
// restore position all the way back to before that ',' so the ',' '!' tail
// can still see it.
func TestManyRestoresOnPartialRepetitionFailure(t *testing.T) {
	g := grammar.New()
	letter := grammar.Range{Ranges: []grammar.RangeSpan{{Lo: 'a', Hi: 'z'}}}
	g.Add("List", grammar.NewSeq(
		letter,
		grammar.Many{Expr: grammar.NewSeq(grammar.NewChar(","), letter)},
		grammar.NewChar(","), grammar.NewChar("!"),
	))

	pt := mustParse(t, g, "List", "a,!")
	if pt.Epos != 3 {
		t.Fatalf("consumed %d, want 3: the failed repetition's ',' must not stay consumed", pt.Epos)
	}
}

func TestOrderedChoiceWinnerAfterFailedLongerBranch(t *testing.T) {
	g := grammar.New()
	g.Add("S", grammar.NewOre(
		grammar.NewChar("aaaa"),
		grammar.NewChar("aa"),
	))
	p, err := New(g, Options{Start: "S"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	px := p.Parse("aab", "test", 0, 0)
	if px.IsErr() {
		t.Fatalf("expected the shorter alternative to match")
	}
	if px.Epos != 2 {
		t.Fatalf("consumed %d, want 2 (the ordered-choice winner, not the further-reaching failed branch)", px.Epos)
	}
}

func TestNotBacktracksPositionAndAst(t *testing.T) {
	g := grammar.New()
	g.Add("Sig", grammar.NewSeq(
		grammar.Node{Tag: "N", Expr: grammar.Many1{Expr: digit()}},
		grammar.Not{Expr: grammar.NewChar("x")},
	))
	pt := mustParse(t, g, "Sig", "42y")
	if pt.Tag != "N" || pt.Text() != "42" {
		t.Fatalf("got %s, want [#N '42'] unaffected by the trailing Not", pt)
	}
}

func TestMemoizedParseMatchesUnmemoized(t *testing.T) {
	g := grammar.New()
	g.Add("Num", grammar.Node{Tag: "N", Expr: grammar.Many1{Expr: digit()}})

	plain, err := New(g, Options{Start: "Num"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	memo, err := New(g, Options{Start: "Num", Memoize: true})
	if err != nil {
		t.Fatalf("New(memoize): %v", err)
	}
	a := plain.Parse("1234", "test", 0, 0)
	b := memo.Parse("1234", "test", 0, 0)
	if a.String() != b.String() {
		t.Fatalf("memoized parse diverged: %s vs %s", b, a)
	}
}

func TestRejectsDirectLeftRecursion(t *testing.T) {
	g := grammar.New()
	r := g.NewRef("S")
	g.Add("S", grammar.NewOre(grammar.NewSeq(r, grammar.NewChar("a")), grammar.NewChar("a")))

	var gotDiag bool
	g.Diagnostics = func(sev grammar.Severity, pos int, msg string) { gotDiag = true }

	p, err := New(g, Options{Start: "S"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !gotDiag {
		t.Fatalf("expected a diagnostic for the left-recursive rule")
	}
	// The whole rule is rewritten to never match once left recursion is
	// detected in it, including its non-recursive alternative.
	if pt := p.Parse("a", "test", 0, 0); !pt.IsErr() {
		t.Fatalf("left-recursive rule should have been rewritten to always fail")
	}
}
