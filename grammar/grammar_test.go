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

package grammar

import "testing"

func TestNewRefIdentity(t *testing.T) {
	g := New()
	r1 := g.NewRef("Expr")
	r2 := g.NewRef("Expr")
	if r1 != r2 {
		t.Fatalf("NewRef(%q) returned distinct pointers on repeated calls", "Expr")
	}
}

func TestStartSynthesizesEmpty(t *testing.T) {
	g := New()
	name := g.Start()
	if name != "EMPTY" {
		t.Fatalf("Start() on an empty grammar = %q, want EMPTY", name)
	}
	e, ok := g.Lookup("EMPTY")
	if !ok {
		t.Fatalf("synthesized EMPTY rule not found")
	}
	if _, ok := e.(Empty); !ok {
		t.Fatalf("synthesized EMPTY rule = %#v, want Empty{}", e)
	}
}

func TestAddRedefinitionKeepsFirst(t *testing.T) {
	g := New()
	var warnings []string
	g.Diagnostics = func(sev Severity, pos int, msg string) {
		warnings = append(warnings, msg)
	}
	g.Add("R", Char{Text: "a"})
	g.Add("R", Char{Text: "b"})
	e, _ := g.Lookup("R")
	if c, ok := e.(Char); !ok || c.Text != "a" {
		t.Fatalf("Lookup(R) = %#v, want first definition Char{a}", e)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(warnings))
	}
}

func TestIsAlwaysConsumed(t *testing.T) {
	tests := []struct {
		name string
		e    Expr
		want bool
	}{
		{"Empty", Empty{}, false},
		{"Any", Any{}, true},
		{"Char-empty", Char{}, false},
		{"Char", Char{Text: "a"}, true},
		{"Not", Not{Expr: Any{}}, false},
		{"Option", Option{Expr: Any{}}, false},
		{"Many", Many{Expr: Any{}}, false},
		{"Many1", Many1{Expr: Any{}}, true},
		{"Seq-any-true", Seq{Exprs: []Expr{Option{Expr: Any{}}, Any{}}}, true},
		{"Seq-all-false", Seq{Exprs: []Expr{Option{Expr: Any{}}, Not{Expr: Any{}}}}, false},
		{"Ore-all-true", Ore{Exprs: []Expr{Char{Text: "a"}, Char{Text: "b"}}}, true},
		{"Ore-one-false", Ore{Exprs: []Expr{Char{Text: "a"}, Empty{}}}, false},
	}
	for _, tt := range tests {
		if got := IsAlwaysConsumed(tt.e); got != tt.want {
			t.Errorf("IsAlwaysConsumed(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRejectLeftRecursion(t *testing.T) {
	g := New()
	ref := g.NewRef("Expr")
	leftRecursive := Ore{Exprs: []Expr{
		Seq{Exprs: []Expr{ref, Char{Text: "+"}, ref}},
		Char{Text: "x"},
	}}
	g.Add("Expr", leftRecursive)
	if !RejectLeftRecursion("Expr", leftRecursive) {
		t.Fatalf("RejectLeftRecursion did not flag a directly left-recursive rule")
	}
	guarded := Ore{Exprs: []Expr{
		Seq{Exprs: []Expr{Char{Text: "x"}, ref}},
		Char{Text: "y"},
	}}
	if RejectLeftRecursion("Expr", guarded) {
		t.Fatalf("RejectLeftRecursion flagged a rule whose recursive call is guarded by a consuming prefix")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		e    Expr
		want TreeState
	}{
		{"Char", Char{Text: "a"}, Unit},
		{"Node", Node{Expr: Char{Text: "a"}}, Tree},
		{"Edge", Edge{Label: "x", Expr: Char{Text: "a"}}, Mut},
		{"Fold", Fold{Expr: Char{Text: "a"}}, FoldState},
		{"Many-of-Node", Many{Expr: Node{Expr: Char{Text: "a"}}}, Mut},
		{"Seq-first-nonunit", Seq{Exprs: []Expr{Char{Text: "a"}, Edge{Label: "x", Expr: Char{Text: "b"}}}}, Mut},
		{"Ore-all-tree", Ore{Exprs: []Expr{Node{Expr: Char{Text: "a"}}, Node{Expr: Char{Text: "b"}}}}, Tree},
		{"Ore-mixed-tree", Ore{Exprs: []Expr{Node{Expr: Char{Text: "a"}}, Char{Text: "b"}}}, Mut},
	}
	for _, tt := range tests {
		if got := Classify(tt.e); got != tt.want {
			t.Errorf("Classify(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassifyRefName(t *testing.T) {
	tests := []struct {
		name string
		want TreeState
	}{
		{"Expr", Tree},
		{"expr", Mut},
		{"_", Mut},
		{"EXPR", Unit},
		{"1", Unit},
		{"fooBar", Unit},
	}
	for _, tt := range tests {
		if got := classifyRefName(tt.name); got != tt.want {
			t.Errorf("classifyRefName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFormTreeNodeUnderMut(t *testing.T) {
	n := Node{Expr: Char{Text: "a"}, Tag: "T"}
	got, state := FormTree(n, Mut)
	want := Edge{Expr: Node{Expr: Char{Text: "a"}, Tag: "T"}}
	if state != Mut {
		t.Fatalf("state = %v, want Mut", state)
	}
	if e, ok := got.(Edge); !ok || e.Label != want.Label {
		t.Fatalf("FormTree(Node under Mut) = %#v, want %#v", got, want)
	}
}

func TestFormTreeNodeUnderUnitDropsTag(t *testing.T) {
	n := Node{Expr: Char{Text: "a"}, Tag: "T"}
	got, state := FormTree(n, Unit)
	if state != Unit {
		t.Fatalf("state = %v, want Unit", state)
	}
	if _, ok := got.(Char); !ok {
		t.Fatalf("FormTree(Node under Unit) = %#v, want the bare child expression", got)
	}
}

func TestFormTreeIdempotent(t *testing.T) {
	exprs := []Expr{
		Node{Expr: Char{Text: "a"}, Tag: "T"},
		Edge{Label: "x", Expr: Char{Text: "a"}},
		Fold{Expr: Char{Text: "a"}, Tag: "T"},
	}
	for _, e := range exprs {
		for _, s := range []TreeState{Unit, Tree, Mut, FoldState} {
			once, s1 := FormTree(e, s)
			twice, s2 := FormTree(once, s)
			if s1 != s2 {
				t.Errorf("FormTree not idempotent in state for %#v under %v: %v then %v", e, s, s1, s2)
			}
			if !sameShape(once, twice) {
				t.Errorf("FormTree not idempotent in shape for %#v under %v", e, s)
			}
		}
	}
}

// sameShape compares two expressions structurally enough for the
// idempotence check without pulling in reflect.DeepEqual across *Ref
// pointers (which are intentionally identity-typed).
func sameShape(a, b Expr) bool {
	switch av := a.(type) {
	case Node:
		bv, ok := b.(Node)
		return ok && av.Tag == bv.Tag && sameShape(av.Expr, bv.Expr)
	case Edge:
		bv, ok := b.(Edge)
		return ok && av.Label == bv.Label && sameShape(av.Expr, bv.Expr)
	case Fold:
		bv, ok := b.(Fold)
		return ok && av.Label == bv.Label && av.Tag == bv.Tag && sameShape(av.Expr, bv.Expr)
	case Char:
		bv, ok := b.(Char)
		return ok && av.Text == bv.Text
	default:
		return true
	}
}
