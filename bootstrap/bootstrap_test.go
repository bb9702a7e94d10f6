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

package bootstrap

import (
	"testing"

	"github.com/lVlEK0/pegtree/generator"
)

func parseSource(t *testing.T) *generator.Parser {
	t.Helper()
	p, err := generator.New(New(), generator.Options{Start: "Start"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestParsesSingleCharRule(t *testing.T) {
	p := parseSource(t)
	pt := p.Parse("x = 'a'\n", "test", 0, 0)
	if pt.IsErr() {
		t.Fatalf("parse failed at %d", pt.Spos)
	}
	if pt.Tag != "Source" || len(pt.Children) != 1 {
		t.Fatalf("got %s, want one-statement Source", pt)
	}
	rule := pt.Children[0]
	if rule.Tag != "Rule" {
		t.Fatalf("got %s, want a Rule", rule)
	}
	name := rule.Edge("name")
	if name == nil || name.Text() != "x" {
		t.Fatalf("rule name = %v, want \"x\"", name)
	}
	e := rule.Edge("e")
	if e == nil || e.Tag != "Char" || e.Text() != "a" {
		t.Fatalf("rule body = %v, want [#Char 'a']", e)
	}
}

func TestParsesChoiceAndSequence(t *testing.T) {
	p := parseSource(t)
	pt := p.Parse("Sum = 'ab' / 'a' 'c'\n", "test", 0, 0)
	if pt.IsErr() {
		t.Fatalf("parse failed at %d", pt.Spos)
	}
	rule := pt.Children[0]
	e := rule.Edge("e")
	if e.Tag != "Ore" {
		t.Fatalf("got %s, want an Ore", e)
	}
	if len(e.Children) != 2 {
		t.Fatalf("got %d choice branches, want 2", len(e.Children))
	}
	second := e.Children[1]
	if second.Tag != "Seq" || len(second.Children) != 2 {
		t.Fatalf("got %s, want a two-element Seq", second)
	}
}

func TestParsesNodeAndEdgeAndRepetition(t *testing.T) {
	p := parseSource(t)
	pt := p.Parse("Expr = { left:Num '+' right:Num #Add }\nNum=[0-9]+\n", "test", 0, 0)
	if pt.IsErr() {
		t.Fatalf("parse failed at %d", pt.Spos)
	}
	if len(pt.Children) != 2 {
		t.Fatalf("got %d statements, want 2", len(pt.Children))
	}
	exprRule := pt.Children[0]
	node := exprRule.Edge("e")
	if node.Tag != "Node" {
		t.Fatalf("got %s, want a Node", node)
	}
	if node.Edge("tag") == nil || node.Edge("tag").Text() != "Add" {
		t.Fatalf("node tag = %v, want Add", node.Edge("tag"))
	}
	seq := node.Edge("e")
	if seq.Tag != "Seq" || len(seq.Children) != 3 {
		t.Fatalf("got %s, want a three-element Seq", seq)
	}
	left := seq.Children[0]
	if left.Tag != "Edge" || left.Edge("edge") == nil || left.Edge("edge").Text() != "left" {
		t.Fatalf("got %s, want an Edge labeled left", left)
	}

	numRule := pt.Children[1]
	suffix := numRule.Edge("e")
	if suffix.Tag != "Many1" {
		t.Fatalf("got %s, want a Many1", suffix)
	}
	if suffix.Edge("e") == nil || suffix.Edge("e").Tag != "Class" {
		t.Fatalf("got %v, want the repeated Class", suffix.Edge("e"))
	}
}

func TestParsesImportAndExample(t *testing.T) {
	p := parseSource(t)
	pt := p.Parse("from common import Num, Name\nexample Num '''42'''\n", "test", 0, 0)
	if pt.IsErr() {
		t.Fatalf("parse failed at %d", pt.Spos)
	}
	if len(pt.Children) != 2 {
		t.Fatalf("got %d statements, want 2", len(pt.Children))
	}
	imp := pt.Children[0]
	if imp.Tag != "Import" || imp.Edge("name") == nil || imp.Edge("name").Text() != "common" {
		t.Fatalf("got %s, want an Import of common", imp)
	}
	names := imp.Edge("names")
	if names == nil || len(names.Children) != 2 {
		t.Fatalf("import names = %v, want 2 names", names)
	}
	ex := pt.Children[1]
	if ex.Tag != "Example" || ex.Edge("doc") == nil || ex.Edge("doc").Text() != "42" {
		t.Fatalf("got %s, want an Example with doc \"42\"", ex)
	}
}
