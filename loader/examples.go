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

package loader

import (
	"fmt"

	"github.com/lVlEK0/pegtree/generator"
	"github.com/lVlEK0/pegtree/grammar"
	"github.com/lVlEK0/pegtree/runtime"
	"github.com/lVlEK0/pegtree/tree"
)

// ExampleMismatch reports one `example name,name,... '''doc'''` statement
// that did not check out: either the named rule failed to parse its own
// doc text in full, or (when a single example lists more than one rule
// name) a later-named rule produced a different tree than the first.
type ExampleMismatch struct {
	// Names are the rule names the example statement listed together.
	Names []string
	// Rule is the specific name this mismatch is about.
	Rule string
	Doc  string
	// Reason is a human-readable explanation (parse failure, partial
	// parse, or a tree.Diff line when comparing against the example's
	// first-named rule).
	Reason string
}

// CheckExamples parses every example statement g.Examples recorded against
// the rule(s) it names and reports any that fail to parse, fail to consume
// the doc text in full, or -- when an example names more than one rule --
// disagree with the first-named rule's parse tree.
//
// This is the programmatic equivalent of the teacher's
// generator/testing/gentests.go, which instead emits one Go test file per
// example for the separately-compiled parser this repo doesn't build;
// CheckExamples runs the identical parse-and-compare directly against a
// live *grammar.Grammar, so examples stay runnable without invoking a code
// generator.
func CheckExamples(g *grammar.Grammar) ([]ExampleMismatch, error) {
	var mismatches []ExampleMismatch
	parsers := make(map[string]*generator.Parser)

	parserFor := func(rule string) (*generator.Parser, error) {
		if p, ok := parsers[rule]; ok {
			return p, nil
		}
		p, err := generator.New(g, generator.Options{Start: rule})
		if err != nil {
			return nil, err
		}
		parsers[rule] = p
		return p, nil
	}

	for _, ex := range g.Examples {
		var first *runtime.ParseTree
		for i, name := range ex.Names {
			p, err := parserFor(name)
			if err != nil {
				mismatches = append(mismatches, ExampleMismatch{
					Names: ex.Names, Rule: name, Doc: ex.Doc,
					Reason: fmt.Sprintf("could not compile rule %q: %s", name, err),
				})
				continue
			}
			got := p.Parse(ex.Doc, "example", 0, 0)
			if got.IsErr() {
				mismatches = append(mismatches, ExampleMismatch{
					Names: ex.Names, Rule: name, Doc: ex.Doc,
					Reason: fmt.Sprintf("failed to parse at byte %d", got.Spos),
				})
				continue
			}
			if got.Epos != len(ex.Doc) {
				mismatches = append(mismatches, ExampleMismatch{
					Names: ex.Names, Rule: name, Doc: ex.Doc,
					Reason: fmt.Sprintf("parsed only %d of %d bytes", got.Epos, len(ex.Doc)),
				})
				continue
			}
			if i == 0 {
				first = got
				continue
			}
			if d := tree.Diff(got, first); len(d) > 0 {
				mismatches = append(mismatches, ExampleMismatch{
					Names: ex.Names, Rule: name, Doc: ex.Doc,
					Reason: fmt.Sprintf("disagrees with %s: %s", ex.Names[0], d[0]),
				})
			}
		}
	}
	return mismatches, nil
}
