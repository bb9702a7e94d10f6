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
	"testing"

	"github.com/lVlEK0/pegtree/bootstrap"
	"github.com/lVlEK0/pegtree/generator"
	"github.com/lVlEK0/pegtree/grammar"
)

func loadForExamples(t *testing.T, source string) *grammar.Grammar {
	t.Helper()
	p, err := generator.New(bootstrap.New(), generator.Options{Start: "Start"})
	if err != nil {
		t.Fatalf("generator.New: %v", err)
	}
	pt := p.Parse(source, "test", 0, 0)
	if pt.IsErr() {
		t.Fatalf("parse failed at byte %d", pt.Spos)
	}
	l := New(nil, nil)
	g, err := l.Load(pt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return g
}

func TestCheckExamplesAllPass(t *testing.T) {
	g := loadForExamples(t, "Digits = [0-9]+\nexample Digits 123\n")
	mismatches, err := CheckExamples(g)
	if err != nil {
		t.Fatalf("CheckExamples: %v", err)
	}
	if len(mismatches) != 0 {
		t.Fatalf("got %d mismatches, want 0: %+v", len(mismatches), mismatches)
	}
}

func TestCheckExamplesReportsParseFailure(t *testing.T) {
	g := loadForExamples(t, "Digits = [0-9]+\nexample Digits abc\n")
	mismatches, err := CheckExamples(g)
	if err != nil {
		t.Fatalf("CheckExamples: %v", err)
	}
	if len(mismatches) != 1 {
		t.Fatalf("got %d mismatches, want 1: %+v", len(mismatches), mismatches)
	}
	if mismatches[0].Rule != "Digits" {
		t.Fatalf("got rule %q, want Digits", mismatches[0].Rule)
	}
}

func TestCheckExamplesReportsPartialParse(t *testing.T) {
	g := loadForExamples(t, "Digits = [0-9]+\nexample Digits 123abc\n")
	mismatches, err := CheckExamples(g)
	if err != nil {
		t.Fatalf("CheckExamples: %v", err)
	}
	if len(mismatches) != 1 {
		t.Fatalf("got %d mismatches, want 1: %+v", len(mismatches), mismatches)
	}
}

// TestCheckExamplesDetectsDisagreementAcrossNames relies on a name-only
// tree-state distinction: neither A nor B's body triggers a Node (an
// all-uppercase name classifies Unit, per Classify's naming convention), so
// each rule's resulting tree is tagged only with its own rule name. Listing
// both against the same doc text in one example exercises the
// disagreement path even though their grammars are otherwise identical.
func TestCheckExamplesDetectsDisagreementAcrossNames(t *testing.T) {
	g := loadForExamples(t, "A = 'x'\nB = 'x'\nexample A,B x\n")
	mismatches, err := CheckExamples(g)
	if err != nil {
		t.Fatalf("CheckExamples: %v", err)
	}
	if len(mismatches) != 1 {
		t.Fatalf("got %d mismatches, want 1 (A and B tag their tree differently): %+v", len(mismatches), mismatches)
	}
	if mismatches[0].Rule != "B" {
		t.Fatalf("got rule %q, want B", mismatches[0].Rule)
	}
}
