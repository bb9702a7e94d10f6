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

// Package bootstrap hand-assembles the grammar that recognizes the textual
// PEG surface syntax itself: rule definitions, ordered choice, sequencing,
// the tree-construction operators ({#Tag ...}, ^{...}, edge:e), the named
// semantic actions (@verb(...)), imports and example blocks. Nothing here
// is loaded from a grammar source file -- it is the fixed point every other
// grammar is eventually loaded through.
package bootstrap

import "github.com/lVlEK0/pegtree/grammar"

// rng builds a character class: chars is the literal member set, and each
// entry in ranges is a two-rune inclusive span ("AZ" means 'A'..'Z').
func rng(chars string, ranges ...string) grammar.Range {
	r := grammar.Range{Chars: []rune(chars)}
	for _, span := range ranges {
		rs := []rune(span)
		r.Ranges = append(r.Ranges, grammar.RangeSpan{Lo: rs[0], Hi: rs[1]})
	}
	return r
}

// New returns the grammar for the textual PEG surface syntax, with "Start"
// as its default start rule. Rule bodies below are a direct transliteration
// of pegpy's TPEG(peg) bootstrap (see original_source/pegpy/tpeg2.py), with
// one naming adaptation: the punctuation-only skip rules the Python source
// calls "_" and "__" are renamed "SKIP" and "SKIPNL", since an underscore-
// only name falls under this engine's all-lowercase-or-underscore naming
// convention (classified Mut) even though these rules build no tree at all;
// the all-uppercase names classify Unit, matching what they actually do
// (see DESIGN.md).
func New() *grammar.Grammar {
	g := grammar.New()
	ref := g.NewRef

	g.Add("Start", grammar.NewSeq(ref("SKIPNL"), ref("Source"), ref("EOF")))

	g.Add("SKIPNL", grammar.Many{Expr: grammar.NewOre(rng(" \t\r\n"), ref("COMMENT"))})
	g.Add("SKIP", grammar.Many{Expr: grammar.NewOre(rng(" \t"), ref("COMMENT"))})
	g.Add("COMMENT", grammar.NewOre(
		grammar.NewSeq(grammar.NewChar("/*"), grammar.Many{Expr: grammar.NewSeq(grammar.Not{Expr: grammar.NewChar("*/")}, grammar.Any{})}, grammar.NewChar("*/")),
		grammar.NewSeq(grammar.NewChar("//"), grammar.Many{Expr: grammar.NewSeq(grammar.Not{Expr: ref("EOL")}, grammar.Any{})}),
	))
	g.Add("EOL", grammar.NewOre(grammar.NewChar("\n"), grammar.NewChar("\r\n"), ref("EOF")))
	g.Add("EOF", grammar.Not{Expr: grammar.Any{}})
	g.Add("S", rng(" \t"))

	g.Add("Source", grammar.Node{Tag: "Source", Expr: grammar.Many{Expr: grammar.Edge{Label: "", Expr: ref("Statement")}}})

	g.Add("EOS", grammar.NewOre(
		grammar.NewSeq(ref("SKIP"), grammar.Many1{Expr: grammar.NewSeq(grammar.NewChar(";"), ref("SKIP"))}),
		grammar.Many1{Expr: grammar.NewSeq(ref("SKIP"), ref("EOL"))},
	))
	g.Add("Statement", grammar.NewOre(ref("Import"), ref("Example"), ref("Rule")))

	g.Add("Import", grammar.NewSeq(
		grammar.Node{Tag: "Import", Expr: grammar.NewSeq(
			grammar.NewChar("from"), ref("S"), ref("SKIP"),
			grammar.Edge{Label: "name", Expr: grammar.NewOre(ref("Identifier"), ref("Char"))},
			grammar.Option{Expr: grammar.NewSeq(
				ref("SKIP"), grammar.NewChar("import"), ref("S"), ref("SKIP"),
				grammar.Edge{Label: "names", Expr: ref("Names")},
			)},
		)},
		ref("EOS"),
	))

	g.Add("Example", grammar.NewSeq(
		grammar.Node{Tag: "Example", Expr: grammar.NewSeq(
			grammar.NewChar("example"), ref("S"), ref("SKIP"),
			grammar.Edge{Label: "names", Expr: ref("Names")},
			grammar.Edge{Label: "doc", Expr: ref("Doc")},
		)},
		ref("EOS"),
	))

	g.Add("Names", grammar.Node{Expr: grammar.NewSeq(
		grammar.Edge{Label: "", Expr: ref("Identifier")},
		ref("SKIP"),
		grammar.Many{Expr: grammar.NewSeq(
			grammar.NewChar(","), ref("SKIP"),
			grammar.Edge{Label: "", Expr: ref("Identifier")},
			ref("SKIP"),
		)},
	)})

	g.Add("Doc", grammar.NewOre(ref("Doc1"), ref("Doc2"), ref("Doc0")))
	g.Add("Doc0", grammar.Node{Tag: "Doc", Expr: grammar.Many{Expr: grammar.NewSeq(grammar.Not{Expr: ref("EOL")}, grammar.Any{})}})
	g.Add("Doc1", grammar.NewSeq(
		ref("DELIM1"), grammar.Many{Expr: ref("S")}, grammar.Option{Expr: ref("EOL")},
		grammar.Node{Tag: "Doc", Expr: grammar.Many{Expr: grammar.NewSeq(grammar.Not{Expr: grammar.NewSeq(ref("DELIM1"), ref("EOL"))}, grammar.Any{})}},
		ref("DELIM1"),
	))
	g.Add("DELIM1", grammar.NewChar("'''"))
	g.Add("Doc2", grammar.NewSeq(
		ref("DELIM2"), grammar.Many{Expr: ref("S")}, grammar.Option{Expr: ref("EOL")},
		grammar.Node{Tag: "Doc", Expr: grammar.Many{Expr: grammar.NewSeq(grammar.Not{Expr: grammar.NewSeq(ref("DELIM2"), ref("EOL"))}, grammar.Any{})}},
		ref("DELIM2"),
	))
	g.Add("DELIM2", grammar.NewChar("```"))

	g.Add("Rule", grammar.NewSeq(
		grammar.Node{Tag: "Rule", Expr: grammar.NewSeq(
			grammar.Edge{Label: "name", Expr: grammar.NewOre(ref("Identifier"), ref("QName"))},
			ref("SKIPNL"),
			grammar.NewOre(grammar.NewChar("="), grammar.NewChar("<-")),
			ref("SKIPNL"),
			grammar.Option{Expr: grammar.NewSeq(rng("/|"), ref("SKIPNL"))},
			grammar.Edge{Label: "e", Expr: ref("Expression")},
		)},
		ref("EOS"),
	))

	g.Add("Identifier", grammar.Node{Tag: "Name", Expr: ref("NAME")})
	g.Add("NAME", grammar.NewSeq(rng("_", "AZ", "az"), grammar.Many{Expr: rng("_.", "AZ", "az", "09")}))

	g.Add("Expression", grammar.NewSeq(ref("Choice"), grammar.Option{Expr: grammar.Fold{
		Tag: "Alt",
		Expr: grammar.Many1{Expr: grammar.NewSeq(
			ref("SKIPNL"), grammar.NewChar("|"), grammar.Not{Expr: grammar.NewChar("|")}, ref("SKIP"),
			grammar.Edge{Label: "", Expr: ref("Choice")},
		)},
	}}))
	g.Add("Choice", grammar.NewSeq(ref("Sequence"), grammar.Option{Expr: grammar.Fold{
		Tag: "Ore",
		Expr: grammar.Many1{Expr: grammar.NewSeq(
			ref("SKIPNL"), grammar.NewOre(grammar.NewChar("/"), grammar.NewChar("||")), ref("SKIP"),
			grammar.Edge{Label: "", Expr: ref("Sequence")},
		)},
	}}))
	g.Add("Sequence", grammar.NewSeq(ref("Predicate"), grammar.Option{Expr: grammar.Fold{
		Tag:  "Seq",
		Expr: grammar.Many1{Expr: grammar.NewSeq(ref("SS"), grammar.Edge{Label: "", Expr: ref("Predicate")})},
	}}))
	g.Add("SS", grammar.NewOre(
		grammar.NewSeq(ref("S"), ref("SKIP"), grammar.Not{Expr: ref("EOL")}),
		grammar.NewSeq(grammar.Many1{Expr: grammar.NewSeq(ref("SKIP"), ref("EOL"))}, ref("S"), ref("SKIP")),
	))

	g.Add("Predicate", grammar.NewOre(ref("Not"), ref("And"), ref("Suffix")))
	g.Add("Not", grammar.NewSeq(grammar.NewChar("!"), grammar.Node{Tag: "Not", Expr: grammar.Edge{Label: "e", Expr: ref("Predicate")}}))
	g.Add("And", grammar.NewSeq(grammar.NewChar("&"), grammar.Node{Tag: "And", Expr: grammar.Edge{Label: "e", Expr: ref("Predicate")}}))

	g.Add("Suffix", grammar.NewSeq(ref("Term"), grammar.Option{Expr: grammar.NewOre(
		grammar.Fold{Label: "e", Tag: "Many", Expr: grammar.NewChar("*")},
		grammar.Fold{Label: "e", Tag: "Many1", Expr: grammar.NewChar("+")},
		grammar.Fold{Label: "e", Tag: "Option", Expr: grammar.NewChar("?")},
	)}))

	g.Add("Term", grammar.NewOre(
		ref("Group"), ref("Char"), ref("Class"), ref("Any"),
		ref("Node"), ref("Fold"), ref("EdgeFold"), ref("Edge"),
		ref("Func"), ref("Ref"),
	))
	g.Add("Empty", grammar.Node{Tag: "Empty", Expr: grammar.Empty{}})
	g.Add("Group", grammar.NewSeq(grammar.NewChar("("), ref("SKIPNL"), grammar.NewOre(ref("Expression"), ref("Empty")), ref("SKIPNL"), grammar.NewChar(")")))
	g.Add("Any", grammar.Node{Tag: "Any", Expr: grammar.NewChar(".")})
	g.Add("Char", grammar.NewSeq(
		grammar.NewChar("'"),
		grammar.Node{Tag: "Char", Expr: grammar.Many{Expr: grammar.NewOre(
			grammar.NewSeq(grammar.NewChar("\\"), grammar.Any{}),
			grammar.NewSeq(grammar.Not{Expr: grammar.NewChar("'")}, grammar.Any{}),
		)}},
		grammar.NewChar("'"),
	))
	g.Add("Class", grammar.NewSeq(
		grammar.NewChar("["),
		grammar.Node{Tag: "Class", Expr: grammar.Many{Expr: grammar.NewOre(
			grammar.NewSeq(grammar.NewChar("\\"), grammar.Any{}),
			grammar.NewSeq(grammar.Not{Expr: grammar.NewChar("]")}, grammar.Any{}),
		)}},
		grammar.NewChar("]"),
	))

	g.Add("Node", grammar.Node{Tag: "Node", Expr: grammar.NewSeq(
		grammar.NewChar("{"), ref("SKIPNL"),
		grammar.Option{Expr: grammar.NewSeq(grammar.Edge{Label: "tag", Expr: ref("Tag")}, ref("SKIPNL"))},
		grammar.Edge{Label: "e", Expr: grammar.NewOre(grammar.NewSeq(ref("Expression"), ref("SKIPNL")), ref("Empty"))},
		grammar.Option{Expr: grammar.NewSeq(grammar.Edge{Label: "tag", Expr: ref("Tag")}, ref("SKIPNL"))},
		ref("SKIPNL"), grammar.NewChar("}"),
	)})
	g.Add("Tag", grammar.NewSeq(grammar.NewChar("#"), grammar.Node{Tag: "Tag", Expr: grammar.Many1{Expr: grammar.NewSeq(grammar.Not{Expr: rng(" \t\r\n}")}, grammar.Any{})}}))

	g.Add("Fold", grammar.Node{Tag: "Fold", Expr: grammar.NewSeq(
		grammar.NewChar("^"), ref("SKIP"), grammar.NewChar("{"), ref("SKIPNL"),
		grammar.Option{Expr: grammar.NewSeq(grammar.Edge{Label: "tag", Expr: ref("Tag")}, ref("SKIPNL"))},
		grammar.Edge{Label: "e", Expr: grammar.NewOre(grammar.NewSeq(ref("Expression"), ref("SKIPNL")), ref("Empty"))},
		grammar.Option{Expr: grammar.NewSeq(grammar.Edge{Label: "tag", Expr: ref("Tag")}, ref("SKIPNL"))},
		ref("SKIPNL"), grammar.NewChar("}"),
	)})

	g.Add("Edge", grammar.Node{Tag: "Edge", Expr: grammar.NewSeq(
		grammar.Edge{Label: "edge", Expr: ref("Identifier")},
		grammar.NewChar(":"), ref("SKIP"),
		grammar.Not{Expr: grammar.NewChar("^")},
		grammar.Edge{Label: "e", Expr: ref("Term")},
	)})

	g.Add("EdgeFold", grammar.Node{Tag: "Fold", Expr: grammar.NewSeq(
		grammar.Edge{Label: "edge", Expr: ref("Identifier")},
		grammar.NewChar(":"), ref("SKIP"), grammar.NewChar("^"), ref("SKIP"),
		grammar.NewChar("{"), ref("SKIPNL"),
		grammar.Option{Expr: grammar.NewSeq(grammar.Edge{Label: "tag", Expr: ref("Tag")}, ref("SKIPNL"))},
		grammar.Edge{Label: "e", Expr: grammar.NewOre(grammar.NewSeq(ref("Expression"), ref("SKIPNL")), ref("Empty"))},
		grammar.Option{Expr: grammar.NewSeq(grammar.Edge{Label: "tag", Expr: ref("Tag")}, ref("SKIPNL"))},
		ref("SKIPNL"), grammar.NewChar("}"),
	)})

	g.Add("Func", grammar.Node{Tag: "Func", Expr: grammar.NewSeq(
		grammar.NewChar("@"),
		grammar.Edge{Label: "", Expr: ref("Identifier")},
		grammar.NewChar("("), ref("SKIPNL"),
		grammar.NewOre(grammar.Edge{Label: "", Expr: ref("Expression")}, grammar.Edge{Label: "", Expr: ref("Empty")}),
		grammar.Many{Expr: grammar.NewSeq(ref("SKIP"), grammar.NewChar(","), ref("SKIPNL"), grammar.Edge{Label: "", Expr: ref("Expression")})},
		ref("SKIPNL"), grammar.NewChar(")"),
	)})

	g.Add("Ref", grammar.NewOre(ref("Identifier"), ref("QName")))
	g.Add("QName", grammar.Node{Tag: "Name", Expr: grammar.NewSeq(
		grammar.NewChar("\""),
		grammar.Many{Expr: grammar.NewOre(
			grammar.NewSeq(grammar.NewChar("\\"), grammar.Any{}),
			grammar.NewSeq(grammar.Not{Expr: grammar.NewChar("\"")}, grammar.Any{}),
		)},
		grammar.NewChar("\""),
	)})

	return g
}
