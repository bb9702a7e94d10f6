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

package runtime

// ParserContext is the mutable state a single parse shares across every
// matcher closure. It is exclusive to one parse: a grammar may be shared
// read-only across any number of concurrent parses, each constructing its
// own ParserContext.
type ParserContext struct {
	Inputs  string
	URN     string
	Pos     int
	Epos    int
	Headpos int
	Ast     *PTree
	State   *State
	Memo    []Memo

	// Dict holds the def/in action verbs' per-parse dictionaries, keyed
	// by dictionary name, each ordered longest-match-first.
	Dict map[string][]string
}

// NewContext builds a fresh context over inputs[spos:epos]. memoSize may
// be zero to disable the memo table entirely.
func NewContext(inputs, urn string, spos, epos int, memoSize int) *ParserContext {
	px := &ParserContext{
		Inputs:  inputs,
		URN:     urn,
		Pos:     spos,
		Epos:    epos,
		Headpos: spos,
	}
	if memoSize > 0 {
		px.Memo = make([]Memo, MemoTableSize)
	}
	return px
}

// Snapshot captures the (pos, ast, state) triple a composite matcher
// restores on failure.
func (px *ParserContext) Snapshot() (pos int, ast *PTree, state *State) {
	return px.Pos, px.Ast, px.State
}

// Restore rewinds to a previously captured snapshot.
func (px *ParserContext) Restore(pos int, ast *PTree, state *State) {
	px.Pos = pos
	px.Ast = ast
	px.State = state
}

// MarkHeadpos extends Headpos to Pos if Pos is further along, matching the
// monotonicity property required of headpos.
func (px *ParserContext) MarkHeadpos() {
	if px.Pos > px.Headpos {
		px.Headpos = px.Pos
	}
}

// AtEnd reports whether Pos has reached Epos.
func (px *ParserContext) AtEnd() bool {
	return px.Pos >= px.Epos
}

// Peek returns the rune at Pos and its width, or (0, 0) if Pos is at or
// past Epos.
func (px *ParserContext) Peek() (rune, int) {
	if px.AtEnd() {
		return 0, 0
	}
	return decodeRune(px.Inputs[px.Pos:px.Epos])
}

// HasPrefix reports whether s matches the input starting at Pos.
func (px *ParserContext) HasPrefix(s string) bool {
	end := px.Pos + len(s)
	if end > px.Epos {
		return false
	}
	return px.Inputs[px.Pos:end] == s
}

// Def inserts text into the named dictionary, keeping it ordered longest
// match first so In's scan finds the longest match before a shorter one
// that happens to share a prefix.
func (px *ParserContext) Def(name, text string) {
	if px.Dict == nil {
		px.Dict = make(map[string][]string)
	}
	list := px.Dict[name]
	i := 0
	for i < len(list) && len(list[i]) >= len(text) {
		if list[i] == text {
			return
		}
		i++
	}
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = text
	px.Dict[name] = list
}

// In returns the longest previously Def'd string under name that matches
// the input at Pos, if any.
func (px *ParserContext) In(name string) (string, bool) {
	for _, s := range px.Dict[name] {
		if px.HasPrefix(s) {
			return s, true
		}
	}
	return "", false
}
