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
	"strings"

	"github.com/lVlEK0/pegtree/grammar"
	"github.com/lVlEK0/pegtree/runtime"
)

func paramOr(params []string, i int, def string) string {
	if i < len(params) {
		return params[i]
	}
	return def
}

// emitAction dispatches the closed set of named semantic verbs. NT/import/
// lazy are thin wrappers that only exist to preserve source position for
// diagnostics during loading; they lower to their inner expression here.
func (p *Parser) emitAction(v grammar.Action) Matcher {
	switch v.Verb {
	case grammar.VerbNT, grammar.VerbImport, grammar.VerbLazy:
		return p.emit(v.Expr)

	case grammar.VerbSkip:
		return func(px *runtime.ParserContext) bool {
			if px.Headpos > px.Epos {
				return false
			}
			px.Pos = px.Headpos
			return true
		}

	case grammar.VerbSymbol:
		sid := paramOr(v.Params, 0, "")
		m := p.emit(v.Expr)
		return func(px *runtime.ParserContext) bool {
			spos := px.Pos
			if !m(px) {
				return false
			}
			px.State = runtime.PushState(px.State, sid, px.Inputs[spos:px.Pos])
			return true
		}

	case grammar.VerbScope:
		m := p.emit(v.Expr)
		return func(px *runtime.ParserContext) bool {
			saved := px.State
			ok := m(px)
			px.State = saved
			return ok
		}

	case grammar.VerbExists:
		sid := paramOr(v.Params, 0, "")
		return func(px *runtime.ParserContext) bool {
			_, ok := runtime.FindState(px.State, sid)
			return ok
		}

	case grammar.VerbIf:
		sid := paramOr(v.Params, 0, "")
		return func(px *runtime.ParserContext) bool {
			s, ok := runtime.FindState(px.State, sid)
			if !ok {
				return false
			}
			if b, isBool := s.Val.(bool); isBool {
				return b
			}
			return true
		}

	case grammar.VerbMatch:
		sid := paramOr(v.Params, 0, "")
		return func(px *runtime.ParserContext) bool {
			s, ok := runtime.FindState(px.State, sid)
			if !ok {
				return false
			}
			text, _ := s.Val.(string)
			if !px.HasPrefix(text) {
				px.MarkHeadpos()
				return false
			}
			px.Pos += len(text)
			px.MarkHeadpos()
			return true
		}

	case grammar.VerbDef:
		name := paramOr(v.Params, 0, "")
		m := p.emit(v.Expr)
		return func(px *runtime.ParserContext) bool {
			spos := px.Pos
			if !m(px) {
				return false
			}
			px.Def(name, px.Inputs[spos:px.Pos])
			return true
		}

	case grammar.VerbIn:
		name := paramOr(v.Params, 0, "")
		return func(px *runtime.ParserContext) bool {
			s, ok := px.In(name)
			if !ok {
				px.MarkHeadpos()
				return false
			}
			px.Pos += len(s)
			px.MarkHeadpos()
			return true
		}

	case grammar.VerbOn:
		// Params[0] is the state id, optionally prefixed with "!" for the
		// on(!NAME, e) form. Both forms push a boolean: on(NAME, e) pushes
		// true, on(!NAME, e) pushes false, so a subsequent if(NAME) can
		// tell the two apart -- the asymmetry the source grammar's own
		// sketch left ambiguous (see DESIGN.md).
		raw := paramOr(v.Params, 0, "")
		negated := strings.HasPrefix(raw, "!")
		sid := strings.TrimPrefix(raw, "!")
		m := p.emit(v.Expr)
		return func(px *runtime.ParserContext) bool {
			saved := px.State
			px.State = runtime.PushState(px.State, sid, !negated)
			ok := m(px)
			px.State = saved
			return ok
		}

	default:
		return p.emit(v.Expr)
	}
}
