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

// Package runtime holds the mutable state shared by all matcher closures
// produced by the generator package for a single parse: the cursor, the
// in-flight PTree, the symbol-context state stack and the memo table.
package runtime

// State is one immutable frame of the context-sensitive state stack used
// by the symbol/scope/exists/match/def/in/on action verbs.
type State struct {
	Sid  string
	Val  interface{}
	Prev *State
}

// PushState returns a new stack with (sid, val) on top of prev.
func PushState(prev *State, sid string, val interface{}) *State {
	return &State{Sid: sid, Val: val, Prev: prev}
}

// FindState returns the most recently pushed frame for sid, if any.
func FindState(top *State, sid string) (*State, bool) {
	for s := top; s != nil; s = s.Prev {
		if s.Sid == sid {
			return s, true
		}
	}
	return nil, false
}
