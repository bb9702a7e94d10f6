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

// MemoTableSize is the fixed slot count of the optional memoization table,
// kept at the original implementation's 1789 (a prime, chosen there to
// spread collisions) since the design only requires a fixed size.
const MemoTableSize = 1789

// Memo is one memoization slot: a full Key is kept alongside the modulo
// index so that a collision is detected rather than silently treated as a
// hit, even though on an actual collision the new entry still overwrites
// the old one (no chaining).
type Memo struct {
	Key    int
	Pos    int
	Ast    *PTree
	Result bool
	Valid  bool
}

// MemoKey computes the lookup key for a rule at a given position. msize is
// the number of distinct memoized rules in the grammar.
func MemoKey(msize, pos, ruleIndex int) int {
	return msize*pos + ruleIndex
}

// MemoLookup returns the cached entry for key, if the slot is valid and
// not a collision with a different key.
func MemoLookup(table []Memo, key int) (Memo, bool) {
	idx := ((key % MemoTableSize) + MemoTableSize) % MemoTableSize
	m := table[idx]
	if m.Valid && m.Key == key {
		return m, true
	}
	return Memo{}, false
}

// MemoStore installs an entry, overwriting whatever collided at the slot.
func MemoStore(table []Memo, key, pos int, ast *PTree, result bool) {
	idx := ((key % MemoTableSize) + MemoTableSize) % MemoTableSize
	table[idx] = Memo{Key: key, Pos: pos, Ast: ast, Result: result, Valid: true}
}
