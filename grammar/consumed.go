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

// IsAlwaysConsumed reports whether e, on a successful match, is guaranteed
// to advance the cursor by at least one code unit. The analysis is strict:
// it never returns true for an expression that can match the empty string.
func IsAlwaysConsumed(e Expr) bool {
	return isAlwaysConsumed(e, make(map[*Ref]bool))
}

func isAlwaysConsumed(e Expr, seen map[*Ref]bool) bool {
	switch v := e.(type) {
	case Empty, Not, And, Option, Many:
		return false
	case Any:
		return true
	case Char:
		return v.Text != ""
	case Range:
		return true
	case Many1:
		return isAlwaysConsumed(v.Expr, seen)
	case Edge:
		return isAlwaysConsumed(v.Expr, seen)
	case Node:
		return isAlwaysConsumed(v.Expr, seen)
	case Fold:
		return isAlwaysConsumed(v.Expr, seen)
	case Abs:
		return isAlwaysConsumed(v.Expr, seen)
	case Action:
		return isAlwaysConsumed(v.Expr, seen)
	case Seq:
		for _, c := range v.Exprs {
			if isAlwaysConsumed(c, seen) {
				return true
			}
		}
		return false
	case Ore:
		return allConsumed(v.Exprs, seen)
	case Alt:
		return allConsumed(v.Exprs, seen)
	case *Ref:
		// Memoized fixpoint: assume consumption to break the recursive
		// query, then refine by walking into the referenced rule and store
		// the refined answer. Only a Ref met again while its own rule is
		// still being walked sees the optimistic seed; such a rule reaches
		// itself without consuming, which RejectLeftRecursion reports.
		if c, ok := seen[v]; ok {
			return c
		}
		seen[v] = true
		target, ok := v.Deref()
		if !ok {
			return true
		}
		c := isAlwaysConsumed(target, seen)
		seen[v] = c
		return c
	default:
		return false
	}
}

func allConsumed(exprs []Expr, seen map[*Ref]bool) bool {
	if len(exprs) == 0 {
		return false
	}
	for _, c := range exprs {
		if !isAlwaysConsumed(c, seen) {
			return false
		}
	}
	return true
}

// RejectLeftRecursion walks rule's body looking for a Ref to ruleName that
// is reachable without the prefix having consumed any input. If one is
// found, it reports true: the caller should rewrite the rule to a failing
// expression and emit a diagnostic, per the loader's left-recursion policy.
func RejectLeftRecursion(ruleName string, body Expr) bool {
	return reachableUnconsumed(ruleName, body, make(map[*Ref]bool))
}

func reachableUnconsumed(name string, e Expr, visiting map[*Ref]bool) bool {
	switch v := e.(type) {
	case *Ref:
		if v.Name == name {
			return true
		}
		if visiting[v] {
			return false
		}
		visiting[v] = true
		defer delete(visiting, v)
		target, ok := v.Deref()
		if !ok {
			return false
		}
		return reachableUnconsumed(name, target, visiting)
	case Seq:
		for _, c := range v.Exprs {
			if reachableUnconsumed(name, c, visiting) {
				return true
			}
			if IsAlwaysConsumed(c) {
				return false
			}
		}
		return false
	case Ore:
		return anyReachable(name, v.Exprs, visiting)
	case Alt:
		return anyReachable(name, v.Exprs, visiting)
	case And:
		return reachableUnconsumed(name, v.Expr, visiting)
	case Not:
		return reachableUnconsumed(name, v.Expr, visiting)
	case Many:
		return reachableUnconsumed(name, v.Expr, visiting)
	case Many1:
		return reachableUnconsumed(name, v.Expr, visiting)
	case Option:
		return reachableUnconsumed(name, v.Expr, visiting)
	case Node:
		return reachableUnconsumed(name, v.Expr, visiting)
	case Edge:
		return reachableUnconsumed(name, v.Expr, visiting)
	case Fold:
		return reachableUnconsumed(name, v.Expr, visiting)
	case Abs:
		return reachableUnconsumed(name, v.Expr, visiting)
	case Action:
		return reachableUnconsumed(name, v.Expr, visiting)
	default:
		return false
	}
}

func anyReachable(name string, exprs []Expr, visiting map[*Ref]bool) bool {
	for _, c := range exprs {
		if reachableUnconsumed(name, c, visiting) {
			return true
		}
	}
	return false
}
