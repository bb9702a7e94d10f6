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

// TreeState classifies an expression's effect on the parse-tree builder.
type TreeState int

const (
	// Unit produces no tree.
	Unit TreeState = iota
	// Tree produces a fresh tree node (Node is the prototype).
	Tree
	// Mut mutates an enclosing tree by appending a child edge (Edge is
	// the prototype).
	Mut
	// FoldState consumes the enclosing tree, wrapping it as a child of a
	// new node (Fold is the prototype).
	FoldState
)

func (s TreeState) String() string {
	switch s {
	case Unit:
		return "Unit"
	case Tree:
		return "Tree"
	case Mut:
		return "Mut"
	case FoldState:
		return "Fold"
	default:
		return "?"
	}
}

// Classify computes the static tree-state of e. Ref is classified by name
// convention rather than by a second fixpoint: an uppercase-led name
// containing a lowercase letter is Tree, an all-lowercase (and underscore)
// name is Mut, anything else is Unit. This turns rule-naming into a
// contract the grammar author makes explicit instead of something inferred.
func Classify(e Expr) TreeState {
	switch v := e.(type) {
	case Empty, Any, Char, Range, Not, Abs:
		return Unit
	case Node:
		return Tree
	case Edge:
		return Mut
	case Fold:
		return FoldState
	case And:
		return collapseTree(Classify(v.Expr))
	case Many:
		return collapseTree(Classify(v.Expr))
	case Many1:
		return collapseTree(Classify(v.Expr))
	case Option:
		return collapseTree(Classify(v.Expr))
	case Seq:
		for _, c := range v.Exprs {
			if s := Classify(c); s != Unit {
				return s
			}
		}
		return Unit
	case Ore:
		return combineStates(classifyAll(v.Exprs))
	case Alt:
		return combineStates(classifyAll(v.Exprs))
	case Action:
		return Classify(v.Expr)
	case *Ref:
		return classifyRefName(v.Name)
	default:
		return Unit
	}
}

func classifyAll(exprs []Expr) []TreeState {
	states := make([]TreeState, len(exprs))
	for i, c := range exprs {
		states[i] = Classify(c)
	}
	return states
}

// collapseTree implements "repetition and lookahead collapse Tree to Mut":
// a Many{...} or And{...} around a tree-producing child mutates an outer
// tree rather than producing a standalone one.
func collapseTree(s TreeState) TreeState {
	if s == Tree {
		return Mut
	}
	return s
}

// combineStates implements the Ore/Alt combination rule: all-Tree branches
// combine to Tree; a Tree branch mixed with anything else combines to Mut;
// otherwise Fold beats Mut beats Unit.
func combineStates(states []TreeState) TreeState {
	if len(states) == 0 {
		return Unit
	}
	allTree := true
	var anyTree, anyFold, anyMut bool
	for _, s := range states {
		switch s {
		case Tree:
			anyTree = true
		case Mut:
			anyMut = true
			allTree = false
		case FoldState:
			anyFold = true
			allTree = false
		case Unit:
			allTree = false
		}
	}
	switch {
	case allTree && anyTree:
		return Tree
	case anyTree:
		return Mut
	case anyFold:
		return FoldState
	case anyMut:
		return Mut
	default:
		return Unit
	}
}

// ClassifyName applies the same name-convention rule Classify uses for Ref
// nodes directly to a rule name; the generator uses it to decide the state
// a rule's own body should be normalized under, matching what any Ref to
// that rule would assume.
func ClassifyName(name string) TreeState {
	return classifyRefName(name)
}

func classifyRefName(name string) TreeState {
	if name == "" {
		return Unit
	}
	leadUpper := name[0] >= 'A' && name[0] <= 'Z'
	var hasLower bool
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			hasLower = true
			break
		}
	}
	if leadUpper && hasLower {
		return Tree
	}
	lowerOrUnderscore := len(name) > 0
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || r == '_') {
			lowerOrUnderscore = false
			break
		}
	}
	if lowerOrUnderscore {
		return Mut
	}
	return Unit
}
