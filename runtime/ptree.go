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

// PTree is the reversible linked-list tree under construction during a
// parse. Prev chains siblings in reverse construction order so that
// appending a child is a single allocation and backtracking is a pointer
// reset. An Edge is distinguished from a positional child by the sign of
// Epos: a negative Epos marks an edge, and its magnitude is the true end
// position plus one (see End). This sign trick is a source-language-level space optimization,
// not a semantic contract; IsEdge/End hide it from callers.
type PTree struct {
	Prev  *PTree
	Tag   string
	Spos  int
	Epos  int
	Child *PTree
}

// IsEdge reports whether t was built by an Edge construct rather than Node
// or Fold.
func (t *PTree) IsEdge() bool {
	return t != nil && t.Epos < 0
}

// End returns the true end position regardless of the edge sign bit.
// Edge nodes store -(epos+1) rather than a bare -epos, since epos==0 (an
// edge matched at the very start of input) would otherwise collide with
// the positive encoding under Go's lack of a negative zero int.
func (t *PTree) End() int {
	if t == nil {
		return 0
	}
	if t.Epos < 0 {
		return -t.Epos - 1
	}
	return t.Epos
}

// PushNode appends a plain tree node on top of prev.
func PushNode(prev *PTree, tag string, spos, epos int, child *PTree) *PTree {
	return &PTree{Prev: prev, Tag: tag, Spos: spos, Epos: epos, Child: child}
}

// PushEdge appends an edge-marked node (negative Epos) on top of prev.
func PushEdge(prev *PTree, label string, spos, epos int, child *PTree) *PTree {
	return &PTree{Prev: prev, Tag: label, Spos: spos, Epos: -epos - 1, Child: child}
}

// SplitAst splits the current ast into (rest, top): rest is everything
// before the most recently appended node, and top is that node detached
// from its predecessor (a fresh value, since ast nodes are shared with
// backtrack snapshots and must not be mutated in place). Used by Fold to
// re-parent the tree built so far as the child of a new node.
func SplitAst(ast *PTree) (rest, top *PTree) {
	if ast == nil {
		return nil, nil
	}
	return ast.Prev, &PTree{Tag: ast.Tag, Spos: ast.Spos, Epos: ast.Epos, Child: ast.Child}
}

// Reparent returns a copy of node re-chained onto prev, preserving its own
// tag, span, edge marker and children. An unlabeled Edge compiles to this
// rather than to PushEdge: its whole point is to splice an already-complete
// value (typically a bare Ref to a Tree-producing rule) directly into the
// enclosing chain, not to introduce a fresh marker node of its own.
func Reparent(prev, node *PTree) *PTree {
	if node == nil {
		return prev
	}
	return &PTree{Prev: prev, Tag: node.Tag, Spos: node.Spos, Epos: node.Epos, Child: node.Child}
}

// AsEdge returns a copy of t with the edge sign bit set, keeping t's own
// tag as the edge label.
func AsEdge(t *PTree) *PTree {
	if t == nil {
		return nil
	}
	if t.IsEdge() {
		return t
	}
	return PushEdge(t.Prev, t.Tag, t.Spos, t.End(), t.Child)
}

// ToParseTree materializes the reversible PTree rooted at ast into an
// ordered, persistent ParseTree. It walks each node's Child chain once in
// reverse and re-reverses it into source order, so the total reversal cost
// across the whole tree is O(n) even though each node's own reversal looks
// like an O(k) pass over its immediate children.
func ToParseTree(ast *PTree, urn, inputs string) *ParseTree {
	if ast == nil {
		return &ParseTree{URN: urn, Inputs: inputs}
	}
	pt := &ParseTree{
		Tag:    ast.Tag,
		Spos:   ast.Spos,
		Epos:   ast.End(),
		URN:    urn,
		Inputs: inputs,
	}
	var reversed []*PTree
	for c := ast.Child; c != nil; c = c.Prev {
		reversed = append(reversed, c)
	}
	for i := len(reversed) - 1; i >= 0; i-- {
		c := reversed[i]
		// An edge holding a single sub-tree installs that sub-tree itself
		// under the label, not a wrapper node tagged with the label.
		node := c
		if c.IsEdge() && c.Child != nil && c.Child.Prev == nil {
			node = c.Child
		}
		child := ToParseTree(node, urn, inputs)
		if c.IsEdge() {
			if pt.Edges == nil {
				pt.Edges = make(map[string]*ParseTree)
			}
			pt.Edges[c.Tag] = child
		} else {
			pt.Children = append(pt.Children, child)
		}
	}
	return pt
}
