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

// FormTree rewrites e into a legal equivalent for the tree state its
// enclosing context expects, returning the rewritten expression and the
// state it now produces. This is what lets tree operators compose without
// the grammar author annotating every occurrence: a Node written where
// only an Edge is legal is automatically wrapped, and so on.
//
// FormTree is idempotent: applying it a second time with the same incoming
// state to its own output is a structural no-op, because every rewrite
// either already matches its target shape or recurses into children under
// Unit, which has no further rewrite to apply.
func FormTree(e Expr, state TreeState) (Expr, TreeState) {
	switch v := e.(type) {
	case Empty, Any, Char, Range:
		return e, Unit
	case Not:
		inner, _ := FormTree(v.Expr, Unit)
		return Not{Expr: inner}, Unit
	case Abs:
		inner, _ := FormTree(v.Expr, Unit)
		return Abs{Expr: inner}, Unit
	case And:
		inner, s := FormTree(v.Expr, collapseTree(state))
		return And{Expr: inner}, collapseTree(s)
	case Many:
		inner, s := FormTree(v.Expr, collapseTree(state))
		return Many{Expr: inner}, collapseTree(s)
	case Many1:
		inner, s := FormTree(v.Expr, collapseTree(state))
		return Many1{Expr: inner}, collapseTree(s)
	case Option:
		inner, s := FormTree(v.Expr, collapseTree(state))
		return Option{Expr: inner}, collapseTree(s)
	case Action:
		inner, s := FormTree(v.Expr, state)
		return Action{Expr: inner, Verb: v.Verb, Params: v.Params}, s
	case Node:
		return formNode(v, state)
	case Edge:
		return formEdge(v, state)
	case Fold:
		return formFold(v, state)
	case *Ref:
		return formRef(v, state)
	case Seq:
		return formSeq(v, state)
	case Ore:
		exprs, out := formChoice(v.Exprs, state)
		return Ore{Exprs: exprs}, out
	case Alt:
		exprs, out := formChoice(v.Exprs, state)
		return Alt{Exprs: exprs}, out
	default:
		return e, Unit
	}
}

// formNode's inner recursion runs under Mut rather than Unit in every case
// but the Unit target itself: a Node always gives its body a fresh tree to
// build into (the generator starts it from a nil ast), the same role Edge
// normally plays against an enclosing tree, so the body's own Edge/Node
// constructs must still be formed, not collapsed away.
func formNode(v Node, state TreeState) (Expr, TreeState) {
	switch state {
	case Unit:
		inner, _ := FormTree(v.Expr, Unit)
		return inner, Unit
	case FoldState:
		inner, _ := FormTree(v.Expr, Mut)
		return Fold{Expr: inner, Tag: v.Tag}, FoldState
	case Mut:
		inner, _ := FormTree(v.Expr, Mut)
		return Edge{Expr: Node{Expr: inner, Tag: v.Tag}}, Mut
	case Tree:
		inner, _ := FormTree(v.Expr, Mut)
		return Node{Expr: inner, Tag: v.Tag}, FoldState
	default:
		return v, Unit
	}
}

func formEdge(v Edge, state TreeState) (Expr, TreeState) {
	switch state {
	case Unit:
		return FormTree(v.Expr, Unit)
	case FoldState:
		inner, _ := FormTree(v.Expr, Tree)
		return Fold{Label: v.Label, Expr: inner}, FoldState
	case Tree:
		inner, s := FormTree(v.Expr, Tree)
		if s != FoldState {
			inner = Node{Expr: inner}
		}
		return Node{Expr: Edge{Label: v.Label, Expr: inner}}, FoldState
	case Mut:
		inner, _ := FormTree(v.Expr, Tree)
		return Edge{Label: v.Label, Expr: inner}, Mut
	default:
		return v, Unit
	}
}

// formFold keeps a Fold a Fold under every non-Unit context: unlike Node,
// its whole purpose is to splice the tree already built (the split-off
// "top") into a new node, so rewriting it away into a plain Node/Edge pair
// here (as a more literal reading of separate per-state table rows would
// suggest) would silently drop that splice on every context but one -
// exactly the left-recursive list-building idiom this construct exists for.
// Its body is formed under Mut for the same reason a Node's body is.
func formFold(v Fold, state TreeState) (Expr, TreeState) {
	if state == Unit {
		return FormTree(v.Expr, Unit)
	}
	inner, _ := FormTree(v.Expr, Mut)
	return Fold{Label: v.Label, Expr: inner, Tag: v.Tag}, FoldState
}

// formRef resolves a Ref against the state its declared name implies,
// wrapping it when the declared state does not match what the context
// expects. The three combinations named explicitly (Tree-ref in Mut,
// Mut-ref in Unit, Tree-ref in Fold) are given verbatim; the remaining
// combinations generalize the same idea: a ref that produces more than the
// context wants is discarded via Abs, one that produces exactly what a
// Tree context wants completes it the same way Node does (outgoing Fold).
func formRef(v *Ref, target TreeState) (Expr, TreeState) {
	declared := classifyRefName(v.Name)
	switch {
	case declared == Unit:
		return v, Unit
	case target == Unit:
		return Abs{Expr: v}, Unit
	case declared == Tree && target == Mut:
		return Edge{Expr: v}, Mut
	case declared == Tree && target == FoldState:
		return Fold{Expr: Edge{Expr: v}}, FoldState
	case declared == Tree && target == Tree:
		return v, FoldState
	default:
		return v, declared
	}
}

// formSeq threads state to every child the pre-rewrite Classify pass marks
// non-Unit, not only the first: a Mut-producing Seq commonly carries more
// than one Edge (e.g. left and right operands of a binary node), and each
// needs the same enclosing-tree context to mutate into. The reported
// outState still follows the first non-Unit child, matching the propagation
// rule ("Seq returns the first non-Unit child's state").
func formSeq(v Seq, state TreeState) (Expr, TreeState) {
	out := make([]Expr, len(v.Exprs))
	outState := Unit
	sawNonUnit := false
	for i, c := range v.Exprs {
		if Classify(c) != Unit {
			formed, s := FormTree(c, state)
			out[i] = formed
			if !sawNonUnit {
				outState = s
				sawNonUnit = true
			}
			continue
		}
		formed, _ := FormTree(c, Unit)
		out[i] = formed
	}
	return Seq{Exprs: out}, outState
}

func formChoice(exprs []Expr, state TreeState) ([]Expr, TreeState) {
	out := make([]Expr, len(exprs))
	states := make([]TreeState, len(exprs))
	for i, c := range exprs {
		formed, s := FormTree(c, state)
		out[i] = formed
		states[i] = s
	}
	return out, combineStates(states)
}
