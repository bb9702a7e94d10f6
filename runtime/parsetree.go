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

import (
	"bytes"
	"fmt"
	"sort"
)

// ErrTag is the Tag a ParseTree carries when the parse failed.
const ErrTag = "err"

// ParseTree is the final, persistent parse tree: an ordered list of
// positional children plus a label-to-child map for named edges. Children
// appear in source order, the reverse of the PTree construction order.
type ParseTree struct {
	Tag      string
	Spos     int
	Epos     int
	Inputs   string
	URN      string
	Children []*ParseTree
	Edges    map[string]*ParseTree
}

// NewErr builds the synthetic error tree a failed parse entry reports:
// zero width, anchored at headpos.
func NewErr(urn, inputs string, headpos int) *ParseTree {
	return &ParseTree{Tag: ErrTag, Spos: headpos, Epos: headpos, URN: urn, Inputs: inputs}
}

// IsErr reports whether t is the synthetic failure marker.
func (t *ParseTree) IsErr() bool {
	return t != nil && t.Tag == ErrTag
}

// Text returns the substring of Inputs this node's span covers.
func (t *ParseTree) Text() string {
	if t == nil || t.Inputs == "" {
		return ""
	}
	return t.Inputs[t.Spos:t.Epos]
}

// Edge returns the named child attached at label, or nil.
func (t *ParseTree) Edge(label string) *ParseTree {
	if t == nil {
		return nil
	}
	return t.Edges[label]
}

// RowCol computes the 1-based row and 0-based column of Spos by scanning
// Inputs for newlines, matching the teacher generator's countRowCol.
func (t *ParseTree) RowCol() (row, col int) {
	if t == nil {
		return 1, 0
	}
	row = 1
	lineStart := 0
	limit := t.Spos
	if limit > len(t.Inputs) {
		limit = len(t.Inputs)
	}
	for i := 0; i < limit; i++ {
		if t.Inputs[i] == '\n' {
			row++
			lineStart = i + 1
		}
	}
	return row, t.Spos - lineStart
}

func (t *ParseTree) String() string {
	if t == nil {
		return "(nil)"
	}
	var buf bytes.Buffer
	t.write(&buf)
	return buf.String()
}

func (t *ParseTree) write(buf *bytes.Buffer) {
	buf.WriteByte('(')
	buf.WriteString(t.Tag)
	var labels []string
	for l := range t.Edges {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		fmt.Fprintf(buf, " %s=", l)
		t.Edges[l].write(buf)
	}
	if len(t.Children) == 0 && len(t.Edges) == 0 && t.Text() != "" {
		fmt.Fprintf(buf, " %q", t.Text())
	}
	for _, c := range t.Children {
		buf.WriteByte(' ')
		c.write(buf)
	}
	buf.WriteByte(')')
}
