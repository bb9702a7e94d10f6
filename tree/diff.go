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

package tree

import (
	"fmt"

	"github.com/lVlEK0/pegtree/runtime"
)

// Diff structurally compares got against want and returns a list of
// human-readable mismatches, empty if the trees agree. Edges are compared
// by label (order-independent, like the teacher's Annotations map); Children
// are compared positionally, like the teacher's Children slice.
func Diff(got, want *runtime.ParseTree) (diff []string) {
	if got == nil && want == nil {
		return nil
	}
	if got == nil {
		return []string{fmt.Sprintf("expected (%s), got nil", want.Tag)}
	}
	if want == nil {
		return []string{fmt.Sprintf("expected nil, got (%s)", got.Tag)}
	}
	if got.Tag != want.Tag {
		diff = append(diff, fmt.Sprintf("expected (%s), got (%s)", want.Tag, got.Tag))
	}

	checked := make(map[string]bool)
	for label, wantChild := range want.Edges {
		gotChild, ok := got.Edges[label]
		if !ok {
			diff = append(diff, fmt.Sprintf("expected edge %s=(%s), not found", label, wantChild.Tag))
			continue
		}
		for _, d := range Diff(gotChild, wantChild) {
			diff = append(diff, fmt.Sprintf("in edge %s: %s", label, d))
		}
		checked[label] = true
	}
	for label := range got.Edges {
		if !checked[label] {
			diff = append(diff, fmt.Sprintf("extra edge %s=(%s), not expected", label, got.Edges[label].Tag))
		}
	}

	if len(got.Children) != len(want.Children) {
		diff = append(diff, fmt.Sprintf("expected %d children, got %d", len(want.Children), len(got.Children)))
	}
	n := len(got.Children)
	if len(want.Children) < n {
		n = len(want.Children)
	}
	for i := 0; i < n; i++ {
		diff = append(diff, Diff(got.Children[i], want.Children[i])...)
	}

	if len(got.Children) == 0 && len(got.Edges) == 0 && len(want.Children) == 0 && len(want.Edges) == 0 {
		if got.Text() != want.Text() {
			diff = append(diff, fmt.Sprintf("expected text %q, got %q", want.Text(), got.Text()))
		}
	}
	return diff
}
