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
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		a, b  string
		equal bool
	}{
		{"(X)", "(X)", true},
		{`(X "")`, `(X)`, true},
		{`(X "a")`, `(X)`, false},
		{`(X attr=(A "a"))`, `(X)`, false},
		{`(X attr=(A "a"))`, `(X attr=(A "a"))`, true},
		{`(X attr1=(A "a"))`, `(X attr2=(A "a"))`, false},
		{`(X)`, `(X "a")`, false},
		{`(X "a")`, `(X "a")`, true},
		{`(X "a")`, `(X "b")`, false},
		{"(X)", "(Y)", false},
		{"(X (Y))", "(X)", false},
		{"(X)", "(X (Y))", false},
		{"(X (Y))", "(X (Y))", true},
		{"(X (Y) (Z))", "(X (Y) (Z))", true},
		{"(X (Z) (Y))", "(X (Y) (Z))", false},
		{"(X (Y (Z)))", "(X (Y (Z)))", true},
		{"(X (Z (Y)))", "(X (Y (Z)))", false},
		{`(X (Y "a" (Z)))`, `(X (Y (Z)))`, false},
		{`(X (Y "a" (Z)))`, `(X (Y "a" (Z)))`, true},
	}
	for _, tt := range tests {
		a, err := Parse(tt.a)
		if err != nil {
			t.Errorf("could not parse tree %s: %s", tt.a, err)
			continue
		}
		b, err := Parse(tt.b)
		if err != nil {
			t.Errorf("could not parse tree %s: %s", tt.b, err)
			continue
		}
		diffs := Diff(a, b)
		if tt.equal && len(diffs) > 0 {
			t.Errorf("Diff(%s, %s) returned %v, want none", tt.a, tt.b, strings.Join(diffs, "\n"))
			continue
		}
		if !tt.equal && len(diffs) == 0 {
			t.Errorf("Diff(%s, %s) returned none, want a diff", tt.a, tt.b)
		}
	}
}

func TestDiffNil(t *testing.T) {
	x, err := Parse("(X)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d := Diff(nil, nil); len(d) != 0 {
		t.Errorf("Diff(nil, nil) = %v, want none", d)
	}
	if d := Diff(x, nil); len(d) == 0 {
		t.Errorf("Diff(x, nil) returned none, want a diff")
	}
	if d := Diff(nil, x); len(d) == 0 {
		t.Errorf("Diff(nil, x) returned none, want a diff")
	}
}
