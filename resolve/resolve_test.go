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

package resolve

import (
	"context"
	"testing"
)

func TestFileResolverReadsFromMemfs(t *testing.T) {
	ctx := context.Background()
	if err := WriteFile(ctx, "/memfs/grammars/common.peg", []byte("Num = [0-9]+\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewFileResolver("/memfs/grammars")
	src, err := r.Resolve(ctx, "common")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if src != "Num = [0-9]+\n" {
		t.Fatalf("got %q", src)
	}
	root, err := r.Root(ctx, "common")
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if root != "/memfs/grammars" {
		t.Fatalf("got root %q, want /memfs/grammars", root)
	}
}

func TestFileResolverNotFound(t *testing.T) {
	r := NewFileResolver("/memfs/nowhere")
	if _, err := r.Resolve(context.Background(), "missing-grammar"); err == nil {
		t.Fatalf("expected an error for a grammar that does not exist")
	}
}

func TestGrammarResolverParsesAndCaches(t *testing.T) {
	ctx := context.Background()
	if err := WriteFile(ctx, "/memfs/g2/shapes.peg", []byte("Square = 'sq'\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fr := NewFileResolver("/memfs/g2")
	gr := NewGrammarResolver(fr, nil)

	g1, err := gr.Resolve("shapes")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := g1.Lookup("Square"); !ok {
		t.Fatalf("rule Square not found in resolved grammar")
	}

	g2, err := gr.Resolve("shapes")
	if err != nil {
		t.Fatalf("Resolve (again): %v", err)
	}
	if g1 != g2 {
		t.Fatalf("expected the second Resolve of the same urn to return the cached grammar")
	}
}

func TestGrammarResolverSurfacesSyntaxErrors(t *testing.T) {
	ctx := context.Background()
	if err := WriteFile(ctx, "/memfs/g3/broken.peg", []byte("Bad = \n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	fr := NewFileResolver("/memfs/g3")
	gr := NewGrammarResolver(fr, nil)
	if _, err := gr.Resolve("broken"); err == nil {
		t.Fatalf("expected a syntax error for a rule with no body")
	}
}
