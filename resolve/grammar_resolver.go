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
	"fmt"
	"sync"

	"github.com/lVlEK0/pegtree/bootstrap"
	"github.com/lVlEK0/pegtree/generator"
	"github.com/lVlEK0/pegtree/grammar"
	"github.com/lVlEK0/pegtree/loader"
)

// GrammarResolver adapts a source-level Resolver into the loader.Resolver
// interface (urn -> *grammar.Grammar) by parsing the resolved source
// against the bootstrap surface-syntax grammar and lowering it through a
// Loader of its own, recursively, one GrammarDB-style cache entry per urn
// -- the same memoization pegpy's grammar_factory().grammar does, keyed on
// the resolved path rather than the raw urn so two different import
// spellings of the same file share one *grammar.Grammar.
type GrammarResolver struct {
	Source Resolver
	Diag   grammar.Diagnostics

	mu      sync.Mutex
	cache   map[string]*grammar.Grammar
	loading map[string]bool
}

// NewGrammarResolver returns a GrammarResolver backed by source.
func NewGrammarResolver(source Resolver, diag grammar.Diagnostics) *GrammarResolver {
	return &GrammarResolver{Source: source, Diag: diag}
}

// Resolve implements loader.Resolver.
func (gr *GrammarResolver) Resolve(urn string) (*grammar.Grammar, error) {
	ctx := context.Background()
	root, err := gr.Source.Root(ctx, urn)
	if err != nil {
		return nil, err
	}

	gr.mu.Lock()
	if g, ok := gr.cache[root]; ok {
		gr.mu.Unlock()
		return g, nil
	}
	if gr.loading[root] {
		gr.mu.Unlock()
		return nil, fmt.Errorf("resolve: import cycle detected at %s", urn)
	}
	if gr.loading == nil {
		gr.loading = make(map[string]bool)
		gr.cache = make(map[string]*grammar.Grammar)
	}
	gr.loading[root] = true
	gr.mu.Unlock()

	defer func() {
		gr.mu.Lock()
		delete(gr.loading, root)
		gr.mu.Unlock()
	}()

	src, err := gr.Source.Resolve(ctx, urn)
	if err != nil {
		return nil, err
	}

	p, err := generator.New(bootstrap.New(), generator.Options{Start: "Start"})
	if err != nil {
		return nil, fmt.Errorf("resolve: building bootstrap parser: %w", err)
	}
	pt := p.Parse(src, urn, 0, 0)
	if pt.IsErr() {
		return nil, fmt.Errorf("resolve: syntax error in %s at %d", urn, pt.Spos)
	}

	l := loader.New(gr, gr.Diag)
	g, err := l.Load(pt)
	if err != nil {
		return nil, fmt.Errorf("resolve: loading %s: %w", urn, err)
	}

	gr.mu.Lock()
	gr.cache[root] = g
	gr.mu.Unlock()
	return g, nil
}
