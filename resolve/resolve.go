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

// Package resolve locates and loads the grammar sources a `from urn import
// ...` statement names, searching a list of roots the way pegpy's
// findpath/grammar_factory does.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Resolver turns a URN (a bare grammar name or a path) into grammar source
// text, plus the root it was found under (so a grammar can itself import
// siblings relative to where it was found).
type Resolver interface {
	Resolve(ctx context.Context, urn string) (source string, err error)
	Root(ctx context.Context, urn string) (string, error)
}

// ErrNotFound is returned when no root in a FileResolver's search path
// contains urn.
var ErrNotFound = errors.New("resolve: grammar not found")

// FileResolver walks Paths in order looking for urn (optionally suffixed
// with ".peg" if urn has no extension), exactly as pegpy's findpath walks
// its paths list. A path entry may be a plain OS directory or a
// "/memfs/..."-rooted virtual directory; both go through this package's own
// ReadFile/Stat so /memfs/ sources (typically registered by tests or by a
// generator that writes its own intermediate grammars) resolve the same way
// real files do.
type FileResolver struct {
	Paths []string

	mu      sync.Mutex
	sources map[string]string
	roots   map[string]string
}

// NewFileResolver returns a FileResolver searching paths in order.
func NewFileResolver(paths ...string) *FileResolver {
	return &FileResolver{Paths: paths}
}

func (r *FileResolver) candidates(urn string) []string {
	names := []string{urn}
	if filepath.Ext(urn) == "" {
		names = append(names, urn+".peg")
	}
	var out []string
	for _, root := range r.Paths {
		for _, name := range names {
			out = append(out, joinURN(root, name))
		}
	}
	return out
}

func joinURN(root, name string) string {
	if strings.HasPrefix(root, "/memfs/") || strings.HasPrefix(name, "/memfs/") {
		if strings.HasPrefix(name, "/") {
			return name
		}
		return strings.TrimRight(root, "/") + "/" + name
	}
	return filepath.Join(root, name)
}

func (r *FileResolver) locate(ctx context.Context, urn string) (string, error) {
	r.mu.Lock()
	if root, ok := r.roots[urn]; ok {
		r.mu.Unlock()
		return root, nil
	}
	r.mu.Unlock()

	for _, candidate := range r.candidates(urn) {
		if _, err := Stat(ctx, candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, urn)
}

// Resolve reads and caches the source text found at urn's resolved path.
func (r *FileResolver) Resolve(ctx context.Context, urn string) (string, error) {
	r.mu.Lock()
	if src, ok := r.sources[urn]; ok {
		r.mu.Unlock()
		return src, nil
	}
	r.mu.Unlock()

	path, err := r.locate(ctx, urn)
	if err != nil {
		return "", err
	}
	contents, err := ReadFile(ctx, path)
	if err != nil {
		return "", fmt.Errorf("resolve: reading %s: %w", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sources == nil {
		r.sources = make(map[string]string)
		r.roots = make(map[string]string)
	}
	r.sources[urn] = string(contents)
	r.roots[urn] = filepath.Dir(path)
	return r.sources[urn], nil
}

// Root returns the directory urn was found under, so that a grammar which
// itself imports siblings can resolve them relative to where it lives
// rather than relative to whoever imported it first.
func (r *FileResolver) Root(ctx context.Context, urn string) (string, error) {
	if _, err := r.Resolve(ctx, urn); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roots[urn], nil
}
