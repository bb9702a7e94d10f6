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

package main

import (
	"context"
	"fmt"
	"path/filepath"

	log "github.com/golang/glog"
	"github.com/lVlEK0/pegtree/bootstrap"
	"github.com/lVlEK0/pegtree/generator"
	"github.com/lVlEK0/pegtree/grammar"
	"github.com/lVlEK0/pegtree/loader"
	"github.com/lVlEK0/pegtree/resolve"
)

// defaultDiagnostics reports a grammar's warnings and errors through glog,
// matching tpeg2.py's default_logger: every diagnostic is a log line tagged
// with the grammar path and byte offset, not a process-fatal event (that
// verdict belongs to the caller, once loading has finished).
func defaultDiagnostics(path string) grammar.Diagnostics {
	return func(sev grammar.Severity, pos int, message string) {
		if sev == grammar.SeverityError {
			log.Errorf("%s:%d: %s", path, pos, message)
			return
		}
		log.Warningf("%s:%d: %s", path, pos, message)
	}
}

// loadGrammarFile reads, parses and lowers the grammar at path, wiring up
// a FileResolver rooted at the grammar's own directory so `from urn import
// ...` statements resolve sibling files the way a checked-out grammar
// package expects.
func loadGrammarFile(path string) (*grammar.Grammar, error) {
	ctx := context.Background()
	src, err := resolve.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read grammar %q: %w", path, err)
	}

	bp, err := generator.New(bootstrap.New(), generator.Options{Start: "Start"})
	if err != nil {
		return nil, fmt.Errorf("cannot compile the bootstrap grammar: %w", err)
	}
	pt := bp.Parse(string(src), path, 0, 0)
	if pt.IsErr() {
		return nil, fmt.Errorf("%s:%d: syntax error", path, pt.Spos)
	}

	diag := defaultDiagnostics(path)
	roots := []string{filepath.Dir(path), "."}
	if root, err := gitRoot(); err == nil {
		roots = append(roots, root)
	}
	fr := resolve.NewFileResolver(roots...)
	gr := resolve.NewGrammarResolver(fr, diag)

	l := loader.New(gr, diag)
	return l.Load(pt)
}
