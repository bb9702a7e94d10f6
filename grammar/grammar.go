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

import (
	"fmt"
	"sync/atomic"
)

var gidCounter int64

// nextGid returns a fresh, process-wide unique grammar id, used only to
// keep Ref.Uname collision-free when grammars are merged by import.
func nextGid() string {
	n := atomic.AddInt64(&gidCounter, 1)
	return fmt.Sprintf("g%d_", n)
}

// Example records one `example name,name,... '''doc'''` declaration.
type Example struct {
	Names []string
	Doc   string
	Pos   int
}

// Grammar owns an ordered, named collection of rules plus the example
// side table. It is safe for concurrent read-only use once loading has
// finished; Add is not safe for concurrent use with itself or Lookup.
type Grammar struct {
	gid   string
	names []string
	rules map[string]Expr
	refs  map[string]*Ref

	Examples    []Example
	Diagnostics Diagnostics
}

// New returns an empty grammar with a fresh gensym prefix.
func New() *Grammar {
	return &Grammar{
		gid:   nextGid(),
		rules: make(map[string]Expr),
		refs:  make(map[string]*Ref),
	}
}

// Gid returns the grammar's gensym prefix.
func (g *Grammar) Gid() string { return g.gid }

// Add appends name to the ordered rule list if it is new and binds it to e.
// A redefinition is reported through Diagnostics and otherwise ignored: the
// first definition wins.
func (g *Grammar) Add(name string, e Expr) {
	if _, ok := g.rules[name]; ok {
		g.diag(SeverityWarning, -1, fmt.Sprintf("redefinition of rule %q ignored", name))
		return
	}
	g.names = append(g.names, name)
	g.rules[name] = e
}

// Set rebinds an existing rule (used by analysis passes to install
// normalized expressions) without touching insertion order or emitting a
// redefinition diagnostic.
func (g *Grammar) Set(name string, e Expr) {
	g.rules[name] = e
}

// Lookup returns the expression bound to name, if any.
func (g *Grammar) Lookup(name string) (Expr, bool) {
	e, ok := g.rules[name]
	return e, ok
}

// Names returns the rule names in insertion order.
func (g *Grammar) Names() []string {
	return g.names
}

// NewRef returns the canonical *Ref for name, allocating it on first use.
// Repeated calls for the same name return the identical pointer.
func (g *Grammar) NewRef(name string) *Ref {
	if r, ok := g.refs[name]; ok {
		return r
	}
	r := &Ref{Name: name, Uname: uname(g.gid, name), g: g}
	g.refs[name] = r
	return r
}

// uname returns the generator-facing unique name for a rule: the gid
// prefix, unless the name is reserved for anonymous/inlined rules by
// starting with a digit.
func uname(gid, name string) string {
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		return name
	}
	return gid + name
}

// Start returns the first-inserted rule name, synthesizing an EMPTY rule
// if the grammar has no rules yet.
func (g *Grammar) Start() string {
	if len(g.names) == 0 {
		g.Add("EMPTY", Empty{})
	}
	return g.names[0]
}

func (g *Grammar) diag(sev Severity, pos int, msg string) {
	if g.Diagnostics != nil {
		g.Diagnostics(sev, pos, msg)
	}
}
