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
	"fmt"

	"github.com/lVlEK0/pegtree/loader"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "check <grammar file>",
		Short:   "Run a grammar's own example statements and report mismatches",
		Example: "  pegtree check grammar.peg",
		Args:    cobra.ExactArgs(1),
		RunE:    runCheck,
	}
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	g, err := loadGrammarFile(args[0])
	if err != nil {
		return err
	}

	mismatches, err := loader.CheckExamples(g)
	if err != nil {
		return err
	}
	if len(mismatches) == 0 {
		fmt.Printf("%d example(s) OK\n", len(g.Examples))
		return nil
	}
	for _, m := range mismatches {
		fmt.Printf("%s: %s\n", m.Rule, m.Reason)
	}
	return fmt.Errorf("%d example mismatch(es)", len(mismatches))
}
