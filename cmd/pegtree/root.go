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
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pegtree",
	Short: "Parse, check and compile PEG grammars with tree-construction operators",
	Long: `pegtree provides three features over a .peg grammar file:
- parse: run a grammar (or one rule in it) over an input and print the tree.
- check: run every example statement the grammar declares and report mismatches.
- gen: compile the grammar and report whether it builds (memoized when --memo-size > 0).`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the selected subcommand, printing any returned error to
// stderr before returning it so main can choose the exit code.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
