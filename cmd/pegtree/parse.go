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
	"io"
	"os"

	"github.com/lVlEK0/pegtree/generator"
	"github.com/lVlEK0/pegtree/resolve"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	start  *string
	source *string
	memo   *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar file>",
		Short:   "Parse a text stream against a grammar",
		Example: "  pegtree parse grammar.peg --source input.txt",
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.start = cmd.Flags().StringP("start", "s", "", "rule to start from (default: the grammar's first rule)")
	parseFlags.source = cmd.Flags().String("source", "", "source file to parse (default stdin)")
	parseFlags.memo = cmd.Flags().Bool("memo", false, "enable the memoization table")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	g, err := loadGrammarFile(args[0])
	if err != nil {
		return err
	}

	input, err := readSource(*parseFlags.source)
	if err != nil {
		return err
	}

	p, err := generator.New(g, generator.Options{Start: *parseFlags.start, Memoize: *parseFlags.memo})
	if err != nil {
		return fmt.Errorf("cannot compile grammar: %w", err)
	}

	tree := p.Parse(input, *parseFlags.source, 0, 0)
	if tree.IsErr() {
		return fmt.Errorf("parse error at byte %d", tree.Spos)
	}
	fmt.Println(tree.String())
	return nil
}

func readSource(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("cannot read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := resolve.ReadFile(context.Background(), path)
	if err != nil {
		return "", fmt.Errorf("cannot read source %q: %w", path, err)
	}
	return string(data), nil
}
