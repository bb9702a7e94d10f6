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

// Binary pegtree is a small CLI around the grammar/loader/generator
// packages: parse input against a grammar, check a grammar's own examples,
// or compile a grammar and report whether it builds.
package main

import (
	"os"

	log "github.com/golang/glog"
)

func main() {
	if err := Execute(); err != nil {
		log.Flush()
		os.Exit(1)
	}
	log.Flush()
}
