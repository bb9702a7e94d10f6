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

package generator

import (
	"sort"

	"github.com/lVlEK0/pegtree/grammar"
)

// compileRange precomputes a single membership test for a Range node. Code
// units below 128 use a plain bitmask array, one branch; anything wider
// falls back to a sorted-span binary search.
func compileRange(v grammar.Range) func(rune) bool {
	var ascii [128]bool
	var wideSpans []grammar.RangeSpan
	var wideChars []rune

	for _, c := range v.Chars {
		if c < 128 {
			ascii[c] = true
		} else {
			wideChars = append(wideChars, c)
		}
	}
	for _, r := range v.Ranges {
		if r.Hi < 128 {
			for c := r.Lo; c <= r.Hi; c++ {
				ascii[c] = true
			}
			continue
		}
		wideSpans = append(wideSpans, r)
	}
	sort.Slice(wideSpans, func(i, j int) bool { return wideSpans[i].Lo < wideSpans[j].Lo })

	return func(r rune) bool {
		if r >= 0 && r < 128 {
			return ascii[r]
		}
		for _, c := range wideChars {
			if c == r {
				return true
			}
		}
		lo, hi := 0, len(wideSpans)
		for lo < hi {
			mid := (lo + hi) / 2
			s := wideSpans[mid]
			switch {
			case r < s.Lo:
				hi = mid
			case r > s.Hi:
				lo = mid + 1
			default:
				return true
			}
		}
		return false
	}
}
