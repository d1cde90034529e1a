// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package similartext

import (
	"fmt"
	"sort"
	"strings"
)

// levenshtein returns the edit distance between a and b, in runes.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Find returns a hint with the names closest to src, or an empty string if
// none of them is close enough. The hint is meant to be appended to an error
// message: ", maybe you mean x or y?".
func Find(names []string, src string) string {
	if src == "" {
		return ""
	}

	minDistance := -1
	var matches []string
	for _, name := range names {
		dist := levenshtein(strings.ToLower(name), strings.ToLower(src))
		switch {
		case minDistance == -1 || dist < minDistance:
			minDistance = dist
			matches = []string{name}
		case dist == minDistance:
			matches = append(matches, name)
		}
	}

	// a suggestion must keep at least half of src
	if minDistance == -1 || minDistance > len(src)/2 {
		return ""
	}

	return fmt.Sprintf(", maybe you mean %s?", strings.Join(matches, " or "))
}

// FindFromMap does the same as Find but takes the names from the keys of a
// map, in lexical order.
func FindFromMap[V any](names map[string]V, src string) string {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Find(keys, src)
}
