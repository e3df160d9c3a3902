// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bytematch implements Boyer-Moore-Horspool substring search over
// arbitrary byte buffers, used to find the header/body split and
// multipart boundaries without assuming the buffer is valid text.
package bytematch

// Matcher holds the bad-character shift table for a fixed needle so
// repeated searches (e.g. one per read in a state machine) skip table
// construction.
type Matcher struct {
	needle []byte
	shift  [256]int
}

// New builds a Matcher for needle. needle must be non-empty.
func New(needle string) *Matcher {
	n := []byte(needle)
	m := &Matcher{needle: n}
	for i := range m.shift {
		m.shift[i] = len(n)
	}
	for i := 0; i < len(n)-1; i++ {
		m.shift[n[i]] = len(n) - 1 - i
	}
	return m
}

// Index returns the offset of the first occurrence of the matcher's
// needle in haystack, or -1 if absent.
func (m *Matcher) Index(haystack []byte) int {
	n := len(m.needle)
	if n == 0 || len(haystack) < n {
		return -1
	}

	i := 0
	last := n - 1
	for i <= len(haystack)-n {
		j := last
		for j >= 0 && haystack[i+j] == m.needle[j] {
			j--
		}
		if j < 0 {
			return i
		}
		i += m.shift[haystack[i+last]]
	}
	return -1
}

// Index is a convenience one-shot search for callers that do not reuse
// the same needle across many calls.
func Index(haystack []byte, needle string) int {
	return New(needle).Index(haystack)
}
