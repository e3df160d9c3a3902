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

package bytematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	cases := []struct {
		name     string
		haystack string
		needle   string
		want     int
	}{
		{"found at start", "\r\n\r\nbody", "\r\n\r\n", 0},
		{"found mid buffer", "GET / HTTP/1.1\r\nHost: x\r\n\r\nbody", "\r\n\r\n", 23},
		{"not found", "GET / HTTP/1.1\r\nHost: x\r\n", "\r\n\r\n", -1},
		{"needle longer than haystack", "ab", "abcd", -1},
		{"empty haystack", "", "\r\n\r\n", -1},
		{"boundary match", "xx--ABC\r\nmore", "--ABC", 2},
		{"repeated prefix near match", "--AB--ABC", "--ABC", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Index([]byte(tc.haystack), tc.needle))
		})
	}
}

func TestMatcherReuse(t *testing.T) {
	m := New("--ABC")
	assert.Equal(t, 0, m.Index([]byte("--ABC--")))
	assert.Equal(t, 3, m.Index([]byte("xxx--ABCyyy")))
	assert.Equal(t, -1, m.Index([]byte("no match here")))
}

func TestIndexOverBinaryData(t *testing.T) {
	raw := []byte{0x00, 0xFF, 0x10, '-', '-', 'A', 'B', 'C', 0x01}
	assert.Equal(t, 3, Index(raw, "--ABC"))
}
