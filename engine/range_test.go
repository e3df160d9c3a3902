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

package engine

import "testing"

func TestDecodeContentRange(t *testing.T) {
	cases := []struct {
		in        string
		ok        bool
		start     int64
		hasLength bool
		length    int64
	}{
		{"bytes=0-9", true, 0, true, 10},
		{"bytes=5-", true, 5, false, 0},
		{"bytes=-10", true, 0, true, 11},
		{"nonsense", false, 0, false, 0},
		{"bytes=10-5", false, 0, false, 0},
		{"bytes=5-0", false, 0, false, 0},
	}
	for _, c := range cases {
		cr, ok := decodeContentRange(c.in)
		if ok != c.ok {
			t.Fatalf("%q: ok=%v want %v", c.in, ok, c.ok)
		}
		if !ok {
			continue
		}
		if cr.start != c.start {
			t.Errorf("%q: start=%d want %d", c.in, cr.start, c.start)
		}
		if (cr.length != nil) != c.hasLength {
			t.Errorf("%q: hasLength=%v want %v", c.in, cr.length != nil, c.hasLength)
		}
		if cr.length != nil && *cr.length != c.length {
			t.Errorf("%q: length=%d want %d", c.in, *cr.length, c.length)
		}
	}
}

func TestContentRangeResolve(t *testing.T) {
	cr, ok := decodeContentRange("bytes=7-11")
	if !ok {
		t.Fatal("expected ok")
	}
	start, length := cr.resolve(100)
	if start != 7 || length != 5 {
		t.Fatalf("start=%d length=%d", start, length)
	}

	cr, _ = decodeContentRange("bytes=90-200")
	start, length = cr.resolve(100)
	if start != 90 || length != 10 {
		t.Fatalf("start=%d length=%d", start, length)
	}

	cr, _ = decodeContentRange("bytes=5-")
	start, length = cr.resolve(100)
	if start != 5 || length != 95 {
		t.Fatalf("start=%d length=%d", start, length)
	}
}
