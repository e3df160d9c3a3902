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

func TestPostBoundary(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"multipart/form-data; boundary=ABC123", "ABC123", true},
		{`multipart/form-data; boundary="quoted boundary"`, "quoted boundary", true},
		{"multipart/form-data", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := postBoundary(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("postBoundary(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
