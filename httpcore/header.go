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

package httpcore

import "strings"

// Header is a single request or response header line. Request headers
// always carry a lowercased Key; response headers keep whatever case
// the caller supplied, since they are written verbatim to the wire.
type Header struct {
	Key   string
	Value string
}

// Headers is an ordered, duplicate-preserving header list. Lookups are
// case-insensitive and return the first match, matching how real HTTP
// clients expect header precedence to work.
type Headers []Header

// Get returns the value of the first header whose key matches name
// case-insensitively.
func (h Headers) Get(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, header := range h {
		if strings.ToLower(header.Key) == name {
			return header.Value, true
		}
	}
	return "", false
}
