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

import "strings"

// postBoundary extracts the `boundary=` parameter from a Content-Type
// header value, stripping optional surrounding quotes. Returns "", false
// if absent or malformed.
func postBoundary(contentType string) (string, bool) {
	for _, segment := range strings.Split(contentType, ";") {
		segment = strings.TrimSpace(segment)
		if !strings.HasPrefix(segment, "boundary=") {
			continue
		}
		value := segment[len("boundary="):]
		if strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) && len(value) >= 2 {
			return value[1 : len(value)-1], true
		}
		return value, true
	}
	return "", false
}
