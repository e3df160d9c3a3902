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

import (
	"strconv"
	"strings"
)

// contentRange is a decoded `Range: bytes=<start>-<end>` header.
type contentRange struct {
	start int64
	// length is nil when the end of range was unspecified ("to EOF").
	length *int64
}

// decodeContentRange parses the value of a Range header. Only the single
// "bytes=start-end" form is understood; anything else is malformed.
func decodeContentRange(value string) (contentRange, bool) {
	const prefix = "bytes="
	if !strings.HasPrefix(value, prefix) {
		return contentRange{}, false
	}
	body := value[len(prefix):]

	dash := strings.IndexByte(body, '-')
	if dash < 0 {
		return contentRange{}, false
	}
	startStr, endStr := body[:dash], body[dash+1:]

	var start int64
	if startStr != "" {
		v, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil {
			return contentRange{}, false
		}
		start = v
	}

	if endStr == "" {
		return contentRange{start: start}, true
	}

	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return contentRange{}, false
	}
	if end == 0 || start > end {
		return contentRange{}, false
	}
	length := 1 + end - start
	return contentRange{start: start, length: &length}, true
}

// resolve applies the range against a resource of size total, returning
// the effective start and length exactly as spec.md §4.5 describes.
func (c contentRange) resolve(total int64) (start, length int64) {
	start = c.start
	if start > total {
		start = total
	}
	if c.length != nil {
		length = *c.length
		if remain := total - start; length > remain {
			length = remain
		}
	} else {
		length = total - start
	}
	if length < 0 {
		length = 0
	}
	return start, length
}
