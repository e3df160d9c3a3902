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

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/hypershare/hypershare/internal/splitio"
)

// Request is a parsed request head. Path is percent-decoded but not
// otherwise normalized — dot-segment collapsing and traversal checks
// happen at path-resolution time, not here.
type Request struct {
	Method  Method
	Path    string
	Version Version
	Headers Headers
}

// ParseRequest converts a head buffer — everything up to and including
// the blank line that ends the headers — into a Request. The caller
// must only invoke this once a "\r\n\r\n" terminator has actually been
// observed in the buffer; a dangling trailing line is reported as
// StatusRequestHeadersTooLarge rather than treated as "need more data".
func ParseRequest(head []byte) (*Request, Status) {
	if !utf8.Valid(head) {
		return nil, StatusBadRequest
	}

	lr := splitio.NewReader(head)

	firstLine, eof := lr.ReadLine()
	if eof {
		return nil, StatusRequestHeadersTooLarge
	}
	first := strings.Fields(string(trimEOL(firstLine)))
	if len(first) != 3 {
		return nil, StatusBadRequest
	}

	version, ok := versionFromToken(first[2])
	if !ok {
		return nil, StatusHTTPVersionNotSupported
	}

	var headers Headers
	terminated := false
	for {
		line, eof := lr.ReadLine()
		if eof {
			break
		}
		trimmed := trimEOL(line)
		if len(trimmed) == 0 {
			terminated = true
			break
		}
		idx := bytes.IndexByte(trimmed, ':')
		if idx < 0 {
			continue
		}
		headers = append(headers, Header{
			Key:   strings.ToLower(strings.TrimSpace(string(trimmed[:idx]))),
			Value: strings.TrimSpace(string(trimmed[idx+1:])),
		})
	}
	if !terminated {
		return nil, StatusRequestHeadersTooLarge
	}

	return &Request{
		Method:  methodFromToken(first[0]),
		Path:    percentDecode(first[1]),
		Version: version,
		Headers: headers,
	}, StatusOK
}

// trimEOL strips a single trailing "\r\n" or "\n" left on a line by
// splitio.Reader, which preserves line terminators rather than consuming
// them.
func trimEOL(b []byte) []byte {
	b = bytes.TrimSuffix(b, splitio.CharLF)
	b = bytes.TrimSuffix(b, splitio.CharCR)
	return b
}

// percentDecode replaces every %HH escape with its byte value, leaving
// malformed escapes untouched. The result is not re-validated as UTF-8:
// invalid sequences are kept byte for byte rather than replaced, so every
// %HH escape decodes to exactly its original byte.
func percentDecode(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			out = append(out, hexByte(s[i+1], s[i+2]))
			i += 2
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexDigit(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	default:
		return b - 'A' + 10
	}
}

func hexByte(hi, lo byte) byte {
	return hexDigit(hi)<<4 + hexDigit(lo)
}
