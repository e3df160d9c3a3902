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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestBasic(t *testing.T) {
	head := []byte("GET /hello.txt HTTP/1.1\r\nHost: example.com\r\nRange: bytes=7-11\r\n\r\n")
	req, status := ParseRequest(head)
	require.Equal(t, StatusOK, status)
	assert.Equal(t, MethodGET, req.Method)
	assert.Equal(t, "/hello.txt", req.Path)
	assert.Equal(t, Version11, req.Version)

	v, ok := req.Headers.Get("range")
	require.True(t, ok)
	assert.Equal(t, "bytes=7-11", v)
}

func TestParseRequestMalformedFirstLine(t *testing.T) {
	_, status := ParseRequest([]byte("GET /x\r\n\r\n"))
	assert.Equal(t, StatusBadRequest, status)
}

func TestParseRequestUnsupportedVersion(t *testing.T) {
	_, status := ParseRequest([]byte("GET / HTTP/2.0\r\n\r\n"))
	assert.Equal(t, StatusHTTPVersionNotSupported, status)
}

func TestParseRequestTruncated(t *testing.T) {
	// No trailing blank line: signals the caller invoked the parser too
	// early (the scratch buffer filled without ever seeing \r\n\r\n).
	_, status := ParseRequest([]byte("GET / HTTP/1.1\r\nHost: x"))
	assert.Equal(t, StatusRequestHeadersTooLarge, status)
}

func TestParseRequestUnknownMethod(t *testing.T) {
	req, status := ParseRequest([]byte("PUT /x HTTP/1.1\r\n\r\n"))
	require.Equal(t, StatusOK, status)
	assert.Equal(t, MethodUnknown, req.Method)
}

func TestParseRequestDuplicateHeadersFirstMatchWins(t *testing.T) {
	req, status := ParseRequest([]byte("GET / HTTP/1.1\r\nX-Foo: one\r\nX-Foo: two\r\n\r\n"))
	require.Equal(t, StatusOK, status)
	v, ok := req.Headers.Get("x-foo")
	require.True(t, ok)
	assert.Equal(t, "one", v)
}

func TestParseRequestHeaderLineWithoutColonSkipped(t *testing.T) {
	req, status := ParseRequest([]byte("GET / HTTP/1.1\r\nnocolonhere\r\nHost: x\r\n\r\n"))
	require.Equal(t, StatusOK, status)
	require.Len(t, req.Headers, 1)
	assert.Equal(t, "host", req.Headers[0].Key)
}

func TestPercentDecode(t *testing.T) {
	cases := map[string]string{
		"/a%20b":    "/a b",
		"/a%2Fb":    "/a/b",
		"/bad%gg":   "/bad%gg",
		"/trail%":   "/trail%",
		"/trail%2":  "/trail%2",
		"/%25":      "/%",
		"no-escape": "no-escape",
	}
	for in, want := range cases {
		assert.Equal(t, want, percentDecode(in), "input=%s", in)
	}
}

func TestPercentDecodeRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		encoded := "%" + string("0123456789ABCDEF"[b>>4]) + string("0123456789ABCDEF"[b&0xF])
		got := percentDecode(encoded)
		require.Len(t, got, 1)
		assert.Equal(t, byte(b), got[0])
	}
}
