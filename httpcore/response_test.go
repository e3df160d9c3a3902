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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHeaders(t *testing.T) {
	r := NewResponse(StatusOK, Version11)
	r.AddHeader("Server", "hypershare")
	r.SetContentLength(14)

	var buf bytes.Buffer
	require.NoError(t, r.WriteHeaders(&buf))
	assert.Equal(t, "HTTP/1.1 200 OK\r\nServer: hypershare\r\nContent-Length: 14\r\n\r\n", buf.String())
}

func TestWriteHeadersTwiceInvariant(t *testing.T) {
	r := NewResponse(StatusOK, Version11)
	var buf bytes.Buffer
	require.NoError(t, r.WriteHeaders(&buf))
	assert.Panics(t, func() { _ = r.WriteHeaders(&buf) })
}

func TestWritePartialFullBody(t *testing.T) {
	r := NewResponse(StatusOK, Version11)
	r.SetContentLength(14)
	r.AddBody(bytes.NewReader([]byte("Hello, world!\n")))

	var buf bytes.Buffer
	require.NoError(t, r.WriteHeaders(&buf))
	buf.Reset()

	n, err := r.WritePartial(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(14), n)
	assert.Equal(t, "Hello, world!\n", buf.String())
	assert.Equal(t, int64(0), r.BytesToWrite())

	n, err = r.WritePartial(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestClearBodyForHead(t *testing.T) {
	r := NewResponse(StatusOK, Version11)
	r.SetContentLength(14)
	r.AddBody(bytes.NewReader([]byte("Hello, world!\n")))
	r.ClearBody()

	var buf bytes.Buffer
	require.NoError(t, r.WriteHeaders(&buf))
	buf.Reset()

	n, err := r.WritePartial(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Contains(t, buf.String(), "")
}

// shortWriter writes at most max bytes per call, simulating a socket
// under write pressure.
type shortWriter struct {
	buf bytes.Buffer
	max int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.max {
		p = p[:w.max]
	}
	return w.buf.Write(p)
}

func TestWritePartialSeeksBackOnShortWrite(t *testing.T) {
	r := NewResponse(StatusOK, Version11)
	body := []byte("0123456789")
	r.SetContentLength(int64(len(body)))
	r.AddBody(bytes.NewReader(body))

	sw := &shortWriter{max: 4}
	require.NoError(t, r.WriteHeaders(&sw.buf))
	sw.buf.Reset()

	var out bytes.Buffer
	for r.BytesToWrite() > 0 {
		n, err := r.WritePartial(sw)
		require.NoError(t, err)
		out.Write(sw.buf.Bytes())
		sw.buf.Reset()
		if n == 0 {
			break
		}
	}
	assert.Equal(t, string(body), out.String())
}
