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
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/hypershare/hypershare/common"
)

// BodySource is a response body that can be streamed and, on a short
// socket write, rewound so the unsent tail is retried.
type BodySource interface {
	io.Reader
	io.Seeker
}

// Response holds status, headers, and a streaming body source behind a
// single reusable scratch buffer. Exactly one Response exists per
// connection at a time; WriteHeaders must run before any
// WritePartial call.
type Response struct {
	status  Status
	version Version
	headers Headers

	headersWritten bool
	body           BodySource
	buffer         []byte
	bytesToWrite   int64
}

// NewResponse allocates the scratch buffer once and returns an empty
// Response for status/version.
func NewResponse(status Status, version Version) *Response {
	return &Response{
		status:  status,
		version: version,
		buffer:  make([]byte, common.ResponseBufferSize),
	}
}

// AddHeader appends a response header, preserving call order.
func (r *Response) AddHeader(key, value string) {
	r.headers = append(r.headers, Header{Key: key, Value: value})
}

// SetContentLength appends a Content-Length header and arms the body
// pump to send exactly n bytes.
func (r *Response) SetContentLength(n int64) {
	r.AddHeader("Content-Length", strconv.FormatInt(n, 10))
	r.bytesToWrite = n
}

// AddBody attaches the streamable body source.
func (r *Response) AddBody(body BodySource) {
	r.body = body
}

// ClearBody detaches the body source without touching the
// already-recorded Content-Length header, so HEAD responses advertise
// the real length but send no bytes.
func (r *Response) ClearBody() {
	r.body = nil
}

// Status returns the response's status.
func (r *Response) Status() Status {
	return r.status
}

// BytesToWrite reports how many body bytes remain to be streamed.
func (r *Response) BytesToWrite() int64 {
	return r.bytesToWrite
}

// WriteHeaders emits the status line, headers, and terminating blank
// line. It is illegal to call this more than once per Response, and
// illegal to call WritePartial before it.
func (r *Response) WriteHeaders(w io.Writer) error {
	if r.headersWritten {
		panic("httpcore: WriteHeaders called twice on the same response")
	}

	leader := fmt.Sprintf("%s %d %s\r\n", r.version, r.status.Code(), r.status.Message())
	if _, err := io.WriteString(w, leader); err != nil {
		return errors.Wrap(err, "httpcore: write status line")
	}
	for _, h := range r.headers {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", h.Key, h.Value); err != nil {
			return errors.Wrap(err, "httpcore: write header")
		}
	}
	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return errors.Wrap(err, "httpcore: write header terminator")
	}

	r.headersWritten = true
	return nil
}

// WritePartial pumps up to one scratch-buffer's worth of body data into
// w, reading from the body source and writing once to w. It returns the
// number of bytes actually written to w this call; 0 means the body is
// exhausted or absent. On a short socket write, the body source is
// seeked back so the unsent tail is read again on the next call.
func (r *Response) WritePartial(w io.Writer) (int64, error) {
	if !r.headersWritten {
		panic("httpcore: WritePartial called before WriteHeaders")
	}
	if r.bytesToWrite <= 0 || r.body == nil {
		return 0, nil
	}

	chunk := r.bytesToWrite
	if chunk > int64(len(r.buffer)) {
		chunk = int64(len(r.buffer))
	}

	read, err := r.body.Read(r.buffer[:chunk])
	if err != nil && err != io.EOF {
		return 0, errors.Wrap(err, "httpcore: read body")
	}
	if read == 0 {
		return 0, nil
	}

	written, werr := w.Write(r.buffer[:read])
	if written < read {
		if _, serr := r.body.Seek(-int64(read-written), io.SeekCurrent); serr != nil {
			return int64(written), errors.Wrap(serr, "httpcore: seek back after short write")
		}
	}
	r.bytesToWrite -= int64(written)
	if werr != nil {
		return int64(written), werr
	}
	return int64(written), nil
}
