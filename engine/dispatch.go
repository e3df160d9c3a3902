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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hypershare/hypershare/common"
	"github.com/hypershare/hypershare/httpcore"
	"github.com/hypershare/hypershare/internal/bytematch"
	"github.com/hypershare/hypershare/metricsrv"
	"github.com/hypershare/hypershare/uploadwindow"
)

var headerTerminator = bytematch.New("\r\n\r\n")

// dispatchResult is the outcome of routing a parsed request to a handler,
// mirroring the original's three-way HttpResult.
type dispatchResult struct {
	response *httpcore.Response
	// bytesRequested is credited to conn.bytesRequested when response is
	// non-nil.
	bytesRequested int64

	errStatus httpcore.Status
	errMsg    string
	isError   bool

	readBody bool // POST: transition to ReadingPostBody instead of responding
}

// readRequest implements the ReadingRequest state: fill the scratch
// buffer, look for the header terminator, and either dispatch the request
// or stay put. A non-EOF read error is returned to the caller so
// serviceConn can classify it instead of silently closing.
func (e *Engine) readRequest(c *Connection) (ConnectionState, error) {
	n, err := c.conn.Read(c.buffer[c.bytesRead:])
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Closing, nil
		}
		return Closing, err
	}
	if n == 0 {
		return Closing, nil
	}
	c.bytesRead += n
	c.bytesReadTotal += int64(n)

	idx := headerTerminator.Index(c.buffer[:c.bytesRead])
	if idx < 0 {
		if c.bytesRead == len(c.buffer) {
			return e.oneoffResponse(c, httpcore.StatusRequestHeadersTooLarge,
				"Request headers are too long. The total size must be less than 4KB.")
		}
		return ReadingRequest, nil
	}

	c.bodyStartOffset = idx + 4
	return e.handleRequest(c)
}

// handleRequest implements request dispatch: parse, record, route.
func (e *Engine) handleRequest(c *Connection) (ConnectionState, error) {
	state, err := e.dispatchRequest(c)
	e.logHistory(c)
	return state, err
}

func (e *Engine) dispatchRequest(c *Connection) (ConnectionState, error) {
	head := c.buffer[:c.bodyStartOffset]
	req, status := httpcore.ParseRequest(head)
	if status != httpcore.StatusOK {
		c.keepAlive = false
		return e.oneoffResponse(c, status, "Could not decode request.")
	}

	c.lastMethod = req.Method
	c.lastURI = req.Path
	c.numRequests++

	if e.disabled {
		c.keepAlive = false
		return e.oneoffResponse(c, httpcore.StatusServiceUnavailable,
			"This server has been temporarily disabled. Please contact the administrator to re-enable it.")
	}

	if v, ok := req.Headers.Get("connection"); ok {
		c.keepAlive = strings.EqualFold(v, "keep-alive")
	} else {
		c.keepAlive = false
	}

	var result dispatchResult
	switch req.Method {
	case httpcore.MethodGET, httpcore.MethodHEAD:
		result = e.handleGet(req)
	case httpcore.MethodPOST:
		result = e.handlePost(req, c)
	default:
		return e.oneoffResponse(c, httpcore.StatusNotImplemented,
			"This server does not implement the requested HTTP method.")
	}

	if result.readBody {
		return e.checkPartialPostBody(c)
	}
	if result.isError {
		return e.oneoffResponse(c, result.errStatus, result.errMsg)
	}

	resp := result.response
	resp.AddHeader("Connection", connectionHeader(c.keepAlive))

	if err := resp.WriteHeaders(c.conn); err != nil {
		return Closing, err
	}
	if req.Method == httpcore.MethodHEAD {
		resp.ClearBody()
	}

	c.response = resp
	c.bytesRequested += result.bytesRequested
	metricsrv.BytesRequestedTotal.Add(float64(result.bytesRequested))
	return WritingResponse, nil
}

func connectionHeader(keepAlive bool) string {
	if keepAlive {
		return "keep-alive"
	}
	return "close"
}

// handleGet implements the GET/HEAD handler. HEAD's body suppression
// happens in dispatchRequest once headers are written.
func (e *Engine) handleGet(req *httpcore.Request) dispatchResult {
	canonical, ok, err := resolvePath(e.cfg.RootDir, req.Path)
	if err != nil {
		if status, mapped := statusForFSError(err); mapped {
			return errorResult(status, err.Error())
		}
		return errorResult(httpcore.StatusServerError, err.Error())
	}
	if !ok {
		return errorResult(httpcore.StatusNotFound, "Path disallowed.")
	}

	info, err := statFile(canonical)
	if err != nil {
		if status, mapped := statusForFSError(err); mapped {
			return errorResult(status, err.Error())
		}
		return errorResult(httpcore.StatusServerError, err.Error())
	}

	if !info.Mode().IsRegular() && !info.IsDir() {
		return errorResult(httpcore.StatusPermissionDenied, "Attempted to read an irregular file.")
	}
	if info.IsDir() && !e.cfg.DirListings {
		return errorResult(httpcore.StatusPermissionDenied, "Unable to list this directory.")
	}

	relativePath := strings.TrimPrefix(req.Path, "/")

	var body httpcore.BodySource
	var total int64
	var mime string

	if info.IsDir() {
		if idx, served := e.serveIndexFile(canonical); served {
			body, total, mime = idx.body, idx.total, idx.mime
		} else {
			html, err := e.cfg.Renderer.RenderDirectory(canonical, relativePath, e.cfg.Uploading, e.cfg.NoSlash)
			if err != nil {
				return errorResult(httpcore.StatusServerError, err.Error())
			}
			body = bytes.NewReader([]byte(html))
			total = int64(len(html))
			mime = "text/html"
		}
	} else {
		f, err := os.Open(canonical)
		if err != nil {
			return errorResult(httpcore.StatusServerError, err.Error())
		}
		body = f
		total = info.Size()
		if strings.HasSuffix(req.Path, ".html") {
			mime = "text/html"
		}
	}

	start, length, usedRange, rangeErr := parseRangeHeader(req, total)
	if rangeErr {
		return errorResult(httpcore.StatusBadRequest, "Could not decode Range header")
	}

	status := httpcore.StatusOK
	if usedRange {
		status = httpcore.StatusPartialContent
	}
	resp := httpcore.NewResponse(status, req.Version)
	resp.AddHeader("Server", common.App)
	resp.AddHeader("Accept-Ranges", "bytes")
	resp.SetContentLength(length)

	if usedRange {
		end := start + length - 1
		if end < start {
			end = start
		}
		resp.AddHeader("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, total))
		if _, err := body.Seek(start, io.SeekStart); err != nil {
			return errorResult(httpcore.StatusServerError, err.Error())
		}
	}
	if mime != "" {
		resp.AddHeader("Content-Type", mime)
	}
	resp.AddBody(body)

	return dispatchResult{response: resp, bytesRequested: length}
}

type indexFile struct {
	body  httpcore.BodySource
	total int64
	mime  string
}

// serveIndexFile checks for a configured index filename directly inside
// dir and, if present, opens it to be served in place of a generated
// listing.
func (e *Engine) serveIndexFile(dir string) (indexFile, bool) {
	if e.cfg.IndexFile == "" {
		return indexFile{}, false
	}
	path := filepath.Join(dir, e.cfg.IndexFile)
	info, err := statFile(path)
	if err != nil || !info.Mode().IsRegular() {
		return indexFile{}, false
	}
	f, err := os.Open(path)
	if err != nil {
		return indexFile{}, false
	}
	mime := ""
	if strings.HasSuffix(e.cfg.IndexFile, ".html") {
		mime = "text/html"
	}
	return indexFile{body: f, total: info.Size(), mime: mime}, true
}

func parseRangeHeader(req *httpcore.Request, total int64) (start, length int64, usedRange, malformed bool) {
	value, ok := req.Headers.Get("range")
	if !ok {
		return 0, total, false, false
	}
	cr, ok := decodeContentRange(value)
	if !ok {
		return 0, 0, false, true
	}
	start, length = cr.resolve(total)
	return start, length, true, false
}

// handlePost implements the POST/upload handler. On success it signals
// readBody so the connection transitions to ReadingPostBody instead of
// responding immediately.
func (e *Engine) handlePost(req *httpcore.Request, c *Connection) dispatchResult {
	if !e.cfg.Uploading {
		return errorResult(httpcore.StatusMethodNotAllowed, "This server does not accept POST requests.")
	}

	ct, _ := req.Headers.Get("content-type")
	boundary, ok := postBoundary(ct)
	if !ok {
		display := ct
		if display == "" {
			display = "[ Missing ]"
		}
		return errorResult(httpcore.StatusBadRequest, "Failed to find or parse boundary: "+display)
	}

	canonical, ok, err := resolvePath(e.cfg.RootDir, req.Path)
	if err != nil {
		if status, mapped := statusForFSError(err); mapped {
			return errorResult(status, err.Error())
		}
		return errorResult(httpcore.StatusServerError, err.Error())
	}
	if !ok {
		return errorResult(httpcore.StatusNotFound, "Path disallowed.")
	}

	seed := c.buffer[c.bodyStartOffset:c.bytesRead]
	c.upload = uploadwindow.New(canonical, boundary, seed, e.cfg.UploadSizeLimit)

	return dispatchResult{readBody: true}
}

func errorResult(status httpcore.Status, msg string) dispatchResult {
	return dispatchResult{isError: true, errStatus: status, errMsg: msg}
}

// oneoffResponse synthesizes and immediately writes a status/confirmation
// response — used for every error and the upload-success confirmation.
func (e *Engine) oneoffResponse(c *Connection, status httpcore.Status, msg string) (ConnectionState, error) {
	body, err := e.cfg.Renderer.RenderError(status.Code(), status.Message(), msg)
	if err != nil {
		body = msg
	}

	resp := httpcore.NewResponse(status, httpcore.Version11)
	resp.AddHeader("Server", common.App)
	resp.AddHeader("Connection", connectionHeader(c.keepAlive))
	resp.AddHeader("Content-Type", "text/html")
	resp.SetContentLength(int64(len(body)))
	resp.AddBody(bytes.NewReader([]byte(body)))

	if err := resp.WriteHeaders(c.conn); err != nil {
		return Closing, err
	}

	c.bytesRequested += int64(len(body))
	metricsrv.BytesRequestedTotal.Add(float64(len(body)))
	c.response = resp
	return WritingResponse, nil
}

// writePartialResponse implements the WritingResponse state.
func (e *Engine) writePartialResponse(c *Connection) (ConnectionState, error) {
	if c.response == nil {
		return e.finishResponse(c), nil
	}

	written, err := c.response.WritePartial(c.conn)
	if err != nil {
		return Closing, err
	}
	c.bytesSent += written
	metricsrv.BytesSentTotal.Add(float64(written))

	if written == 0 || c.bytesSent >= c.bytesRequested {
		return e.finishResponse(c), nil
	}
	return WritingResponse, nil
}

func (e *Engine) finishResponse(c *Connection) ConnectionState {
	metricsrv.RequestsTotal.Inc()
	if c.keepAlive {
		c.reset()
		return ReadingRequest
	}
	return Closing
}

// readPostBody implements the ReadingPostBody state. Unlike the initial
// dispatch (logged once, unconditionally, by handleRequest), a history
// line is only published here when this read produces a final outcome —
// logging every intermediate chunk would flood the history with one line
// per socket read of a large upload.
func (e *Engine) readPostBody(c *Connection) (ConnectionState, error) {
	if c.upload == nil {
		state, err := e.oneoffResponse(c, httpcore.StatusServerError,
			"Attempt to read POST contents without a buffer.")
		e.logHistory(c)
		return state, err
	}

	n, err := c.conn.Read(c.upload.OpenSlice())
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Closing, nil
		}
		return Closing, err
	}
	c.bytesReadTotal += int64(n)
	if n == 0 {
		state, err := e.oneoffResponse(c, httpcore.StatusBadRequest,
			"An error occurred while receiving your file.")
		e.logHistory(c)
		return state, err
	}
	c.upload.AdvanceFill(n)

	state, err := e.checkPartialPostBody(c)
	if state != ReadingPostBody {
		e.logHistory(c)
	}
	return state, err
}

// checkPartialPostBody steps the upload parser as far as it can with the
// bytes currently buffered.
func (e *Engine) checkPartialPostBody(c *Connection) (ConnectionState, error) {
	done, err := c.upload.Step()
	if !done {
		return ReadingPostBody, nil
	}
	if err != nil {
		c.keepAlive = false
		status := httpcore.StatusServerError
		if code, ok := c.upload.ErrStatus(); ok && code == httpcore.StatusPayloadTooLarge.Code() {
			status = httpcore.StatusPayloadTooLarge
		}
		return e.oneoffResponse(c, status, fmt.Sprintf("Error while parsing POST request: %s", err))
	}
	return e.oneoffResponse(c, httpcore.StatusCreated, "File received.")
}
