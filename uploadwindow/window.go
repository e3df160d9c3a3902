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

// Package uploadwindow implements a streaming multipart/form-data parser
// over a sliding window buffer, so an upload body of any size can be
// written to disk without ever holding the whole request in memory.
package uploadwindow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/hypershare/hypershare/common"
	"github.com/hypershare/hypershare/internal/bytematch"
)

type state int

const (
	stateAwaitingFirstBody state = iota
	stateAwaitingMeta
	stateAwaitingBody
	stateDiscardingData
)

// Window is a streaming multipart parser. The caller feeds it bytes via
// OpenSlice/AdvanceFill (typically straight from a socket read) and
// drives it forward with Step until it reports completion or a queued
// error.
type Window struct {
	buffer   []byte
	fillLoc  int
	parseIdx int

	delim    *bytematch.Matcher
	delimStr string

	currentFile *os.File
	state       state
	dir         string

	queuedErr    *multierror.Error
	queuedStatus queuedStatus

	sizeLimit int64
	consumed  int64
}

type queuedStatus int

const (
	queuedStatusServerError queuedStatus = iota
	queuedStatusPayloadTooLarge
)

// New creates a Window rooted at dir for a multipart body delimited by
// boundary (without the leading "--"). seed is the slice of body bytes
// already read past the request's header terminator; it seeds the
// window so no bytes are lost. sizeLimit of 0 means unlimited.
func New(dir, boundary string, seed []byte, sizeLimit int64) *Window {
	real := "--" + boundary
	w := &Window{
		buffer:    make([]byte, common.UploadWindowSize),
		delim:     bytematch.New(real),
		delimStr:  real,
		dir:       dir,
		sizeLimit: sizeLimit,
		consumed:  int64(len(seed)),
	}
	w.fillLoc = copy(w.buffer, seed)
	return w
}

// OpenSlice returns the tail window the caller should read() into.
func (w *Window) OpenSlice() []byte {
	return w.buffer[w.fillLoc:]
}

// AdvanceFill commits n freshly read bytes at the tail of the window.
func (w *Window) AdvanceFill(n int) {
	w.fillLoc += n
	w.consumed += int64(n)
}

func (w *Window) queuedError() error {
	if w.queuedErr == nil {
		return nil
	}
	return w.queuedErr
}

// Close releases the currently open output file, if any. Callers must
// invoke this when evicting a connection mid-upload so a partially
// written file is not left open.
func (w *Window) Close() {
	if w.currentFile != nil {
		w.currentFile.Close()
		w.currentFile = nil
	}
}

// CheckInvariants reports whether the window's internal bookkeeping
// still satisfies 0 <= parseIdx <= fillLoc <= capacity, and that a file
// is open whenever the parser is in AwaitingBody.
func (w *Window) CheckInvariants() bool {
	if w.parseIdx < 0 || w.parseIdx > w.fillLoc || w.fillLoc > len(w.buffer) {
		return false
	}
	if w.state == stateAwaitingBody && w.currentFile == nil {
		return false
	}
	return true
}

// ErrStatus returns the status that should be sent for a queued error.
// Only meaningful once Step has returned a non-nil error.
func (w *Window) ErrStatus() (status int, ok bool) {
	if w.queuedErr == nil {
		return 0, false
	}
	if w.queuedStatus == queuedStatusPayloadTooLarge {
		return 413, true
	}
	return 500, true
}

func (w *Window) addQueuedError(reason string) {
	w.queuedErr = multierror.Append(w.queuedErr, fmt.Errorf("%s", reason))
	w.state = stateDiscardingData
}

// Step advances the parser as far as it can with the bytes currently in
// the window. It returns done=true when the upload has either completed
// successfully or finished draining after a queued error (in which case
// err is non-nil, carrying every reason accumulated along the way).
func (w *Window) Step() (done bool, err error) {
	for {
		if w.sizeLimit > 0 && w.consumed > w.sizeLimit && w.state != stateDiscardingData {
			w.queuedStatus = queuedStatusPayloadTooLarge
			w.addQueuedError(fmt.Sprintf("upload exceeds configured size limit of %d bytes", w.sizeLimit))
		}

		switch w.state {
		case stateDiscardingData:
			newIdx, found := w.findNextDelim(w.parseIdx)
			if !found {
				w.shuffle(len(w.delimStr))
				return false, nil
			}
			newIdx += len(w.delimStr)
			if w.fillLoc-newIdx < 2 {
				w.shuffle(len(w.delimStr) + 2)
				return false, nil
			}
			if w.buffer[newIdx] == '-' && w.buffer[newIdx+1] == '-' {
				return true, w.queuedError()
			}
			w.parseIdx = newIdx

		case stateAwaitingFirstBody:
			newIdx, found := w.findNextDelim(w.parseIdx)
			if !found {
				return false, nil
			}
			newIdx += len(w.delimStr)
			if w.fillLoc-newIdx < 2 {
				return false, nil
			}
			if w.buffer[newIdx] == '-' && w.buffer[newIdx+1] == '-' {
				return true, nil
			}
			w.parseIdx = newIdx + 2 // skip \r\n
			w.state = stateAwaitingMeta

		case stateAwaitingBody:
			end, found := w.findNextDelim(w.parseIdx)
			if !found {
				if qerr := w.sendBufferDataToFile(w.fillLoc); qerr != nil {
					w.addQueuedError(qerr.Error())
					continue
				}
				return false, nil
			}
			if end < 2 {
				w.addQueuedError("no CRLF before delimiter: malformed request")
				continue
			}
			end -= 2
			if qerr := w.writeToFileFinal(end); qerr != nil {
				w.addQueuedError(qerr.Error())
				continue
			}
			w.state = stateAwaitingFirstBody

		case stateAwaitingMeta:
			bodyStart, found := findBodyStart(w.buffer[w.parseIdx:w.fillLoc])
			if !found {
				return false, nil
			}
			bodyStart += w.parseIdx

			filename, ferr := parseFilename(w.buffer[w.parseIdx:bodyStart])
			if ferr != nil {
				w.addQueuedError(ferr.Error())
				continue
			}

			f, oerr := openUploadFile(w.dir, filename)
			if oerr != nil {
				w.addQueuedError(oerr.Error())
				continue
			}
			w.currentFile = f
			w.state = stateAwaitingBody
			w.parseIdx = bodyStart
		}
	}
}

func (w *Window) findNextDelim(start int) (int, bool) {
	idx := w.delim.Index(w.buffer[start:w.fillLoc])
	if idx < 0 {
		return 0, false
	}
	return idx + start, true
}

// shuffle compacts the window, keeping the trailing remain bytes as the
// new prefix. The source and destination ranges can overlap, so this
// uses Go's builtin copy (a safe, overlap-correct memmove) rather than
// any unsafe pointer trick.
func (w *Window) shuffle(remain int) {
	start := w.fillLoc - remain
	if start < 0 {
		start = 0
		remain = w.fillLoc
	}
	copy(w.buffer[:remain], w.buffer[start:w.fillLoc])
	w.parseIdx = 0
	w.fillLoc = remain
}

func (w *Window) writeAndShuffle(upTo int) error {
	if upTo <= w.parseIdx {
		return nil
	}
	n, err := w.currentFile.Write(w.buffer[w.parseIdx:upTo])
	if err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}
	w.parseIdx += n
	w.shuffle(w.fillLoc - w.parseIdx)
	return nil
}

func (w *Window) sendBufferDataToFile(limit int) error {
	if w.currentFile == nil {
		return fmt.Errorf("attempted to write to a file before opening it")
	}
	// Hold back the delimiter length plus the CRLF that precedes it, so a
	// delimiter split across reads is never partly flushed to the file.
	keep := len(w.delimStr) + 2
	if limit < keep {
		return nil
	}
	return w.writeAndShuffle(limit - keep)
}

func (w *Window) writeToFileFinal(limit int) error {
	if w.currentFile == nil {
		return fmt.Errorf("attempted to write to a file before opening it")
	}
	if w.fillLoc < limit {
		return fmt.Errorf("asked to write more than available")
	}
	if err := w.writeAndShuffle(limit); err != nil {
		return err
	}
	w.currentFile.Close()
	w.currentFile = nil
	return nil
}

// findBodyStart locates the blank line ending a multipart part's headers
// and returns the offset just past it.
func findBodyStart(buf []byte) (int, bool) {
	idx := bytematch.Index(buf, "\r\n\r\n")
	if idx < 0 {
		return 0, false
	}
	return idx + 4, true
}

func parseFilename(meta []byte) (string, error) {
	var disposition string
	for _, line := range strings.Split(string(meta), "\r\n") {
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		if strings.ToLower(strings.TrimSpace(line[:idx])) == "content-disposition" {
			disposition = line[idx+1:]
			break
		}
	}
	if disposition == "" {
		return "", fmt.Errorf("did not receive a Content-Disposition header")
	}

	var filename string
	for _, kv := range strings.Split(disposition, ";") {
		idx := strings.IndexByte(kv, '=')
		if idx < 0 {
			continue
		}
		if strings.TrimSpace(kv[:idx]) == "filename" {
			filename = strings.TrimSpace(kv[idx+1:])
			break
		}
	}
	if filename == "" {
		return "", fmt.Errorf("could not find a filename attribute")
	}
	if strings.HasPrefix(filename, `"`) && strings.HasSuffix(filename, `"`) && len(filename) >= 2 {
		filename = filename[1 : len(filename)-1]
	}
	if strings.Contains(filename, "/") {
		return "", fmt.Errorf("invalid filename: %s", filename)
	}
	return filename, nil
}

func openUploadFile(dir, filename string) (*os.File, error) {
	path := filepath.Join(dir, filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open file for writing: %w", err)
	}
	return f, nil
}
