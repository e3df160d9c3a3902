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

package splitio

type Reader struct {
	r, w    int
	b       []byte
	scanner *Scanner
}

// NewReader creates and returns a *Reader over b, tracking how much of it
// has been consumed via ReadLine.
//
// Each returned line keeps its trailing "\r\n" or "\n" attached. This is
// faster than *bufio.Reader for a buffer already held in memory (see the
// Benchmark functions in reader_test.go) because it never copies buf's contents — the
// 4KiB request-head scratch buffer parsed line-by-line in httpcore is
// exactly this shape: fully buffered, read once per request.
func NewReader(b []byte) *Reader {
	return &Reader{
		w:       len(b),
		b:       b,
		scanner: NewScanner(b),
	}
}

// ReadLine returns the next line, or (nil, true) once the buffer is
// exhausted.
func (lr *Reader) ReadLine() ([]byte, bool) {
	if !lr.scanner.Scan() {
		return nil, true // EOF
	}

	b := lr.scanner.Bytes()
	lr.r += len(b)
	return b, false
}

// EOF reports whether every byte in the buffer has been consumed.
func (lr *Reader) EOF() bool {
	return lr.r >= lr.w
}
