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

package uploadwindow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(boundary, filename string, content []byte) []byte {
	var b []byte
	b = append(b, []byte("--"+boundary+"\r\n")...)
	b = append(b, []byte(`Content-Disposition: form-data; name="data"; filename="`+filename+`"`+"\r\n\r\n")...)
	b = append(b, content...)
	b = append(b, []byte("\r\n--"+boundary+"--\r\n")...)
	return b
}

func TestWindowUploadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	boundary := "ABC"
	content := []byte("the quick brown fox jumps over the lazy dog")
	body := multipartBody(boundary, "out.bin", content)

	w := New(dir, boundary, body, 0)
	done, err := w.Step()
	require.NoError(t, err)
	require.True(t, done)
	assert.True(t, w.CheckInvariants())

	got, err := os.ReadFile(filepath.Join(dir, "out.bin"))
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestWindowUploadSplitAcrossReads(t *testing.T) {
	dir := t.TempDir()
	boundary := "ABC"
	content := []byte("0123456789abcdefghijklmnopqrstuvwxyz")
	body := multipartBody(boundary, "split.bin", content)

	w := New(dir, boundary, nil, 0)
	var done bool
	var err error
	// Feed one byte at a time, including right through the middle of
	// the boundary string, to exercise shuffle/compaction.
	for i := 0; i < len(body) && !done; i++ {
		n := copy(w.OpenSlice(), body[i:i+1])
		w.AdvanceFill(n)
		done, err = w.Step()
		require.NoError(t, err)
		assert.True(t, w.CheckInvariants())
	}
	require.True(t, done)

	got, rerr := os.ReadFile(filepath.Join(dir, "split.bin"))
	require.NoError(t, rerr)
	assert.Equal(t, content, got)
}

func TestWindowRejectsFilenameWithSlash(t *testing.T) {
	dir := t.TempDir()
	boundary := "ABC"
	body := multipartBody(boundary, "sub/out.bin", []byte("x"))

	w := New(dir, boundary, body, 0)
	done, err := w.Step()
	require.True(t, done)
	require.Error(t, err)
	status, ok := w.ErrStatus()
	require.True(t, ok)
	assert.Equal(t, 500, status)
}

func TestWindowRejectsExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out.bin"), []byte("existing"), 0o644))

	boundary := "ABC"
	body := multipartBody(boundary, "out.bin", []byte("new data"))

	w := New(dir, boundary, body, 0)
	done, err := w.Step()
	require.True(t, done)
	require.Error(t, err)
}

func TestWindowSizeLimitExceeded(t *testing.T) {
	dir := t.TempDir()
	boundary := "ABC"
	content := make([]byte, 100)
	body := multipartBody(boundary, "big.bin", content)

	w := New(dir, boundary, body, 10)
	done, err := w.Step()
	require.True(t, done)
	require.Error(t, err)
	status, ok := w.ErrStatus()
	require.True(t, ok)
	assert.Equal(t, 413, status)
}
