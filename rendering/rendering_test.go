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

package rendering

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDirectoryListsEntriesAndFoldsMD5(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin.md5sum"), []byte("deadbeef"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	html, err := RenderDirectory(dir, "files", true, false)
	require.NoError(t, err)
	assert.Contains(t, html, "a.bin")
	assert.Contains(t, html, "MD5: deadbeef")
	assert.NotContains(t, html, "a.bin.md5sum<")
	assert.Contains(t, html, "sub")
	assert.Contains(t, html, `enctype="multipart/form-data"`)
	assert.Contains(t, html, `href="/files/..">`)
}

func TestRenderDirectoryTopLevelHasNoUpLink(t *testing.T) {
	dir := t.TempDir()
	html, err := RenderDirectory(dir, "", false, false)
	require.NoError(t, err)
	assert.NotContains(t, html, "Up a directory")
}

func TestRenderError(t *testing.T) {
	html, err := RenderError(404, "Not Found", "Path disallowed.")
	require.NoError(t, err)
	assert.Contains(t, html, "404 Not Found")
	assert.Contains(t, html, "Path disallowed.")
}
