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
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hypershare/hypershare/httpcore"
)

// resolvePath joins the percent-decoded request path onto root, stripping
// a single leading slash, and canonicalizes the result. It never reveals
// whether a path outside root exists: any traversal that escapes root
// surfaces as a plain NotFound via the ok=false return, exactly like a
// genuinely missing path. A canonicalize-time permission error is
// distinct from both: it is returned as err so the caller maps it to 403
// via statusForFSError rather than folding it into the 404 ok=false case.
func resolvePath(root, requestPath string) (canonical string, ok bool, err error) {
	normalized := strings.TrimPrefix(requestPath, "/")
	joined := filepath.Join(root, normalized)

	resolved, statErr := filepath.EvalSymlinks(joined)
	if statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, statErr
	}

	rootResolved, rootErr := filepath.EvalSymlinks(root)
	if rootErr != nil {
		return "", false, rootErr
	}

	if resolved != rootResolved && !strings.HasPrefix(resolved, rootResolved+string(filepath.Separator)) {
		return "", false, nil
	}
	return resolved, true, nil
}

// statusForFSError maps a filesystem error to the HTTP status it should
// become, or (0, false) if it should instead surface as an internal (500)
// error.
func statusForFSError(err error) (httpcore.Status, bool) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return httpcore.StatusNotFound, true
	case errors.Is(err, fs.ErrPermission):
		return httpcore.StatusPermissionDenied, true
	default:
		return 0, false
	}
}

func statFile(path string) (os.FileInfo, error) {
	return os.Stat(path)
}
