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
	"testing"
)

func TestResolvePathWithinRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	canonical, ok, err := resolvePath(root, "/a.txt")
	if err != nil || !ok {
		t.Fatalf("resolvePath: ok=%v err=%v", ok, err)
	}
	wantRoot, _ := filepath.EvalSymlinks(root)
	if filepath.Dir(canonical) != wantRoot {
		t.Fatalf("canonical=%q not under %q", canonical, wantRoot)
	}
}

func TestResolvePathRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	serveDir := filepath.Join(root, "served")
	if err := os.Mkdir(serveDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "secret.txt"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, ok, err := resolvePath(serveDir, "/../secret.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected traversal to be rejected")
	}
}

func TestResolvePathMissing(t *testing.T) {
	root := t.TempDir()
	_, ok, err := resolvePath(root, "/does-not-exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected missing path to report ok=false")
	}
}

func TestResolvePathPermissionDenied(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permission bits")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	if err := os.Mkdir(locked, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(locked, "f.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(locked, 0o755)

	_, ok, err := resolvePath(root, "/locked/f.txt")
	if ok {
		t.Fatal("expected permission-denied path to report ok=false")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected a wrapped fs.ErrPermission, got %v", err)
	}
}

func TestStatusForFSError(t *testing.T) {
	if status, ok := statusForFSError(fs.ErrNotExist); !ok || status.Code() != 404 {
		t.Fatalf("ErrNotExist: status=%v ok=%v", status, ok)
	}
	if status, ok := statusForFSError(fs.ErrPermission); !ok || status.Code() != 403 {
		t.Fatalf("ErrPermission: status=%v ok=%v", status, ok)
	}
	if _, ok := statusForFSError(errors.New("boom")); ok {
		t.Fatal("expected unmapped error to report ok=false")
	}
}
