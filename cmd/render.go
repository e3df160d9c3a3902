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

package cmd

import "github.com/hypershare/hypershare/rendering"

// htmlRenderer satisfies engine.Renderer by delegating to the package-level
// rendering functions; the engine only ever needs one instance of it.
type htmlRenderer struct{}

func (htmlRenderer) RenderDirectory(fsPath, relativePath string, showUploadForm, noSlash bool) (string, error) {
	return rendering.RenderDirectory(fsPath, relativePath, showUploadForm, noSlash)
}

func (htmlRenderer) RenderError(code int, reason, message string) (string, error) {
	return rendering.RenderError(code, reason, message)
}
