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

import "github.com/hypershare/hypershare/dashboard"

// Renderer produces the HTML bodies the engine serves for directory
// listings and one-off status/error pages. Implemented by the rendering
// package; kept as an interface here so engine does not need to know how
// pages are built.
type Renderer interface {
	RenderDirectory(fsPath, relativePath string, showUploadForm, noSlash bool) (string, error)
	RenderError(code int, reason, message string) (string, error)
}

// Config parameterizes a new Engine. It is assembled by the CLI layer from
// flags/config file and handed to New once.
type Config struct {
	RootDir         string
	DirListings     bool
	Uploading       bool
	StartDisabled   bool
	UploadSizeLimit int64
	IndexFile       string
	NoSlash         bool

	Renderer Renderer
	History  *dashboard.Hub
}
