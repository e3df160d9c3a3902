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

package common

const (
	// App is the application name used as the Prometheus metric namespace.
	App = "hypershare"

	// Version is the build-time application version string.
	Version = "v0.1.0"

	// RequestBufferSize is the fixed scratch buffer used to read an
	// incoming request head. Requests whose head exceeds this size are
	// rejected as too large.
	RequestBufferSize = 4096

	// ResponseBufferSize is the single shared buffer size used when
	// streaming a response body to a socket.
	ResponseBufferSize = 512 * 1024

	// UploadWindowSize is the sliding window buffer size used while
	// parsing a streamed multipart/form-data upload body.
	UploadWindowSize = 32 * 1024 * 1024
)
