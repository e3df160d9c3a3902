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

// Package dashboard holds the read-only display-side records the engine
// hands to a UI: per-connection snapshots and a history fan-out hub. None
// of this package ever holds a live reference into engine state.
package dashboard

// Snapshot is an immutable copy of one connection's display-relevant
// fields, taken by the engine's per-iteration callback.
type Snapshot struct {
	Peer           string
	State          string
	BytesSent      int64
	BytesRequested int64
	BytesRead      int64
	NumRequests    int
	LastMethod     string
	LastURI        string
}
