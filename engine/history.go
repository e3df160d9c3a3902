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

import "fmt"

// logHistory publishes one formatted line describing the connection's
// most recently serviced request to the history hub, if one is
// configured.
func (e *Engine) logHistory(c *Connection) {
	if e.cfg.History == nil {
		return
	}

	codeStr := "   "
	if c.response != nil {
		codeStr = fmt.Sprintf("%d", c.response.Status().Code())
	}
	method := "???"
	if c.lastMethod != 0 {
		method = c.lastMethod.String()
	}
	path := c.lastURI
	if path == "" {
		path = "[No path...]"
	}

	e.cfg.History.Publish(fmt.Sprintf("%-22s %s %-4s %s", c.Peer(), codeStr, method, path))
}

// logOSError publishes an uncaught-OS-error line to the history hub.
func (e *Engine) logOSError(err error) {
	if e.cfg.History == nil {
		return
	}
	e.cfg.History.Publish(fmt.Sprintf("Uncaught OS error while handling connection: %s", err))
}
