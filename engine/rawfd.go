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
	"fmt"
	"syscall"
)

// rawFD extracts the OS file descriptor backing c without duplicating it
// or flipping its blocking mode, so the connection keeps using Go's
// ordinary net.Conn Read/Write even though the engine also watches its fd
// with select.
func rawFD(c syscall.Conn) (int, error) {
	raw, err := c.SyscallConn()
	if err != nil {
		return -1, fmt.Errorf("engine: obtain raw conn: %w", err)
	}

	var fd int
	ctrlErr := raw.Control(func(f uintptr) { fd = int(f) })
	if ctrlErr != nil {
		return -1, fmt.Errorf("engine: control raw conn: %w", ctrlErr)
	}
	return fd, nil
}
