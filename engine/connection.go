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

// Package engine implements the single-threaded, readiness-driven
// connection multiplexer: one Connection per accepted socket, serviced one
// state-machine step at a time by the Engine's select loop.
package engine

import (
	"net"

	"github.com/hypershare/hypershare/common"
	"github.com/hypershare/hypershare/httpcore"
	"github.com/hypershare/hypershare/uploadwindow"
)

// ConnectionState is the per-connection state machine's current phase.
type ConnectionState int

const (
	ReadingRequest ConnectionState = iota
	ReadingPostBody
	WritingResponse
	Closing
)

func (s ConnectionState) String() string {
	switch s {
	case ReadingRequest:
		return "ReadingRequest"
	case ReadingPostBody:
		return "ReadingPostBody"
	case WritingResponse:
		return "WritingResponse"
	case Closing:
		return "Closing"
	default:
		return "Unknown"
	}
}

// Connection is one accepted TCP socket and its state-machine bookkeeping.
type Connection struct {
	conn net.Conn
	fd   int

	state ConnectionState

	buffer          [common.RequestBufferSize]byte
	bytesRead       int
	bodyStartOffset int

	upload   *uploadwindow.Window
	response *httpcore.Response

	keepAlive bool

	bytesRequested int64
	bytesSent      int64
	bytesReadTotal int64
	numRequests    int

	lastMethod httpcore.Method
	lastURI    string
}

func newConnection(c net.Conn, fd int) *Connection {
	return &Connection{
		conn:      c,
		fd:        fd,
		state:     ReadingRequest,
		keepAlive: true,
	}
}

// reset clears per-request state while keeping lifetime counters, in
// preparation for the next request on a keep-alive connection.
func (c *Connection) reset() {
	c.bytesRead = 0
	c.bodyStartOffset = 0
	c.response = nil
	if c.upload != nil {
		c.upload.Close()
		c.upload = nil
	}
}

// Peer returns the remote address string, or "" if it cannot be obtained.
func (c *Connection) Peer() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

// State reports the connection's current state-machine phase.
func (c *Connection) State() ConnectionState {
	return c.state
}

// Snapshot-relevant accessors, used by the dashboard adapter.

func (c *Connection) BytesRequested() int64 { return c.bytesRequested }
func (c *Connection) BytesSent() int64      { return c.bytesSent }
func (c *Connection) BytesRead() int64      { return c.bytesReadTotal }
func (c *Connection) NumRequests() int      { return c.numRequests }
func (c *Connection) LastMethod() string    { return c.lastMethod.String() }
func (c *Connection) LastURI() string       { return c.lastURI }

func (c *Connection) close() {
	if c.upload != nil {
		c.upload.Close()
	}
	_ = c.conn.Close()
}
