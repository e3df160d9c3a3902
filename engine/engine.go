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
	"fmt"
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/hypershare/hypershare/dashboard"
	"github.com/hypershare/hypershare/internal/rescue"
	"github.com/hypershare/hypershare/metricsrv"
)

// Engine is the single-threaded, readiness-driven connection multiplexer.
// All of its state is touched exclusively from the goroutine running Run.
type Engine struct {
	cfg Config

	listener   *net.TCPListener
	listenerFD int

	wakeRead   *os.File
	wakeReadFD int

	disabled bool

	conns map[int]*Connection
}

// New binds addr and returns an Engine plus the write end of its
// wake-pipe, which the caller (CLI layer) uses to send control bytes and
// to signal shutdown by closing it.
func New(cfg Config, addr string) (*Engine, *os.File, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("engine: listen: %w", err)
	}
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		ln.Close()
		return nil, nil, errors.New("engine: listener is not a TCP listener")
	}
	lfd, err := rawFD(tcpLn)
	if err != nil {
		tcpLn.Close()
		return nil, nil, err
	}

	wakeRead, wakeWrite, err := os.Pipe()
	if err != nil {
		tcpLn.Close()
		return nil, nil, fmt.Errorf("engine: create wake pipe: %w", err)
	}
	wfd, err := rawFD(wakeRead)
	if err != nil {
		tcpLn.Close()
		wakeRead.Close()
		wakeWrite.Close()
		return nil, nil, err
	}

	e := &Engine{
		cfg:        cfg,
		listener:   tcpLn,
		listenerFD: lfd,
		wakeRead:   wakeRead,
		wakeReadFD: wfd,
		disabled:   cfg.StartDisabled,
		conns:      make(map[int]*Connection),
	}
	return e, wakeWrite, nil
}

// Snapshot returns a read-only view of every currently tracked connection.
func (e *Engine) Snapshot() []dashboard.Snapshot {
	out := make([]dashboard.Snapshot, 0, len(e.conns))
	for _, c := range e.conns {
		out = append(out, dashboard.Snapshot{
			Peer:           c.Peer(),
			State:          c.State().String(),
			BytesSent:      c.BytesSent(),
			BytesRequested: c.BytesRequested(),
			BytesRead:      c.BytesRead(),
			NumRequests:    c.NumRequests(),
			LastMethod:     c.LastMethod(),
			LastURI:        c.LastURI(),
		})
	}
	return out
}

// Run drives the select loop until the wake-pipe closes or errors.
// snapshotFn, if non-nil, is invoked once per iteration with the current
// connection snapshot.
func (e *Engine) Run(snapshotFn func([]dashboard.Snapshot)) error {
	defer e.listener.Close()
	defer e.wakeRead.Close()

	for {
		var rFDs, wFDs, eFDs unix.FdSet
		fdSet(&rFDs, e.listenerFD)
		fdSet(&eFDs, e.listenerFD)
		fdSet(&rFDs, e.wakeReadFD)
		fdSet(&eFDs, e.wakeReadFD)

		for fd, c := range e.conns {
			switch c.state {
			case WritingResponse:
				fdSet(&wFDs, fd)
			case ReadingRequest, ReadingPostBody:
				fdSet(&rFDs, fd)
			}
			fdSet(&eFDs, fd)
		}

		nfd := maxInt(fdHighest(&rFDs), maxInt(fdHighest(&wFDs), fdHighest(&eFDs))) + 1
		if _, err := unix.Select(nfd, &rFDs, &wFDs, &eFDs, nil); err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("engine: select: %w", err)
		}

		forceClose := false
		terminate := false

		if highest := fdHighest(&rFDs); highest >= 0 {
			for fd := 0; fd <= highest; fd++ {
				if !fdIsSet(&rFDs, fd) {
					continue
				}
				switch fd {
				case e.wakeReadFD:
					done, close := e.handleWakePipe()
					if done {
						terminate = true
					}
					if close {
						forceClose = true
					}
				case e.listenerFD:
					e.acceptConn()
				default:
					e.serviceConn(fd)
				}
			}
		}
		if terminate {
			e.evictAll()
			return nil
		}

		if highest := fdHighest(&wFDs); highest >= 0 {
			for fd := 0; fd <= highest; fd++ {
				if fd == e.listenerFD || fd == e.wakeReadFD || !fdIsSet(&wFDs, fd) {
					continue
				}
				e.serviceConn(fd)
			}
		}

		if highest := fdHighest(&eFDs); highest >= 0 {
			for fd := 0; fd <= highest; fd++ {
				if !fdIsSet(&eFDs, fd) {
					continue
				}
				if fd == e.wakeReadFD || fd == e.listenerFD {
					return fmt.Errorf("engine: listener or wake-pipe reported an error")
				}
				if _, ok := e.conns[fd]; ok {
					e.evictConn(fd)
				}
			}
		}

		for fd, c := range e.conns {
			if c.state == Closing || forceClose {
				e.evictConn(fd)
			}
		}

		if snapshotFn != nil {
			snapshotFn(e.Snapshot())
		}
	}
}

// handleWakePipe consumes one control byte. done signals loop
// termination (EOF/error); closeAll signals a force-close-everything
// request for this iteration.
func (e *Engine) handleWakePipe() (done, closeAll bool) {
	var buf [1]byte
	n, err := syscall.Read(e.wakeReadFD, buf[:])
	if err != nil || n == 0 {
		return true, false
	}
	switch buf[0] {
	case dashboard.ControlToggle.Byte():
		e.disabled = !e.disabled
	case dashboard.ControlCloseAll.Byte():
		closeAll = true
	case dashboard.ControlPoke.Byte():
		// No state change; exists purely to force a snapshot tick.
	}
	return false, closeAll
}

func (e *Engine) acceptConn() {
	conn, err := e.listener.Accept()
	if err != nil {
		return
	}
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		conn.Close()
		return
	}
	fd, err := rawFD(tcpConn)
	if err != nil {
		conn.Close()
		return
	}
	metricsrv.ConnectionsOpen.Inc()
	e.conns[fd] = newConnection(tcpConn, fd)
	// The new connection is not serviced until data is actually ready for
	// it on a later iteration.
}

func (e *Engine) serviceConn(fd int) {
	c, ok := e.conns[fd]
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			for _, fn := range rescue.PanicHandlers {
				fn(r)
			}
			c.state = Closing
		}
	}()

	next, err := e.advance(c)
	if err != nil {
		c.state = Closing
		if isSwallowedNetError(err) {
			return
		}
		e.logOSError(err)
		return
	}
	c.state = next
}

// advance runs exactly one state-machine step for c, translating the
// literal ConnectionState transitions of the per-connection design into a
// single dispatch here. Unlike the original's io::Error-returning
// handle_conn, each read/write helper below returns its genuine socket
// error (nil on a plain EOF) instead of swallowing it, so serviceConn's
// isSwallowedNetError/logOSError classification actually runs.
func (e *Engine) advance(c *Connection) (ConnectionState, error) {
	switch c.state {
	case ReadingRequest:
		return e.readRequest(c)
	case ReadingPostBody:
		return e.readPostBody(c)
	case WritingResponse:
		return e.writePartialResponse(c)
	default:
		return Closing, nil
	}
}

func isSwallowedNetError(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED)
}

func (e *Engine) evictConn(fd int) {
	if c, ok := e.conns[fd]; ok {
		c.close()
		delete(e.conns, fd)
		metricsrv.ConnectionsOpen.Dec()
	}
}

func (e *Engine) evictAll() {
	for fd := range e.conns {
		e.evictConn(fd)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
