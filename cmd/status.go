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

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hypershare/hypershare/dashboard"
)

const historyLogLines = 10

// history mirrors a Hub's live stream into a bounded, lock-guarded tail
// the status printer can read without blocking the subscriber goroutine.
type history struct {
	mu    sync.Mutex
	lines []string
}

func (h *history) append(line string) {
	h.mu.Lock()
	h.lines = append(h.lines, line)
	if len(h.lines) > historyLogLines {
		h.lines = h.lines[len(h.lines)-historyLogLines:]
	}
	h.mu.Unlock()
}

func (h *history) tail() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

// runDashboard is the UI-side collaborator the core's multiplexer expects:
// a subscriber goroutine draining the history hub's MPSC-style queue, a
// ticking status-line printer, and a keystroke reader writing control
// bytes to the wake-pipe. It is deliberately not a full terminal UI — no
// such widget library exists anywhere in the pack to build one from.
func runDashboard(brd *board, hub *dashboard.Hub, wakeWrite *os.File, tick time.Duration) {
	if tick <= 0 {
		tick = 500 * time.Millisecond
	}

	hist := &history{lines: append([]string(nil), hub.Recent()...)}
	go drainHistory(hub, hist)
	go readKeystrokes(wakeWrite)

	tracker := dashboard.NewTracker(nil)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for range ticker.C {
		snapshots := brd.get()
		tracker.Update(snapshots)
		printStatus(snapshots, tracker, hist.tail())
	}
}

// drainHistory subscribes to hub and appends every line it sees to hist,
// blocking in short PopTimeout waits rather than busy-polling. It never
// returns in normal operation; the subscription is released on process
// exit along with everything else.
func drainHistory(hub *dashboard.Hub, hist *history) {
	q := hub.Subscribe(64)
	defer hub.Unsubscribe(q)

	for {
		v, ok := q.PopTimeout(time.Second)
		if !ok {
			continue
		}
		if line, ok := v.(string); ok {
			hist.append(line)
		}
	}
}

func printStatus(snapshots []dashboard.Snapshot, tracker *dashboard.Tracker, recent []string) {
	fmt.Printf("\n--- %d connection(s) open ---\n", len(snapshots))
	for _, s := range snapshots {
		speed := tracker.EstimatedSpeed(s.Peer)
		fmt.Printf("%-22s %-16s %8.1f KB/s  reqs=%-4d  last=%s %s\n",
			s.Peer, s.State, speed/1024, s.NumRequests, s.LastMethod, s.LastURI)
	}
	if len(recent) > 0 {
		fmt.Println("--- recent requests ---")
		for _, line := range recent {
			fmt.Println(line)
		}
	}
}

// readKeystrokes translates single-character commands typed on stdin into
// wake-pipe control bytes: 't' toggles accept/reject, 'k' closes every
// open connection. Any read error or EOF ends the reader silently; the
// server keeps running headless-of-input at that point.
func readKeystrokes(wakeWrite *os.File) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		var evt dashboard.ControlEvent
		switch line {
		case "t":
			evt = dashboard.ControlToggle
		case "k":
			evt = dashboard.ControlCloseAll
		default:
			continue
		}
		if _, err := wakeWrite.Write([]byte{evt.Byte()}); err != nil {
			return
		}
	}
}
