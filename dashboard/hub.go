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

package dashboard

import (
	"sync"

	"github.com/hypershare/hypershare/internal/pubsub"
)

const historyCapacity = 50

// Hub fans a stream of one-line history entries (one per serviced request
// or uncaught OS error) out to zero or more subscribers, and keeps the
// most recent entries so a subscriber that attaches late can catch up.
type Hub struct {
	ps *pubsub.PubSub

	mu      sync.Mutex
	history []string
	idx     int
	filled  bool
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{
		ps:      pubsub.New(),
		history: make([]string, historyCapacity),
	}
}

// Publish records line in the ring and pushes it to every subscriber. The
// engine is the sole producer; this never blocks on a slow subscriber.
func (h *Hub) Publish(line string) {
	h.mu.Lock()
	h.history[h.idx] = line
	h.idx = (h.idx + 1) % historyCapacity
	if h.idx == 0 {
		h.filled = true
	}
	h.mu.Unlock()

	h.ps.Publish(line)
}

// Subscribe returns a queue that receives every subsequently published
// line. bufSize bounds how many unread lines may queue before new ones are
// dropped for that subscriber.
func (h *Hub) Subscribe(bufSize int) pubsub.Queue {
	return h.ps.Subscribe(bufSize)
}

// Unsubscribe detaches a queue previously returned by Subscribe.
func (h *Hub) Unsubscribe(q pubsub.Queue) {
	h.ps.Unsubscribe(q)
}

// Recent returns up to historyCapacity most-recently-published lines,
// newest first.
func (h *Hub) Recent() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.idx
	if h.filled {
		n = historyCapacity
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pos := (h.idx - 1 - i + historyCapacity) % historyCapacity
		if h.history[pos] != "" {
			out = append(out, h.history[pos])
		}
	}
	return out
}

// ControlEvent enumerates the single-byte commands the UI may write to the
// engine's wake-pipe.
type ControlEvent int

const (
	ControlToggle ControlEvent = iota
	ControlCloseAll
	ControlPoke
)

// Byte returns the wake-pipe control byte for this event.
func (c ControlEvent) Byte() byte {
	switch c {
	case ControlToggle:
		return 't'
	case ControlCloseAll:
		return 'k'
	case ControlPoke:
		return 'p'
	default:
		return 'p'
	}
}
