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

import "time"

type trackedConn struct {
	Snapshot
	speed         Speed
	prevBytesSent int64
	prevUpdate    time.Time
}

// Tracker keeps the speed/novelty bookkeeping a UI needs across ticks: the
// engine's snapshot callback only ever hands over stateless copies, so the
// per-connection rolling averages and "is this a new request" detection
// live here instead.
type Tracker struct {
	conns map[string]*trackedConn
	now   func() time.Time
}

// NewTracker returns an empty Tracker. now defaults to time.Now and is
// overridable so callers can test deterministic speed math.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{conns: make(map[string]*trackedConn), now: now}
}

// Update reconciles the tracker against the current connection set,
// dropping entries no longer present, and returns the peers whose request
// count increased since the last call (i.e. a new request just landed).
func (t *Tracker) Update(snapshots []Snapshot) (advanced []string) {
	seen := make(map[string]bool, len(snapshots))
	for _, snap := range snapshots {
		seen[snap.Peer] = true
		tc, ok := t.conns[snap.Peer]
		if !ok {
			tc = &trackedConn{prevUpdate: t.now()}
			t.conns[snap.Peer] = tc
		}
		if snap.NumRequests > tc.NumRequests {
			advanced = append(advanced, snap.Peer)
		}
		tc.Snapshot = snap
	}
	for peer := range t.conns {
		if !seen[peer] {
			delete(t.conns, peer)
		}
	}
	return advanced
}

// EstimatedSpeed computes and records the current bytes/sec for peer,
// smoothed over the last 3 samples. Returns 0 for an unknown peer; when no
// time has elapsed since the previous call it records no sample and returns
// the current average unchanged.
func (t *Tracker) EstimatedSpeed(peer string) float64 {
	tc, ok := t.conns[peer]
	if !ok {
		return 0
	}
	now := t.now()
	elapsed := now.Sub(tc.prevUpdate)
	tc.prevUpdate = now
	if elapsed <= 0 {
		return tc.speed.Average()
	}
	delta := tc.BytesSent - tc.prevBytesSent
	tc.prevBytesSent = tc.BytesSent
	tc.speed.Update(float64(delta) / elapsed.Seconds())
	return tc.speed.Average()
}

// Snapshots returns the currently tracked connections, in no particular
// order.
func (t *Tracker) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(t.conns))
	for _, tc := range t.conns {
		out = append(out, tc.Snapshot)
	}
	return out
}
