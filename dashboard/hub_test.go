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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishSubscribe(t *testing.T) {
	h := NewHub()
	q := h.Subscribe(4)
	h.Publish("hello")

	v, ok := q.PopTimeout(time.Second)
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestHubRecentNewestFirst(t *testing.T) {
	h := NewHub()
	h.Publish("one")
	h.Publish("two")
	h.Publish("three")

	assert.Equal(t, []string{"three", "two", "one"}, h.Recent())
}

func TestControlEventBytes(t *testing.T) {
	assert.Equal(t, byte('t'), ControlToggle.Byte())
	assert.Equal(t, byte('k'), ControlCloseAll.Byte())
	assert.Equal(t, byte('p'), ControlPoke.Byte())
}

func TestTrackerDetectsNewRequest(t *testing.T) {
	now := time.Unix(0, 0)
	tr := NewTracker(func() time.Time { return now })

	advanced := tr.Update([]Snapshot{{Peer: "a", NumRequests: 1}})
	assert.Equal(t, []string{"a"}, advanced)

	advanced = tr.Update([]Snapshot{{Peer: "a", NumRequests: 1}})
	assert.Empty(t, advanced)

	advanced = tr.Update([]Snapshot{{Peer: "a", NumRequests: 2}})
	assert.Equal(t, []string{"a"}, advanced)
}

func TestTrackerEstimatedSpeed(t *testing.T) {
	now := time.Unix(0, 0)
	tr := NewTracker(func() time.Time { return now })
	tr.Update([]Snapshot{{Peer: "a", BytesSent: 0}})

	now = now.Add(time.Second)
	tr.Update([]Snapshot{{Peer: "a", BytesSent: 1000}})
	assert.Greater(t, tr.EstimatedSpeed("a"), 0.0)
}
