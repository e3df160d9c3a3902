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

package metricsrv

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hypershare/hypershare/common"
)

var (
	// ConnectionsOpen tracks the number of open connections the engine
	// currently owns.
	ConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "connections_open",
			Help:      "Connections currently open",
		},
	)

	// RequestsTotal counts every response the engine has finished
	// writing, error and confirmation pages included.
	RequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "requests_total",
			Help:      "Requests handled total",
		},
	)

	// BytesSentTotal counts response bytes written to sockets.
	BytesSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "bytes_sent_total",
			Help:      "Response bytes written total",
		},
	)

	// BytesRequestedTotal counts the bytes a Response promised to send.
	BytesRequestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "bytes_requested_total",
			Help:      "Response bytes requested total",
		},
	)

	// Uptime reports process uptime in seconds.
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "uptime_seconds",
			Help:      "Uptime in seconds",
		},
	)

	// BuildInfo carries the build version/hash/time as label values.
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version", "git_hash", "build_time"},
	)
)

// RecordUptime sets the Uptime gauge from the process start timestamp.
func RecordUptime() {
	Uptime.Set(float64(time.Now().Unix() - common.Started()))
}

// RecordBuildInfo sets the BuildInfo gauge once for the current build.
func RecordBuildInfo(info common.BuildInfo) {
	BuildInfo.WithLabelValues(info.Version, info.GitHash, info.Time).Set(1)
}
