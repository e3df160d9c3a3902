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

// Package metricsrv exposes a small HTTP server carrying Prometheus
// metrics and pprof profiling, independent from the engine's own
// readiness-driven socket loop.
package metricsrv

import (
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hypershare/hypershare/hlog"
)

// Server wraps an ordinary net/http server. A nil *Server is valid and
// ListenAndServe on it is a no-op, as it is for a Server built with an
// empty address, so callers can construct one unconditionally.
type Server struct {
	addr   string
	pprof  bool
	router *mux.Router
	server *http.Server
}

// New builds a Server bound to addr. If addr is empty the server is
// disabled and ListenAndServe returns nil immediately.
func New(addr string, enablePprof bool) *Server {
	router := mux.NewRouter()
	s := &Server{
		addr:   addr,
		pprof:  enablePprof,
		router: router,
		server: &http.Server{Handler: router},
	}
	router.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.Handler())
	if enablePprof {
		s.registerPprofRoutes()
	}
	return s
}

// ListenAndServe blocks serving the metrics/pprof endpoints. It returns
// nil without listening when the server was constructed with an empty
// address.
func (s *Server) ListenAndServe() error {
	if s == nil || s.addr == "" {
		return nil
	}

	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	hlog.Infof("metrics server listening on %s", s.addr)
	return s.server.Serve(l)
}

func (s *Server) registerPprofRoutes() {
	s.router.Methods(http.MethodGet).Path("/debug/pprof/cmdline").HandlerFunc(pprof.Cmdline)
	s.router.Methods(http.MethodGet).Path("/debug/pprof/profile").HandlerFunc(pprof.Profile)
	s.router.Methods(http.MethodGet).Path("/debug/pprof/symbol").HandlerFunc(pprof.Symbol)
	s.router.Methods(http.MethodGet).Path("/debug/pprof/trace").HandlerFunc(pprof.Trace)
	s.router.Methods(http.MethodGet).Path("/debug/pprof/{other}").HandlerFunc(pprof.Index)
}
