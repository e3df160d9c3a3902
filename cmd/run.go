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
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hypershare/hypershare/common"
	"github.com/hypershare/hypershare/dashboard"
	"github.com/hypershare/hypershare/engine"
	"github.com/hypershare/hypershare/hlog"
	"github.com/hypershare/hypershare/internal/sigs"
	"github.com/hypershare/hypershare/metricsrv"
)

// board is a mutex-guarded holding pen for the engine's latest connection
// snapshot. The engine only ever holds the lock for the copy itself,
// matching the snapshot-callback contract the dashboard adapter promises.
type board struct {
	mu   sync.Mutex
	snap []dashboard.Snapshot
}

func (b *board) set(s []dashboard.Snapshot) {
	b.mu.Lock()
	b.snap = s
	b.mu.Unlock()
}

func (b *board) get() []dashboard.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]dashboard.Snapshot, len(b.snap))
	copy(out, b.snap)
	return out
}

func run(cfg rootConfig) error {
	root, err := filepath.Abs(cfg.Directory)
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	indexFile := cfg.IndexFile
	if cfg.NoIndexFile {
		indexFile = ""
	}

	hub := dashboard.NewHub()
	engCfg := engine.Config{
		RootDir:         root,
		DirListings:     !cfg.NoDirs,
		Uploading:       cfg.Upload,
		StartDisabled:   cfg.StartDisabled,
		UploadSizeLimit: cfg.UploadSizeLimit,
		IndexFile:       indexFile,
		NoSlash:         cfg.NoSlash,
		Renderer:        htmlRenderer{},
		History:         hub,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Hostmask, cfg.Port)
	eng, wakeWrite, err := engine.New(engCfg, addr)
	if err != nil {
		return fmt.Errorf("start engine: %w", err)
	}

	ms := metricsrv.New(cfg.MetricsAddr, true)
	metricsrv.RecordBuildInfo(common.GetBuildInfo())
	go func() {
		if err := ms.ListenAndServe(); err != nil {
			hlog.Errorf("metrics server stopped: %v", err)
		}
	}()
	go uptimeLoop()

	var brd board
	if !cfg.Headless {
		go runDashboard(&brd, hub, wakeWrite, time.Duration(cfg.UIRefreshRateMS)*time.Millisecond)
	}

	engDone := make(chan error, 1)
	go func() {
		engDone <- eng.Run(func(s []dashboard.Snapshot) {
			brd.set(s)
		})
	}()

	hlog.Infof("hypershare listening on %s, serving %s", addr, root)

	select {
	case <-sigs.Terminate():
		_ = wakeWrite.Close()
		return <-engDone
	case err := <-engDone:
		return err
	}
}

func uptimeLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		metricsrv.RecordUptime()
	}
}
