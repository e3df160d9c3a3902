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
	"testing"

	"github.com/hypershare/hypershare/confengine"
)

func TestApplyConfigOverlayFillsUnsetFlags(t *testing.T) {
	cfg = rootConfig{Directory: ".", Port: 80, LogLevel: "info"}

	fileCfg, err := confengine.LoadContent([]byte("directory: /srv\nport: 9090\nlogLevel: debug\n"))
	if err != nil {
		t.Fatalf("LoadContent: %v", err)
	}

	if err := applyConfigOverlay(rootCmd, fileCfg); err != nil {
		t.Fatalf("applyConfigOverlay: %v", err)
	}

	if cfg.Directory != "/srv" {
		t.Errorf("Directory = %q, want /srv", cfg.Directory)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestApplyConfigOverlayPreservesExplicitFlag(t *testing.T) {
	cfg = rootConfig{Directory: ".", Port: 80, LogLevel: "info"}
	if err := rootCmd.Flags().Set("port", "8080"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	defer rootCmd.Flags().Set("port", "80")

	fileCfg, err := confengine.LoadContent([]byte("port: 9090\n"))
	if err != nil {
		t.Fatalf("LoadContent: %v", err)
	}

	if err := applyConfigOverlay(rootCmd, fileCfg); err != nil {
		t.Fatalf("applyConfigOverlay: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080 (explicit flag should win)", cfg.Port)
	}
}
