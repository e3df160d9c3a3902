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

// Package cmd wires the CLI surface together: flag parsing, config-file
// overlay, logger setup, and the engine/dashboard/metrics assembly.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hypershare/hypershare/confengine"
	"github.com/hypershare/hypershare/hlog"
)

type rootConfig struct {
	Directory       string `config:"directory"`
	Port            int    `config:"port"`
	Hostmask        string `config:"hostmask"`
	Upload          bool   `config:"upload"`
	NoDirs          bool   `config:"nodirs"`
	StartDisabled   bool   `config:"startDisabled"`
	UIRefreshRateMS int    `config:"uiRefreshRate"`
	Headless        bool   `config:"headless"`
	UploadSizeLimit int64  `config:"uploadSizeLimit"`
	IndexFile       string `config:"indexFile"`
	NoIndexFile     bool   `config:"noIndexFile"`
	NoSlash         bool   `config:"noSlash"`

	LogFile       string `config:"logFile"`
	LogLevel      string `config:"logLevel"`
	LogMaxSizeMB  int    `config:"logMaxSizeMB"`
	LogMaxBackups int    `config:"logMaxBackups"`
	LogMaxAgeDays int    `config:"logMaxAgeDays"`
	ConfigFile    string `config:"-"`
	MetricsAddr   string `config:"metricsAddr"`
}

var cfg rootConfig

var rootCmd = &cobra.Command{
	Use:   "hypershare",
	Short: "Single-process readiness-driven HTTP file server",
	Long: "hypershare serves a directory tree over HTTP/1.x using a single-threaded, " +
		"select-driven connection multiplexer, with an optional multipart/form-data " +
		"upload endpoint and a terminal status dashboard.",
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.ConfigFile != "" {
			fileCfg, err := confengine.LoadConfigPath(cfg.ConfigFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
				os.Exit(1)
			}
			if err := applyConfigOverlay(cmd, fileCfg); err != nil {
				fmt.Fprintf(os.Stderr, "failed to apply config: %v\n", err)
				os.Exit(1)
			}
		}

		hlog.SetOptions(hlog.Options{
			Stdout:     cfg.LogFile == "",
			Level:      cfg.LogLevel,
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
		})

		if err := run(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "hypershare: %v\n", err)
			os.Exit(1)
		}
	},
	Example: "# hypershare --directory ./share --port 8080 --upload",
}

// applyConfigOverlay unpacks fileCfg onto a copy of cfg and then writes
// back only the fields whose flag was not explicitly set on the command
// line, so an explicit flag always beats the config file.
func applyConfigOverlay(cmd *cobra.Command, fileCfg *confengine.Config) error {
	merged := cfg
	if err := fileCfg.Unpack(&merged); err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("directory") {
		cfg.Directory = merged.Directory
	}
	if !flags.Changed("port") {
		cfg.Port = merged.Port
	}
	if !flags.Changed("hostmask") {
		cfg.Hostmask = merged.Hostmask
	}
	if !flags.Changed("upload") {
		cfg.Upload = merged.Upload
	}
	if !flags.Changed("nodirs") {
		cfg.NoDirs = merged.NoDirs
	}
	if !flags.Changed("start-disabled") {
		cfg.StartDisabled = merged.StartDisabled
	}
	if !flags.Changed("ui-refresh-rate") {
		cfg.UIRefreshRateMS = merged.UIRefreshRateMS
	}
	if !flags.Changed("headless") {
		cfg.Headless = merged.Headless
	}
	if !flags.Changed("upload-size-limit") {
		cfg.UploadSizeLimit = merged.UploadSizeLimit
	}
	if !flags.Changed("index-file") {
		cfg.IndexFile = merged.IndexFile
	}
	if !flags.Changed("no-index-file") {
		cfg.NoIndexFile = merged.NoIndexFile
	}
	if !flags.Changed("no-slash") {
		cfg.NoSlash = merged.NoSlash
	}
	if !flags.Changed("log-file") {
		cfg.LogFile = merged.LogFile
	}
	if !flags.Changed("log-level") {
		cfg.LogLevel = merged.LogLevel
	}
	if !flags.Changed("log-max-size-mb") {
		cfg.LogMaxSizeMB = merged.LogMaxSizeMB
	}
	if !flags.Changed("log-max-backups") {
		cfg.LogMaxBackups = merged.LogMaxBackups
	}
	if !flags.Changed("log-max-age-days") {
		cfg.LogMaxAgeDays = merged.LogMaxAgeDays
	}
	if !flags.Changed("metrics-addr") {
		cfg.MetricsAddr = merged.MetricsAddr
	}
	return nil
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&cfg.Directory, "directory", ".", "Root directory to serve")
	rootCmd.Flags().IntVar(&cfg.Port, "port", 80, "TCP port to listen on")
	rootCmd.Flags().StringVar(&cfg.Hostmask, "hostmask", "0.0.0.0", "Bind address")
	rootCmd.Flags().BoolVar(&cfg.Upload, "upload", false, "Enable POST multipart uploads")
	rootCmd.Flags().BoolVar(&cfg.NoDirs, "nodirs", false, "Disable directory listings")
	rootCmd.Flags().BoolVar(&cfg.StartDisabled, "start-disabled", false, "Start in rejecting mode")
	rootCmd.Flags().IntVar(&cfg.UIRefreshRateMS, "ui-refresh-rate", 500, "Dashboard tick interval in milliseconds")
	rootCmd.Flags().BoolVar(&cfg.Headless, "headless", false, "Disable the terminal status dashboard")
	rootCmd.Flags().Int64Var(&cfg.UploadSizeLimit, "upload-size-limit", 0, "Maximum upload size in bytes, 0 = unlimited")
	rootCmd.Flags().StringVar(&cfg.IndexFile, "index-file", "index.html", "Filename served in place of a directory listing when present")
	rootCmd.Flags().BoolVar(&cfg.NoIndexFile, "no-index-file", false, "Always render the generated directory listing")
	rootCmd.Flags().BoolVar(&cfg.NoSlash, "no-slash", false, "Strip one trailing slash from the request path when building directory-listing hrefs")

	rootCmd.Flags().StringVar(&cfg.LogFile, "log-file", "", "Log file path (default stdout)")
	rootCmd.Flags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().IntVar(&cfg.LogMaxSizeMB, "log-max-size-mb", 100, "Maximum log file size in MB before rotation")
	rootCmd.Flags().IntVar(&cfg.LogMaxBackups, "log-max-backups", 10, "Maximum number of rotated log files to retain")
	rootCmd.Flags().IntVar(&cfg.LogMaxAgeDays, "log-max-age-days", 7, "Maximum age in days of rotated log files")
	rootCmd.Flags().StringVar(&cfg.ConfigFile, "config", "", "Optional YAML config file layered under the flags above")
	rootCmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Address for the Prometheus metrics/pprof server, empty disables it")
}
