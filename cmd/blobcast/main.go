// Command blobcast is the CLI entrypoint for the Blobcast video publisher.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check) or the transcode-upload-publish pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/blobcast/blobcast/internal/check"
	"github.com/blobcast/blobcast/internal/config"
	"github.com/blobcast/blobcast/internal/display"
	"github.com/blobcast/blobcast/internal/logging"
	"github.com/blobcast/blobcast/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap phase: the logger doesn't exist yet, so errors go directly
	// to stderr. Once NewLogger succeeds, output goes through the logger.
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "blobcast: %v\n", err)
		return 1
	}

	cfg := config.DefaultConfig()
	config.ApplyEnv(&cfg)
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "blobcast: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "blobcast: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blobcast: %v\n", err)
		return 1
	}

	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// The transcoder runs with its working directory set to the output
	// root, so the input path must be absolute before the pipeline starts.
	inputAbs, err := filepath.Abs(cfg.InputPath)
	if err != nil {
		log.Errorf("Cannot resolve input path %s: %v", cfg.InputPath, err)
		return 1
	}
	cfg.InputPath = inputAbs

	log.Infof("=== Blobcast v%s (%s) ===", version, commit)
	log.Infof("In:  %s", cfg.InputPath)
	log.Infof("Out: %s", cfg.OutputDir)
	if cfg.DryRun {
		log.Warn("DRY RUN: nothing will be transcoded or uploaded")
	}

	if err := check.CheckDeps(&cfg); err != nil {
		log.Errorf("%v", err)
		return 1
	}

	// Cancel the pipeline on SIGINT/SIGTERM so a half-finished transcode or
	// upload batch stops instead of running unattended.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, cancelling...")
		cancel()
	}()

	stats, err := pipeline.Run(ctx, &cfg, log)
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}

	if stats.MasterURL != "" {
		log.Infof("Play: %s", stats.MasterURL)
	}
	if stats.Record != nil {
		log.Infof("Record: %s (%s)", stats.Record.ID, stats.Record.Title)
	}
	return 0
}
