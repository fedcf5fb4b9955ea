// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation for ffmpeg, ffprobe, and the external CLIs.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/blobcast/blobcast/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrStoreNotFound   = errors.New("storage CLI not found on PATH")
	ErrLedgerNotFound  = errors.New("ledger CLI not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg,
// ffprobe, the storage CLI, the ledger CLI, and the configured endpoints.
// Returns false when a required tool is missing.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Infof("=== System Check ===")

	ok := checkVersioned(log, "ffmpeg", "ffmpeg", "-version")
	ok = checkVersioned(log, "ffprobe", "ffprobe", "-version") && ok
	ok = checkVersioned(log, "storage CLI", cfg.StoreBin, "--version") && ok

	// The ledger CLI is only required with --publish; report it either way.
	if !checkVersioned(log, "ledger CLI", cfg.LedgerBin, "--version") {
		log.Warnf("ledger CLI missing; --publish will not work")
	}

	log.Infof("Aggregator: %s", cfg.AggregatorURL)
	if cfg.LedgerPackage != "" {
		log.Infof("Ledger package: %s", cfg.LedgerPackage)
	} else {
		log.Warnf("No ledger package configured (BLOBCAST_LEDGER_PACKAGE)")
	}
	return ok
}

// checkVersioned verifies bin is on PATH and logs the first line of its
// version output. Returns false when the binary is missing.
func checkVersioned(log Logger, label, bin string, versionArg string) bool {
	if _, err := exec.LookPath(bin); err != nil {
		log.Errorf("%s: %s not found", label, bin)
		return false
	}
	out, err := exec.Command(bin, versionArg).Output()
	if err != nil {
		log.Warnf("%s: %s found but %s failed: %v", label, bin, versionArg, err)
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Infof("%s: %s", label, firstLine)
	return true
}

// CheckDeps is the pre-pipeline validation: ffmpeg, ffprobe, and the storage
// CLI must be on PATH; the ledger CLI too when publishing. Returns a
// sentinel error on the first missing tool.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	if _, err := exec.LookPath(cfg.StoreBin); err != nil {
		return ErrStoreNotFound
	}
	if cfg.PublishRecord {
		if _, err := exec.LookPath(cfg.LedgerBin); err != nil {
			return ErrLedgerNotFound
		}
	}
	return nil
}
