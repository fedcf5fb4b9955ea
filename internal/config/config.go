// Package config holds runtime configuration: defaults, environment overlay,
// CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// SourceExt is the only accepted input container extension (case-insensitive).
const SourceExt = ".mp4"

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid from the environment by [ApplyEnv], and then mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (input from the positional arg, output from -o).
	InputPath string
	OutputDir string // Default: "./output".

	// Transcode settings.
	SegmentSeconds int // Fixed HLS segment duration. Default: 10.

	// Storage network.
	StoreBin      string // Batch-store CLI binary. Default: "walrus".
	AggregatorURL string // Blob retrieval endpoint base.
	Epochs        int    // Retention period requested per upload. Default: 2.

	// Ledger record publication.
	PublishRecord     bool   // Set by --publish.
	LedgerBin         string // Ledger CLI binary. Default: "sui".
	LedgerPackage     string // Package ID of the record contract.
	RecordTitle       string
	RecordDescription string

	// Behavior flags.
	DryRun bool

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. The aggregator default
// points at the public testnet endpoint; override via --aggregator or
// BLOBCAST_AGGREGATOR.
func DefaultConfig() Config {
	return Config{
		OutputDir:      "./output",
		SegmentSeconds: 10,
		StoreBin:       "walrus",
		AggregatorURL:  "https://aggregator.walrus-testnet.walrus.space",
		Epochs:         2,
		LedgerBin:      "sui",
		ColorMode:      ColorAuto,
	}
}

// ApplyEnv overlays environment variables onto cfg. Called after
// [DefaultConfig] and before [ParseFlags], so precedence is
// flags > environment > defaults.
func ApplyEnv(cfg *Config) {
	cfg.StoreBin = GetEnv("BLOBCAST_STORE_BIN", cfg.StoreBin)
	cfg.AggregatorURL = GetEnv("BLOBCAST_AGGREGATOR", cfg.AggregatorURL)
	cfg.Epochs = GetEnvInt("BLOBCAST_EPOCHS", cfg.Epochs)
	cfg.LedgerBin = GetEnv("BLOBCAST_LEDGER_BIN", cfg.LedgerBin)
	cfg.LedgerPackage = GetEnv("BLOBCAST_LEDGER_PACKAGE", cfg.LedgerPackage)
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and value ranges, and requires an input path
// when not in CheckOnly mode. Publication flags are checked together:
// --publish needs a title, and a title without --publish is a likely
// operator mistake.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Epochs < 1 {
		return fmt.Errorf("epochs must be at least 1 (got %d)", c.Epochs)
	}
	if c.SegmentSeconds < 1 {
		return fmt.Errorf("segment duration must be at least 1s (got %d)", c.SegmentSeconds)
	}

	u, err := url.Parse(c.AggregatorURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid aggregator URL %q", c.AggregatorURL)
	}

	if c.PublishRecord && c.RecordTitle == "" {
		return errors.New("--publish requires --title")
	}
	if !c.PublishRecord && (c.RecordTitle != "" || c.RecordDescription != "") {
		return errors.New("--title/--description have no effect without --publish")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputPath == "" {
		return errors.New("need exactly one input file")
	}
	if c.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}
	return nil
}
