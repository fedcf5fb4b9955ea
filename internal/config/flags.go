package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into output, storage, publication, display, and utility.

import (
	"flag"
	"fmt"
	"os"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing positional
// arg). version is injected by main so the build-time value is shown.
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("blobcast", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	// Color override flags are captured separately and applied after Parse,
	// so the ColorMode default holds unless the user passes one of them.
	var overrides overrideFlags

	defineOutputFlags(fs, cfg)
	defineStorageFlags(fs, cfg)
	definePublicationFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &overrides)
	defineUtilityFlags(fs, cfg, &overrides)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyOverrides(cfg, &overrides)

	if overrides.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if overrides.showVersion {
		fmt.Fprintln(os.Stdout, "blobcast v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// overrideFlags holds boolean flags that are applied after Parse.
type overrideFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineOutputFlags registers -o/--output and --segment-time.
func defineOutputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Output directory for the HLS tree")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Same as --output")
	fs.IntVar(&cfg.SegmentSeconds, "segment-time", cfg.SegmentSeconds, "HLS segment duration in seconds")
}

// defineStorageFlags registers --store-bin, --aggregator, --epochs.
func defineStorageFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.StoreBin, "store-bin", cfg.StoreBin, "Storage network CLI binary")
	fs.StringVar(&cfg.AggregatorURL, "aggregator", cfg.AggregatorURL, "Blob aggregator endpoint")
	fs.IntVar(&cfg.Epochs, "epochs", cfg.Epochs, "Storage retention period in epochs")
}

// definePublicationFlags registers --publish, --title, --description, --ledger-bin.
func definePublicationFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.PublishRecord, "publish", false, "Record the master manifest URL on the ledger")
	fs.StringVar(&cfg.RecordTitle, "title", "", "Record title (required with --publish)")
	fs.StringVar(&cfg.RecordDescription, "description", "", "Record description")
	fs.StringVar(&cfg.LedgerBin, "ledger-bin", cfg.LedgerBin, "Ledger CLI binary")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log, dry-run.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, o *overrideFlags) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not transcode or upload")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&o.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, o *overrideFlags) {
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&o.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&o.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&o.showHelp, "h", false, "Same as --help")
}

// applyOverrides copies post-Parse override flags into cfg.
func applyOverrides(cfg *Config, o *overrideFlags) {
	if o.noColor {
		cfg.ColorMode = ColorNever
	} else if o.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputPath from the single positional arg when not
// in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("need exactly one input file (got %d args)", len(args))
	}
	cfg.InputPath = args[0]
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "Blobcast v" + version + ": HLS publisher for content-addressed blob storage"},
		{"", ""},
		{"  blobcast [OPTIONS] <input.mp4>", ""},
		{"", ""},
		{"Output", ""},
		{"  -o, --output <dir>", "Output directory (default: ./output)"},
		{"  --segment-time <sec>", "HLS segment duration (default: 10)"},
		{"", ""},
		{"Storage", ""},
		{"  --store-bin <name>", "Storage network CLI (default: walrus)"},
		{"  --aggregator <url>", "Blob aggregator endpoint"},
		{"  --epochs <n>", "Retention period in epochs (default: 2)"},
		{"", ""},
		{"Publication", ""},
		{"  --publish", "Record the master manifest URL on the ledger"},
		{"  --title <text>", "Record title (required with --publish)"},
		{"  --description <text>", "Record description"},
		{"  --ledger-bin <name>", "Ledger CLI (default: sui)"},
		{"", ""},
		{"Display", ""},
		{"  -d, --dry-run", "Preview only; do not transcode or upload"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, storage CLI, ledger CLI)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"Environment", ""},
		{"  BLOBCAST_STORE_BIN, BLOBCAST_AGGREGATOR, BLOBCAST_EPOCHS,", ""},
		{"  BLOBCAST_LEDGER_BIN, BLOBCAST_LEDGER_PACKAGE", ""},
		{"  A .env file in the working directory is loaded when present.", ""},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
