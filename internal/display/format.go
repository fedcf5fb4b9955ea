package display

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatBytes returns a human-readable IEC size (B, KiB, MiB, ...).
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatDuration returns a short label for a duration in seconds
// (e.g. "9.6s", "2m03s").
func FormatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	m := int(seconds) / 60
	s := int(seconds) % 60
	return fmt.Sprintf("%dm%02ds", m, s)
}

// FormatResolution returns "WxH", or "unknown" when either dimension is missing.
func FormatResolution(w, h int) string {
	if w <= 0 || h <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", w, h)
}
