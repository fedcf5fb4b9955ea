package ffmpeg

import "strings"

// splitTail returns the last n non-empty-trimmed lines of s.
func splitTail(s string, n int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
