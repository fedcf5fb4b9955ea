package assets

import (
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	reOrdinal  = regexp.MustCompile(`^stream_(\d+)$`)
	reSequence = regexp.MustCompile(`^data(\d+)\.ts$`)
)

// parseOrdinal extracts the rendition ordinal from a directory name like
// "stream_2". Returns false for non-conforming names.
func parseOrdinal(name string) (int, bool) {
	m := reOrdinal.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseSequence extracts the segment sequence number from a basename like
// "data007.ts". Returns false for non-conforming names.
func parseSequence(base string) (int, bool) {
	m := reSequence.FindStringSubmatch(base)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// sortSegments orders segment paths by sequence number, falling back to
// lexicographic order for names that don't match the data<NNN>.ts scheme.
func sortSegments(segments []string) {
	sort.Slice(segments, func(i, j int) bool {
		si, iok := parseSequence(path.Base(segments[i]))
		sj, jok := parseSequence(path.Base(segments[j]))
		if iok && jok {
			return si < sj
		}
		if iok != jok {
			return iok // conforming names first
		}
		return strings.Compare(segments[i], segments[j]) < 0
	})
}
