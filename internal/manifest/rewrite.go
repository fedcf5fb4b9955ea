// Package manifest rewrites HLS playlist references to blob retrieval URLs.
//
// Rewriting is textual and line-anchored: a reference is replaced only when
// it occupies a full line by itself, exactly as the segmenter wrote it.
// Tag lines (#EXTINF, #EXT-X-STREAM-INF, ...) and unknown lines pass through
// untouched.
package manifest

import (
	"path"
	"strings"

	"github.com/blobcast/blobcast/internal/assets"
	"github.com/blobcast/blobcast/internal/blobstore"
)

// RewriteLines replaces every line of text that exactly equals a key of
// replacements with its value. All other lines, including blank ones and the
// trailing newline, are preserved byte for byte.
func RewriteLines(text string, replacements map[string]string) string {
	if len(replacements) == 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if url, ok := replacements[line]; ok {
			lines[i] = url
		}
	}
	return strings.Join(lines, "\n")
}

// SegmentReplacements builds the sub-manifest substitution table for one
// rendition: bare segment filename -> blob retrieval URL, for every mapping
// entry that lies under the rendition's directory and has the segment
// extension.
func SegmentReplacements(r assets.Rendition, mapping blobstore.Mapping, aggregator string) map[string]string {
	repl := make(map[string]string)
	prefix := r.Dir + "/"
	for rel, blobID := range mapping {
		if !strings.HasPrefix(rel, prefix) || path.Ext(rel) != assets.SegmentExt {
			continue
		}
		repl[path.Base(rel)] = blobstore.BlobURL(aggregator, blobID)
	}
	return repl
}

// MasterReplacements builds the master-manifest substitution table:
// "<rendition-dir>/playlist.m3u8" -> blob retrieval URL, for every mapping
// entry that ends in the sub-manifest filename.
func MasterReplacements(mapping blobstore.Mapping, aggregator string) map[string]string {
	repl := make(map[string]string)
	for rel, blobID := range mapping {
		if path.Base(rel) != assets.PlaylistName || rel == assets.PlaylistName {
			continue
		}
		repl[rel] = blobstore.BlobURL(aggregator, blobID)
	}
	return repl
}
