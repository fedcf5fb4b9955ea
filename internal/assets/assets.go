// Package assets enumerates the transcoder's output tree, classifying files
// into segments, per-rendition sub-manifests, and the master manifest.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Fixed names produced by the transcoder.
const (
	MasterName   = "master.m3u8"
	PlaylistName = "playlist.m3u8"
	SegmentExt   = ".ts"
	DirPrefix    = "stream_"
)

// Rendition is one quality tier's directory in the output tree. All paths
// are relative to the tree root and use forward slashes.
type Rendition struct {
	Dir      string   // e.g. "stream_0"
	Ordinal  int      // parsed from the directory name
	Segments []string // e.g. "stream_0/data000.ts", ordered by sequence
	Playlist string   // e.g. "stream_0/playlist.m3u8"
}

// Tree is the enumerated output of one transcode run.
type Tree struct {
	Root       string // absolute output directory
	Renditions []Rendition
	Master     string // relative path of the master manifest
}

// Enumerate walks root and classifies its contents. Rendition directories
// are sorted by ordinal and segments by sequence number, so upload batches
// are deterministic regardless of directory-listing order. A rendition
// directory without a playlist, or a root without a master manifest, is an
// error: the tree is not a complete transcoder output.
func Enumerate(root string) (*Tree, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir: %w", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}

	tree := &Tree{Root: root}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ord, ok := parseOrdinal(e.Name())
		if !ok {
			continue
		}

		r, err := enumerateRendition(root, e.Name(), ord)
		if err != nil {
			return nil, err
		}
		tree.Renditions = append(tree.Renditions, r)
	}

	sort.Slice(tree.Renditions, func(i, j int) bool {
		return tree.Renditions[i].Ordinal < tree.Renditions[j].Ordinal
	})

	if len(tree.Renditions) == 0 {
		return nil, fmt.Errorf("no %s<n> directories under %s", DirPrefix, root)
	}

	if _, err := os.Stat(filepath.Join(root, MasterName)); err != nil {
		return nil, fmt.Errorf("master manifest %s missing under %s", MasterName, root)
	}
	tree.Master = MasterName

	return tree, nil
}

// enumerateRendition lists one stream_<n> directory: its ordered segments
// and its sub-manifest.
func enumerateRendition(root, dir string, ord int) (Rendition, error) {
	r := Rendition{Dir: dir, Ordinal: ord}

	entries, err := os.ReadDir(filepath.Join(root, dir))
	if err != nil {
		return r, fmt.Errorf("read rendition dir %s: %w", dir, err)
	}

	hasPlaylist := false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case name == PlaylistName:
			hasPlaylist = true
		case filepath.Ext(name) == SegmentExt:
			r.Segments = append(r.Segments, dir+"/"+name)
		}
	}

	if !hasPlaylist {
		return r, fmt.Errorf("sub-manifest %s missing in %s", PlaylistName, dir)
	}
	r.Playlist = dir + "/" + PlaylistName

	sortSegments(r.Segments)
	return r, nil
}

// AllSegments returns every segment path across renditions, in rendition
// then sequence order.
func (t *Tree) AllSegments() []string {
	var out []string
	for _, r := range t.Renditions {
		out = append(out, r.Segments...)
	}
	return out
}

// Playlists returns every sub-manifest path in rendition order.
func (t *Tree) Playlists() []string {
	out := make([]string, len(t.Renditions))
	for i, r := range t.Renditions {
		out[i] = r.Playlist
	}
	return out
}
