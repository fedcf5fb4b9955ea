package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blobcast/blobcast/internal/assets"
	"github.com/blobcast/blobcast/internal/blobstore"
)

const agg = "https://agg.example.com"

func TestRewriteLines_OnlyFullLines(t *testing.T) {
	playlist := strings.Join([]string{
		"#EXTM3U",
		"#EXT-X-VERSION:3",
		"#EXT-X-TARGETDURATION:10",
		"#EXTINF:10.000000,",
		"data000.ts",
		"#EXTINF:9.600000,",
		"data001.ts",
		"#EXT-X-ENDLIST",
		"",
	}, "\n")

	repl := map[string]string{
		"data000.ts": agg + "/v1/blobs/aaa",
		"data001.ts": agg + "/v1/blobs/bbb",
	}

	got := RewriteLines(playlist, repl)
	want := strings.Join([]string{
		"#EXTM3U",
		"#EXT-X-VERSION:3",
		"#EXT-X-TARGETDURATION:10",
		"#EXTINF:10.000000,",
		agg + "/v1/blobs/aaa",
		"#EXTINF:9.600000,",
		agg + "/v1/blobs/bbb",
		"#EXT-X-ENDLIST",
		"",
	}, "\n")

	if got != want {
		t.Errorf("rewritten playlist:\n got: %q\nwant: %q", got, want)
	}
}

func TestRewriteLines_NoPartialMatches(t *testing.T) {
	// A filename appearing inside a longer line must not be touched.
	text := "# comment mentioning data000.ts here\ndata000.ts\n"
	got := RewriteLines(text, map[string]string{"data000.ts": "URL"})
	want := "# comment mentioning data000.ts here\nURL\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRewriteLines_EmptyReplacements(t *testing.T) {
	text := "#EXTM3U\ndata000.ts\n"
	if got := RewriteLines(text, nil); got != text {
		t.Errorf("text altered with no replacements: %q", got)
	}
}

func TestSegmentReplacements_ScopedToRendition(t *testing.T) {
	mapping := blobstore.Mapping{
		"stream_0/data000.ts":    "id0",
		"stream_0/data001.ts":    "id1",
		"stream_1/data000.ts":    "other", // different rendition
		"stream_0/playlist.m3u8": "plid",  // not a segment
	}
	r := assets.Rendition{Dir: "stream_0"}

	repl := SegmentReplacements(r, mapping, agg)

	want := map[string]string{
		"data000.ts": agg + "/v1/blobs/id0",
		"data001.ts": agg + "/v1/blobs/id1",
	}
	if len(repl) != len(want) {
		t.Fatalf("got %d replacements, want %d: %v", len(repl), len(want), repl)
	}
	for k, v := range want {
		if repl[k] != v {
			t.Errorf("repl[%q] = %q, want %q", k, repl[k], v)
		}
	}
}

func TestMasterReplacements(t *testing.T) {
	mapping := blobstore.Mapping{
		"stream_0/playlist.m3u8": "p0",
		"stream_1/playlist.m3u8": "p1",
		"stream_0/data000.ts":    "seg",
		"master.m3u8":            "m", // the master itself never references itself
	}

	repl := MasterReplacements(mapping, agg)

	if len(repl) != 2 {
		t.Fatalf("got %d replacements, want 2: %v", len(repl), repl)
	}
	if repl["stream_0/playlist.m3u8"] != agg+"/v1/blobs/p0" {
		t.Errorf("stream_0 = %q", repl["stream_0/playlist.m3u8"])
	}
	if repl["stream_1/playlist.m3u8"] != agg+"/v1/blobs/p1" {
		t.Errorf("stream_1 = %q", repl["stream_1/playlist.m3u8"])
	}
}

func TestWithTemp_RemovedOnSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), TempMasterName)

	err := WithTemp(path, []byte("#EXTM3U\n"), func() error {
		if _, statErr := os.Stat(path); statErr != nil {
			t.Errorf("temp file missing during fn: %v", statErr)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTemp: %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("temp file not removed after success")
	}
}

func TestWithTemp_RemovedOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), TempMasterName)
	wantErr := errors.New("upload blew up")

	err := WithTemp(path, []byte("#EXTM3U\n"), func() error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("temp file not removed after failure")
	}
}

func TestTempSet_CleanupAll(t *testing.T) {
	dir := t.TempDir()
	var ts TempSet

	paths := []string{
		filepath.Join(dir, "a", TempPlaylistName),
		filepath.Join(dir, "b", TempPlaylistName),
	}
	for _, p := range paths {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := ts.Write(p, []byte("#EXTM3U\n")); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if err := ts.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s not removed", p)
		}
	}

	// Second cleanup is a no-op.
	if err := ts.Cleanup(); err != nil {
		t.Errorf("repeated Cleanup: %v", err)
	}
}
