package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/blobcast/blobcast/internal/assets"
	"github.com/blobcast/blobcast/internal/blobstore"
	"github.com/blobcast/blobcast/internal/config"
	"github.com/blobcast/blobcast/internal/logging"
	"github.com/blobcast/blobcast/internal/manifest"
)

func TestValidateSource(t *testing.T) {
	dir := t.TempDir()
	mp4 := filepath.Join(dir, "clip.mp4")
	upper := filepath.Join(dir, "clip.MP4")
	mov := filepath.Join(dir, "clip.mov")
	for _, p := range []string{mp4, upper, mov} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"mp4", mp4, nil},
		{"uppercase extension", upper, nil},
		{"wrong extension", mov, ErrUnsupportedFormat},
		{"missing", filepath.Join(dir, "nope.mp4"), ErrSourceNotFound},
		{"directory", dir, ErrSourceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSource(tt.path)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSource(%s) = %v, want nil", tt.path, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSource(%s) = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

// fakeStoreBin mimics the store CLI: every path after --json gets a
// newlyCreated result with blob ID "blob-<basename>".
func fakeStoreBin(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake store binary requires a POSIX shell")
	}
	script := `#!/bin/sh
seen=0
first=1
printf '['
for a in "$@"; do
  if [ "$seen" = "1" ]; then
    base=$(basename "$a")
    [ "$first" = "1" ] || printf ','
    first=0
    printf '{"path":"%s","blobStoreResult":{"newlyCreated":{"blobObject":{"blobId":"blob-%s"}}}}' "$a" "$base"
  elif [ "$a" = "--json" ]; then
    seen=1
  fi
done
printf ']\n'
`
	bin := filepath.Join(t.TempDir(), "fake-walrus")
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return bin
}

// writeFakeTree lays out a minimal transcoder output: three renditions with
// two segments each, sub-manifests referencing the segments by bare name,
// and a master referencing the sub-manifests by relative path.
func writeFakeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	var master strings.Builder
	master.WriteString("#EXTM3U\n#EXT-X-VERSION:6\n")
	for i := 0; i < 3; i++ {
		dir := fmt.Sprintf("stream_%d", i)
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}

		var playlist strings.Builder
		playlist.WriteString("#EXTM3U\n#EXT-X-TARGETDURATION:10\n")
		for seq := 0; seq < 2; seq++ {
			seg := fmt.Sprintf("data%03d.ts", seq)
			if err := os.WriteFile(filepath.Join(root, dir, seg), []byte("segment"), 0o644); err != nil {
				t.Fatal(err)
			}
			playlist.WriteString("#EXTINF:10.0,\n" + seg + "\n")
		}
		playlist.WriteString("#EXT-X-ENDLIST\n")
		if err := os.WriteFile(filepath.Join(root, dir, "playlist.m3u8"), []byte(playlist.String()), 0o644); err != nil {
			t.Fatal(err)
		}

		master.WriteString("#EXT-X-STREAM-INF:BANDWIDTH=1000000\n" + dir + "/playlist.m3u8\n")
	}
	if err := os.WriteFile(filepath.Join(root, "master.m3u8"), []byte(master.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestUploadStages(t *testing.T) {
	root := writeFakeTree(t)
	tree, err := assets.Enumerate(root)
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.AggregatorURL = "https://agg.test"
	client := blobstore.NewClient(fakeStoreBin(t), 2)
	ctx := context.Background()
	stats := &RunStats{}

	mapping, err := client.Store(ctx, tree.Root, tree.AllSegments())
	if err != nil {
		t.Fatalf("segment upload: %v", err)
	}
	if err := uploadSubManifests(ctx, &cfg, client, tree, mapping, stats); err != nil {
		t.Fatalf("uploadSubManifests: %v", err)
	}
	if err := uploadMaster(ctx, &cfg, client, tree, mapping, stats); err != nil {
		t.Fatalf("uploadMaster: %v", err)
	}

	// Mapping keys are the original asset paths, not the temp copies.
	for _, rel := range []string{"stream_0/data000.ts", "stream_2/playlist.m3u8", "master.m3u8"} {
		if mapping[rel] == "" {
			t.Errorf("no blob ID for %s in %v", rel, mapping)
		}
	}
	if got := mapping["stream_1/playlist.m3u8"]; got != "blob-"+manifest.TempPlaylistName {
		t.Errorf("sub-manifest blobID = %q, want the temp upload's ID", got)
	}
	if got := mapping["master.m3u8"]; got != "blob-"+manifest.TempMasterName {
		t.Errorf("master blobID = %q, want the temp upload's ID", got)
	}

	// No temp manifests survive the run.
	for _, rel := range []string{
		"stream_0/" + manifest.TempPlaylistName,
		"stream_1/" + manifest.TempPlaylistName,
		"stream_2/" + manifest.TempPlaylistName,
		manifest.TempMasterName,
	} {
		if _, err := os.Stat(filepath.Join(root, rel)); !os.IsNotExist(err) {
			t.Errorf("temp manifest %s left behind", rel)
		}
	}

	// The on-disk manifests keep their local references.
	text, err := os.ReadFile(filepath.Join(root, "master.m3u8"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), "stream_0/playlist.m3u8") {
		t.Error("on-disk master manifest was modified")
	}
}

// synthSource generates a short test clip, skipping when ffmpeg is missing
// or built without the required encoders.
func synthSource(t *testing.T, dir string) string {
	t.Helper()
	src := filepath.Join(dir, "clip.mp4")
	cmd := exec.Command("ffmpeg", "-y",
		"-f", "lavfi", "-i", "testsrc=duration=1:size=320x180:rate=10",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=1",
		"-c:v", "libx264", "-preset", "ultrafast", "-c:a", "aac",
		"-shortest", src)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("cannot generate test clip: %v\n%s", err, out)
	}
	return src
}

func TestRun_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("transcodes a clip; skipped in short mode")
	}
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not on PATH", bin)
		}
	}

	cfg := config.DefaultConfig()
	cfg.InputPath = synthSource(t, t.TempDir())
	cfg.OutputDir = t.TempDir()
	cfg.StoreBin = fakeStoreBin(t)
	cfg.AggregatorURL = "https://agg.test"

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}

	stats, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.Renditions != 3 {
		t.Errorf("renditions = %d, want 3", stats.Renditions)
	}
	if stats.Segments < 3 {
		t.Errorf("segments = %d, want at least one per rendition", stats.Segments)
	}
	want := "https://agg.test/v1/blobs/blob-" + manifest.TempMasterName
	if stats.MasterURL != want {
		t.Errorf("master URL = %q, want %q", stats.MasterURL, want)
	}
	if stats.Record != nil {
		t.Errorf("record = %v, want nil without --publish", stats.Record)
	}
}

func TestRun_DryRun(t *testing.T) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not on PATH")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not on PATH")
	}

	cfg := config.DefaultConfig()
	cfg.InputPath = synthSource(t, t.TempDir())
	cfg.OutputDir = t.TempDir()
	cfg.StoreBin = "definitely-not-on-path"
	cfg.DryRun = true

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}

	stats, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Segments != 0 || stats.MasterURL != "" {
		t.Errorf("dry run produced work: %+v", stats)
	}

	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d entries to the output dir", len(entries))
	}
}
