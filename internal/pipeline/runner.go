// Package pipeline orchestrates a full publish run: validate, probe,
// transcode, enumerate, upload, rewrite manifests, and optionally record the
// result on the ledger.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blobcast/blobcast/internal/assets"
	"github.com/blobcast/blobcast/internal/blobstore"
	"github.com/blobcast/blobcast/internal/config"
	"github.com/blobcast/blobcast/internal/display"
	"github.com/blobcast/blobcast/internal/ffmpeg"
	"github.com/blobcast/blobcast/internal/ledger"
	"github.com/blobcast/blobcast/internal/logging"
	"github.com/blobcast/blobcast/internal/manifest"
	"github.com/blobcast/blobcast/internal/probe"
)

// Run executes the publish pipeline for cfg.InputPath. cfg must already be
// validated and cfg.InputPath must be absolute, because the transcoder runs
// with its working directory set to the output root.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (*RunStats, error) {
	if err := ValidateSource(cfg.InputPath); err != nil {
		return nil, err
	}

	src, err := probe.Probe(ctx, cfg.InputPath)
	if err != nil {
		return nil, err
	}
	if src.PrimaryVideo == nil {
		return nil, fmt.Errorf("%w: %s has no video stream", ErrUnsupportedFormat, cfg.InputPath)
	}
	logSource(log, src)

	if cfg.DryRun {
		return previewRun(cfg, log, src.HasAudio())
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	log.Info("Transcoding to 3-rendition HLS...")
	if err := ffmpeg.Execute(ctx, cfg, src.HasAudio()); err != nil {
		return nil, err
	}

	tree, err := assets.Enumerate(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	stats := &RunStats{
		Renditions: len(tree.Renditions),
		Segments:   len(tree.AllSegments()),
		Manifests:  len(tree.Renditions) + 1,
	}
	log.Infof("Transcode complete: %d renditions, %d segments", stats.Renditions, stats.Segments)

	client := blobstore.NewClient(cfg.StoreBin, cfg.Epochs)

	segments := tree.AllSegments()
	log.Infof("Uploading %d segments...", len(segments))
	mapping, err := client.Store(ctx, tree.Root, segments)
	if err != nil {
		return nil, err
	}
	stats.BytesUploaded += totalSize(tree.Root, segments)

	log.Infof("Rewriting and uploading %d sub-manifests...", len(tree.Renditions))
	if err := uploadSubManifests(ctx, cfg, client, tree, mapping, stats); err != nil {
		return nil, err
	}

	log.Info("Rewriting and uploading master manifest...")
	if err := uploadMaster(ctx, cfg, client, tree, mapping, stats); err != nil {
		return nil, err
	}
	stats.MasterURL = blobstore.BlobURL(cfg.AggregatorURL, mapping[tree.Master])
	log.Infof("Master manifest: %s", stats.MasterURL)

	if cfg.PublishRecord {
		log.Info("Publishing ledger record...")
		pub := ledger.NewPublisher(cfg.LedgerBin, cfg.LedgerPackage)
		rec, err := pub.Publish(ctx, cfg.RecordTitle, cfg.RecordDescription, stats.MasterURL)
		if err != nil {
			return nil, err
		}
		stats.Record = rec
		log.Infof("Ledger record created: %s", rec.ID)
	}

	log.Infof("Done: uploaded %s across %d segments and %d manifests",
		display.FormatBytes(stats.BytesUploaded), stats.Segments, stats.Manifests)
	return stats, nil
}

// uploadSubManifests rewrites every rendition's playlist to blob URLs,
// uploads the rewritten copies in one batch, and merges the resulting blob
// identifiers into mapping keyed by the original playlist paths. The
// rewritten copies are temp files removed on every exit path.
func uploadSubManifests(ctx context.Context, cfg *config.Config, client *blobstore.Client, tree *assets.Tree, mapping blobstore.Mapping, stats *RunStats) error {
	var temps manifest.TempSet
	defer temps.Cleanup()

	// tempRel -> original playlist path, to re-key the upload result.
	origByTemp := make(map[string]string, len(tree.Renditions))
	tempRels := make([]string, 0, len(tree.Renditions))

	for _, r := range tree.Renditions {
		text, err := os.ReadFile(filepath.Join(tree.Root, filepath.FromSlash(r.Playlist)))
		if err != nil {
			return fmt.Errorf("read sub-manifest %s: %w", r.Playlist, err)
		}

		repl := manifest.SegmentReplacements(r, mapping, cfg.AggregatorURL)
		for _, line := range strings.Split(string(text), "\n") {
			if strings.HasSuffix(line, assets.SegmentExt) && repl[line] == "" {
				return fmt.Errorf("%w: %s references %s, which was not uploaded", blobstore.ErrPartialMapping, r.Playlist, line)
			}
		}
		rewritten := manifest.RewriteLines(string(text), repl)

		tempRel := r.Dir + "/" + manifest.TempPlaylistName
		if err := temps.Write(filepath.Join(tree.Root, filepath.FromSlash(tempRel)), []byte(rewritten)); err != nil {
			return err
		}
		origByTemp[tempRel] = r.Playlist
		tempRels = append(tempRels, tempRel)
		stats.BytesUploaded += int64(len(rewritten))
	}

	uploaded, err := client.Store(ctx, tree.Root, tempRels)
	if err != nil {
		return err
	}
	for tempRel, blobID := range uploaded {
		mapping[origByTemp[tempRel]] = blobID
	}
	return temps.Cleanup()
}

// uploadMaster rewrites the master manifest's playlist references to blob
// URLs, uploads the rewritten copy, and records its identifier in mapping
// under the original master path.
func uploadMaster(ctx context.Context, cfg *config.Config, client *blobstore.Client, tree *assets.Tree, mapping blobstore.Mapping, stats *RunStats) error {
	text, err := os.ReadFile(filepath.Join(tree.Root, filepath.FromSlash(tree.Master)))
	if err != nil {
		return fmt.Errorf("read master manifest: %w", err)
	}

	repl := manifest.MasterReplacements(mapping, cfg.AggregatorURL)
	rewritten := manifest.RewriteLines(string(text), repl)
	stats.BytesUploaded += int64(len(rewritten))

	tempPath := filepath.Join(tree.Root, manifest.TempMasterName)
	return manifest.WithTemp(tempPath, []byte(rewritten), func() error {
		uploaded, err := client.Store(ctx, tree.Root, []string{manifest.TempMasterName})
		if err != nil {
			return err
		}
		mapping[tree.Master] = uploaded[manifest.TempMasterName]
		return nil
	})
}

// previewRun logs what a real run would do without transcoding or uploading.
func previewRun(cfg *config.Config, log *logging.Logger, hasAudio bool) (*RunStats, error) {
	args := ffmpeg.Build(cfg, hasAudio)
	log.Info("Dry run; no files will be written or uploaded")
	log.Infof("Transcode command: %s", strings.Join(args, " "))
	log.Infof("Would upload segments, sub-manifests, and master in batches of %d epochs via %s", cfg.Epochs, cfg.StoreBin)
	log.Infof("Manifest URLs would resolve under %s/v1/blobs/", strings.TrimRight(cfg.AggregatorURL, "/"))
	if cfg.PublishRecord {
		log.Infof("Would publish ledger record %q via %s", cfg.RecordTitle, cfg.LedgerBin)
	}
	return &RunStats{}, nil
}

func logSource(log *logging.Logger, src *probe.Result) {
	v := src.PrimaryVideo
	log.Infof("Source: %s, %s, %s, %s video",
		display.FormatDuration(src.Format.Duration),
		display.FormatBytes(src.Format.Size),
		display.FormatResolution(v.Width, v.Height),
		v.Codec)
	if !src.HasAudio() {
		log.Warn("Source has no audio stream; renditions will be video only")
	}
}

// totalSize sums the sizes of the given files relative to root. Files that
// cannot be statted contribute zero; the sum is informational only.
func totalSize(root string, relPaths []string) int64 {
	var total int64
	for _, rel := range relPaths {
		if info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err == nil {
			total += info.Size()
		}
	}
	return total
}
