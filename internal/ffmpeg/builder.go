// Package ffmpeg builds and executes the single transcode invocation that
// splits a source into the fixed rendition ladder and emits the segmented
// HLS tree (master.m3u8 plus stream_<n>/playlist.m3u8 and data<NNN>.ts).
package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blobcast/blobcast/internal/config"
)

// Build constructs the complete ffmpeg argument slice. All output paths are
// relative; the executor sets the working directory to the output directory.
// hasAudio comes from the source probe: silent sources get no audio branches
// and a video-only stream map.
func Build(cfg *config.Config, hasAudio bool) []string {
	ladder := Ladder()
	args := make([]string, 0, 64)

	// --- Preamble ---
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")

	// Loglevel: info when verbose, otherwise error.
	if cfg.Verbose {
		args = append(args, "-loglevel", "info", "-stats")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Input ---
	args = append(args, "-i", cfg.InputPath)

	// --- Filter graph: split the decoded video and scale each branch ---
	args = append(args, "-filter_complex", filterGraph(ladder))

	// --- Per-branch video codec with constrained bitrate ---
	for i, r := range ladder {
		args = append(args,
			"-map", fmt.Sprintf("[v%dout]", i+1),
			fmt.Sprintf("-c:v:%d", i), "libx264",
			fmt.Sprintf("-b:v:%d", i), r.VideoBitrate,
			fmt.Sprintf("-maxrate:v:%d", i), r.MaxRate,
			fmt.Sprintf("-bufsize:v:%d", i), r.BufSize,
		)
	}

	// --- Audio: three parallel copies of the first audio stream ---
	if hasAudio {
		for i, r := range ladder {
			args = append(args,
				"-map", "a:0",
				fmt.Sprintf("-c:a:%d", i), "aac",
				fmt.Sprintf("-b:a:%d", i), r.AudioBitrate,
				fmt.Sprintf("-ac:a:%d", i), "2",
			)
		}
	}

	// --- HLS segmenter ---
	args = append(args,
		"-f", "hls",
		"-var_stream_map", streamMap(ladder, hasAudio),
		"-master_pl_name", "master.m3u8",
		"-hls_time", strconv.Itoa(cfg.SegmentSeconds),
		"-hls_playlist_type", "vod",
		"-hls_segment_filename", "stream_%v/data%03d.ts",
	)

	// --- Output pattern ---
	args = append(args, "stream_%v/playlist.m3u8")

	return args
}

// filterGraph returns the fixed split/scale graph, e.g.
// "[0:v]split=3[v1][v2][v3];[v1]scale=w=1920:h=1080[v1out];...".
func filterGraph(ladder []Rendition) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[0:v]split=%d", len(ladder)))
	for i := range ladder {
		b.WriteString(fmt.Sprintf("[v%d]", i+1))
	}
	for i, r := range ladder {
		b.WriteString(fmt.Sprintf(";[v%d]scale=w=%d:h=%d[v%dout]", i+1, r.Width, r.Height, i+1))
	}
	return b.String()
}

// streamMap returns the -var_stream_map value pairing each video branch with
// its audio copy, or video-only entries for silent sources.
func streamMap(ladder []Rendition, hasAudio bool) string {
	entries := make([]string, len(ladder))
	for i := range ladder {
		if hasAudio {
			entries[i] = fmt.Sprintf("v:%d,a:%d", i, i)
		} else {
			entries[i] = fmt.Sprintf("v:%d", i)
		}
	}
	return strings.Join(entries, " ")
}
