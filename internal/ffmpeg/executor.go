package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/blobcast/blobcast/internal/config"
)

// ErrTranscodeFailed is returned when ffmpeg exits non-zero. Fatal to the
// run; there is no retry or partial-result salvage.
var ErrTranscodeFailed = errors.New("transcode failed")

// Execute builds and runs the transcode command with its working directory
// set to cfg.OutputDir, so every path the segmenter writes is relative to the
// output root. cfg.InputPath must be absolute for the same reason.
//
// When verbose, stderr is tee'd to os.Stderr in real time; otherwise it is
// captured silently and its tail is attached to the returned error.
func Execute(ctx context.Context, cfg *config.Config, hasAudio bool) error {
	args := Build(cfg, hasAudio)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = cfg.OutputDir

	var stderrBuf bytes.Buffer
	if cfg.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v%s", ErrTranscodeFailed, err, stderrTail(stderrBuf.String()))
	}
	return nil
}

// stderrTail returns the last lines of ffmpeg stderr formatted for an error
// message, or "" when there was no output.
func stderrTail(stderr string) string {
	lines := splitTail(stderr, 10)
	if len(lines) == 0 {
		return ""
	}
	out := "\nlast ffmpeg output:"
	for _, l := range lines {
		out += "\n  " + l
	}
	return out
}
