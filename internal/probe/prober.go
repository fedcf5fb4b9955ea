// Package probe inspects a source file with a single ffprobe JSON call.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Probe runs ffprobe against path and returns the parsed result.
func Probe(ctx context.Context, path string) (*Result, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a Result.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	Index       int            `json:"index"`
	CodecName   string         `json:"codec_name"`
	CodecType   string         `json:"codec_type"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	BitRate     string         `json:"bit_rate"`
	Channels    int            `json:"channels"`
	SampleRate  string         `json:"sample_rate"`
	Disposition map[string]int `json:"disposition"`
}

// --- Conversion from wire types to domain types ---

func buildResult(raw *ffprobeOutput) *Result {
	r := &Result{
		Format: FormatInfo{
			Filename:   raw.Format.Filename,
			FormatName: raw.Format.FormatName,
			Duration:   parseFloat(raw.Format.Duration),
			Size:       parseInt64(raw.Format.Size),
			BitRate:    parseInt64(raw.Format.BitRate),
		},
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			// Cover art shows up as a video stream with attached_pic set.
			if s.Disposition["attached_pic"] == 1 {
				continue
			}
			if r.PrimaryVideo == nil {
				r.PrimaryVideo = &VideoStream{
					Index:   s.Index,
					Codec:   s.CodecName,
					Width:   s.Width,
					Height:  s.Height,
					BitRate: parseInt64(s.BitRate),
				}
			}
		case "audio":
			r.AudioStreams = append(r.AudioStreams, AudioStream{
				Index:      s.Index,
				Codec:      s.CodecName,
				Channels:   s.Channels,
				SampleRate: parseInt(s.SampleRate),
				BitRate:    parseInt64(s.BitRate),
			})
		}
	}
	return r
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
