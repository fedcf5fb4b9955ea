package probe

// Result holds the parsed ffprobe output for a source file.
type Result struct {
	Format       FormatInfo
	PrimaryVideo *VideoStream // nil when the source has no video stream.
	AudioStreams []AudioStream
}

// FormatInfo describes the container.
type FormatInfo struct {
	Filename   string
	FormatName string
	Duration   float64 // seconds
	Size       int64   // bytes
	BitRate    int64   // bits per second
}

// VideoStream describes a video stream.
type VideoStream struct {
	Index   int
	Codec   string
	Width   int
	Height  int
	BitRate int64
}

// AudioStream describes an audio stream.
type AudioStream struct {
	Index      int
	Codec      string
	Channels   int
	SampleRate int
	BitRate    int64
}

// HasAudio reports whether the source carries at least one audio stream.
// The transcode command drops its audio branches for silent sources.
func (r *Result) HasAudio() bool {
	return len(r.AudioStreams) > 0
}
