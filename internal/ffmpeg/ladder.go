package ffmpeg

// Rendition is one output quality tier: a fixed resolution with constrained
// video bitrate and a matching audio bitrate.
type Rendition struct {
	Name         string
	Width        int
	Height       int
	VideoBitrate string
	MaxRate      string
	BufSize      string
	AudioBitrate string
}

// Ladder returns the fixed three-tier rendition set. The transcoder assigns
// output directories stream_0..stream_2 in this order.
func Ladder() []Rendition {
	return []Rendition{
		{Name: "1080p", Width: 1920, Height: 1080, VideoBitrate: "4500k", MaxRate: "5000k", BufSize: "7500k", AudioBitrate: "192k"},
		{Name: "720p", Width: 1280, Height: 720, VideoBitrate: "2500k", MaxRate: "2750k", BufSize: "3750k", AudioBitrate: "128k"},
		{Name: "480p", Width: 854, Height: 480, VideoBitrate: "1000k", MaxRate: "1100k", BufSize: "1500k", AudioBitrate: "96k"},
	}
}
