package ffprobe

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Summary is the post-download report for a produced file.
type Summary struct {
	Path        string        `json:"path"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	VideoCodec  string        `json:"video_codec"`
	Profile     string        `json:"profile,omitempty"`
	PixelFormat string        `json:"pix_fmt,omitempty"`
	AudioCodec  string        `json:"audio_codec,omitempty"`
	Duration    time.Duration `json:"duration"`
	SizeBytes   int64         `json:"size_bytes"`
	BitRate     int64         `json:"bit_rate"`
}

// Summarize reduces an inspection result to a Summary.
func Summarize(path string, r Result) Summary {
	summary := Summary{
		Path:      path,
		SizeBytes: r.SizeBytes(),
		BitRate:   r.BitRate(),
	}
	if seconds := r.DurationSeconds(); seconds > 0 && !math.IsNaN(seconds) {
		summary.Duration = time.Duration(seconds * float64(time.Second)).Round(time.Second)
	}
	if video, ok := r.FirstStream("video"); ok {
		summary.Width = video.Width
		summary.Height = video.Height
		summary.VideoCodec = video.CodecName
		summary.Profile = video.Profile
		summary.PixelFormat = video.PixelFormat
	}
	if audio, ok := r.FirstStream("audio"); ok {
		summary.AudioCodec = audio.CodecName
	}
	return summary
}

// Resolution renders WxH, or "unknown" without a video stream.
func (s Summary) Resolution() string {
	if s.Width <= 0 || s.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func (s Summary) String() string {
	parts := []string{filepath.Base(s.Path), s.Resolution()}
	codec := s.VideoCodec
	if codec == "" {
		codec = "no video"
	}
	if s.Profile != "" {
		codec += " (" + s.Profile + ")"
	}
	parts = append(parts, codec)
	if s.PixelFormat != "" {
		parts = append(parts, s.PixelFormat)
	}
	if s.AudioCodec != "" {
		parts = append(parts, s.AudioCodec)
	}
	if s.Duration > 0 {
		parts = append(parts, s.Duration.String())
	}
	if s.SizeBytes > 0 {
		parts = append(parts, humanize.Bytes(uint64(s.SizeBytes)))
	}
	if s.BitRate > 0 {
		parts = append(parts, humanize.SI(float64(s.BitRate), "b/s"))
	}
	return strings.Join(parts, " | ")
}
