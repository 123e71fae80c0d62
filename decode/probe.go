package decode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Meta describes a video stream as discovered at open time.
type Meta struct {
	// W, H are the native pixel dimensions.
	W int
	H int
	// FPS is the native frame rate.
	FPS float64
	// Duration is the container duration, zero when unknown.
	Duration time.Duration
}

// Probe inspects a video file with ffprobe and returns its stream metadata.
// Unreadable files, containers without a video stream, and malformed probe
// output all return [ErrOpen].
func Probe(path string) (Meta, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return Meta{}, fmt.Errorf("%w: probing %s: %w", ErrOpen, path, err)
	}

	return parseProbe([]byte(out))
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

func parseProbe(data []byte) (Meta, error) {
	var out probeOutput

	err := json.Unmarshal(data, &out)
	if err != nil {
		return Meta{}, fmt.Errorf("%w: parsing probe output: %w", ErrOpen, err)
	}

	var video *probeStream

	for i := range out.Streams {
		if out.Streams[i].CodecType == "video" {
			video = &out.Streams[i]

			break
		}
	}

	if video == nil {
		return Meta{}, fmt.Errorf("%w: no video stream", ErrOpen)
	}

	if video.Width <= 0 || video.Height <= 0 {
		return Meta{}, fmt.Errorf("%w: stream reports %dx%d", ErrOpen, video.Width, video.Height)
	}

	fps := parseRational(video.RFrameRate)
	if fps <= 0 {
		fps = parseRational(video.AvgFrameRate)
	}

	if fps <= 0 {
		return Meta{}, fmt.Errorf("%w: no usable frame rate", ErrOpen)
	}

	return Meta{
		W:        video.Width,
		H:        video.Height,
		FPS:      fps,
		Duration: parseSeconds(video.Duration, out.Format.Duration),
	}, nil
}

// parseRational parses an ffprobe frame-rate fraction like "30000/1001".
// Returns 0 when the value is absent or degenerate.
func parseRational(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}

		return v
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}

	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}

	return n / d
}

// parseSeconds returns the first parseable duration among the candidates.
func parseSeconds(candidates ...string) time.Duration {
	for _, c := range candidates {
		secs, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}

	return 0
}
