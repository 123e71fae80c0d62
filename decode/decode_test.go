package decode

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const probeFixture = `{
	"streams": [
		{"codec_type": "audio", "codec_name": "aac"},
		{
			"codec_type": "video",
			"width": 640,
			"height": 360,
			"r_frame_rate": "30000/1001",
			"avg_frame_rate": "30000/1001",
			"duration": "219.062"
		}
	],
	"format": {"duration": "219.100"}
}`

func TestParseProbe(t *testing.T) {
	t.Parallel()

	meta, err := parseProbe([]byte(probeFixture))
	require.NoError(t, err)

	assert.Equal(t, 640, meta.W)
	assert.Equal(t, 360, meta.H)
	assert.InDelta(t, 29.97, meta.FPS, 0.01)
	assert.InDelta(t, 219.062, meta.Duration.Seconds(), 0.001)
}

func TestParseProbeErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"not json":        `]`,
		"no video stream": `{"streams": [{"codec_type": "audio"}]}`,
		"zero dimensions": `{"streams": [{"codec_type": "video", "width": 0, "height": 0, "r_frame_rate": "30/1"}]}`,
		"no frame rate":   `{"streams": [{"codec_type": "video", "width": 2, "height": 2, "r_frame_rate": "0/0"}]}`,
	}

	for name, in := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := parseProbe([]byte(in))
			require.ErrorIs(t, err, ErrOpen)
		})
	}
}

func TestParseRational(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   string
		want float64
	}{
		"ntsc fraction": {"30000/1001", 29.97002997002997},
		"integer ratio": {"25/1", 25},
		"bare number":   {"24", 24},
		"zero denom":    {"1/0", 0},
		"empty":         {"", 0},
		"garbage":       {"x/y", 0},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tc.want, parseRational(tc.in), 1e-9)
		})
	}
}

func TestParseSeconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1500*time.Millisecond, parseSeconds("", "1.5"))
	assert.Equal(t, time.Duration(0), parseSeconds("N/A", ""))
}

// testStream builds a Stream reading frames from an in-memory pipe.
func testStream(r io.Reader, w, h int) *Stream {
	return &Stream{
		stdout:    io.NopCloser(r),
		logger:    slog.New(slog.DiscardHandler),
		stderr:    &bytes.Buffer{},
		meta:      Meta{W: w, H: h, FPS: 2},
		frameSize: w * h * 3,
	}
}

func TestResolveMeta(t *testing.T) {
	t.Parallel()

	probed := Meta{W: 4, H: 4, FPS: 24}

	tcs := map[string]struct {
		opts Options
		want Meta
	}{
		"supplied meta is used as-is": {
			opts: Options{Meta: probed},
			want: probed,
		},
		"fps override applies to supplied meta": {
			opts: Options{Meta: probed, FPS: 60},
			want: Meta{W: 4, H: 4, FPS: 60},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			// The path does not exist, so any probe attempt would fail.
			meta, err := resolveMeta("no-such-file.mp4", tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, meta)
		})
	}
}

func TestResolveMeta_ZeroMetaProbes(t *testing.T) {
	t.Parallel()

	_, err := resolveMeta("no-such-file.mp4", Options{})
	require.ErrorIs(t, err, ErrOpen)
}

func TestStreamNextDeliversFramesThenEOF(t *testing.T) {
	t.Parallel()

	// Two 2x2 frames back to back.
	data := bytes.Repeat([]byte{7}, 2*2*3*2)
	s := testStream(bytes.NewReader(data), 2, 2)

	for range 2 {
		f, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, 2, f.W)
		assert.Equal(t, 2, f.H)
	}

	_, err := s.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestStreamNextSkipsTornFinalFrame(t *testing.T) {
	t.Parallel()

	// One full frame plus a torn half frame at the end of the pipe.
	data := bytes.Repeat([]byte{7}, 2*2*3+5)
	s := testStream(bytes.NewReader(data), 2, 2)

	_, err := s.Next()
	require.NoError(t, err)

	// The torn frame is skipped, and the following clean EOF ends the
	// stream without escalating.
	_, err = s.Next()
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, s.skips)
}

type failingReader struct {
	err error
}

func (r failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func TestStreamNextEscalatesToCorrupt(t *testing.T) {
	t.Parallel()

	s := testStream(failingReader{err: errors.New("bad pipe")}, 2, 2)

	_, err := s.Next()
	require.ErrorIs(t, err, ErrStreamCorrupt)
	assert.Equal(t, maxConsecutiveSkips, s.skips)
}

func TestStreamSkipCounterResets(t *testing.T) {
	t.Parallel()

	s := testStream(bytes.NewReader(bytes.Repeat([]byte{1}, 2*2*3)), 2, 2)
	s.skips = maxConsecutiveSkips - 1

	_, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, s.skips)
}
