// Package decode produces raw RGB frames from a video file.
//
// It wraps two external collaborators: ffprobe for open-time metadata
// ([Probe]) and a long-lived ffmpeg process piping rawvideo rgb24 frames to
// stdout ([Open]). Frames come back at the stream's native resolution, in
// presentation order, exactly once; the stream is not restartable.
//
// Individual torn frames are non-fatal: [Stream.Next] skips them and keeps
// reading. Three consecutive failures escalate to [ErrStreamCorrupt].
package decode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"

	"go.jacobcolvin.com/badapple/frame"
)

var (
	// ErrOpen indicates the file could not be opened or probed. Fatal to
	// the session.
	ErrOpen = errors.New("opening video stream")
	// ErrStreamCorrupt indicates repeated consecutive frame decode
	// failures. Fatal to the session.
	ErrStreamCorrupt = errors.New("video stream corrupt")
)

// maxConsecutiveSkips is the number of back-to-back torn frames tolerated
// before the stream is declared corrupt.
const maxConsecutiveSkips = 3

// Options configures a decode stream.
type Options struct {
	// FPS resamples the stream to a fixed rate when > 0. Zero keeps the
	// native rate.
	FPS float64
	// Meta supplies stream metadata from an earlier [Probe], skipping the
	// probe at open time. A zero Meta probes the file.
	Meta Meta
	// Logger receives per-frame skip diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Stream is a handle on a running ffmpeg decode pipe.
//
// Create instances with [Open]. Not safe for concurrent use; the pipeline
// owns it from a single goroutine.
type Stream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	cancel context.CancelFunc
	logger *slog.Logger
	stderr *bytes.Buffer

	meta      Meta
	frameSize int
	skips     int
	index     int
}

// Open starts an ffmpeg process decoding path to an rgb24 rawvideo pipe,
// probing the file first unless [Options.Meta] carries an earlier probe. The
// returned stream delivers frames at the native resolution reported by
// [Stream.Meta].
func Open(ctx context.Context, path string, opts Options) (*Stream, error) {
	_, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found in PATH", ErrOpen)
	}

	meta, err := resolveMeta(path, opts)
	if err != nil {
		return nil, err
	}

	args := []string{"-i", path}

	if opts.FPS > 0 {
		args = append(args, "-vf", "fps="+strconv.FormatFloat(opts.FPS, 'f', -1, 64))
	}

	args = append(args,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-loglevel", "error",
		"pipe:1",
	)

	ctx, cancel := context.WithCancel(ctx)

	//nolint:gosec // Path and fps are caller-provided CLI arguments.
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("%w: creating stdout pipe: %w", ErrOpen, err)
	}

	err = cmd.Start()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("%w: starting ffmpeg: %w", ErrOpen, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Stream{
		cmd:       cmd,
		stdout:    stdout,
		cancel:    cancel,
		logger:    logger,
		stderr:    stderr,
		meta:      meta,
		frameSize: meta.W * meta.H * frame.PixelBytes,
	}, nil
}

// resolveMeta returns the stream metadata for an open, probing the file only
// when the caller did not supply it. The FPS override applies either way.
func resolveMeta(path string, opts Options) (Meta, error) {
	meta := opts.Meta

	if meta == (Meta{}) {
		var err error

		meta, err = Probe(path)
		if err != nil {
			return Meta{}, err
		}
	}

	if opts.FPS > 0 {
		meta.FPS = opts.FPS
	}

	return meta, nil
}

// Meta returns the stream metadata discovered at open time.
func (s *Stream) Meta() Meta {
	return s.meta
}

// Next returns the next decodable frame in presentation order.
//
// A clean end of stream returns [io.EOF]. A torn frame read is logged and
// skipped; [maxConsecutiveSkips] back-to-back failures return
// [ErrStreamCorrupt]. A successful frame resets the failure counter.
func (s *Stream) Next() (*frame.Frame, error) {
	for {
		buf := make([]byte, s.frameSize)

		n, err := io.ReadFull(s.stdout, buf)

		switch {
		case err == nil:
			s.skips = 0
			s.index++

			f, wrapErr := frame.FromPix(buf, s.meta.W, s.meta.H)
			if wrapErr != nil {
				return nil, wrapErr
			}

			return f, nil

		case errors.Is(err, io.EOF) && n == 0:
			return nil, io.EOF

		default:
			s.skips++
			s.logger.Warn("skipping torn frame",
				"frame", s.index,
				"bytes", n,
				"consecutive", s.skips,
				"err", err,
			)

			if s.skips >= maxConsecutiveSkips {
				return nil, fmt.Errorf("%w: %d consecutive decode failures: %s",
					ErrStreamCorrupt, s.skips, s.ffmpegError())
			}

			s.index++
		}
	}
}

// Close cancels the ffmpeg process and reaps it. Safe to call after EOF.
func (s *Stream) Close() error {
	s.cancel()
	//nolint:errcheck // Exit status is expected to be non-zero after cancellation.
	s.cmd.Wait()

	return nil
}

// ffmpegError returns the tail of ffmpeg's stderr for diagnostics.
func (s *Stream) ffmpegError() string {
	const tail = 512

	b := bytes.TrimSpace(s.stderr.Bytes())
	if len(b) == 0 {
		return "no decoder output"
	}

	if len(b) > tail {
		b = b[len(b)-tail:]
	}

	return string(b)
}
