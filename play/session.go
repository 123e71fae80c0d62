package play

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.jacobcolvin.com/badapple/frame"
	"go.jacobcolvin.com/badapple/render"
	"go.jacobcolvin.com/badapple/scale"
	"go.jacobcolvin.com/badapple/screen"
)

// defaultBuffer is the decode-ahead depth of the frame channel. Deep enough
// to ride out render stalls, shallow enough that dropping stale frames
// catches up quickly.
const defaultBuffer = 64

// errQuit reports that the user quit from inside the pause loop.
var errQuit = errors.New("quit")

// Source yields decoded frames in presentation order. [io.EOF] signals a
// clean end of stream; any other error is fatal to the session.
type Source interface {
	Next() (*frame.Frame, error)
	Close() error
}

// AudioPlayer is the optional audio track of a session. When present its
// position is the authoritative playback clock.
type AudioPlayer interface {
	Start()
	SetPaused(paused bool)
	Elapsed() time.Duration
	Done() <-chan struct{}
	Close() error
}

// Presenter is the output surface frames are written to, plus the key and
// resize event streams the session reacts to between frames.
type Presenter interface {
	Present(encoded []byte) error
	Keys() <-chan screen.Key
	Resizes() <-chan screen.Grid
}

// Stats summarizes a finished session.
type Stats struct {
	// Presented is the number of frames written to the presenter.
	Presented int
	// Dropped is the number of decoded frames discarded to stay on the
	// clock.
	Dropped int
	// Elapsed is the wall time from first presented frame to session end.
	Elapsed time.Duration
}

// Options configures optional session collaborators.
type Options struct {
	// Audio is the session's audio track. Nil plays silently.
	Audio AudioPlayer
	// Logger receives playback diagnostics. Nil discards them.
	Logger *slog.Logger
	// Buffer overrides the decode-ahead frame channel depth when > 0.
	Buffer int
}

// Session runs one playback: a decode goroutine feeding a bounded frame
// channel, and a render loop applying scale, render, and present under the
// scheduler's pacing.
//
// Create instances with [NewSession] and drive with [Session.Run]; a session
// is single-use.
type Session struct {
	source Source
	term   Presenter
	audio  AudioPlayer
	sched  *Scheduler
	logger *slog.Logger
	canvas frame.CanvasSpec
	buffer int
}

// NewSession builds a session presenting src on term at fps over the given
// canvas.
func NewSession(src Source, term Presenter, canvas frame.CanvasSpec, fps float64, opts Options) *Session {
	clock := NewClock(fps)
	if opts.Audio != nil {
		clock.SetAudio(opts.Audio.Elapsed)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	return &Session{
		source: src,
		term:   term,
		audio:  opts.Audio,
		sched:  NewScheduler(clock),
		logger: logger,
		canvas: canvas.Normalize(),
		buffer: buffer,
	}
}

// result is one producer emission: a frame or the terminating error.
type result struct {
	frame *frame.Frame
	err   error
}

// Run plays the stream to completion and reports what happened.
//
// It returns nil on a clean end of stream or a quit key, ctx.Err on
// cancellation, and the underlying error on decode or terminal failure. The
// caller owns terminal Enter/Leave and source/audio Close.
func (s *Session) Run(ctx context.Context) (Stats, error) {
	frames := make(chan result, s.buffer)

	go s.produce(ctx, frames)

	var (
		stats     Stats
		started   time.Time
		enc       []byte
		index     int
		audioDone <-chan struct{}
	)

	if s.audio != nil {
		audioDone = s.audio.Done()
	}

	for {
		select {
		case <-ctx.Done():
			s.finish(&stats, started)

			return stats, ctx.Err()

		case key := <-s.term.Keys():
			switch key {
			case screen.KeyQuit:
				s.finish(&stats, started)

				return stats, nil
			case screen.KeyPause:
				err := s.pause(ctx)
				if err != nil {
					s.finish(&stats, started)

					if errors.Is(err, errQuit) {
						return stats, nil
					}

					return stats, err
				}
			}

		case grid := <-s.term.Resizes():
			s.canvas = frame.FromGrid(grid.Cols, grid.Rows, s.canvas.Fit, s.canvas.Mode)
			s.logger.Debug("canvas resized",
				"cols", grid.Cols,
				"rows", grid.Rows,
				"width", s.canvas.W,
				"height", s.canvas.H,
			)

		case <-audioDone:
			// The track ran out before the video. Fall back to wall
			// time so pacing keeps advancing.
			audioDone = nil

			s.sched.Clock().SetAudio(nil)
			s.logger.Debug("audio track finished, pacing on wall clock")

		case res := <-frames:
			if res.err != nil {
				s.finish(&stats, started)

				if errors.Is(res.err, io.EOF) {
					return stats, nil
				}

				return stats, res.err
			}

			if s.sched.State() == StateIdle {
				started = time.Now()

				s.sched.Start()

				if s.audio != nil {
					s.audio.Start()
				}
			}

			drop, err := s.sched.Sync(ctx, index)
			if err != nil {
				s.finish(&stats, started)

				return stats, err
			}

			enc, err = s.present(res.frame, enc)
			if err != nil {
				s.finish(&stats, started)

				return stats, err
			}

			stats.Presented++
			index++

			skipped, err := s.drain(frames, drop, &stats)
			index += skipped

			if err != nil {
				s.finish(&stats, started)

				if errors.Is(err, io.EOF) {
					return stats, nil
				}

				return stats, err
			}
		}
	}
}

// produce decodes frames onto the channel until end of stream, error, or
// cancellation. The terminating error is delivered in-band after the last
// frame.
func (s *Session) produce(ctx context.Context, frames chan<- result) {
	for {
		f, err := s.source.Next()
		if err != nil {
			select {
			case frames <- result{err: err}:
			case <-ctx.Done():
			}

			return
		}

		select {
		case frames <- result{frame: f}:
		case <-ctx.Done():
			return
		}
	}
}

// present scales and renders one frame onto the terminal, reusing enc as the
// encode buffer.
func (s *Session) present(f *frame.Frame, enc []byte) ([]byte, error) {
	scaled := scale.Scale(f, s.canvas)
	cells := render.Render(scaled, s.canvas.Mode)
	enc = cells.AppendANSI(enc[:0])

	return enc, s.term.Present(enc)
}

// drain discards up to n already-buffered frames, newest-frame recovery
// after falling behind the clock. Frames not yet decoded are not waited
// for. A terminating error found among the drained frames is returned.
func (s *Session) drain(frames <-chan result, n int, stats *Stats) (int, error) {
	skipped := 0

	for skipped < n {
		select {
		case res := <-frames:
			if res.err != nil {
				return skipped, res.err
			}

			skipped++
			stats.Dropped++
		default:
			return skipped, nil
		}
	}

	if skipped > 0 {
		s.logger.Debug("dropped stale frames", "count", skipped)
	}

	return skipped, nil
}

// pause suspends playback until the next pause key, quit key, or
// cancellation.
func (s *Session) pause(ctx context.Context) error {
	if s.sched.State() != StateRunning {
		return nil
	}

	s.sched.Pause()

	if s.audio != nil {
		s.audio.SetPaused(true)
	}

	s.logger.Debug("paused")

	defer func() {
		if s.audio != nil {
			s.audio.SetPaused(false)
		}

		s.logger.Debug("resumed")
	}()

	for {
		select {
		case <-ctx.Done():
			s.sched.Resume()

			return ctx.Err()
		case key := <-s.term.Keys():
			switch key {
			case screen.KeyQuit:
				s.sched.Resume()

				return errQuit
			case screen.KeyPause:
				s.sched.Resume()

				return nil
			}
		}
	}
}

// finish stamps the session stats and stops the scheduler.
func (s *Session) finish(stats *Stats, started time.Time) {
	s.sched.Stop()

	if !started.IsZero() {
		stats.Elapsed = time.Since(started)
	}
}
