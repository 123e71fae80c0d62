// Package audio plays a session's audio track and exposes its playback
// position as the authoritative sync clock.
//
// Playback runs on the speaker's own goroutine via [github.com/gopxl/beep/v2];
// the video pipeline only reads [Player.Elapsed]. Audio failure is never
// fatal to a session: every open-time error is [ErrUnavailable], and callers
// are expected to continue silently without a player.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnavailable indicates the audio track cannot be played: unreadable
// file, unsupported format, or no usable output device. Non-fatal; video
// continues silently.
var ErrUnavailable = errors.New("audio unavailable")

// speakerBuffer is the device buffer length. Short enough that pause feels
// immediate, long enough to ride out scheduler hiccups.
const speakerBuffer = 100 * time.Millisecond

// Player streams one audio file to the speaker.
//
// Create instances with [Open]; call [Player.Start] when the first video
// frame is presented so audio and video share a start instant.
type Player struct {
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	format   beep.Format
	done     chan struct{}

	closeOnce sync.Once
}

// Open decodes the audio file by extension (mp3, wav, flac, ogg) and
// initializes the speaker. All failures return [ErrUnavailable].
func Open(path string) (*Player, error) {
	f, err := os.Open(path) //nolint:gosec // Path is a caller-provided CLI argument.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	streamer, format, err := decodeByExt(f, path)
	if err != nil {
		//nolint:errcheck // Open error takes precedence.
		f.Close()

		return nil, fmt.Errorf("%w: decoding %s: %w", ErrUnavailable, filepath.Base(path), err)
	}

	err = speaker.Init(format.SampleRate, format.SampleRate.N(speakerBuffer))
	if err != nil {
		//nolint:errcheck // Init error takes precedence.
		streamer.Close()

		return nil, fmt.Errorf("%w: opening output device: %w", ErrUnavailable, err)
	}

	return &Player{
		streamer: streamer,
		ctrl:     &beep.Ctrl{Streamer: streamer},
		format:   format,
		done:     make(chan struct{}),
	}, nil
}

func decodeByExt(f *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".ogg", ".oga":
		return vorbis.Decode(f)
	}

	return nil, beep.Format{}, fmt.Errorf("unsupported extension %q", filepath.Ext(path))
}

// Start begins playback. Call at most once.
func (p *Player) Start() {
	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		close(p.done)
	})))
}

// SetPaused pauses or resumes the speaker stream. The position clock stops
// advancing while paused.
func (p *Player) SetPaused(paused bool) {
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

// Elapsed returns the current playback position. The session's clock follows
// this position whenever a player exists.
func (p *Player) Elapsed() time.Duration {
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()

	return p.format.SampleRate.D(pos)
}

// Done is closed when the track finishes on its own.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Close stops playback and releases the decoder. Idempotent.
func (p *Player) Close() error {
	var err error

	p.closeOnce.Do(func() {
		speaker.Clear()
		err = p.streamer.Close()
	})

	return err
}
