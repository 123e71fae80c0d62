// Package play paces decoded frames onto the terminal.
//
// A [Clock] derives each frame's presentation deadline from the session
// start and the target frame rate; when an audio track is attached its
// playback position becomes the clock, since audio underruns are more
// jarring than dropped video frames. The [Scheduler] waits out deadlines
// and decides how many stale frames to drop after a stall. A [Session]
// ties the decode, scale, render, and present stages together with the
// audio track and the terminal's key and resize streams.
package play

import (
	"sync"
	"time"
)

// Clock is the playback time base: a monotonic start instant plus the target
// frame rate. Mutated only by the scheduler; reads are safe from any
// goroutine.
type Clock struct {
	mu sync.Mutex

	now      func() time.Time
	audio    func() time.Duration
	start    time.Time
	pausedAt time.Time
	fps      float64
	started  bool
	paused   bool
}

// NewClock returns an unstarted clock for the given frame rate.
func NewClock(fps float64) *Clock {
	return &Clock{
		now: time.Now,
		fps: fps,
	}
}

// SetAudio attaches an audio position source as the authoritative clock.
// Wall time is only consulted when no source is attached.
func (c *Clock) SetAudio(elapsed func() time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.audio = elapsed
}

// Start anchors the clock at the current instant. Idempotent.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return
	}

	c.started = true
	c.start = c.now()
}

// Due returns the presentation deadline of frame i relative to the start:
// i divided by the frame rate.
func (c *Clock) Due(i int) time.Duration {
	return time.Duration(float64(i) / c.fps * float64(time.Second))
}

// Interval returns the nominal duration of one frame.
func (c *Clock) Interval() time.Duration {
	return time.Duration(float64(time.Second) / c.fps)
}

// Elapsed returns the current playback position: the audio position when a
// source is attached, otherwise wall time since start (frozen while
// paused).
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return 0
	}

	if c.audio != nil {
		return c.audio()
	}

	if c.paused {
		return c.pausedAt.Sub(c.start)
	}

	return c.now().Sub(c.start)
}

// Pause freezes the wall-clock position. The attached audio source, when
// present, is paused by its own player; the clock just stops advancing.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || c.paused {
		return
	}

	c.paused = true
	c.pausedAt = c.now()
}

// Resume shifts the start instant forward by the pause length so the
// elapsed position continues exactly where it stopped.
func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.paused {
		return
	}

	c.start = c.start.Add(c.now().Sub(c.pausedAt))
	c.paused = false
}
