package play

import (
	"context"
	"time"
)

// State is the scheduler lifecycle state.
type State int

const (
	// StateIdle is the initial state, before the first frame.
	StateIdle State = iota
	// StateRunning advances frames against the clock.
	StateRunning
	// StatePaused holds the current frame and freezes the clock offset.
	StatePaused
	// StateStopped is terminal: end of stream, fatal error, or interrupt.
	StateStopped
)

// Scheduler paces frame presentation against a [Clock].
//
// Owned by the session's render loop; not safe for concurrent use.
type Scheduler struct {
	clock *Clock
	state State
}

// NewScheduler returns an idle scheduler on the given clock.
func NewScheduler(clock *Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	return s.state
}

// Clock returns the underlying clock.
func (s *Scheduler) Clock() *Clock {
	return s.clock
}

// Start moves Idle to Running and anchors the clock.
func (s *Scheduler) Start() {
	if s.state != StateIdle {
		return
	}

	s.state = StateRunning
	s.clock.Start()
}

// Pause moves Running to Paused, freezing the clock.
func (s *Scheduler) Pause() {
	if s.state != StateRunning {
		return
	}

	s.state = StatePaused
	s.clock.Pause()
}

// Resume moves Paused back to Running, preserving elapsed-position
// continuity.
func (s *Scheduler) Resume() {
	if s.state != StatePaused {
		return
	}

	s.state = StateRunning
	s.clock.Resume()
}

// Stop moves any state to Stopped. Terminal.
func (s *Scheduler) Stop() {
	s.state = StateStopped
}

// Sync blocks until frame i is due, then reports how many subsequent frames
// must be dropped to catch up.
//
// When the frame is early the wait is cancellable through ctx. When the
// clock has already passed the deadline by more than one frame interval,
// the excess is returned as a drop count: the session discards that many
// stale frames instead of presenting them late, keeping video locked to the
// clock rather than visibly slowing down.
func (s *Scheduler) Sync(ctx context.Context, i int) (drop int, err error) {
	due := s.clock.Due(i)
	elapsed := s.clock.Elapsed()

	if wait := due - elapsed; wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-timer.C:
		}

		return 0, nil
	}

	late := elapsed - due
	if interval := s.clock.Interval(); late > interval {
		drop = int(late / interval)
	}

	return drop, nil
}
